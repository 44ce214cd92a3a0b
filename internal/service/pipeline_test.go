package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/katakuxiko/promptforms/internal/forms"
	"github.com/katakuxiko/promptforms/internal/gate"
	"github.com/katakuxiko/promptforms/internal/metrics"
	"github.com/katakuxiko/promptforms/internal/model"
	"github.com/katakuxiko/promptforms/internal/prompt"
	"github.com/katakuxiko/promptforms/internal/textsplit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLLM records every call and answers through respond.
type stubLLM struct {
	mu       sync.Mutex
	requests []model.CompletionRequest
	secrets  []string
	respond  func(n int, req model.CompletionRequest) (string, error)
}

func (s *stubLLM) Complete(_ context.Context, req model.CompletionRequest, cred *gate.Credential) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.secrets = append(s.secrets, cred.Reveal())
	n := len(s.requests)
	s.mu.Unlock()
	if s.respond == nil {
		return "canned response", nil
	}
	return s.respond(n, req)
}

func (s *stubLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func singleForm() *forms.Form {
	return &forms.Form{
		ID:          "single",
		Fields:      []forms.Field{{Name: "text", Kind: forms.FieldTextarea}},
		InputField:  "text",
		MaxWords:    gate.MaxWordsText,
		Template:    prompt.MustNew("Summarize: {text}"),
		Temperature: 0.7,
		MaxTokens:   2048,
	}
}

func chunkedForm(t *testing.T) *forms.Form {
	t.Helper()
	s, err := textsplit.New(5000, 350, "\n\n", "\n")
	require.NoError(t, err)
	return &forms.Form{
		ID:         "chunked",
		Fields:     []forms.Field{{Name: "file", Kind: forms.FieldFile}},
		InputField: "file",
		MaxWords:   gate.MaxWordsFile,
		MaxTokens:  256,
		Chunking: &forms.Chunking{
			Splitter: s,
			Map:      prompt.MustNew("{text}"),
			Combine:  prompt.MustNew("COMBINE:\n{text}"),
		},
	}
}

func TestRunSingleCompletion(t *testing.T) {
	llm := &stubLLM{}
	r := NewRunner(llm, RunnerOptions{CredentialPrefix: "sk-"})
	cred := gate.NewCredential("sk-test")

	res, err := r.Run(context.Background(), singleForm(), Submission{
		Values:     map[string]string{"text": "hello world"},
		Credential: cred,
	})
	require.NoError(t, err)
	assert.Equal(t, "canned response", res.Output)
	assert.Equal(t, 1, res.Chunks)
	assert.NotEmpty(t, res.ID)

	require.Equal(t, 1, llm.calls())
	assert.Equal(t, model.CompletionRequest{
		Instruction: "Summarize: hello world",
		Temperature: 0.7,
		MaxTokens:   2048,
	}, llm.requests[0])
	assert.Equal(t, "sk-test", llm.secrets[0])
	assert.True(t, cred.Empty(), "credential must be wiped after the run")
}

func TestRunMapReduce(t *testing.T) {
	f := chunkedForm(t)
	text := strings.Repeat("abcdefghij", 1200)

	llm := &stubLLM{respond: func(n int, req model.CompletionRequest) (string, error) {
		return fmt.Sprintf("summary-%d", n), nil
	}}
	r := NewRunner(llm, RunnerOptions{CredentialPrefix: "sk-"})

	res, err := r.Run(context.Background(), f, Submission{
		Values:     map[string]string{"file": text},
		Credential: gate.NewCredential("sk-test"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, "summary-4", res.Output)

	require.Equal(t, 4, llm.calls())
	chunks := f.Chunking.Splitter.Split(text)
	for i := 0; i < 3; i++ {
		assert.Equal(t, chunks[i].Text, llm.requests[i].Instruction)
	}
	assert.Equal(t, "COMBINE:\nsummary-1\n\nsummary-2\n\nsummary-3", llm.requests[3].Instruction)
}

func TestRunMapReduceKeepsChunkOrderWhenParallel(t *testing.T) {
	f := chunkedForm(t)
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteString(strings.Repeat(string(rune('a'+i)), 2000))
	}
	text := b.String()

	index := map[string]int{}
	for _, c := range f.Chunking.Splitter.Split(text) {
		index[c.Text] = c.Index
	}

	llm := &stubLLM{respond: func(_ int, req model.CompletionRequest) (string, error) {
		i, ok := index[req.Instruction]
		if !ok {
			return "final", nil
		}
		// later chunks answer first
		time.Sleep(time.Duration(len(index)-i) * 5 * time.Millisecond)
		return fmt.Sprintf("summary-%d", i), nil
	}}
	r := NewRunner(llm, RunnerOptions{MapConcurrency: 4})

	res, err := r.Run(context.Background(), f, Submission{
		Values:     map[string]string{"file": text},
		Credential: gate.NewCredential("sk-test"),
	})
	require.NoError(t, err)
	assert.Equal(t, "final", res.Output)

	var want []string
	for i := 0; i < len(index); i++ {
		want = append(want, fmt.Sprintf("summary-%d", i))
	}
	last := llm.requests[len(llm.requests)-1]
	assert.Equal(t, "COMBINE:\n"+strings.Join(want, "\n\n"), last.Instruction)
}

func TestRunHaltsBeforeNetworkOnPrecondition(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		cred   string
		want   error
	}{
		{"missing credential", map[string]string{"text": "hello"}, "", gate.ErrMissingCredential},
		{"invalid credential", map[string]string{"text": "hello"}, "not-a-key", gate.ErrInvalidCredential},
		{"too long", map[string]string{"text": strings.Repeat("w ", gate.MaxWordsText+1)}, "sk-test", gate.ErrInputTooLong},
		{"empty", map[string]string{"text": " "}, "sk-test", gate.ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubLLM{}
			r := NewRunner(llm, RunnerOptions{CredentialPrefix: "sk-"})
			cred := gate.NewCredential(tt.cred)

			_, err := r.Run(context.Background(), singleForm(), Submission{Values: tt.values, Credential: cred})
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsPrecondition(err))
			assert.Equal(t, 0, llm.calls())
			assert.True(t, cred.Empty())
		})
	}
}

func TestRunPropagatesServiceFailure(t *testing.T) {
	failure := &CompletionError{Kind: ErrRateLimit, StatusCode: 429, Err: errors.New("slow down")}
	llm := &stubLLM{respond: func(int, model.CompletionRequest) (string, error) {
		return "", failure
	}}
	reg := prometheus.NewRegistry()
	m := metrics.NewFormMetrics(reg)
	r := NewRunner(llm, RunnerOptions{Metrics: m})
	cred := gate.NewCredential("sk-test")

	_, err := r.Run(context.Background(), singleForm(), Submission{
		Values:     map[string]string{"text": "hello"},
		Credential: cred,
	})
	require.ErrorIs(t, err, ErrRateLimit)
	assert.Equal(t, "rate_limit_error", Code(err))
	assert.False(t, IsPrecondition(err))
	assert.True(t, cred.Empty(), "credential must be wiped on failure too")

	n, err := testutil.GatherAndCount(reg, "promptforms_forms_submissions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunMapFailureStopsSequentialRun(t *testing.T) {
	f := chunkedForm(t)
	llm := &stubLLM{respond: func(n int, _ model.CompletionRequest) (string, error) {
		if n == 1 {
			return "", &CompletionError{Kind: ErrAuthentication, StatusCode: 401, Err: errors.New("bad key")}
		}
		return "ok", nil
	}}
	r := NewRunner(llm, RunnerOptions{})

	_, err := r.Run(context.Background(), f, Submission{
		Values:     map[string]string{"file": strings.Repeat("x", 12000)},
		Credential: gate.NewCredential("sk-test"),
	})
	require.ErrorIs(t, err, ErrAuthentication)
	assert.Contains(t, err.Error(), "chunk 0")
	assert.Equal(t, 1, llm.calls())
}

func TestRunAppliesTimeout(t *testing.T) {
	llm := CompleterFunc(func(ctx context.Context, _ model.CompletionRequest, _ *gate.Credential) (string, error) {
		<-ctx.Done()
		return "", &CompletionError{Kind: ErrService, Err: ctx.Err()}
	})
	r := NewRunner(llm, RunnerOptions{Timeout: 20 * time.Millisecond})

	_, err := r.Run(context.Background(), singleForm(), Submission{
		Values:     map[string]string{"text": "hello"},
		Credential: gate.NewCredential("sk-test"),
	})
	require.ErrorIs(t, err, ErrService)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCode(t *testing.T) {
	assert.Equal(t, "ok", Code(nil))
	assert.Equal(t, "decode_error", Code(gate.ErrDecode))
	assert.Equal(t, "missing_placeholder_value", Code(&prompt.MissingValueError{Names: []string{"x"}}))
	assert.Equal(t, "authentication_error", Code(&CompletionError{Kind: ErrAuthentication, Err: errors.New("x")}))
	assert.Equal(t, "internal_error", Code(errors.New("other")))
}
