package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katakuxiko/promptforms/internal/forms"
	"github.com/katakuxiko/promptforms/internal/gate"
	"github.com/katakuxiko/promptforms/internal/metrics"
	"github.com/katakuxiko/promptforms/internal/model"
	"github.com/katakuxiko/promptforms/internal/util"
	"github.com/katakuxiko/promptforms/pkg/logging"
)

// Submission is one operator request. The runner owns Credential and wipes
// it before Run returns.
type Submission struct {
	Values     map[string]string
	Credential *gate.Credential
}

type Result struct {
	ID     string
	Output string
	Chunks int
}

type RunnerOptions struct {
	CredentialPrefix string
	// MapConcurrency bounds parallel chunk calls; 1 is sequential.
	MapConcurrency int
	Timeout        time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.FormMetrics
}

// Runner drives a submission through validate, fill, complete and, for
// chunked forms, reduce. Nothing is retried; the first failure ends the run.
type Runner struct {
	llm     Completer
	opts    RunnerOptions
	log     *logging.Logger
	metrics *metrics.FormMetrics
}

func NewRunner(llm Completer, opts RunnerOptions) *Runner {
	if opts.MapConcurrency <= 0 {
		opts.MapConcurrency = 1
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{llm: llm, opts: opts, log: log, metrics: opts.Metrics}
}

// Run executes the pipeline for form f.
func (r *Runner) Run(ctx context.Context, f *forms.Form, sub Submission) (res *Result, err error) {
	defer sub.Credential.Wipe()

	id := uuid.NewString()
	log := r.log.With("submission_id", id, "form", f.ID)
	start := time.Now()
	defer func() {
		outcome := Code(err)
		r.metrics.ObserveSubmission(f.ID, outcome)
		if err != nil {
			log.Warn("submission halted", "outcome", outcome, "error", err, "duration_ms", time.Since(start).Milliseconds())
			return
		}
		log.Info("submission complete", "chunks", res.Chunks, "duration_ms", time.Since(start).Milliseconds())
	}()

	values := make(map[string]string, len(sub.Values))
	for k, v := range sub.Values {
		values[k] = v
	}
	if err := f.Validate(values, sub.Credential, r.opts.CredentialPrefix); err != nil {
		return nil, err
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	if f.Chunking != nil {
		out, n, err := r.mapReduce(ctx, log, f, values[f.InputField], sub.Credential)
		if err != nil {
			return nil, err
		}
		return &Result{ID: id, Output: out, Chunks: n}, nil
	}

	instruction, err := f.Template.Fill(values)
	if err != nil {
		return nil, fmt.Errorf("fill %s template: %w", f.ID, err)
	}
	out, err := r.call(ctx, log, f, "single", instruction, sub.Credential)
	if err != nil {
		return nil, err
	}
	return &Result{ID: id, Output: out, Chunks: 1}, nil
}

func (r *Runner) call(ctx context.Context, log *logging.Logger, f *forms.Form, stage, instruction string, cred *gate.Credential) (string, error) {
	log.Debug("completion call", "stage", stage, "instruction_preview", util.Preview(instruction, 120))

	start := time.Now()
	out, err := r.llm.Complete(ctx, model.CompletionRequest{
		Instruction: instruction,
		Temperature: f.Temperature,
		MaxTokens:   f.MaxTokens,
	}, cred)
	status := "ok"
	if err != nil {
		status = Code(err)
	}
	r.metrics.ObserveCall(f.ID, stage, status, time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", stage, err)
	}
	return out, nil
}
