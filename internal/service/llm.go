package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/katakuxiko/promptforms/internal/config"
	"github.com/katakuxiko/promptforms/internal/gate"
	"github.com/katakuxiko/promptforms/internal/model"
	"github.com/sashabaranov/go-openai"
)

// Failure classes reported by a Completer.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrRateLimit      = errors.New("rate limited")
	ErrService        = errors.New("completion service error")
	ErrEmptyResponse  = errors.New("completion returned no choices")
)

// CompletionError carries the failure class together with the cause.
type CompletionError struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() []error { return []error{e.Kind, e.Err} }

// Completer sends one instruction to a completion endpoint and returns the
// generated text. Implementations must not retry or cache.
type Completer interface {
	Complete(ctx context.Context, req model.CompletionRequest, cred *gate.Credential) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, req model.CompletionRequest, cred *gate.Credential) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req model.CompletionRequest, cred *gate.Credential) (string, error) {
	return f(ctx, req, cred)
}

// LLMClient talks to OpenAI or any OpenAI-compatible server (LM Studio and
// the like). A go-openai client is built per call because the API key
// belongs to the submission, not to the process.
type LLMClient struct {
	baseURL    string
	modelName  string
	chat       bool
	httpClient *http.Client
}

// NewLLMClient builds a client from config.
func NewLLMClient(cfg *config.Config, httpClient *http.Client) *LLMClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &LLMClient{
		baseURL:    cfg.BaseURL,
		modelName:  cfg.CompletionModel,
		chat:       cfg.CompletionAPI == "chat",
		httpClient: httpClient,
	}
}

func (l *LLMClient) client(cred *gate.Credential) *openai.Client {
	oaiCfg := openai.DefaultConfig(cred.Reveal())
	oaiCfg.BaseURL = l.baseURL
	oaiCfg.HTTPClient = l.httpClient
	return openai.NewClientWithConfig(oaiCfg)
}

// Complete implements Completer.
func (l *LLMClient) Complete(ctx context.Context, req model.CompletionRequest, cred *gate.Credential) (string, error) {
	var (
		text string
		err  error
	)
	if l.chat {
		text, err = l.completeChat(ctx, req, cred)
	} else {
		text, err = l.completeText(ctx, req, cred)
	}
	if err != nil {
		return "", classify(err)
	}
	return strings.TrimSpace(text), nil
}

func (l *LLMClient) completeText(ctx context.Context, req model.CompletionRequest, cred *gate.Credential) (string, error) {
	resp, err := l.client(cred).CreateCompletion(ctx, openai.CompletionRequest{
		Model:       l.modelName,
		Prompt:      req.Instruction,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature(req.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Text, nil
}

func (l *LLMClient) completeChat(ctx context.Context, req model.CompletionRequest, cred *gate.Credential) (string, error) {
	resp, err := l.client(cred).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Instruction},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: temperature(req.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the model ids visible to the credential.
func (l *LLMClient) ListModels(ctx context.Context, cred *gate.Credential) ([]string, error) {
	resp, err := l.client(cred).ListModels(ctx)
	if err != nil {
		return nil, classify(err)
	}
	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// temperature keeps an explicit zero on the wire; go-openai drops zero
// values and the API would then apply its own default.
func temperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	kind := ErrService
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrAuthentication
	case http.StatusTooManyRequests:
		kind = ErrRateLimit
	}
	return &CompletionError{Kind: kind, StatusCode: status, Err: err}
}
