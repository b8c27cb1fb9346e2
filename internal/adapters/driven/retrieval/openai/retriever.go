// Package openai provides a retriever backed by the OpenAI Responses API.
//
// OpenAI has no maps grounding, so results come from the model's own
// knowledge. Location is passed as text in the prompt.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// Ensure Retriever implements the interfaces.
var (
	_ driven.Retriever        = (*Retriever)(nil)
	_ driven.PromptStoreAware = (*Retriever)(nil)
)

// Default configuration values.
const (
	DefaultModel      = "gpt-4o-mini"
	DefaultTimeout    = 120 * time.Second
	DefaultMaxRetries = 2
)

// Config holds configuration for the OpenAI retriever.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API endpoint (default: the SDK's).
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration

	// MaxRetries is how often the SDK retries rate limits and server errors.
	// Negative disables retries.
	MaxRetries int
}

// Retriever asks an OpenAI model for business listings.
type Retriever struct {
	client      openai.Client
	model       string
	promptStore driven.PromptStore
}

// NewRetriever creates a new OpenAI retriever.
func NewRetriever(cfg Config) (*Retriever, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key is required", domain.ErrNotConfigured)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	retries := cfg.MaxRetries
	if retries == 0 {
		retries = DefaultMaxRetries
	}
	if retries < 0 {
		retries = 0
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(retries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}

	return &Retriever{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Retrieve sends the prompt through the Responses API.
func (r *Retriever) Retrieve(ctx context.Context, req domain.RetrievalRequest) (string, error) {
	params := responses.ResponseNewParams{
		Model:        r.model,
		Instructions: openai.String(r.systemInstruction()),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(userPrompt(req), responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := r.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: openai: %s", domain.ErrRetrievalFailed, describe(err))
	}
	return resp.OutputText(), nil
}

// userPrompt appends the location as text, since there is no grounding tool.
func userPrompt(req domain.RetrievalRequest) string {
	prompt := req.Prompt()
	if req.Location != nil {
		prompt += " Focus on places near " + req.Location.String() + " (latitude,longitude)."
	}
	return prompt
}

// describe extracts the API message from SDK errors.
func describe(err error) string {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = strings.TrimSpace(apiErr.RawJSON())
		}
		return fmt.Sprintf("API returned status %d: %s", apiErr.StatusCode, msg)
	}
	return err.Error()
}

func (r *Retriever) systemInstruction() string {
	if r.promptStore == nil {
		return domain.DefaultSystemInstruction
	}
	prompt, err := r.promptStore.Load(driven.PromptLeadsSystem)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return domain.DefaultSystemInstruction
	}
	return prompt
}

// ModelName returns the name of the model being used.
func (r *Retriever) ModelName() string {
	return r.model
}

// SetPromptStore sets the prompt store for loading the system instruction.
func (r *Retriever) SetPromptStore(store driven.PromptStore) {
	r.promptStore = store
}

// Ping validates the API key by looking up the configured model.
func (r *Retriever) Ping(ctx context.Context) error {
	if _, err := r.client.Models.Get(ctx, r.model); err != nil {
		return fmt.Errorf("openai: ping failed: %s", describe(err))
	}
	return nil
}

// Close releases resources.
func (r *Retriever) Close() error {
	return nil
}
