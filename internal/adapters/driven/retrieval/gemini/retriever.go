// Package gemini provides a retriever backed by the Gemini API with Google Maps grounding.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

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
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 120 * time.Second

	apiVersion = "v1beta"
)

// Config holds configuration for the Gemini retriever.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://generativelanguage.googleapis.com).
	BaseURL string

	// Model is the model to use (default: gemini-2.5-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Retriever asks Gemini for business listings grounded on Google Maps.
type Retriever struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	promptStore driven.PromptStore
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type retrievalConfig struct {
	LatLng latLng `json:"latLng"`
}

type toolConfig struct {
	RetrievalConfig retrievalConfig `json:"retrievalConfig"`
}

type tool struct {
	GoogleMaps *struct{} `json:"googleMaps,omitempty"`
}

// generateRequest is the models/{model}:generateContent request format.
type generateRequest struct {
	SystemInstruction *content    `json:"systemInstruction,omitempty"`
	Contents          []content   `json:"contents"`
	Tools             []tool      `json:"tools,omitempty"`
	ToolConfig        *toolConfig `json:"toolConfig,omitempty"`
}

// generateResponse is the models/{model}:generateContent response format.
type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewRetriever creates a new Gemini retriever.
func NewRetriever(cfg Config) (*Retriever, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", domain.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Retriever{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Retrieve sends the prompt with the Google Maps tool enabled.
func (r *Retriever) Retrieve(ctx context.Context, req domain.RetrievalRequest) (string, error) {
	body := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: r.systemInstruction()}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: req.Prompt()}}}},
		Tools:             []tool{{GoogleMaps: &struct{}{}}},
	}
	if req.Location != nil {
		body.ToolConfig = &toolConfig{RetrievalConfig: retrievalConfig{
			LatLng: latLng{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude},
		}}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", r.baseURL, apiVersion, r.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", r.apiKey)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: send request: %w", domain.ErrRetrievalFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: read response: %w", domain.ErrRetrievalFailed, err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(data, &genResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%w: gemini error (status %d): %s",
				domain.ErrRetrievalFailed, resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return "", fmt.Errorf("%w: gemini: decode response: %w", domain.ErrRetrievalFailed, err)
	}

	if genResp.Error != nil {
		return "", fmt.Errorf("%w: gemini error: %s", domain.ErrRetrievalFailed, genResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gemini error (status %d)", domain.ErrRetrievalFailed, resp.StatusCode)
	}
	if genResp.PromptFeedback != nil && genResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: gemini blocked the prompt: %s",
			domain.ErrRetrievalFailed, genResp.PromptFeedback.BlockReason)
	}

	// A response without candidates is an empty answer, not a failure.
	if len(genResp.Candidates) == 0 {
		return "", nil
	}

	var text strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

// systemInstruction loads the prompt from the store, falling back to the default.
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

// Ping validates the API key by fetching the model's metadata.
func (r *Retriever) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s/models/%s", r.baseURL, apiVersion, r.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("gemini: failed to create ping request: %w", err)
	}
	req.Header.Set("x-goog-api-key", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("gemini: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("gemini: API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Close releases resources.
func (r *Retriever) Close() error {
	return nil
}
