package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

const responseBody = `{
  "id": "resp_1",
  "object": "response",
  "created_at": 1700000000,
  "status": "completed",
  "model": "gpt-4o-mini",
  "output": [{
    "type": "message",
    "id": "msg_1",
    "status": "completed",
    "role": "assistant",
    "content": [{"type": "output_text", "text": "| Name |\n|---|\n| A |", "annotations": []}]
  }]
}`

type stubPrompts struct{ prompt string }

func (s stubPrompts) Load(string) (string, error) { return s.prompt, nil }
func (s stubPrompts) Reload()                     {}

func newTestRetriever(t *testing.T, handler http.HandlerFunc) *Retriever {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	r, err := NewRetriever(Config{APIKey: "test-key", BaseURL: server.URL, MaxRetries: -1})
	require.NoError(t, err)
	return r
}

func TestNewRetriever(t *testing.T) {
	r, err := NewRetriever(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, r.ModelName())
	assert.NoError(t, r.Close())

	_, err = NewRetriever(Config{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestRetrieve(t *testing.T) {
	var got map[string]any
	r := newTestRetriever(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/responses", req.URL.Path)
		assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responseBody))
	})
	r.SetPromptStore(stubPrompts{prompt: "only tables"})

	text, err := r.Retrieve(context.Background(), domain.RetrievalRequest{
		Query:        "sushi bars",
		ExcludeNames: []string{"Umi"},
		Location:     &domain.GeoLocation{Latitude: 1.5, Longitude: 2.25},
	})

	require.NoError(t, err)
	assert.Equal(t, "| Name |\n|---|\n| A |", text)
	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.Equal(t, "only tables", got["instructions"])

	encoded, err := json.Marshal(got["input"])
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "Find sushi bars")
	assert.Contains(t, string(encoded), "Do NOT include these businesses in the results: Umi")
	assert.Contains(t, string(encoded), "1.50000,2.25000")
}

func TestRetrieve_APIError(t *testing.T) {
	r := newTestRetriever(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	_, err := r.Retrieve(context.Background(), domain.RetrievalRequest{Query: "q"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
	assert.Contains(t, err.Error(), "401")
}

func TestUserPrompt(t *testing.T) {
	req := domain.RetrievalRequest{Query: "cafes"}
	assert.Equal(t, req.Prompt(), userPrompt(req))

	req.Location = &domain.GeoLocation{Latitude: 10, Longitude: 20}
	assert.Contains(t, userPrompt(req), "10.00000,20.00000")
}

func TestPing(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := newTestRetriever(t, func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "/models/gpt-4o-mini", req.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"gpt-4o-mini","object":"model","created":0,"owned_by":"openai"}`))
		})
		assert.NoError(t, r.Ping(context.Background()))
	})

	t.Run("not found", func(t *testing.T) {
		r := newTestRetriever(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
		})
		err := r.Ping(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}
