package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleCategoriesResource(t *testing.T) {
	server, _ := newTestServer(&mockRetriever{})

	result, err := server.handleCategoriesResource(context.Background(), readRequest("mapscraper://categories"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	var got []string
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.Equal(t, "All Categories", got[0])
	assert.Contains(t, got, "Real Estate")
}

func TestServer_handleExamplesResource(t *testing.T) {
	server, _ := newTestServer(&mockRetriever{})

	result, err := server.handleExamplesResource(context.Background(), readRequest("mapscraper://examples"))

	require.NoError(t, err)
	assert.Contains(t, result.Contents[0].Text, "Sushi bars in Seattle")
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
}

func TestServer_handleSessionLeadsResource(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(&mockRetriever{responses: []string{firstBatch}})
	_, out, err := server.handleSearchLeads(ctx, nil, SearchLeadsInput{Query: "diners"})
	require.NoError(t, err)

	t.Run("returns csv", func(t *testing.T) {
		uri := "mapscraper://sessions/" + out.SessionID + "/leads.csv"
		result, err := server.handleSessionLeadsResource(ctx, readRequest(uri))

		require.NoError(t, err)
		assert.Equal(t, "text/csv", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"Ace Plumbing","555-3434"`)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := server.handleSessionLeadsResource(ctx, readRequest("mapscraper://sessions/nope/leads.csv"))
		assert.Error(t, err)
	})
}

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mapscraper://sessions/abc/leads.csv", "abc"},
		{"mapscraper://sessions/abc", ""},
		{"other://sessions/abc/leads.csv", ""},
		{"mapscraper://categories", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSessionID(tt.uri))
		})
	}
}
