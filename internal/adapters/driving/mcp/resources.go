package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for mapscraper resources.
	uriScheme = "mapscraper://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Category filters accepted by search_leads",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "examples",
		Name:        "examples",
		Description: "Example searches to get started",
		MIMEType:    "application/json",
	}, s.handleExamplesResource)

	// Template for a session's leads as CSV.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}/leads.csv",
		Name:        "session-leads",
		Description: "Leads collected in a session, as CSV",
		MIMEType:    "text/csv",
	}, s.handleSessionLeadsResource)
}

func (s *Server) handleCategoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories := domain.AllCategories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}
	return jsonResource(req.Params.URI, names)
}

func (s *Server) handleExamplesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type example struct {
		Query    string `json:"query"`
		Category string `json:"category"`
	}

	examples := domain.ExampleSearches()
	out := make([]example, len(examples))
	for i, e := range examples {
		out[i] = example{Query: e.Query, Category: e.Category.String()}
	}
	return jsonResource(req.Params.URI, out)
}

// handleSessionLeadsResource returns the CSV export of a session.
func (s *Server) handleSessionLeadsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSessionID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ws, err := s.ports.Workspaces.Get(id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	csv, err := ws.Encode(ctx)
	if err != nil {
		return nil, fmt.Errorf("encoding leads: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/csv",
			Text:     csv,
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSessionID extracts the session ID from a URI like mapscraper://sessions/{sessionId}/leads.csv.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"
	const suffix = "/leads.csv"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
