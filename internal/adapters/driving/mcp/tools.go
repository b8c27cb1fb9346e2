package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/services"
)

// SearchLeadsInput is the input schema for the search_leads tool.
type SearchLeadsInput struct {
	Query       string   `json:"query" jsonschema:"what to look for, e.g. 'sushi bars in Seattle'"`
	Category    string   `json:"category,omitempty" jsonschema:"optional category filter such as Restaurants or Hotels"`
	Latitude    *float64 `json:"latitude,omitempty" jsonschema:"optional latitude to search around"`
	Longitude   *float64 `json:"longitude,omitempty" jsonschema:"optional longitude to search around"`
	UseLocation bool     `json:"use_location,omitempty" jsonschema:"resolve the server's own location when no coordinates are given"`
	SessionID   string   `json:"session_id,omitempty" jsonschema:"session to use; omit for the default session"`
}

// SessionInput selects a session for tools that only need one.
type SessionInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session to use; omit for the default session"`
}

// ExportInput is the input schema for the export_leads_csv tool.
type ExportInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session to use; omit for the default session"`
	Dir       string `json:"dir,omitempty" jsonschema:"optional directory to also write map_leads_<date>.csv into"`
}

// LeadsOutput describes the state of a session after a tool call.
type LeadsOutput struct {
	SessionID string        `json:"session_id"`
	Query     string        `json:"query,omitempty"`
	Category  string        `json:"category,omitempty"`
	Added     int           `json:"added"`
	Count     int           `json:"count"`
	Leads     []domain.Lead `json:"leads"`
	Notice    string        `json:"notice,omitempty"`
}

// ExportOutput is the output schema for the export_leads_csv tool.
type ExportOutput struct {
	SessionID string `json:"session_id"`
	Count     int    `json:"count"`
	CSV       string `json:"csv"`
	Path      string `json:"path,omitempty"`
}

// ClearOutput is the output schema for the clear_leads tool.
type ClearOutput struct {
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_leads",
		Description: "Start a new business lead search and return the first batch. Replaces any previous results in the session.",
	}, s.handleSearchLeads)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_more_leads",
		Description: "Fetch another batch for the current search, skipping businesses already collected.",
	}, s.handleLoadMore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_leads",
		Description: "List every lead collected in the session so far.",
	}, s.handleListLeads)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_leads_csv",
		Description: "Export the collected leads as CSV, optionally writing a dated file.",
	}, s.handleExport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_leads",
		Description: "End the search session and discard its leads.",
	}, s.handleClear)
}

func (s *Server) handleSearchLeads(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchLeadsInput,
) (*mcp.CallToolResult, LeadsOutput, error) {
	req := domain.SearchRequest{
		Query:       input.Query,
		Category:    input.Category,
		UseLocation: input.UseLocation,
	}
	if input.Latitude != nil || input.Longitude != nil {
		if input.Latitude == nil || input.Longitude == nil {
			return nil, LeadsOutput{}, fmt.Errorf("%w: latitude and longitude must be given together", domain.ErrInvalidInput)
		}
		req.Location = &domain.GeoLocation{Latitude: *input.Latitude, Longitude: *input.Longitude}
	}

	ws, err := s.workspace(ctx, input.SessionID, true)
	if err != nil {
		return nil, LeadsOutput{}, err
	}

	_, err = ws.Start(ctx, req)
	if err != nil && !domain.IsSoft(err) {
		return nil, LeadsOutput{}, err
	}

	out, listErr := s.snapshot(ctx, ws)
	if listErr != nil {
		return nil, LeadsOutput{}, listErr
	}
	out.Added = out.Count
	if err != nil {
		out.Notice = err.Error()
	}
	return nil, out, nil
}

func (s *Server) handleLoadMore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, LeadsOutput, error) {
	ws, err := s.workspace(ctx, input.SessionID, false)
	if err != nil {
		return nil, LeadsOutput{}, err
	}

	added, err := ws.LoadMore(ctx)
	if err != nil && !domain.IsSoft(err) {
		return nil, LeadsOutput{}, err
	}

	out, listErr := s.snapshot(ctx, ws)
	if listErr != nil {
		return nil, LeadsOutput{}, listErr
	}
	out.Added = added
	if err != nil {
		out.Notice = err.Error()
	}
	return nil, out, nil
}

func (s *Server) handleListLeads(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, LeadsOutput, error) {
	ws, err := s.workspace(ctx, input.SessionID, false)
	if err != nil {
		return nil, LeadsOutput{}, err
	}
	out, err := s.snapshot(ctx, ws)
	if err != nil {
		return nil, LeadsOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	ws, err := s.workspace(ctx, input.SessionID, false)
	if err != nil {
		return nil, ExportOutput{}, err
	}

	leads, err := ws.Leads(ctx)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	csv := services.EncodeCSV(leads, ws.Columns())

	out := ExportOutput{SessionID: ws.ID(), Count: len(leads), CSV: csv}
	if input.Dir != "" && csv != "" {
		path, err := ws.WriteCSV(input.Dir, time.Now(), csv)
		if err != nil {
			return nil, ExportOutput{}, err
		}
		out.Path = path
	}
	return nil, out, nil
}

func (s *Server) handleClear(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, ClearOutput, error) {
	ws, err := s.workspace(ctx, input.SessionID, false)
	if errors.Is(err, domain.ErrNoActiveSession) {
		return nil, ClearOutput{Cleared: false}, nil
	}
	if err != nil {
		return nil, ClearOutput{}, err
	}
	if err := ws.Clear(ctx); err != nil {
		return nil, ClearOutput{}, err
	}
	return nil, ClearOutput{SessionID: ws.ID(), Cleared: true}, nil
}

// snapshot reports the session's current leads.
func (s *Server) snapshot(ctx context.Context, ws driving.Workspace) (LeadsOutput, error) {
	leads, err := ws.Leads(ctx)
	if err != nil {
		return LeadsOutput{}, err
	}

	out := LeadsOutput{
		SessionID: ws.ID(),
		Count:     len(leads),
		Leads:     make([]domain.Lead, len(leads)),
	}
	copy(out.Leads, leads)
	if params, ok := ws.Parameters(); ok {
		out.Query = params.Query
		out.Category = string(params.Category)
	}
	return out, nil
}
