package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/services"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// StartRequest is the body of POST /sessions.
type StartRequest struct {
	Query       string   `json:"query"`
	Category    string   `json:"category,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	UseLocation bool     `json:"use_location,omitempty"`
}

// LeadsResponse describes a session after a search call.
type LeadsResponse struct {
	SessionID string        `json:"session_id"`
	Query     string        `json:"query,omitempty"`
	Category  string        `json:"category,omitempty"`
	Location  string        `json:"location,omitempty"`
	Added     int           `json:"added"`
	Count     int           `json:"count"`
	Leads     []domain.Lead `json:"leads"`
	Notice    string        `json:"notice,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	Sessions   int    `json:"sessions"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	Configured bool   `json:"configured"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Sessions: len(s.ports.Workspaces.List()),
	}
	if s.ports.Settings != nil {
		if settings, err := s.ports.Settings.Get(); err == nil {
			resp.Provider = string(settings.Retrieval.Provider)
			resp.Model = settings.Retrieval.Model
			resp.Configured = settings.Retrieval.IsConfigured()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	ids := s.ports.Workspaces.List()
	sort.Strings(ids)
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := domain.SearchRequest{
		Query:       body.Query,
		Category:    body.Category,
		UseLocation: body.UseLocation,
	}
	if body.Latitude != nil || body.Longitude != nil {
		if body.Latitude == nil || body.Longitude == nil {
			writeError(w, http.StatusBadRequest, "latitude and longitude must be given together")
			return
		}
		req.Location = &domain.GeoLocation{Latitude: *body.Latitude, Longitude: *body.Longitude}
	}

	ws, err := s.ports.Workspaces.Open(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	_, err = ws.Start(r.Context(), req)
	if err != nil && !domain.IsSoft(err) {
		if closeErr := s.ports.Workspaces.Close(ws.ID()); closeErr != nil {
			logger.Warn("Failed to close session %s: %v", ws.ID(), closeErr)
		}
		writeDomainError(w, err)
		return
	}

	resp, listErr := snapshot(r.Context(), ws)
	if listErr != nil {
		writeDomainError(w, listErr)
		return
	}
	resp.Added = resp.Count
	if err != nil {
		resp.Notice = err.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	added, err := ws.LoadMore(r.Context())
	if err != nil && !domain.IsSoft(err) {
		writeDomainError(w, err)
		return
	}

	resp, listErr := snapshot(r.Context(), ws)
	if listErr != nil {
		writeDomainError(w, listErr)
		return
	}
	resp.Added = added
	if err != nil {
		resp.Notice = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	resp, err := snapshot(r.Context(), ws)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	csv, err := ws.Encode(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if csv == "" {
		writeDomainError(w, services.ErrNothingToExport)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", domain.ExportFileName(s.now())))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, csv); err != nil {
		logger.Debug("Writing CSV for session %s: %v", ws.ID(), err)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ports.Workspaces.Close(id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// workspace resolves the {id} path parameter, writing a 404 when unknown.
func (s *Server) workspace(w http.ResponseWriter, r *http.Request) (driving.Workspace, bool) {
	ws, err := s.ports.Workspaces.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return ws, true
}

// snapshot reports the session's current leads.
func snapshot(ctx context.Context, ws driving.Workspace) (LeadsResponse, error) {
	leads, err := ws.Leads(ctx)
	if err != nil {
		return LeadsResponse{}, err
	}

	resp := LeadsResponse{
		SessionID: ws.ID(),
		Count:     len(leads),
		Leads:     make([]domain.Lead, len(leads)),
	}
	copy(resp.Leads, leads)
	if params, ok := ws.Parameters(); ok {
		resp.Query = params.Query
		resp.Category = string(params.Category)
		if params.Location != nil {
			resp.Location = params.Location.String()
		}
	}
	return resp, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps service errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNoActiveSession),
		errors.Is(err, services.ErrNothingToExport):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFetchInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRetrievalFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
