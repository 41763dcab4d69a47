package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/roach88/moneytck/internal/clause"
	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/internal/store"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var statuses = map[harness.Status]bool{
	harness.StatusPass:    true,
	harness.StatusFail:    true,
	harness.StatusSkip:    true,
	harness.StatusPending: true,
	harness.StatusError:   true,
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	runs, err := s.store.ListRuns(r.Context(), store.ListOptions{
		Configuration: r.URL.Query().Get("configuration"),
		Limit:         limit,
	})
	if err != nil {
		s.internalError(w, r, "Failed to list runs", err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Run not found", nil)
			return
		}
		s.internalError(w, r, "Failed to get run", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) getResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status := harness.Status(r.URL.Query().Get("status"))
	if status != "" && !statuses[status] {
		writeError(w, http.StatusBadRequest, "Invalid status", nil)
		return
	}
	if _, err := s.store.GetRun(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Run not found", nil)
			return
		}
		s.internalError(w, r, "Failed to get run", err)
		return
	}
	results, err := s.store.Results(r.Context(), id, status)
	if err != nil {
		s.internalError(w, r, "Failed to get results", err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) checkHistory(w http.ResponseWriter, r *http.Request) {
	check := r.URL.Query().Get("check")
	if check == "" {
		writeError(w, http.StatusBadRequest, "check is required", nil)
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	history, err := s.store.CheckHistory(r.Context(), check, limit)
	if err != nil {
		s.internalError(w, r, "Failed to get check history", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) listClauses(w http.ResponseWriter, r *http.Request) {
	clauses := []clause.Clause{}
	if s.catalog != nil {
		clauses = s.catalog.All()
	}
	writeJSON(w, http.StatusOK, clauses)
}

func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "Invalid limit", err)
		return 0, false
	}
	return n, true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	s.log.Error(message, zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
