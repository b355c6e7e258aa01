package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flowline-dev/flowline/pkg/errors"
	"github.com/flowline-dev/flowline/pkg/model"
	"github.com/flowline-dev/flowline/pkg/pipeline"
	"github.com/flowline-dev/flowline/pkg/store"
)

// resolveRequest is the body of POST /api/resolve.
type resolveRequest struct {
	Model     json.RawMessage `json:"model"`
	Mode      string          `json:"mode,omitempty"`
	Direction string          `json:"direction,omitempty"`
	NoEngine  bool            `json:"no_engine,omitempty"`
	Refresh   bool            `json:"refresh,omitempty"`
}

// resolveResponse is the body of a successful resolution.
type resolveResponse struct {
	Model  *model.Model `json:"model"`
	Cached bool         `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if len(req.Model) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "model is required"))
		return
	}

	m, err := model.UnmarshalModel(req.Model)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidModel, err, "parse model"))
		return
	}

	opts := pipeline.Options{
		Mode:      req.Mode,
		Direction: req.Direction,
		NoEngine:  req.NoEngine,
		Refresh:   req.Refresh,
		Logger:    s.logger,
	}
	resolved, cached, err := s.runner.ResolveWithCacheInfo(r.Context(), m, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{Model: resolved, Cached: cached})
}

// createDiagramRequest is the body of POST /api/diagrams.
type createDiagramRequest struct {
	Name  string          `json:"name"`
	Model json.RawMessage `json:"model"`
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req createDiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if err := errors.ValidateDiagramName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Model) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "model is required"))
		return
	}

	m, err := model.UnmarshalModel(req.Model)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidModel, err, "parse model"))
		return
	}

	now := time.Now().UTC()
	d := &store.Diagram{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Model:     m,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResolveDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Mode:      q.Get("mode"),
		Direction: q.Get("direction"),
		NoEngine:  q.Get("no_engine") == "true",
		Refresh:   q.Get("refresh") == "true",
		Logger:    s.logger,
	}
	resolved, cached, err := s.runner.ResolveWithCacheInfo(r.Context(), d.Model, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	d.Resolved = resolved
	d.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{Model: resolved, Cached: cached})
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON shape of API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps an error to its HTTP status and writes the JSON body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
