// Package server exposes a session over HTTP: the current frame, the legend
// and the selection protocol.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"routemap/internal/dataset"
	"routemap/internal/export"
	"routemap/internal/render"
	"routemap/internal/selection"
)

// Server serves one session.
type Server struct {
	session *Session
	logger  *log.Logger
}

// New returns a server for session.
func New(session *Session, logger *log.Logger) *Server {
	return &Server{session: session, logger: logger}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/frame", s.handleFrame)
	r.Get("/frame.geojson", s.handleFrameGeoJSON)
	r.Get("/legend", s.handleLegend)
	r.Get("/selection", s.handleGetSelection)
	r.Post("/selection", s.handleSelect)
	r.Delete("/selection", s.handleClear)
	r.Post("/click", s.handleClick)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
	})
}

type selectionBody struct {
	Keys     []string `json:"keys"`
	Additive bool     `json:"additive"`
}

type clickBody struct {
	Kind     string `json:"kind"`
	Route    int    `json:"route"`
	Additive bool   `json:"additive"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, export.NewDocument(s.session.Frame(), export.Options{}))
}

func (s *Server) handleFrameGeoJSON(w http.ResponseWriter, r *http.Request) {
	data, err := export.FeatureCollection(s.session.Frame(), export.Options{}).MarshalJSON()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, export.NewDocument(s.session.Frame(), export.Options{}).Legend)
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	s.writeSelection(w)
}

func (s *Server) writeSelection(w http.ResponseWriter) {
	keys := s.session.Selected()
	out := selectionBody{Keys: make([]string, 0, len(keys))}
	for _, k := range keys {
		out.Keys = append(out.Keys, string(k))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body selectionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	keys := make([]dataset.Key, 0, len(body.Keys))
	for _, raw := range body.Keys {
		k, err := dataset.ParseKey(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		keys = append(keys, k)
	}
	req := selection.Request{Op: selection.OpSelect, Keys: keys, Additive: body.Additive}
	if err := s.session.Commit(r.Context(), req); err != nil {
		s.writeCommitError(w, err)
		return
	}
	s.writeSelection(w)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Commit(r.Context(), selection.Request{Op: selection.OpClear}); err != nil {
		s.writeCommitError(w, err)
		return
	}
	s.writeSelection(w)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var body clickBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	kind, ok := render.ParseKind(body.Kind)
	if !ok {
		s.writeError(w, http.StatusBadRequest, errors.New("kind must be line, origin or destination"))
		return
	}
	found, err := s.session.Click(r.Context(), kind, body.Route, body.Additive)
	if err != nil {
		s.writeCommitError(w, err)
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, errors.New("no such route"))
		return
	}
	s.writeSelection(w)
}

func (s *Server) writeCommitError(w http.ResponseWriter, err error) {
	var rerr *render.Error
	switch {
	case errors.Is(err, selection.ErrUnknownKey):
		s.writeError(w, http.StatusNotFound, err)
	case errors.As(err, &rerr):
		s.writeError(w, http.StatusInternalServerError, err)
	default:
		s.writeError(w, http.StatusBadGateway, err)
	}
}
