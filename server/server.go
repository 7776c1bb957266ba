// Package server exposes the note-generation pipeline over HTTP. One POST
// endpoint runs a check; completed checks and captured screenshots are
// retrievable afterwards by id.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	checkmate "github.com/bettersg/checkmate-agent"
	"github.com/bettersg/checkmate-agent/logging"
	"github.com/bettersg/checkmate-agent/store"
)

// Options configures a Server.
type Options struct {
	Logger logging.Logger
	// CORS controls cross-origin access; defaults to allowing all origins,
	// matching a service fronted by an ingress that does its own policy.
	CORS cors.Options
}

// Server routes HTTP traffic onto a Checker and its stores.
type Server struct {
	checker   *checkmate.Checker
	checks    *store.CheckStore
	artifacts *store.ArtifactStore
	logger    logging.Logger
	handler   http.Handler
}

// New constructs a Server with its routes and middleware wired.
func New(checker *checkmate.Checker, checks *store.CheckStore, artifacts *store.ArtifactStore, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger: logging.NoOpLogger{},
		CORS:   cors.Options{AllowedMethods: []string{http.MethodGet, http.MethodPost}},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	s := &Server{
		checker:   checker,
		checks:    checks,
		artifacts: artifacts,
		logger:    opts.Logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v2/getCommunityNote", s.handleCommunityNote).Methods(http.MethodPost)
	r.HandleFunc("/v2/checks/{id}", s.handleGetCheck).Methods(http.MethodGet)
	r.HandleFunc("/artifacts/{id}", s.handleGetArtifact).Methods(http.MethodGet)

	s.handler = RequestID(cors.New(opts.CORS).Handler(r))
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCommunityNote(w http.ResponseWriter, r *http.Request) {
	var req checkmate.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	requestID := RequestIDFromContext(r.Context())
	s.logger.Info(
		"server.community_note.request",
		"request_id", requestID,
		"has_text", req.Text != "",
		"has_image", req.ImageURL != "",
	)

	resp, err := s.checker.GenerateNote(r.Context(), req)
	if err != nil {
		if errors.Is(err, checkmate.ErrInvalidSubmission) {
			writeError(w, http.StatusBadRequest, "Either 'text' or 'image_url' must be provided, and not both.")
			return
		}
		s.logger.Error("server.community_note.error", "request_id", requestID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.checks.Save(requestID, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	check, err := s.checks.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "no check found for id "+id)
		return
	}
	writeJSON(w, http.StatusOK, check.Result)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	artifact, err := s.artifacts.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "no artifact found for id "+id)
		return
	}
	w.Header().Set("Content-Type", artifact.MimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
