package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	relationshipservice "rookery/contexts/social-graph/relationship-service"
	votingengine "rookery/contexts/social-graph/voting-engine"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "rookery/internal/platform/httpserver/docs"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	relationships relationshipservice.Module
	voting        votingengine.Module
}

func New(
	relationships relationshipservice.Module,
	voting votingengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		relationships: relationships,
		voting:        voting,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/v1/relationships/requests", s.handleSendRequest)
	s.mux.HandleFunc("POST /api/v1/relationships/requests/{requester_id}/respond", s.handleRespondRequest)
	s.mux.HandleFunc("POST /api/v1/relationships/blocks", s.handleBlockActor)
	s.mux.HandleFunc("GET /api/v1/relationships", s.handleListRelationships)
	s.mux.HandleFunc("GET /api/v1/notifications", s.handleListNotifications)

	s.mux.HandleFunc("POST /api/v1/subjects/{subject_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/v1/subjects/{subject_id}/votes", s.handleSubjectVotes)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}

func resolveDisplayName(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Name"))
}
