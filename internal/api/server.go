package api

import (
	"context"
	"log"
	"net/http"

	"github.com/Adeoluwa12/chidibot/internal/domain"
	"github.com/Adeoluwa12/chidibot/internal/notify"
	"github.com/Adeoluwa12/chidibot/internal/session"
)

// Records is the read-only slice of the store the dashboard needs. There is
// no write path from here back into the watcher.
type Records interface {
	RecentReferrals(ctx context.Context, n int) ([]domain.Referral, error)
	RecentLogs(ctx context.Context, n int) ([]domain.LogEntry, error)
}

type Server struct {
	records Records
	marker  session.Marker
	notion  *notify.Notion // nil when the Notion channel is off
	mux     *http.ServeMux
}

func New(records Records, marker session.Marker, notion *notify.Notion) *Server {
	s := &Server{
		records: records,
		marker:  marker,
		notion:  notion,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleDashboard)
	s.mux.HandleFunc("GET /dashboard", s.handleDashboard)

	// The "I'm Done" button posts here once the operator finishes 2FA.
	s.mux.HandleFunc("POST /done", s.handleDone)

	if s.notion != nil {
		s.mux.HandleFunc("GET /debug/notion", s.handleDebugNotion)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleDone(w http.ResponseWriter, r *http.Request) {
	if err := s.marker.Set(); err != nil {
		log.Printf("[api] set 2FA marker: %v", err)
		http.Error(w, "could not record completion", http.StatusInternalServerError)
		return
	}
	log.Println("[api] 2FA completion recorded")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) Handler() http.Handler { return s.mux }
