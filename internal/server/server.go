package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/domain"
	"github.com/varoOP/moviefinder/internal/fetch"
	"github.com/varoOP/moviefinder/internal/metrics"
	"github.com/varoOP/moviefinder/internal/paging"
)

// maxSessions bounds the session table; the oldest sessions are dropped first.
const maxSessions = 1024

type Server struct {
	log     zerolog.Logger
	addr    string
	paging  paging.Service
	fetch   fetch.Service
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]domain.Session
}

func New(log zerolog.Logger, addr string, p paging.Service, f fetch.Service, m *metrics.Metrics) *Server {
	return &Server{
		log:      log.With().Str("module", "server").Logger(),
		addr:     addr,
		paging:   p,
		fetch:    f,
		metrics:  m,
		sessions: map[string]domain.Session{},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /movies/{id}", s.handleMovie)
	mux.HandleFunc("GET /search", s.handleSearch)
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
	return withRequestLogging(mux, s.log)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.log.Info().Str("addr", s.addr).Msg("Starting server")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("Stopping server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

type searchResponse struct {
	Session string         `json:"session"`
	Items   []domain.Movie `json:"items"`
	Next    string         `json:"next"`
	Source  string         `json:"source"`
}

// handleSearch serves one page. Without a session id, or with a keyword that
// differs from the session's, a new session is started; a new keyword keeps
// the local matches of the previous session.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := strings.TrimSpace(q.Get("q"))

	cursor, err := domain.ParseCursor(q.Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := q.Get("session")
	session, ok := s.session(id)
	switch {
	case id != "" && !ok:
		writeError(w, http.StatusNotFound, "unknown session")
		return
	case !ok:
		id = ulid.Make().String()
		session = domain.NewSession(keyword)
		cursor = domain.First()
	case session.Keyword != keyword:
		id = ulid.Make().String()
		session = session.Continue(keyword)
		cursor = domain.First()
	}

	page, next, err := s.paging.Load(r.Context(), session, cursor)
	if err != nil {
		s.log.Error().Err(err).Str("session", id).Str("cursor", cursor.String()).Msg("failed to load page")
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.store(id, next)

	writeJSON(w, http.StatusOK, searchResponse{
		Session: id,
		Items:   page.Items,
		Next:    page.Next.String(),
		Source:  string(page.Source),
	})
}

// handleMovie streams the fetch emissions as newline-delimited JSON.
func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	for res := range s.fetch.Fetch(r.Context(), id) {
		if err := enc.Encode(res); err != nil {
			s.log.Debug().Err(err).Str("id", id).Msg("client went away")
			return
		}
		rc.Flush()
	}
}

func (s *Server) session(id string) (domain.Session, bool) {
	if id == "" {
		return domain.Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *Server) store(id string, session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = session
	if len(s.sessions) <= maxSessions {
		return
	}

	// ULIDs sort by creation time
	ids := make([]string, 0, len(s.sessions))
	for k := range s.sessions {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	for _, k := range ids[:len(ids)-maxSessions] {
		delete(s.sessions, k)
	}
}

func statusFor(err error) int {
	var (
		te *domain.TransportError
		ae *domain.ApplicationError
	)
	switch {
	case errors.As(err, &te):
		return http.StatusGatewayTimeout
	case errors.As(err, &ae):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
