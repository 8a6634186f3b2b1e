// Package server provides the HTTP API for evidence matching and saved results.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/evidence-matcher/internal/cache"
	"github.com/jonathan/evidence-matcher/internal/evidence"
	"github.com/jonathan/evidence-matcher/internal/server/middleware"
	"github.com/jonathan/evidence-matcher/internal/server/ratelimit"
	"github.com/jonathan/evidence-matcher/internal/types"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// HistoryStore persists saved matching runs.
type HistoryStore interface {
	SaveHistory(ctx context.Context, entry *types.HistoryEntry) (*types.HistoryEntry, error)
	ListHistory(ctx context.Context, userID *uuid.UUID) ([]types.HistorySummary, error)
	GetHistory(ctx context.Context, id uuid.UUID) (*types.HistoryEntry, error)
	GetEvidence(ctx context.Context, id uuid.UUID) (types.MatchCollection, error)
	DeleteHistory(ctx context.Context, id uuid.UUID) (bool, error)
}

// SessionCache holds searches and the project bundles built from them
// until they are matched or saved.
type SessionCache interface {
	PutSearch(ctx context.Context, searchID string, params types.SearchParameters, listings []types.JobListing) error
	GetSearch(ctx context.Context, searchID string) ([]types.JobListing, error)
	GetSearchMetadata(ctx context.Context, searchID string) (*cache.SearchMetadata, error)
	PutUxInfo(ctx context.Context, searchID string, info *types.UxInformation) error
	GetUxInfo(ctx context.Context, key string) (*types.UxInformation, error)
	RecentSearches(ctx context.Context, limit int) ([]cache.SearchMetadata, error)
}

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string
	ShutdownGrace  time.Duration
}

// Deps are the collaborators the server is built from. Store, Cache and
// Auth may be nil; the endpoints that need them then answer 503, and
// without Auth every endpoint is anonymous.
type Deps struct {
	Matcher     *evidence.Matcher
	Store       HistoryStore
	Cache       SessionCache
	Auth        middleware.TokenValidator
	RateLimiter *ratelimit.Limiter
	Logger      *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	cfg        Config
	matcher    *evidence.Matcher
	store      HistoryStore
	cache      SessionCache
	auth       middleware.TokenValidator
	limiter    *ratelimit.Limiter
	log        *zap.Logger
	now        func() time.Time
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Matcher == nil {
		return nil, fmt.Errorf("server requires a matcher")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.RateLimiter == nil {
		deps.RateLimiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 30 * time.Second
	}

	s := &Server{
		cfg:     cfg,
		matcher: deps.Matcher,
		store:   deps.Store,
		cache:   deps.Cache,
		auth:    deps.Auth,
		limiter: deps.RateLimiter,
		log:     deps.Logger,
		now:     time.Now,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/match", s.handleMatch)
	mux.HandleFunc("POST /api/project-evidence", s.handleProjectEvidence)
	mux.HandleFunc("GET /api/recent-searches", s.handleRecentSearches)
	mux.HandleFunc("POST /api/searches", s.handlePutSearch)
	mux.HandleFunc("GET /api/searches/{id}", s.handleGetSearch)
	mux.HandleFunc("POST /api/searches/{id}/projects", s.handlePutProjects)

	// Writes require a token when auth is configured; reads attach one if sent
	mux.Handle("POST /api/history", s.requireAuth(http.HandlerFunc(s.handleSaveHistory)))
	mux.Handle("GET /api/history", s.optionalAuth(http.HandlerFunc(s.handleListHistory)))
	mux.Handle("GET /api/history/{id}", s.optionalAuth(http.HandlerFunc(s.handleGetHistory)))
	mux.Handle("GET /api/history/{id}/evidence", s.optionalAuth(http.HandlerFunc(s.handleGetEvidence)))
	mux.Handle("DELETE /api/history/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteHistory)))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.limiter.Stop()

	s.log.Info("server stopped")
	return nil
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	if s.auth == nil {
		return next
	}
	return middleware.AuthMiddleware(s.auth)(next)
}

func (s *Server) optionalAuth(next http.Handler) http.Handler {
	if s.auth == nil {
		return next
	}
	return middleware.OptionalAuth(s.auth)(next)
}

// withCORS echoes allowed origins. "*" in AllowedOrigins allows any origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowAll := slices.Contains(s.cfg.AllowedOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || slices.Contains(s.cfg.AllowedOrigins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		}
		if status >= http.StatusInternalServerError {
			s.log.Error("request", fields...)
		} else {
			s.log.Info("request", fields...)
		}
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.limiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded", zap.Int("limit", info.Limit), zap.Duration("retry_after", info.RetryAfter))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and writes it. Server errors are logged and
// their detail withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}
