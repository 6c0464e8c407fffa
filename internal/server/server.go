// Package server provides the HTTP portal for the marketing intelligence
// agent: operator login, watchlist management, on-demand analysis, and the
// subscriber signup flow.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/marketing-intel/internal/agent"
	"github.com/jonathan/marketing-intel/internal/config"
	"github.com/jonathan/marketing-intel/internal/server/ratelimit"
	"github.com/jonathan/marketing-intel/internal/types"
)

//go:embed portal.html
var portalHTML []byte

// Store is the persistence surface the portal needs. Satisfied by db.DB.
type Store interface {
	ListTargets(ctx context.Context) ([]string, error)
	AddTarget(ctx context.Context, raw string) (string, error)
	RemoveTarget(ctx context.Context, raw string) error
	LatestBrief(ctx context.Context, target string) (*types.Brief, error)
	CreatePendingVerification(ctx context.Context, email string) (uuid.UUID, error)
	VerifyToken(ctx context.Context, token uuid.UUID) (string, error)
	Unsubscribe(ctx context.Context, email string) error
}

// VerificationMailer sends the signup-flow emails. Satisfied by
// notify.Mailer.
type VerificationMailer interface {
	SendVerification(email, token string) error
	SendWelcome(email string) error
}

// Server is the portal HTTP server.
type Server struct {
	httpServer  *http.Server
	store       Store
	analyzer    agent.Analyzer
	mailer      VerificationMailer
	passwords   *config.PasswordVerifier
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	validator   *validator.Validate
}

// Config holds server configuration. Mailer may be nil; the signup flow
// then responds 503.
type Config struct {
	Port     int
	Password string
	Store    Store
	Analyzer agent.Analyzer
	Mailer   VerificationMailer
}

// New creates a server instance.
func New(cfg Config) (*Server, error) {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		store:       cfg.Store,
		analyzer:    cfg.Analyzer,
		mailer:      cfg.Mailer,
		passwords:   config.NewPasswordVerifier(cfg.Password),
		jwtService:  NewJWTService(jwtConfig),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validator:   validator.New(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // on-demand analysis waits on the model
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handlePortal)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /login", s.handleLogin)

	// Operator endpoints
	mux.HandleFunc("POST /analyze", s.requireAuth(s.handleAnalyze))
	mux.HandleFunc("GET /watchlist", s.requireAuth(s.handleListWatchlist))
	mux.HandleFunc("POST /watchlist", s.requireAuth(s.handleAddTarget))
	mux.HandleFunc("DELETE /watchlist/{domain}", s.requireAuth(s.handleRemoveTarget))
	mux.HandleFunc("GET /briefs/{domain}", s.requireAuth(s.handleLatestBrief))

	// Subscriber signup flow (public: links land in email clients)
	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("GET /verify", s.handleVerify)
	mux.HandleFunc("GET /unsubscribe", s.handleUnsubscribe)

	return mux
}

// Start begins listening and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	log.Println("Server stopped")
	return nil
}

// requireAuth wraps a handler with bearer token validation.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			s.errorResponse(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := s.jwtService.ValidateToken(header[len(prefix):]); err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r)
	}
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) handlePortal(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(portalHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID identifies a client by IP address. X-Forwarded-For is
// ignored: it is spoofable unless stripped by a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
