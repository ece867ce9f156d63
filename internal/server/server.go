// Package server provides the HTTP API for generating and scoring marketing copy.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/config"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/db"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/generation"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/llm"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/quota"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/scoring"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/server/middleware"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/server/ratelimit"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// Generator drafts and scores copy
type Generator interface {
	GenerateEach(ctx context.Context, req *types.GenerateRequest, onResult func(*types.GeneratedContent)) (map[types.ContentType]*types.GeneratedContent, error)
}

// HistoryStore persists generated copy
type HistoryStore interface {
	SaveGeneration(ctx context.Context, in *db.GenerationInput) (uuid.UUID, error)
	ListGenerations(ctx context.Context, userKey string, limit int) ([]db.Generation, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	generator   Generator
	scorer      *scoring.Scorer
	quota       quota.Checker
	history     HistoryStore
	tokens      middleware.TokenValidator
	rateLimiter *ratelimit.Limiter
	poweredBy   string
	closers     []func()
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	ModelTier   llm.ModelTier
	Model       string // optional override of the tier's model
	DailyLimit  int
	RulesFile   string
}

// Deps are the collaborators of a Server. Nil History disables /generations;
// nil Tokens identifies every caller by address.
type Deps struct {
	Generator Generator
	Scorer    *scoring.Scorer
	Quota     quota.Checker
	History   HistoryStore
	Tokens    middleware.TokenValidator
	RateLimit *ratelimit.Config
	PoweredBy string
}

// New creates a server from configuration: Gemini client, optional rule
// overrides, Postgres quota and history when DatabaseURL is set, and bearer
// tokens when JWT_SECRET is set.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	rules := scoring.DefaultRules()
	if cfg.RulesFile != "" {
		loaded, err := scoring.LoadRuleOverrides(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
		rules = loaded
	}
	scorer := scoring.NewScorer(rules)

	tier := cfg.ModelTier
	if tier == "" {
		tier = llm.TierStandard
	}
	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(tier, cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	closers = append(closers, func() { _ = client.Close() })
	generator := generation.NewService(client, generation.WithScorer(scorer), generation.WithTier(tier))

	deps := Deps{
		Generator: generator,
		Scorer:    scorer,
		RateLimit: ratelimit.LoadConfig(),
		PoweredBy: llmConfig.PoweredBy(tier),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, database.Close)
		if err := database.Migrate(ctx); err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		deps.Quota = quota.NewLimiter(quota.NewPostgresStore(database), cfg.DailyLimit)
		deps.History = database
	} else {
		log.Printf("[quota] DATABASE_URL not set, using in-memory usage counters")
		deps.Quota = quota.NewLimiter(quota.NewMemoryStore(), cfg.DailyLimit)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	if jwtConfig != nil {
		deps.Tokens = NewJWTService(jwtConfig).AsTokenValidator()
	}

	s := NewWithDeps(cfg.Port, deps)
	s.closers = closers
	return s, nil
}

// NewWithDeps creates a server around explicit collaborators
func NewWithDeps(port int, deps Deps) *Server {
	scorer := deps.Scorer
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}
	checker := deps.Quota
	if checker == nil {
		checker = quota.NewLimiter(quota.NewMemoryStore(), quota.DefaultDailyLimit)
	}

	s := &Server{
		generator:   deps.Generator,
		scorer:      scorer,
		quota:       checker,
		history:     deps.History,
		tokens:      deps.Tokens,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		poweredBy:   deps.PoweredBy,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // several model calls per request
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /generate/stream", s.handleGenerateStream)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /usage", s.handleUsage)
	mux.Handle("GET /generations", middleware.RequireUser(http.HandlerFunc(s.handleListGenerations)))

	return s.withRateLimit(s.withLogging(s.withCORS(middleware.Identify(s.tokens)(mux))))
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close releases the rate limiter, database pool and LLM client
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their token bucket budget
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with a request ID
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		log.Printf("[%s] %s %s id=%s", r.Method, r.URL.Path, r.RemoteAddr, requestID)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v id=%s", r.Method, r.URL.Path, time.Since(start), requestID)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// clientIP returns the host part of RemoteAddr
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// quotaKey identifies the owner of a daily allowance: the token user when
// authenticated, else the client address
func quotaKey(r *http.Request) string {
	if userID, ok := middleware.GetUserID(r); ok {
		return "user:" + userID
	}
	return "ip:" + clientIP(r)
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
