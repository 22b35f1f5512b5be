package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	store          db.Store
	rateLimiter    *ratelimit.Limiter
	jwtService     *JWTService
	adminService   *AdminService
	authHandler    *AuthHandler
	renderer       rendering.PDFRenderer
	logger         *logrus.Logger
	allowedOrigins []string
	maxResumeSize  int64
	pdfTimeout     time.Duration
	closers        []func()
}

// Deps are the collaborators of a Server. Store, JWT and Passwords are required.
type Deps struct {
	Store     db.Store
	Sessions  SessionRegistry       // nil selects an in-memory registry
	JWT       *config.JWTConfig     // token signing settings
	Passwords *config.PasswordConfig
	Renderer  rendering.PDFRenderer // nil selects headless Chrome
	Logger    *logrus.Logger        // nil discards logs
}

// New creates a new server instance
func New(cfg *config.ServerConfig, deps Deps) (*Server, error) {
	if deps.Store == nil || deps.JWT == nil || deps.Passwords == nil {
		return nil, fmt.Errorf("server requires a store, a JWT config and a password config")
	}
	if deps.Sessions == nil {
		deps.Sessions = NewMemorySessions()
	}
	if deps.Renderer == nil {
		deps.Renderer = rendering.NewChromeRenderer(cfg.ChromePath, cfg.PDFTimeout)
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}

	s := &Server{
		store:          deps.Store,
		renderer:       deps.Renderer,
		logger:         deps.Logger,
		allowedOrigins: cfg.AllowedOrigins,
		maxResumeSize:  cfg.MaxResumeSize,
		pdfTimeout:     cfg.PDFTimeout,
	}
	if s.maxResumeSize <= 0 {
		s.maxResumeSize = config.DefaultMaxResumeSize
	}

	loginRate, loginBurst := cfg.LoginRate, cfg.LoginBurst
	if loginRate <= 0 || loginBurst < 1 {
		loginRate, loginBurst = ratelimit.DefaultLoginRate, ratelimit.DefaultLoginBurst
	}
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.DefaultConfig(loginRate, loginBurst))

	s.jwtService = NewJWTService(deps.JWT, deps.Sessions)
	s.adminService = NewAdminService(deps.Store, deps.Passwords, deps.Logger)
	s.authHandler = NewAuthHandler(s.adminService, s.jwtService, deps.Logger)

	requireAdmin := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	admin := func(h http.HandlerFunc) http.Handler { return requireAdmin(h) }

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)

	// Public endpoints
	mux.HandleFunc("POST /api/resumes", s.handleSubmitResume)
	mux.HandleFunc("GET /api/resumes/{id}/pdf", s.handleResumePDF)

	// Admin endpoints
	mux.HandleFunc("POST /api/admin/login", s.authHandler.Login)
	mux.Handle("POST /api/admin/logout", admin(s.authHandler.Logout))
	mux.Handle("GET /api/admin/resumes", admin(s.handleListResumes))
	mux.Handle("GET /api/admin/resumes/{id}", admin(s.handleGetResume))
	mux.Handle("GET /api/admin/resumes/{id}/pdf", admin(s.handleResumePDF))
	mux.Handle("DELETE /api/admin/resumes/{id}", admin(s.handleDeleteResume))

	mux.HandleFunc("/", s.handleNotFound)

	s.handler = s.withRecovery(s.withRateLimit(s.withLogging(s.withCORS(mux))))

	port := cfg.Port
	if port == 0 {
		port = 5000
	}
	s.httpServer = &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // PDF rendering can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Open builds a server from configuration: PostgreSQL storage when a database
// URL is set (memory otherwise), Redis sessions when a Redis URL is set, and
// the admin account named in the configuration.
func Open(ctx context.Context, cfg *config.ServerConfig, logger *logrus.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	deps := Deps{JWT: jwtConfig, Passwords: passwordConfig, Logger: logger}
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		closers = append(closers, database.Close)
		if err := database.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, err
		}
		deps.Store = database
		logger.Info("using PostgreSQL storage")
	} else {
		deps.Store = db.NewMemoryStore()
		logger.Warn("DATABASE_URL not set, resumes are kept in memory")
	}

	if cfg.RedisURL != "" {
		rdb, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		deps.Sessions = NewRedisSessions(rdb)
		logger.Info("using Redis session registry")
	}

	s, err := New(cfg, deps)
	if err != nil {
		cleanup()
		return nil, err
	}
	s.closers = closers

	if cfg.AdminEmail != "" {
		if err := s.adminService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to seed admin: %w", err)
		}
		logger.WithField("admin", db.NormalizeEmail(cfg.AdminEmail)).Info("admin account ready")
	}
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Admins returns the admin account service.
func (s *Server) Admins() *AdminService {
	return s.adminService
}

// Start listens for requests until ctx is cancelled or the process receives
// SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("Server stopped")
	return nil
}

// Close releases the rate limiter, storage and session connections.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

// withCORS adds CORS headers for allowed origins and answers preflight requests
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	return slices.Contains(s.allowedOrigins, "*") || slices.Contains(s.allowedOrigins, strings.TrimRight(origin, "/"))
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.logger.Debugf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		s.logger.Infof("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRecovery turns a handler panic into a 500 response
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.WithField("panic", rec).Errorf("[%s] %s panicked", r.Method, r.URL.Path)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
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
	retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
	if info.RetryAfter > 0 && retryAfter == 0 {
		retryAfter = 1
	}
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}

	s.logger.WithFields(logrus.Fields{
		"limit":       info.Limit,
		"retry_after": retryAfter,
	}).Warn("[rate-limit] Rate limit exceeded")

	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "Too many requests. Please try again later.",
		"retry_after": retryAfter,
	})
}
