package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/melodyxpot/resumate-app/internal/config"
	"github.com/melodyxpot/resumate-app/internal/db"
	"github.com/melodyxpot/resumate-app/internal/extraction"
	"github.com/melodyxpot/resumate-app/internal/llm"
	"github.com/melodyxpot/resumate-app/internal/pipeline"
	"github.com/melodyxpot/resumate-app/internal/publish"
	"github.com/melodyxpot/resumate-app/internal/rendering"
	"github.com/melodyxpot/resumate-app/internal/server/middleware"
	"github.com/melodyxpot/resumate-app/internal/server/ratelimit"
	"github.com/melodyxpot/resumate-app/internal/tailoring"
	"github.com/melodyxpot/resumate-app/internal/types"
)

// maxBodyBytes bounds request bodies. Uploads are base64 so they are larger
// than the decoded document limit.
const maxBodyBytes = 16 << 20

// Store is the persistence surface used by the handlers. *db.DB implements it.
type Store interface {
	Ping(ctx context.Context) error

	CreateProject(ctx context.Context, p *types.ProfileDataset) error
	ListProjects(ctx context.Context, ownerID uuid.UUID) ([]types.ProfileDataset, error)
	GetProject(ctx context.Context, ownerID, id uuid.UUID) (*types.ProfileDataset, error)
	UpdateProject(ctx context.Context, ownerID, id uuid.UUID, p *types.ProfileDataset) (*types.ProfileDataset, error)
	DeleteProject(ctx context.Context, ownerID, id uuid.UUID) error

	CreateResume(ctx context.Context, r *types.SavedResume) error
	ListResumes(ctx context.Context, ownerID uuid.UUID) ([]types.SavedResume, error)

	CreateUser(ctx context.Context, email, name string) (*types.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	UpdateUserSettings(ctx context.Context, id uuid.UUID, defaultProjectID *uuid.UUID, saveByDefault bool) (*types.User, error)
}

// ProfileExtractor turns an uploaded document into a profile dataset
type ProfileExtractor interface {
	Extract(ctx context.Context, file types.ExtractFile) (*types.ProfileDataset, error)
}

// Generator runs a resume generation
type Generator interface {
	Run(ctx context.Context, opts pipeline.RunOptions) (*pipeline.Result, error)
}

// PDFExporter converts a rendered resume document to PDF
type PDFExporter interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Checker is a named readiness probe
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps are the collaborators of a Server
type Deps struct {
	Store      Store
	Extractor  ProfileExtractor
	Generator  Generator
	PDF        PDFExporter
	Sessions   *SessionService
	Limiter    *ratelimit.Limiter
	Checkers   []Checker
	CORSOrigin string
	// Closers are released on shutdown, in order
	Closers []io.Closer
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	deps       Deps
}

// New connects every external dependency described by cfg and builds a server.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	sessionConfig, err := config.NewSessionConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create session config: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	renderer, err := rendering.NewMarkdownRenderer()
	if err != nil {
		database.Close()
		client.Close() //nolint:errcheck
		return nil, err
	}

	runner := &pipeline.Runner{
		Engine:   tailoring.NewEngine(client).WithTemperature(cfg.Temperature),
		Renderer: renderer,
		Store:    database,
	}
	checkers := []Checker{{Name: "database", Check: database.Ping}}

	if cfg.StorageEnabled() {
		publisher, err := publish.NewS3Publisher(ctx, cfg.PublishConfig())
		if err != nil {
			database.Close()
			client.Close() //nolint:errcheck
			return nil, err
		}
		runner.Publisher = publisher
		checkers = append(checkers, Checker{Name: "storage", Check: publisher.Ping})
	} else {
		log.Printf("[server] artifact storage not configured; saving resumes is disabled")
	}

	return newServer(cfg.Addr(), Deps{
		Store:      database,
		Extractor:  extraction.New(client),
		Generator:  runner,
		PDF:        rendering.NewPDFRenderer(cfg.ChromePath),
		Sessions:   NewSessionService(sessionConfig),
		Limiter:    ratelimit.NewLimiter(ratelimit.LoadConfig(os.Getenv)),
		Checkers:   checkers,
		CORSOrigin: cfg.CORSOrigin,
		Closers:    []io.Closer{client, closerFunc(database.Close)},
	}), nil
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

func newServer(addr string, deps Deps) *Server {
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	if deps.CORSOrigin == "" {
		deps.CORSOrigin = "*"
	}

	s := &Server{deps: deps}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for generation
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the full middleware chain and routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireSession(s.deps.Sessions.Authenticator(s.deps.Store))
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	// Probes
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)

	// Accounts
	mux.HandleFunc("POST /auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	protected("GET /account/settings", s.handleGetSettings)
	protected("PUT /account/settings", s.handleUpdateSettings)

	// Generation
	protected("POST /extract", s.handleExtract)
	protected("POST /tailor", s.handleTailor)
	protected("POST /tailor/stream", s.handleTailorStream)
	protected("POST /tailor/pdf", s.handleTailorPDF)

	// Profile datasets
	protected("GET /profiles", s.handleListProfiles)
	protected("POST /profiles", s.handleCreateProfile)
	protected("GET /profiles/{id}", s.handleGetProfile)
	protected("PUT /profiles/{id}", s.handleUpdateProfile)
	protected("DELETE /profiles/{id}", s.handleDeleteProfile)

	// Saved resumes
	protected("GET /resumes", s.handleListResumes)
	protected("POST /resumes", s.handleCreateResume)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[server] starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] error: %v", err)
		}
	}()

	<-stop
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("[server] stopped")
	return nil
}

// Close stops the rate limiter and releases external clients
func (s *Server) Close() {
	if s.deps.Limiter != nil {
		s.deps.Limiter.Stop()
	}
	for _, c := range s.deps.Closers {
		if err := c.Close(); err != nil {
			log.Printf("[server] close failed: %v", err)
		}
	}
}

// withCORS adds CORS headers. Credentials are allowed only for an explicit origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.deps.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if s.deps.CORSOrigin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.deps.Limiter.Allow(clientID, r.URL.Path, r.Method)

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
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{
		"error": message,
		"kind":  kindForStatus(status),
	})
}

// writeError maps err to a status and kind and logs the detail server side.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	s.jsonResponse(w, status, map[string]string{
		"error": PublicMessage(err),
		"kind":  ErrorKind(err),
	})
}

// decodeJSON reads a bounded JSON body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Message: "request body too large"}
		}
		return &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// currentUser returns the authenticated user id. RequireSession guarantees it.
func (s *Server) currentUser(r *http.Request) uuid.UUID {
	id, _ := middleware.GetUserID(r)
	return id
}

// pathID parses the {id} path value.
func pathID(r *http.Request, resource string) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		// Malformed ids cannot name an owned resource
		return uuid.Nil, &ErrResourceNotFound{Resource: resource, ID: raw}
	}
	return id, nil
}

// extractClientID extracts the client identifier from the request.
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
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate limit exceeded, please try again later",
		"kind":      KindRateLimited,
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
