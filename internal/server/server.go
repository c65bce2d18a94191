// Package server provides the HTTP REST API for the CV builder.
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
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-builder/internal/payment"
	"github.com/jonathan/cv-builder/internal/pdfio"
	"github.com/jonathan/cv-builder/internal/server/middleware"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/wizard"
)

// maxUploadBytes caps resume uploads (JSON and PDF alike).
const maxUploadBytes = 10 << 20

// AiService is the slice of the AI bridge the handlers use.
type AiService interface {
	EnhanceDescription(ctx context.Context, jobTitle, company, description string) (string, error)
	ExtractFromText(ctx context.Context, resumeText string) (*types.CvDocument, error)
	GenerateSummary(ctx context.Context, doc types.CvDocument) (string, error)
}

// CheckoutService is the slice of the payment layer the handlers use.
type CheckoutService interface {
	CreatePaymentIntent(ctx context.Context, sessionToken string) (*payment.IntentResult, error)
	VerifyPayment(ctx context.Context, sessionToken, paymentIntentID string) (*types.Session, error)
}

// Config holds server configuration.
type Config struct {
	Port            int
	AllowedOrigin   string
	ProcessingDelay time.Duration
}

// Deps are the collaborators a Server needs. Store, AI, Checkout, and
// Renderer are required; JWTService and RateLimiter are optional.
type Deps struct {
	Store       store.Store
	AI          AiService
	Checkout    CheckoutService
	Renderer    pdfio.Renderer
	JWTService  *JWTService
	RateLimiter *ratelimit.Limiter
}

// Server represents the HTTP server.
type Server struct {
	httpServer    *http.Server
	handler       http.Handler
	store         store.Store
	ai            AiService
	checkout      CheckoutService
	renderer      pdfio.Renderer
	scheduler     *wizard.Scheduler
	rateLimiter   *ratelimit.Limiter
	allowedOrigin string
}

// New creates a new server instance.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		store:         deps.Store,
		ai:            deps.AI,
		checkout:      deps.Checkout,
		renderer:      deps.Renderer,
		rateLimiter:   deps.RateLimiter,
		allowedOrigin: cfg.AllowedOrigin,
	}
	if s.allowedOrigin == "" {
		s.allowedOrigin = "*"
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}
	s.scheduler = wizard.NewScheduler(cfg.ProcessingDelay, s.autoAdvance)

	mux := http.NewServeMux()

	// Session lifecycle
	mux.HandleFunc("POST /api/cv-session", s.handleCreateSession)
	mux.HandleFunc("GET /api/cv-session/{token}", s.handleGetSession)
	mux.HandleFunc("PUT /api/cv-session/{token}", s.handleUpdateSession)
	mux.HandleFunc("POST /api/cv-session/{token}/advance", s.handleAdvanceSession)
	mux.HandleFunc("POST /api/cv-session/{token}/back", s.handleBackSession)

	// Resume imports
	mux.HandleFunc("POST /api/upload-json", s.handleUploadJSON)
	mux.HandleFunc("POST /api/upload-pdf", s.handleUploadPDF)

	// AI content operations
	mux.HandleFunc("POST /api/enhance-description", s.handleEnhanceDescription)
	mux.HandleFunc("POST /api/generate-summary", s.handleGenerateSummary)

	// Checkout
	mux.HandleFunc("POST /api/create-payment-intent", s.handleCreatePaymentIntent)
	mux.HandleFunc("POST /api/verify-payment", s.handleVerifyPayment)

	// Export
	mux.HandleFunc("POST /api/generate-pdf", s.handleGeneratePDF)
	mux.HandleFunc("GET /api/download-pdf/{token}", s.handleDownloadPDF)

	mux.HandleFunc("GET /health", s.handleHealth)

	var handler http.Handler = mux
	if deps.JWTService != nil {
		// Deployments that set a JWT secret require a bearer token on
		// every API route; the wizard is anonymous otherwise.
		handler = middleware.AuthMiddleware(deps.JWTService.AsTokenValidator())(mux)
	}
	s.handler = s.withRateLimit(s.withLogging(s.withCORS(handler)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF rendering can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the routed handler stack, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		s.scheduler.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}

// autoAdvance fires when a session's processing delay expires. The update is
// conditional on the session still being in the processing step; a user who
// navigated away in the meantime is left alone.
func (s *Server) autoAdvance(sessionID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		log.Printf("auto-advance: session %s: %v", sessionID, err)
		return
	}
	if session.CurrentStep != string(wizard.StepProcessing) {
		return
	}

	step := string(wizard.StepPreviewCustomize)
	if _, err := s.store.UpdateSession(ctx, sessionID, types.SessionUpdate{
		CurrentStep:     &step,
		ExpectedVersion: &session.Version,
	}); err != nil {
		log.Printf("auto-advance: session %s: %v", sessionID, err)
	}
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
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
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
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

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// respondError maps an error to its HTTP status and writes it.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
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

// rateLimitResponse writes a 429 Too Many Requests response.
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
