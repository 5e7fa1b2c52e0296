// Package http exposes the ledger over a JSON API and a small HTML page.
// Every route goes through the same service layer as the CLI, so both
// surfaces agree on validation and persistence behavior.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"housetab/internal/cli"
	"housetab/internal/core"
	"housetab/internal/services"
	appweb "housetab/web"
)

type Server struct {
	http.Server
	templates   *template.Template
	ledger      *services.LedgerService
	console     *cli.Console
	rateLimiter *rateLimiter
	metrics     securityMetrics

	// mutationMu serializes mutating requests. The ledger document is a
	// single file loaded and rewritten whole, so two concurrent writers
	// would clobber each other's save.
	mutationMu sync.Mutex

	// LRU caches for summaries and listings with eviction policy
	summaryCache *lruCache[core.Summary]
	listingCache *lruCache[[]services.MonthTotal]

	// Cache cleanup management
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Options tunes the HTTP surface. Zero values fall back to sane defaults.
type Options struct {
	SummaryCacheTTL    time.Duration
	RateLimitPerMinute int
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, ledger *services.LedgerService, opts Options) *Server {
	if opts.SummaryCacheTTL <= 0 {
		opts.SummaryCacheTTL = 30 * time.Second
	}
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 60
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:           ledger,
		console:          cli.NewConsole(ledger),
		rateLimiter:      newRateLimiter(opts.RateLimitPerMinute),
		summaryCache:     newLRUCache[core.Summary](100, opts.SummaryCacheTTL),
		listingCache:     newLRUCache[[]services.MonthTotal](1, opts.SummaryCacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	// Start periodic cache cleanup
	go s.startCacheCleanup()

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Tiny cache for static assets
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/months", s.withSecurityHeaders(s.handleListMonths))
	mux.HandleFunc("POST /api/months", s.withSecurityHeaders(s.handleCreateMonth))
	mux.HandleFunc("GET /api/months/{monthKey}", s.withSecurityHeaders(s.handleGetMonth))
	mux.HandleFunc("DELETE /api/months/{monthKey}", s.withSecurityHeaders(s.handleDeleteMonth))
	mux.HandleFunc("PUT /api/months/{monthKey}/fixed/{field}", s.withSecurityHeaders(s.handleSetFixedCost))
	mux.HandleFunc("POST /api/months/{monthKey}/costs", s.withSecurityHeaders(s.handleAddCost))
	mux.HandleFunc("PUT /api/months/{monthKey}/costs/{position}", s.withSecurityHeaders(s.handleEditCost))
	mux.HandleFunc("DELETE /api/months/{monthKey}/costs/{position}", s.withSecurityHeaders(s.handleDeleteCost))
	mux.HandleFunc("POST /api/months/{monthKey}/payments", s.withSecurityHeaders(s.handleAddPayment))
	mux.HandleFunc("POST /api/cli", s.withSecurityHeaders(s.handleConsole))

	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)

		// Generate request ID for tracing
		requestID := uuid.NewString()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutations only; reads are cheap and cached.
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Create a custom response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// startCacheCleanup runs periodic cleanup for both caches
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			summariesCleaned := s.summaryCache.CleanExpired()
			listingsCleaned := s.listingCache.CleanExpired()
			if summariesCleaned > 0 || listingsCleaned > 0 {
				slog.Debug("Cache cleanup completed",
					"summary_entries_removed", summariesCleaned,
					"listing_entries_removed", listingsCleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}

		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	totals, err := s.listMonthsCached(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Month listing error", "error", err)
	}
	type monthRow struct {
		Key   string
		Total string
	}
	data := struct {
		Months []monthRow
	}{}
	for _, t := range totals {
		data.Months = append(data.Months, monthRow{Key: t.MonthKey, Total: core.FormatAmount(t.TotalDue)})
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
