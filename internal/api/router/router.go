// Package router wires the widget routes and applies the middleware chain
// (RequestID → CORS → Metrics → Timeout).
package router

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/internal/analytics"
	apimw "github.com/Adithya-Monish-Kumar-K/live-analytics-widget/internal/api/middleware"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/logger"
	pkgmw "github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/metrics"
)

const (
	PathAnalytics = "/analytics"
	PathHealth    = "/health"
)

// Options configures the middleware chain. Metrics may be nil and a zero
// RequestTimeout disables the timeout.
type Options struct {
	CORS           config.CORSConfig
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	Now            func() time.Time
}

// RoutingError is the body of 404 and 405 responses.
type RoutingError struct {
	Error string `json:"error"`
}

// New builds the HTTP handler.
//
// Route table:
//
//	OPTIONS  *            → 200, empty body (CORS preflight)
//	GET      /health      → {status, timestamp}
//	GET      /analytics   → Summary, or 500 error envelope
//	other    /health, /analytics → 405
//	*        anything else → 404
func New(h *analytics.Handler, opts Options) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(PathAnalytics, onlyGet(http.HandlerFunc(h.Summary)))
	mux.Handle(PathHealth, onlyGet(health.Handler(opts.Now)))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeRoutingError(w, r, apperrors.ErrNotFound, "Not found")
	})

	// Applied inside-out:
	// request → RequestID → CORS → Metrics → Timeout → mux
	var chain http.Handler = mux
	chain = pkgmw.Timeout(opts.RequestTimeout)(chain)
	if opts.Metrics != nil {
		chain = pkgmw.Metrics(opts.Metrics, PathAnalytics, PathHealth)(chain)
	}
	chain = apimw.CORS(opts.CORS)(chain)
	chain = pkgmw.RequestID(chain)

	return chain
}

func onlyGet(next http.Handler) http.Handler {
	allow := strings.Join([]string{http.MethodGet, http.MethodOptions}, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", allow)
			writeRoutingError(w, r, apperrors.ErrMethodNotAllowed, "Method not allowed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeRoutingError(w http.ResponseWriter, r *http.Request, sentinel error, message string) {
	status := apperrors.HTTPStatusCode(sentinel)
	log := logger.FromContext(r.Context()).With("component", "router")
	log.Info("request rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(RoutingError{Error: message}); err != nil {
		log.Error("failed to write routing response", "error", err)
	}
}
