package middleware

import (
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/config"
)

// CORS sets the configured cross-origin headers on every response, errors
// included, and answers preflight OPTIONS requests on any path with an empty
// 200.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origin := cfg.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
