// Command widgetapi serves the live-analytics dashboard widget.
//
// GET /analytics fetches today's totals and the realtime active users of one
// GA4 property and returns them as a single JSON summary. GET /health is a
// liveness probe. Prometheus metrics are served on a separate port.
//
// Usage:
//
//	GOOGLE_SERVICE_ACCOUNT="$(cat key.json)" go run ./cmd/widgetapi [-config configs/widget.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/internal/analytics/credentials"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/internal/analytics/ga4"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/internal/api/router"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults only when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting widget api", "port", cfg.Server.Port, "property_id", cfg.Analytics.PropertyID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	reporter := newReporter(cfg.Analytics)
	service := analytics.NewService(reporter, cfg.Analytics.PropertyID, m)

	handler := router.New(analytics.NewHandler(service), router.Options{
		CORS:           cfg.CORS,
		Metrics:        m,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("widget api listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("widget api stopped")
}

// newReporter builds the GA4 client once for the life of the process. Bad
// credentials do not stop the server: /analytics answers with the
// configuration error until the deployment is fixed.
func newReporter(cfg config.AnalyticsConfig) analytics.Reporter {
	creds, err := credentials.Resolve(cfg.Credentials)
	if err != nil {
		slog.Error("analytics credentials unusable", "env", cfg.CredentialsEnv, "error", err)
		return ga4.Unavailable(err)
	}
	// The token source outlives any single request, so it gets a
	// background context rather than the signal context.
	httpClient, err := creds.HTTPClient(context.Background(), cfg.Scope)
	if err != nil {
		slog.Error("building analytics http client", "error", err)
		return ga4.Unavailable(err)
	}
	slog.Info("analytics credentials loaded", "client_email", creds.ClientEmail)
	return ga4.New(httpClient, cfg.BaseURL)
}
