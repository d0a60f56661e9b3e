package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/tracing"
)

// Report names used in metrics, spans and error messages.
const (
	ReportRealtime = "realtime"
	ReportToday    = "today"
)

// Service fetches both reports for one property and builds the Summary.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	reporter   Reporter
	propertyID string
	builder    *Builder
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService creates a Service. m may be nil.
func NewService(reporter Reporter, propertyID string, m *metrics.Metrics) *Service {
	return &Service{
		reporter:   reporter,
		propertyID: propertyID,
		builder:    NewBuilder(),
		metrics:    m,
		logger:     logger.WithComponent("analytics-service"),
	}
}

// WithBuilder replaces the Summary builder, mainly to pin the clock.
func (s *Service) WithBuilder(b *Builder) *Service {
	s.builder = b
	return s
}

// Summary runs the realtime and today reports concurrently. If either
// fails the whole call fails; there is no partial result.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.summary", logger.RequestID(ctx))
	defer span.Log(s.logger)

	var (
		realtime []RealtimeRow
		daily    []DailyRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.observe(gctx, ReportRealtime, func(ctx context.Context) (int, error) {
			r, err := s.reporter.FetchRealtimeActivity(ctx, s.propertyID)
			realtime = r
			return len(r), err
		})
	})
	g.Go(func() error {
		return s.observe(gctx, ReportToday, func(ctx context.Context) (int, error) {
			d, err := s.reporter.FetchTodayTotals(ctx, s.propertyID)
			daily = d
			return len(d), err
		})
	})
	if err := g.Wait(); err != nil {
		span.End(err)
		return Summary{}, err
	}

	summary := s.builder.Build(realtime, daily)
	span.SetAttr("live_visitors", summary.LiveVisitors)
	span.End(nil)

	if s.metrics != nil {
		s.metrics.LiveVisitors.Set(float64(summary.LiveVisitors))
		s.metrics.TodayVisits.Set(float64(summary.TodayVisits))
	}
	return summary, nil
}

func (s *Service) observe(ctx context.Context, report string, fetch func(context.Context) (int, error)) error {
	ctx, span := tracing.StartChildSpan(ctx, "analytics."+report)
	start := time.Now()
	rows, err := fetch(ctx)
	s.metrics.ObserveProvider(report, time.Since(start).Seconds(), err)
	span.SetAttr("rows", rows)
	if err != nil {
		err = classify(report, err)
	}
	span.End(err)
	return err
}

// classify keeps configuration and provider errors as they are and turns
// anything else into a provider error, so callers see one of the two.
func classify(report string, err error) error {
	if errors.Is(err, apperrors.ErrConfiguration) || errors.Is(err, apperrors.ErrProvider) {
		return fmt.Errorf("%s report: %w", report, err)
	}
	return fmt.Errorf("%s report: %w", report, apperrors.Provider(err.Error()))
}
