// Package ga4 adapts the Google Analytics 4 Data API (v1beta REST) to the
// two reads the widget needs: realtime active users by country and city, and
// today's sessions and page views.
package ga4

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/internal/analytics"
	apperrors "github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/logger"
)

const (
	DefaultBaseURL = "https://analyticsdata.googleapis.com/v1beta"
	ReadOnlyScope  = "https://www.googleapis.com/auth/analytics.readonly"

	maxResponseBytes = 10 << 20
)

// Client calls the Data API with an already-authenticated HTTP client. It is
// stateless and safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// New creates a Client. An empty baseURL means DefaultBaseURL.
func New(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.WithComponent("ga4-client"),
	}
}

// FetchRealtimeActivity returns active users broken down by country and city,
// in provider order. Only the first page of rows is read.
func (c *Client) FetchRealtimeActivity(ctx context.Context, propertyID string) ([]analytics.RealtimeRow, error) {
	resp, err := c.RunRealtimeReport(ctx, propertyID, ReportRequest{
		Dimensions: []Dimension{{Name: "country"}, {Name: "city"}},
		Metrics:    []Metric{{Name: "activeUsers"}},
	})
	if err != nil {
		return nil, err
	}
	rows := make([]analytics.RealtimeRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, analytics.RealtimeRow{
			Country:     r.dimension(0),
			City:        r.dimension(1),
			ActiveUsers: r.metric(0),
		})
	}
	return rows, nil
}

// FetchTodayTotals returns sessions and screen page views for the date range
// [today, today]; "today" is resolved by the provider in the property's
// timezone.
func (c *Client) FetchTodayTotals(ctx context.Context, propertyID string) ([]analytics.DailyRow, error) {
	resp, err := c.RunReport(ctx, propertyID, ReportRequest{
		DateRanges: []DateRange{{StartDate: "today", EndDate: "today"}},
		Metrics:    []Metric{{Name: "sessions"}, {Name: "screenPageViews"}},
	})
	if err != nil {
		return nil, err
	}
	rows := make([]analytics.DailyRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, analytics.DailyRow{
			Sessions:  r.metric(0),
			PageViews: r.metric(1),
		})
	}
	return rows, nil
}

// RunRealtimeReport calls properties/{id}:runRealtimeReport.
func (c *Client) RunRealtimeReport(ctx context.Context, propertyID string, req ReportRequest) (*ReportResponse, error) {
	return c.call(ctx, propertyID, "runRealtimeReport", req)
}

// RunReport calls properties/{id}:runReport.
func (c *Client) RunReport(ctx context.Context, propertyID string, req ReportRequest) (*ReportResponse, error) {
	return c.call(ctx, propertyID, "runReport", req)
}

func (c *Client) call(ctx context.Context, propertyID, method string, req ReportRequest) (*ReportResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", method, err)
	}
	url := fmt.Sprintf("%s/properties/%s:%s", c.baseURL, propertyID, method)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.Provider(err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.Provider(fmt.Sprintf("reading %s response: %v", method, err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := providerMessage(resp.StatusCode, data)
		c.logger.Warn("report request rejected",
			"method", method,
			"property_id", propertyID,
			"status", resp.StatusCode,
			"message", msg,
		)
		return nil, apperrors.Provider(msg)
	}

	var out ReportResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, apperrors.Provider(fmt.Sprintf("decoding %s response: %v", method, err))
	}
	c.logger.Debug("report fetched", "method", method, "rows", len(out.Rows), "row_count", out.RowCount)
	return &out, nil
}

// providerMessage prefers the message from Google's error envelope and falls
// back to the status line plus a trimmed body.
func providerMessage(status int, body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return env.Error.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		return fmt.Sprintf("analytics provider returned %d %s", status, http.StatusText(status))
	}
	return fmt.Sprintf("analytics provider returned %d: %s", status, text)
}

// Unavailable returns a reporter whose every call fails with err. It stands
// in for the real client when credentials cannot be resolved at startup, so
// the process still serves /health and reports the problem on /analytics.
func Unavailable(err error) analytics.Reporter {
	return unavailable{err: err}
}

type unavailable struct {
	err error
}

func (u unavailable) FetchRealtimeActivity(context.Context, string) ([]analytics.RealtimeRow, error) {
	return nil, u.err
}

func (u unavailable) FetchTodayTotals(context.Context, string) ([]analytics.DailyRow, error) {
	return nil, u.err
}
