package ga4

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/internal/analytics"
	apperrors "github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/errors"
)

func newProvider(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.Client(), srv.URL+"/v1beta/")
}

func TestFetchRealtimeActivity(t *testing.T) {
	var got ReportRequest
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/properties/455753973:runRealtimeReport", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"dimensionHeaders": [{"name": "country"}, {"name": "city"}],
			"metricHeaders": [{"name": "activeUsers", "type": "TYPE_INTEGER"}],
			"rows": [
				{"dimensionValues": [{"value": "United States"}, {"value": "New York"}], "metricValues": [{"value": "3"}]},
				{"dimensionValues": [{"value": "Germany"}], "metricValues": [{}]}
			],
			"rowCount": 2
		}`)
	})

	rows, err := client.FetchRealtimeActivity(context.Background(), "455753973")
	require.NoError(t, err)

	assert.Equal(t, []Dimension{{Name: "country"}, {Name: "city"}}, got.Dimensions)
	assert.Equal(t, []Metric{{Name: "activeUsers"}}, got.Metrics)
	assert.Empty(t, got.DateRanges)
	assert.Equal(t, []analytics.RealtimeRow{
		{Country: "United States", City: "New York", ActiveUsers: "3"},
		{Country: "Germany", City: "", ActiveUsers: ""},
	}, rows)
}

func TestFetchTodayTotals(t *testing.T) {
	var got ReportRequest
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/properties/42:runReport", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"rows":[{"metricValues":[{"value":"10"},{"value":"25"}]}],"rowCount":1}`)
	})

	rows, err := client.FetchTodayTotals(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, []DateRange{{StartDate: "today", EndDate: "today"}}, got.DateRanges)
	assert.Equal(t, []Metric{{Name: "sessions"}, {Name: "screenPageViews"}}, got.Metrics)
	assert.Equal(t, []analytics.DailyRow{{Sessions: "10", PageViews: "25"}}, rows)
}

func TestFetchWithoutRows(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"rowCount":0}`)
	})

	realtime, err := client.FetchRealtimeActivity(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, realtime)

	daily, err := client.FetchTodayTotals(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, daily)
}

func TestProviderErrorEnvelope(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error":{"code":403,"message":"User does not have sufficient permissions for this property.","status":"PERMISSION_DENIED"}}`)
	})

	_, err := client.FetchRealtimeActivity(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProvider))
	assert.Equal(t, "User does not have sufficient permissions for this property.", apperrors.MessageOf(err))
}

func TestProviderErrorWithoutEnvelope(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchTodayTotals(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, "analytics provider returned 502 Bad Gateway", apperrors.MessageOf(err))
}

func TestProviderMalformedBody(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>`)
	})

	_, err := client.FetchTodayTotals(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProvider))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(srv.Client(), srv.URL)

	_, err := client.FetchRealtimeActivity(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProvider))
	assert.NotEmpty(t, apperrors.MessageOf(err))
}

func TestUnavailable(t *testing.T) {
	cfgErr := apperrors.Configuration("service account credentials have no client_email")
	r := Unavailable(cfgErr)

	_, err := r.FetchRealtimeActivity(context.Background(), "1")
	assert.Same(t, cfgErr, err)
	_, err = r.FetchTodayTotals(context.Background(), "1")
	assert.Same(t, cfgErr, err)
}
