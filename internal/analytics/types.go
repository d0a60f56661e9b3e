package analytics

import "context"

// StatusSuccess is the status value of every successful Summary.
const StatusSuccess = "success"

// MaxRecentActivity caps Summary.RecentActivity.
const MaxRecentActivity = 5

// RealtimeRow is one (country, city, activeUsers) observation from the
// realtime report. Values are kept exactly as the provider returned them.
type RealtimeRow struct {
	Country     string
	City        string
	ActiveUsers string
}

// DailyRow is one (sessions, pageViews) observation for today.
type DailyRow struct {
	Sessions  string
	PageViews string
}

// ActivitySample is a display entry derived from a realtime row. Time is a
// synthetic placeholder in [1, 10], not a measured duration or timestamp.
type ActivitySample struct {
	Location string `json:"location"`
	Time     int    `json:"time"`
}

// Summary is the widget payload served by GET /analytics.
type Summary struct {
	LiveVisitors   int64            `json:"liveVisitors"`
	TodayVisits    int64            `json:"todayVisits"`
	PageViews      int64            `json:"pageViews"`
	RecentActivity []ActivitySample `json:"recentActivity"`
	LastUpdated    string           `json:"lastUpdated"`
	Status         string           `json:"status"`
}

// Reporter is the analytics provider as seen by the service: the two reads
// the widget needs, nothing more.
type Reporter interface {
	FetchRealtimeActivity(ctx context.Context, propertyID string) ([]RealtimeRow, error)
	FetchTodayTotals(ctx context.Context, propertyID string) ([]DailyRow, error)
}
