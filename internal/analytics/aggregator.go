package analytics

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/timeutil"
)

const unknownLocation = "Unknown"

// Builder folds realtime and daily rows into a Summary. Now and Placeholder
// default to the wall clock and a uniform draw from [1, 10].
type Builder struct {
	Now         func() time.Time
	Placeholder func() int
}

// NewBuilder returns a Builder using the wall clock and math/rand.
func NewBuilder() *Builder {
	return &Builder{
		Now:         time.Now,
		Placeholder: func() int { return rand.IntN(10) + 1 },
	}
}

// Build never fails: empty inputs give zero totals and an empty activity
// list, and unparseable metrics count as 0.
func (b *Builder) Build(realtime []RealtimeRow, daily []DailyRow) Summary {
	summary := Summary{
		RecentActivity: make([]ActivitySample, 0, MaxRecentActivity),
		Status:         StatusSuccess,
	}

	for _, row := range realtime {
		active := ParseMetric(row.ActiveUsers)
		summary.LiveVisitors += active
		if len(summary.RecentActivity) < MaxRecentActivity && active > 0 {
			summary.RecentActivity = append(summary.RecentActivity, ActivitySample{
				Location: location(row.City, row.Country),
				Time:     b.placeholder(),
			})
		}
	}

	for _, row := range daily {
		summary.TodayVisits += ParseMetric(row.Sessions)
		summary.PageViews += ParseMetric(row.PageViews)
	}

	summary.LastUpdated = timeutil.Format(b.now())
	return summary
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) placeholder() int {
	if b.Placeholder == nil {
		return rand.IntN(10) + 1
	}
	return b.Placeholder()
}

func location(city, country string) string {
	if city == "" {
		city = unknownLocation
	}
	if country == "" {
		country = unknownLocation
	}
	return city + ", " + country
}

// ParseMetric reads the leading integer of a provider metric value, so
// "12", " 12", "12.7" and "12abc" are all 12. Anything without a leading
// integer, or out of int64 range, is 0.
func ParseMetric(value string) int64 {
	s := strings.TrimSpace(value)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
