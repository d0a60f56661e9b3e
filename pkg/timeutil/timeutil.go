// Package timeutil holds the timestamp format shared by every JSON payload
// the service writes.
package timeutil

import "time"

// Layout is ISO-8601 in UTC with millisecond precision.
const Layout = "2006-01-02T15:04:05.000Z07:00"

// Format renders t in UTC using Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}
