package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc", time.Date(2026, 10, 16, 6, 0, 0, 0, time.UTC), "2026-10-16T06:00:00.000Z"},
		{"offset converted", time.Date(2026, 10, 16, 8, 0, 0, 5_000_000, time.FixedZone("CEST", 2*3600)), "2026-10-16T06:00:00.005Z"},
		{"sub-millisecond truncated", time.Date(2026, 1, 2, 3, 4, 5, 999_999, time.UTC), "2026-01-02T03:04:05.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormatIsParseable(t *testing.T) {
	now := time.Now()
	parsed, err := time.Parse(time.RFC3339Nano, Format(now))
	require.NoError(t, err)
	assert.WithinDuration(t, now, parsed, time.Millisecond)
}
