// Package health serves the liveness endpoint. It reports that the process
// is up; it deliberately does not call the analytics provider.
package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/timeutil"
)

// StatusOK is the status value of a healthy Report.
const StatusOK = "OK"

// Report is the /health response body.
type Report struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Handler returns the /health handler. now defaults to time.Now.
func Handler(now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	log := logger.WithComponent("health")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(Report{
			Status:    StatusOK,
			Timestamp: timeutil.Format(now()),
		}); err != nil {
			log.Error("failed to write health response", "error", err)
		}
	}
}
