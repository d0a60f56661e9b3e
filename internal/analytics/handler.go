package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/logger"
)

// FetchFailedMessage is the fixed "error" field of a failed /analytics call.
const FetchFailedMessage = "Failed to fetch analytics data"

// Summarizer produces the widget Summary. *Service implements it.
type Summarizer interface {
	Summary(ctx context.Context) (Summary, error)
}

// ErrorResponse is the envelope for configuration and provider failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type Handler struct {
	summarizer Summarizer
	logger     *slog.Logger
}

func NewHandler(summarizer Summarizer) *Handler {
	return &Handler{
		summarizer: summarizer,
		logger:     logger.WithComponent("analytics-handler"),
	}
}

// Summary serves GET /analytics.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summarizer.Summary(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("analytics fetch failed",
			"component", "analytics-handler",
			"configuration", errors.Is(err, apperrors.ErrConfiguration),
			"error", err,
		)
		h.writeJSON(w, apperrors.HTTPStatusCode(err), ErrorResponse{
			Error:   FetchFailedMessage,
			Message: apperrors.MessageOf(err),
			Status:  "error",
		})
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to write analytics response", "error", err)
	}
}
