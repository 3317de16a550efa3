package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/interfaces"
)

// AnalyticsHandler serves per-user study progress reports
type AnalyticsHandler struct {
	analytics interfaces.AnalyticsService
	logger    arbor.ILogger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics interfaces.AnalyticsService, logger arbor.ILogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// UserReportHandler returns the aggregate study report for /api/analytics/{userID}
func (h *AnalyticsHandler) UserReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	userID := PathSuffix(r, "/api/analytics/")
	if userID == "" {
		WriteError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	report, err := h.analytics.UserReport(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}
