package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"consult-booking-backend/internal/booking"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/model"
)

type eventRequest struct {
	Type      catalog.EventType `json:"type" binding:"required"`
	Page      string            `json:"page" binding:"max=255"`
	CTAType   string            `json:"ctaType" binding:"max=64"`
	ProjectID string            `json:"projectId" binding:"max=64"`
}

// RecordEvent handles POST /api/analytics.
func (h *Handler) RecordEvent(c *gin.Context) {
	var req eventRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	userAgent := c.Request.UserAgent()
	if len(userAgent) > 512 {
		userAgent = userAgent[:512]
	}
	event := model.AnalyticsEvent{
		Type:      req.Type,
		Page:      req.Page,
		CTAType:   req.CTAType,
		ProjectID: req.ProjectID,
		UserAgent: userAgent,
		IP:        c.ClientIP(),
	}
	if err := h.store.RecordEvent(c.Request.Context(), &event); err != nil {
		h.respondError(c, booking.FromStore(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAnalytics handles GET /api/admin/analytics.
func (h *Handler) GetAnalytics(c *gin.Context) {
	counts, err := h.store.CountEventsByType(c.Request.Context())
	if err != nil {
		h.respondError(c, booking.FromStore(err))
		return
	}

	byType := make(map[string]int64, len(catalog.EventTypes))
	var total int64
	for _, t := range catalog.EventTypes {
		byType[string(t)] = counts[t]
		total += counts[t]
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "byType": byType})
}
