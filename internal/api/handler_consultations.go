package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/leads"
	"consult-booking-backend/internal/store"
)

// Catalog decoders report their own field names; the wizard payload uses
// different ones for some of them.
var submitAliases = map[string]string{
	"time": "consultationTime",
}

// CreateConsultation handles POST /api/consultations.
func (h *Handler) CreateConsultation(c *gin.Context) {
	var req leads.SubmitInput
	if !h.bindJSON(c, &req, submitAliases) {
		return
	}

	lead, err := h.leads.Submit(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// ListConsultations handles GET /api/admin/consultations.
func (h *Handler) ListConsultations(c *gin.Context) {
	filter, err := h.leadFilter(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	page, err := h.leads.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"consultations": page.Leads,
		"stats":         page.Stats,
		"pagination": gin.H{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": page.Total,
			"pages": pages(page.Total, filter.Limit),
		},
	})
}

func (h *Handler) leadFilter(c *gin.Context) (store.LeadFilter, error) {
	q := queryParser{c: c}
	f := store.LeadFilter{
		Status:      c.Query("status"),
		Priority:    c.Query("priority"),
		ProjectType: c.Query("projectType"),
		Budget:      c.Query("budget"),
		Source:      c.Query("source"),
		Search:      c.Query("search"),
		SortBy:      c.DefaultQuery("sortBy", "createdAt"),
		Page:        q.int("page", 1, 1, 0),
		Limit:       q.int("limit", defaultPageSize, 1, maxPageSize),
	}

	switch c.DefaultQuery("sortOrder", "desc") {
	case "desc":
		f.SortDesc = true
	case "asc":
	default:
		q.fields = append(q.fields, apperr.FieldError{Field: "sortOrder", Message: "must be asc or desc"})
	}

	loc := h.booking.Location
	if loc == nil {
		loc = time.UTC
	}
	if raw := c.Query("dateFrom"); raw != "" {
		if day, ok := h.parseDay(&q, "dateFrom", raw, loc); ok {
			f.CreatedFrom = day
		}
	}
	if raw := c.Query("dateTo"); raw != "" {
		if day, ok := h.parseDay(&q, "dateTo", raw, loc); ok {
			f.CreatedTo = day.AddDate(0, 0, 1)
		}
	}
	return f, q.err()
}

// parseDay reads a YYYY-MM-DD parameter as midnight in loc, expressed in UTC.
func (h *Handler) parseDay(q *queryParser, key, raw string, loc *time.Location) (time.Time, bool) {
	day, err := catalog.ParseDate(raw)
	if err != nil {
		q.fields = append(q.fields, apperr.FieldError{Field: key, Message: "must be a date formatted YYYY-MM-DD"})
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc).UTC(), true
}

// GetConsultation handles GET /api/admin/consultations/:id.
func (h *Handler) GetConsultation(c *gin.Context) {
	lead, err := h.leads.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// UpdateConsultation handles PATCH /api/admin/consultations/:id.
func (h *Handler) UpdateConsultation(c *gin.Context) {
	var req leads.UpdateInput
	if !h.bindJSON(c, &req, nil) {
		return
	}

	lead, err := h.leads.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// DeleteConsultation handles DELETE /api/admin/consultations/:id.
func (h *Handler) DeleteConsultation(c *gin.Context) {
	if err := h.leads.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStats handles GET /api/admin/stats.
func (h *Handler) GetStats(c *gin.Context) {
	dashboard, err := h.leads.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
