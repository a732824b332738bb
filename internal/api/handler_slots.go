package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"consult-booking-backend/internal/booking"
	"consult-booking-backend/internal/store"
)

// GetAvailableSlots handles GET /api/available-slots.
func (h *Handler) GetAvailableSlots(c *gin.Context) {
	availability, err := h.bookings.AvailableDatesWithin(c.Request.Context(), h.booking.HorizonDays, h.booking.MaxDates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// ListTimeslots handles GET /api/admin/timeslots.
func (h *Handler) ListTimeslots(c *gin.Context) {
	q := queryParser{c: c}
	filter := store.SlotFilter{
		From:  c.Query("startDate"),
		To:    c.Query("endDate"),
		Page:  q.int("page", 1, 1, 0),
		Limit: q.int("limit", 50, 1, 500),
	}
	if err := q.err(); err != nil {
		h.respondError(c, err)
		return
	}

	page, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"timeSlots": page.Slots,
		"stats":     page.Stats,
		"pagination": gin.H{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": page.Total,
			"pages": pages(page.Total, filter.Limit),
		},
	})
}

type generateRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// GenerateTimeslots handles POST /api/admin/timeslots/generate.
func (h *Handler) GenerateTimeslots(c *gin.Context) {
	var req generateRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	created, err := h.bookings.Generate(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// CreateTimeslot handles POST /api/admin/timeslots.
func (h *Handler) CreateTimeslot(c *gin.Context) {
	var req booking.CreateSlotInput
	if !h.bindJSON(c, &req, nil) {
		return
	}

	slot, err := h.bookings.CreateSlot(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

type updateSlotRequest struct {
	IsAvailable *bool  `json:"isAvailable" binding:"required"`
	Reason      string `json:"reason" binding:"max=255"`
}

// UpdateTimeslot handles PATCH /api/admin/timeslots/:id.
func (h *Handler) UpdateTimeslot(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req updateSlotRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	slot, err := h.bookings.SetAvailability(c.Request.Context(), id, *req.IsAvailable, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteTimeslot handles DELETE /api/admin/timeslots/:id.
func (h *Handler) DeleteTimeslot(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.bookings.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pages(total int64, limit int) int64 {
	if limit <= 0 {
		return 1
	}
	return (total + int64(limit) - 1) / int64(limit)
}
