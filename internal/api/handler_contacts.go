package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/contacts"
	"consult-booking-backend/internal/store"
)

var contactAliases = map[string]string{
	"time": "preferredCallTime",
}

// CreateContact handles POST /api/contact.
func (h *Handler) CreateContact(c *gin.Context) {
	var req contacts.SubmitInput
	if !h.bindJSON(c, &req, contactAliases) {
		return
	}

	contact, err := h.contacts.Submit(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// ListContacts handles GET /api/admin/contacts.
func (h *Handler) ListContacts(c *gin.Context) {
	q := queryParser{c: c}
	filter := store.ContactFilter{
		Status: c.Query("status"),
		Page:   q.int("page", 1, 1, 0),
		Limit:  q.int("limit", defaultPageSize, 1, maxPageSize),
	}
	if err := q.err(); err != nil {
		h.respondError(c, err)
		return
	}

	page, err := h.contacts.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"contacts": page.Contacts,
		"pagination": gin.H{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": page.Total,
			"pages": pages(page.Total, filter.Limit),
		},
	})
}

type updateContactRequest struct {
	Status catalog.ContactStatus `json:"status" binding:"required"`
}

// UpdateContact handles PATCH /api/admin/contacts/:id.
func (h *Handler) UpdateContact(c *gin.Context) {
	var req updateContactRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	contact, err := h.contacts.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}
