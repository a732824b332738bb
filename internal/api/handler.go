package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"consult-booking-backend/config"
	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/booking"
	"consult-booking-backend/internal/contacts"
	"consult-booking-backend/internal/leads"
	"consult-booking-backend/internal/store"
	"consult-booking-backend/internal/validate"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	bookings *booking.Service
	leads    *leads.Service
	contacts *contacts.Service
	booking  config.BookingConfig
	admin    config.AdminConfig
	webpush  *webpush.Options
	log      *slog.Logger
	now      func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, s store.Store, bookings *booking.Service, leadSvc *leads.Service, contactSvc *contacts.Service, webpushOptions *webpush.Options, log *slog.Logger) *Handler {
	return &Handler{
		store:    s,
		bookings: bookings,
		leads:    leadSvc,
		contacts: contactSvc,
		booking:  cfg.Booking,
		admin:    cfg.Admin,
		webpush:  webpushOptions,
		log:      log,
		now:      time.Now,
	}
}

// respondError renders err in the API error shape. Internal causes are
// logged and replaced by a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal(err)
	}
	if ae.Kind == apperr.KindInternal {
		h.log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}

	body := gin.H{"error": ae.Message, "kind": ae.Kind.String()}
	if len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	if ae.Retryable() {
		body["retryable"] = true
	}
	c.AbortWithStatusJSON(ae.HTTPStatus(), body)
}

// bindJSON decodes the request body into dst, answering 400 on failure.
func (h *Handler) bindJSON(c *gin.Context, dst any, aliases map[string]string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, validate.FromBinding(err, aliases))
		return false
	}
	return true
}

// queryParser reads typed query parameters and collects every failure.
type queryParser struct {
	c      *gin.Context
	fields []apperr.FieldError
}

func (p *queryParser) int(key string, def, min, max int) int {
	raw := p.c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || (max > 0 && v > max) {
		msg := "must be an integer of at least " + strconv.Itoa(min)
		if max > 0 {
			msg += " and at most " + strconv.Itoa(max)
		}
		p.fields = append(p.fields, apperr.FieldError{Field: key, Message: msg})
		return def
	}
	return v
}

func (p *queryParser) err() error {
	if len(p.fields) > 0 {
		return apperr.Validation(p.fields...)
	}
	return nil
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(apperr.FieldError{Field: "id", Message: "must be a positive integer"})
	}
	return id, nil
}

// Health answers liveness checks.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
