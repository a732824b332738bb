package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/booking"
	"consult-booking-backend/internal/model"
)

// GetPushConfig tells the admin dashboard whether new-lead push alerts are
// available, which VAPID key to subscribe with and how many browsers are
// registered.
func (h *Handler) GetPushConfig(c *gin.Context) {
	subscriptions, err := h.store.ListPushSubscriptions(c.Request.Context())
	if err != nil {
		h.respondError(c, booking.FromStore(err))
		return
	}

	enabled := h.webpush != nil && h.webpush.VAPIDPublicKey != ""
	body := gin.H{
		"enabled":       enabled,
		"subscriptions": len(subscriptions),
	}
	if enabled {
		body["publicKey"] = h.webpush.VAPIDPublicKey
	}
	c.JSON(http.StatusOK, body)
}

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription registers the admin browser for new-lead push alerts,
// or refreshes its keys.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}
	if err := h.store.UpsertPushSubscription(c.Request.Context(), &subscription); err != nil {
		h.respondError(c, booking.FromStore(err))
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	if err := h.store.DeletePushSubscription(c.Request.Context(), req.Endpoint); err != nil {
		h.respondError(c, booking.FromStore(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// rawQueryParam returns key from the raw query string without URL
// decoding. Push endpoints are matched byte for byte.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription reports whether an endpoint is registered.
func (h *Handler) GetSubscription(c *gin.Context) {
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		h.respondError(c, apperr.Validation(apperr.FieldError{Field: "endpoint", Message: "is required"}))
		return
	}

	subscription, err := h.store.GetPushSubscription(c.Request.Context(), raw)
	if err != nil {
		h.respondError(c, booking.FromStore(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"endpoint":  subscription.Endpoint,
		"createdAt": subscription.CreatedAt,
	})
}
