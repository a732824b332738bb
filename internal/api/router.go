package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"consult-booking-backend/config"
	"consult-booking-backend/internal/mw"
	"consult-booking-backend/internal/validate"
)

// NewRouter creates and configures a new Gin router. responses caches the
// availability endpoint; the owner flushes it when slots change.
func NewRouter(cfg *config.Config, handler *Handler, responses *mw.ResponseCache) (*gin.Engine, error) {
	validate.UseJSONNamesInGin()

	r := gin.Default()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(mw.Metrics())

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	caching := responses.Handler()

	r.GET("/healthz", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/available-slots", caching, handler.GetAvailableSlots)
		api.POST("/consultations", handler.CreateConsultation)
		api.POST("/contact", handler.CreateContact)
		api.POST("/analytics", handler.RecordEvent)
		api.POST("/admin/login", handler.Login)
	}

	admin := api.Group("/admin")
	admin.Use(mw.RequireAdmin([]byte(cfg.Admin.JWTSecret)))
	{
		admin.GET("/consultations", handler.ListConsultations)
		admin.GET("/consultations/:id", handler.GetConsultation)
		admin.PATCH("/consultations/:id", handler.UpdateConsultation)
		admin.DELETE("/consultations/:id", handler.DeleteConsultation)
		admin.GET("/stats", handler.GetStats)

		admin.GET("/contacts", handler.ListContacts)
		admin.PATCH("/contacts/:id", handler.UpdateContact)

		admin.GET("/timeslots", handler.ListTimeslots)
		admin.POST("/timeslots/generate", handler.GenerateTimeslots)
		admin.POST("/timeslots", handler.CreateTimeslot)
		admin.PATCH("/timeslots/:id", handler.UpdateTimeslot)
		admin.DELETE("/timeslots/:id", handler.DeleteTimeslot)

		admin.GET("/push-subscriptions", handler.GetSubscription)
		admin.GET("/push-subscriptions/config", handler.GetPushConfig)
		admin.PUT("/push-subscriptions", handler.PutSubscription)
		admin.DELETE("/push-subscriptions", handler.DeleteSubscription)

		admin.GET("/analytics", handler.GetAnalytics)
	}

	return r, nil
}
