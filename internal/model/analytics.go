package model

import (
	"time"

	"consult-booking-backend/internal/catalog"
)

// AnalyticsEvent is a single marketing-site interaction.
type AnalyticsEvent struct {
	ID        int64             `gorm:"primaryKey" json:"id"`
	Type      catalog.EventType `gorm:"size:32;not null;index" json:"type"`
	Page      string            `gorm:"size:255" json:"page,omitempty"`
	CTAType   string            `gorm:"size:64" json:"ctaType,omitempty"`
	ProjectID string            `gorm:"size:64" json:"projectId,omitempty"`
	UserAgent string            `gorm:"size:512" json:"userAgent,omitempty"`
	IP        string            `gorm:"size:64" json:"ip,omitempty"`
	CreatedAt time.Time         `gorm:"not null;index" json:"createdAt"`
}
