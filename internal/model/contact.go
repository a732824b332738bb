package model

import (
	"time"

	"consult-booking-backend/internal/catalog"
)

// Contact is a callback request left through the contact form. Unlike a
// lead it holds no slot: the preferred day and time are only a wish.
type Contact struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name    string `gorm:"size:200;not null" json:"name"`
	Email   string `gorm:"size:254;not null;index" json:"email"`
	Phone   string `gorm:"size:32;not null" json:"phone"`
	Company string `gorm:"size:200" json:"company,omitempty"`

	ProjectType catalog.ProjectType `gorm:"size:32;not null" json:"projectType"`
	Budget      catalog.Budget      `gorm:"size:16" json:"budget,omitempty"`
	Message     string              `gorm:"type:text" json:"message,omitempty"`

	PreferredDate     string            `gorm:"size:10;not null" json:"preferredDate"`
	PreferredCallTime catalog.TimeOfDay `gorm:"size:5;not null" json:"preferredCallTime"`

	Status    catalog.ContactStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt time.Time             `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time             `gorm:"not null" json:"updatedAt"`
}
