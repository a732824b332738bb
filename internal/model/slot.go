package model

import (
	"time"

	"consult-booking-backend/internal/catalog"
)

// Slot is a bookable (date, time of day) unit.
//
// A booked slot is always available and carries the ID of the lead that
// holds it. An unavailable slot is never booked.
type Slot struct {
	ID          int64             `gorm:"primaryKey" json:"id"`
	Date        string            `gorm:"size:10;not null;uniqueIndex:idx_slot_date_time" json:"date"`
	TimeOfDay   catalog.TimeOfDay `gorm:"size:5;not null;uniqueIndex:idx_slot_date_time" json:"time"`
	IsAvailable bool              `gorm:"not null" json:"isAvailable"`
	IsBooked    bool              `gorm:"not null;index" json:"isBooked"`
	LeadRef     *string           `gorm:"size:36;index" json:"leadRef"`
	BlockReason *string           `gorm:"size:255" json:"reason"`
	CreatedAt   time.Time         `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"not null" json:"updatedAt"`
}

// Open reports whether the slot can be booked.
func (s Slot) Open() bool {
	return s.IsAvailable && !s.IsBooked
}
