package model

import "time"

// PushSubscription is a browser push endpoint registered from the admin
// dashboard. Every subscription is alerted when a new lead comes in.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}
