package model

import (
	"time"

	"consult-booking-backend/internal/catalog"
)

// Lead is a consultation request submitted through the booking wizard.
type Lead struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`
	Email     string `gorm:"size:254;not null;index" json:"email"`
	Phone     string `gorm:"size:32;not null" json:"phone"`
	Company   string `gorm:"size:200" json:"company,omitempty"`

	ProjectType        catalog.ProjectType `gorm:"size:32;not null" json:"projectType"`
	ProjectName        string              `gorm:"size:200" json:"projectName,omitempty"`
	ProjectDescription string              `gorm:"type:text" json:"projectDescription,omitempty"`
	Budget             catalog.Budget      `gorm:"size:16;not null" json:"budget"`
	Timeline           catalog.Timeline    `gorm:"size:16;not null" json:"timeline"`

	ConsultationDate string            `gorm:"size:10;not null;index" json:"consultationDate"`
	ConsultationTime catalog.TimeOfDay `gorm:"size:5;not null" json:"consultationTime"`
	Modality         catalog.Modality  `gorm:"size:32;not null" json:"consultationType"`

	Source        string `gorm:"size:64;not null" json:"source"`
	SourceSection string `gorm:"size:64" json:"sourceSection,omitempty"`

	Status                catalog.Status   `gorm:"size:16;not null;index" json:"status"`
	Priority              catalog.Priority `gorm:"size:16;not null;index" json:"priority"`
	QualificationScore    int              `gorm:"not null" json:"qualificationScore"`
	ConversionProbability int              `gorm:"not null" json:"conversionProbability"`
	AdminNotes            string           `gorm:"type:text" json:"adminNotes,omitempty"`

	CreatedAt   time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updatedAt"`
	ContactedAt *time.Time `json:"contactedAt,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

// FullName joins first and last name.
func (l Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}
