// Package leads handles consultation requests: submission with an atomic
// slot claim, scoring, the follow-up status workflow and admin edits.
package leads

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/booking"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/metrics"
	"consult-booking-backend/internal/model"
	"consult-booking-backend/internal/scoring"
	"consult-booking-backend/internal/store"
	"consult-booking-backend/internal/validate"
)

// Notifier is told about every committed lead. LeadCreated must not block.
type Notifier interface {
	LeadCreated(lead model.Lead)
}

// Service manages leads.
type Service struct {
	store    store.Store
	slots    *booking.Service
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires a lead service. slots is told when a lead operation
// changes slot state.
func NewService(st store.Store, slots *booking.Service, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		store:    st,
		slots:    slots,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// SubmitInput is the booking wizard payload.
type SubmitInput struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Phone     string `json:"phone" binding:"required,max=32"`
	Company   string `json:"company" binding:"max=200"`

	ProjectType        catalog.ProjectType `json:"projectType" binding:"required"`
	ProjectName        string              `json:"projectName" binding:"max=200"`
	ProjectDescription string              `json:"projectDescription" binding:"max=5000"`
	Budget             catalog.Budget      `json:"budget" binding:"required"`
	Timeline           catalog.Timeline    `json:"timeline" binding:"required"`

	ConsultationDate string            `json:"consultationDate" binding:"required"`
	ConsultationTime catalog.TimeOfDay `json:"consultationTime" binding:"required"`
	Modality         catalog.Modality  `json:"consultationType" binding:"required"`

	Source        string `json:"source" binding:"max=64"`
	SourceSection string `json:"sourceSection" binding:"max=64"`
}

// Submit validates, scores and persists a lead while claiming its slot in
// the same transaction. If the slot cannot be claimed nothing is stored and
// SlotNotAvailable is returned. The notifier runs after commit.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*model.Lead, error) {
	lead, err := s.newLead(in)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.CreateLead(ctx, lead); err != nil {
			return err
		}
		_, err := tx.ClaimSlotAt(ctx, lead.ConsultationDate, lead.ConsultationTime, lead.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrSlotUnavailable) {
			metrics.RecordBooking(metrics.OutcomeUnavailable)
			s.log.Info("slot claim refused", "date", lead.ConsultationDate, "time", lead.ConsultationTime)
		} else {
			metrics.RecordBooking(metrics.OutcomeError)
			s.log.Error("lead submission failed", "error", err)
		}
		return nil, booking.FromStore(err)
	}

	metrics.RecordBooking(metrics.OutcomeBooked)
	metrics.RecordLeadSubmitted(string(lead.ProjectType))
	s.log.Info("lead submitted",
		"lead_id", lead.ID,
		"date", lead.ConsultationDate,
		"time", lead.ConsultationTime,
		"qualification_score", lead.QualificationScore,
	)
	s.slots.NotifyChanged()
	s.dispatch(*lead)
	return lead, nil
}

func (s *Service) newLead(in SubmitInput) (*model.Lead, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Company = strings.TrimSpace(in.Company)
	in.ProjectName = strings.TrimSpace(in.ProjectName)
	in.ProjectDescription = strings.TrimSpace(in.ProjectDescription)

	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var fields []apperr.FieldError
	invalid := func(field, msg string) {
		fields = append(fields, apperr.FieldError{Field: field, Message: msg})
	}
	if !in.ProjectType.Valid() {
		invalid("projectType", "unrecognized value")
	}
	if !in.Budget.Valid() {
		invalid("budget", "unrecognized value")
	}
	if !in.Timeline.Valid() {
		invalid("timeline", "unrecognized value")
	}
	if !in.Modality.Valid() {
		invalid("consultationType", "unrecognized value")
	}
	if !in.ConsultationTime.Valid() {
		invalid("consultationTime", "is not a bookable time")
	}
	if _, err := catalog.ParseDate(in.ConsultationDate); err != nil {
		invalid("consultationDate", "must be a date formatted YYYY-MM-DD")
	} else if first := s.slots.FirstBookableDate(); in.ConsultationDate < first {
		invalid("consultationDate", "must be on or after "+first)
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		invalid("phone", "must be a valid phone number")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = "website"
	}

	lead := &model.Lead{
		ID:                 s.newID(),
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Email:              in.Email,
		Phone:              phone,
		Company:            in.Company,
		ProjectType:        in.ProjectType,
		ProjectName:        in.ProjectName,
		ProjectDescription: in.ProjectDescription,
		Budget:             in.Budget,
		Timeline:           in.Timeline,
		ConsultationDate:   in.ConsultationDate,
		ConsultationTime:   in.ConsultationTime,
		Modality:           in.Modality,
		Source:             source,
		SourceSection:      strings.TrimSpace(in.SourceSection),
		Status:             catalog.StatusPending,
		Priority:           catalog.PriorityMedium,
	}
	rescore(lead)
	return lead, nil
}

// dispatch hands the committed lead to the notifier. Nothing it does can
// fail the submission.
func (s *Service) dispatch(lead model.Lead) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("notifier panicked", "lead_id", lead.ID, "panic", r)
		}
	}()
	s.notifier.LeadCreated(lead)
}

// rescore recomputes both scores from the lead's current fields.
func rescore(lead *model.Lead) {
	res := scoring.Score(scoring.Input{
		Budget:             lead.Budget,
		Timeline:           lead.Timeline,
		ProjectType:        lead.ProjectType,
		Modality:           lead.Modality,
		Company:            lead.Company,
		ProjectName:        lead.ProjectName,
		ProjectDescription: lead.ProjectDescription,
	})
	lead.QualificationScore = res.QualificationScore
	lead.ConversionProbability = res.ConversionProbability
}
