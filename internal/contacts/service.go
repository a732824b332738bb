// Package contacts handles callback requests from the contact form. They
// are stored and forwarded to the admin but never hold a slot.
package contacts

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/booking"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/metrics"
	"consult-booking-backend/internal/model"
	"consult-booking-backend/internal/store"
	"consult-booking-backend/internal/validate"
)

// Notifier is told about every stored contact request. It must not block.
type Notifier interface {
	ContactReceived(contact model.Contact)
}

// Service manages contact requests.
type Service struct {
	store    store.Store
	notifier Notifier
	log      *slog.Logger
	loc      *time.Location
	now      func() time.Time
	newID    func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a contact service. loc is the zone in which the
// preferred date must not lie in the past.
func NewService(st store.Store, notifier Notifier, loc *time.Location, log *slog.Logger, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		store:    st,
		notifier: notifier,
		log:      log,
		loc:      loc,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitInput is the contact form payload.
type SubmitInput struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email,max=254"`
	Phone   string `json:"phone" binding:"required,max=32"`
	Company string `json:"company" binding:"max=200"`

	ProjectType catalog.ProjectType `json:"projectType" binding:"required"`
	Budget      *catalog.Budget     `json:"budget"`
	Message     string              `json:"message" binding:"max=5000"`

	PreferredDate     string            `json:"preferredDate" binding:"required"`
	PreferredCallTime catalog.TimeOfDay `json:"preferredCallTime" binding:"required"`
}

// Submit validates and stores a contact request, then hands it to the
// notifier.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*model.Contact, error) {
	contact, err := s.newContact(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateContact(ctx, contact); err != nil {
		s.log.Error("contact submission failed", "error", err)
		return nil, booking.FromStore(err)
	}

	metrics.RecordContactSubmitted(string(contact.ProjectType))
	s.log.Info("contact request stored", "contact_id", contact.ID, "preferred_date", contact.PreferredDate)
	s.dispatch(*contact)
	return contact, nil
}

func (s *Service) newContact(in SubmitInput) (*model.Contact, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Company = strings.TrimSpace(in.Company)
	in.Message = strings.TrimSpace(in.Message)

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
	if in.Budget != nil && !in.Budget.Valid() {
		invalid("budget", "unrecognized value")
	}
	if !in.PreferredCallTime.Valid() {
		invalid("preferredCallTime", "is not a bookable time")
	}
	if day, err := catalog.ParseDate(in.PreferredDate); err != nil {
		invalid("preferredDate", "must be a date formatted YYYY-MM-DD")
	} else if day.Before(s.today()) {
		invalid("preferredDate", "must not be in the past")
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		invalid("phone", "must be a valid phone number")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	contact := &model.Contact{
		ID:                s.newID(),
		Name:              in.Name,
		Email:             in.Email,
		Phone:             phone,
		Company:           in.Company,
		ProjectType:       in.ProjectType,
		Message:           in.Message,
		PreferredDate:     in.PreferredDate,
		PreferredCallTime: in.PreferredCallTime,
		Status:            catalog.ContactPending,
	}
	if in.Budget != nil {
		contact.Budget = *in.Budget
	}
	return contact, nil
}

func (s *Service) dispatch(contact model.Contact) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("notifier panicked", "contact_id", contact.ID, "panic", r)
		}
	}()
	s.notifier.ContactReceived(contact)
}

// today is the current calendar day in loc, as midnight UTC.
func (s *Service) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Page is one page of the admin contact listing.
type Page struct {
	Contacts []model.Contact
	Total    int64
}

// List returns contacts newest first. An empty or "all" status lists every
// contact.
func (s *Service) List(ctx context.Context, f store.ContactFilter) (Page, error) {
	if f.Status != "" && f.Status != "all" && !catalog.ContactStatus(f.Status).Valid() {
		return Page{}, apperr.Validation(apperr.FieldError{Field: "status", Message: "unrecognized value"})
	}
	contacts, total, err := s.store.ListContacts(ctx, f)
	if err != nil {
		return Page{}, booking.FromStore(err)
	}
	return Page{Contacts: contacts, Total: total}, nil
}

// UpdateStatus moves contact id to status. Any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id string, status catalog.ContactStatus) (*model.Contact, error) {
	if !status.Valid() {
		return nil, apperr.Validation(apperr.FieldError{Field: "status", Message: "unrecognized value"})
	}
	if err := s.store.UpdateContactStatus(ctx, id, status); err != nil {
		return nil, booking.FromStore(err)
	}
	contact, err := s.store.GetContact(ctx, id)
	if err != nil {
		return nil, booking.FromStore(err)
	}
	s.log.Info("contact updated", "contact_id", id, "status", status)
	return contact, nil
}
