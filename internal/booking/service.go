// Package booking owns the slot lifecycle: generating the working-hours
// grid, answering availability queries and guarding every state change of
// a slot.
package booking

import (
	"errors"
	"log/slog"
	"time"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/store"
)

// Service orchestrates slot generation, availability and lifecycle.
type Service struct {
	store    store.Store
	log      *slog.Logger
	template []catalog.TimeOfDay
	loc      *time.Location
	now      func() time.Time
	onChange func()
}

// Option customizes a Service.
type Option func(*Service)

// WithTemplate replaces the daily list of generated times.
func WithTemplate(times []catalog.TimeOfDay) Option {
	return func(s *Service) { s.template = times }
}

// WithLocation sets the zone in which "today" is evaluated.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithChangeHook registers fn to run after every committed slot mutation.
func WithChangeHook(fn func()) Option {
	return func(s *Service) { s.onChange = fn }
}

// NewService creates a booking service backed by st.
func NewService(st store.Store, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    st,
		log:      log,
		template: catalog.WorkingTimes,
		loc:      time.UTC,
		now:      time.Now,
		onChange: func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromStore converts storage sentinels into domain errors. Anything else is
// an internal failure whose text stays in the logs.
func FromStore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("resource not found")
	case errors.Is(err, store.ErrSlotUnavailable):
		return apperr.SlotNotAvailable()
	case errors.Is(err, store.ErrSlotBooked):
		return apperr.SlotBooked()
	case errors.Is(err, store.ErrDuplicateSlot):
		return apperr.DuplicateSlot()
	default:
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return err
		}
		return apperr.Internal(err)
	}
}

func (s *Service) changed() {
	s.onChange()
}

// FirstBookableDate is tomorrow in the configured zone, the first day the
// booking wizard offers.
func (s *Service) FirstBookableDate() string {
	return catalog.FormatDate(s.today().AddDate(0, 0, 1))
}

// today is the current calendar day in the configured zone, as midnight UTC.
func (s *Service) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
