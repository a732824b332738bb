package booking

import (
	"context"
	"strings"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/metrics"
	"consult-booking-backend/internal/model"
	"consult-booking-backend/internal/store"
)

// Book claims slotID for leadID. It fails with SlotNotAvailable when the
// slot is blocked, already booked or missing.
func (s *Service) Book(ctx context.Context, slotID int64, leadID string) error {
	if err := s.store.ClaimSlot(ctx, slotID, leadID); err != nil {
		recordClaim(err)
		return FromStore(err)
	}
	recordClaim(nil)
	s.changed()
	return nil
}

// BookAt is Book addressed by date and time.
func (s *Service) BookAt(ctx context.Context, date string, t catalog.TimeOfDay, leadID string) (*model.Slot, error) {
	slot, err := s.store.ClaimSlotAt(ctx, date, t, leadID)
	recordClaim(err)
	if err != nil {
		return nil, FromStore(err)
	}
	s.changed()
	return slot, nil
}

// Release frees slotID. Releasing an unbooked slot succeeds.
func (s *Service) Release(ctx context.Context, slotID int64) error {
	if err := s.store.ReleaseSlot(ctx, slotID); err != nil {
		return FromStore(err)
	}
	s.changed()
	return nil
}

// CreateSlotInput is an explicit single-slot creation request.
type CreateSlotInput struct {
	Date        string            `json:"date" binding:"required"`
	TimeOfDay   catalog.TimeOfDay `json:"time" binding:"required"`
	IsAvailable *bool             `json:"isAvailable"`
	Reason      string            `json:"reason"`
}

// CreateSlot adds one slot. Unlike Generate it rejects an existing pair
// with DuplicateSlot.
func (s *Service) CreateSlot(ctx context.Context, in CreateSlotInput) (*model.Slot, error) {
	if _, err := catalog.ParseDate(in.Date); err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "date", Message: "must be a date formatted YYYY-MM-DD"})
	}
	if !in.TimeOfDay.Valid() {
		return nil, apperr.Validation(apperr.FieldError{Field: "time", Message: "is not a bookable time"})
	}

	slot := &model.Slot{
		Date:        in.Date,
		TimeOfDay:   in.TimeOfDay,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}
	if !slot.IsAvailable {
		slot.BlockReason = reasonPtr(in.Reason)
	}

	if err := s.store.CreateSlot(ctx, slot); err != nil {
		return nil, FromStore(err)
	}
	s.changed()
	return slot, nil
}

// SetAvailability opens or blocks slotID. Blocking a booked slot fails
// with SlotBooked and leaves the slot unchanged.
func (s *Service) SetAvailability(ctx context.Context, slotID int64, available bool, reason string) (*model.Slot, error) {
	var r *string
	if !available {
		r = reasonPtr(reason)
	}
	if err := s.store.SetSlotAvailability(ctx, slotID, available, r); err != nil {
		return nil, FromStore(err)
	}
	s.changed()

	slot, err := s.store.GetSlot(ctx, slotID)
	if err != nil {
		return nil, FromStore(err)
	}
	return slot, nil
}

// Delete removes an unbooked slot.
func (s *Service) Delete(ctx context.Context, slotID int64) error {
	if err := s.store.DeleteSlot(ctx, slotID); err != nil {
		return FromStore(err)
	}
	s.changed()
	return nil
}

// Get returns slotID.
func (s *Service) Get(ctx context.Context, slotID int64) (*model.Slot, error) {
	slot, err := s.store.GetSlot(ctx, slotID)
	if err != nil {
		return nil, FromStore(err)
	}
	return slot, nil
}

// SlotPage is one page of the admin slot listing.
type SlotPage struct {
	Slots []model.Slot
	Total int64
	Stats store.SlotStats
}

// List pages through slots in an optional date range, with state counts
// over the whole range.
func (s *Service) List(ctx context.Context, f store.SlotFilter) (SlotPage, error) {
	for field, v := range map[string]string{"startDate": f.From, "endDate": f.To} {
		if v == "" {
			continue
		}
		if _, err := catalog.ParseDate(v); err != nil {
			return SlotPage{}, apperr.Validation(apperr.FieldError{Field: field, Message: "must be a date formatted YYYY-MM-DD"})
		}
	}

	slots, total, err := s.store.ListSlots(ctx, f)
	if err != nil {
		return SlotPage{}, FromStore(err)
	}
	stats, err := s.store.SlotStats(ctx, f.From, f.To)
	if err != nil {
		return SlotPage{}, FromStore(err)
	}
	return SlotPage{Slots: slots, Total: total, Stats: stats}, nil
}

// NotifyChanged runs the change hook. Callers that mutate slots through
// the store directly, inside their own transaction, call it after commit.
func (s *Service) NotifyChanged() {
	s.changed()
}

func recordClaim(err error) {
	switch {
	case err == nil:
		metrics.RecordBooking(metrics.OutcomeBooked)
	case err == store.ErrSlotUnavailable:
		metrics.RecordBooking(metrics.OutcomeUnavailable)
	default:
		metrics.RecordBooking(metrics.OutcomeError)
	}
}

func reasonPtr(reason string) *string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil
	}
	return &reason
}
