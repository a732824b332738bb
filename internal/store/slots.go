package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/model"
)

var slotKey = []clause.Column{{Name: "date"}, {Name: "time_of_day"}}

// CreateSlot inserts a single slot, failing with ErrDuplicateSlot if the
// (date, time) pair is taken.
func (s *gormStore) CreateSlot(ctx context.Context, slot *model.Slot) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: slotKey, DoNothing: true}).
		Create(slot)
	if res.Error != nil {
		return fmt.Errorf("create slot %s %s: %w", slot.Date, slot.TimeOfDay, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateSlot
	}
	return nil
}

// InsertMissingSlots inserts every slot whose (date, time) pair is not yet
// stored and returns how many rows were created. Existing pairs are skipped.
func (s *gormStore) InsertMissingSlots(ctx context.Context, slots []model.Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: slotKey, DoNothing: true}).
		CreateInBatches(&slots, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("insert slots: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *gormStore) CountSlots(ctx context.Context, from, to string) (int64, error) {
	var n int64
	err := dateRange(s.db.WithContext(ctx).Model(&model.Slot{}), from, to).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count slots: %w", err)
	}
	return n, nil
}

// ListOpenSlots returns available, unbooked slots in [from, to] ordered by
// date then time.
func (s *gormStore) ListOpenSlots(ctx context.Context, from, to string) ([]model.Slot, error) {
	var slots []model.Slot
	err := dateRange(s.db.WithContext(ctx), from, to).
		Where("is_available = ? AND is_booked = ?", true, false).
		Order("date ASC, time_of_day ASC").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("list open slots: %w", err)
	}
	return slots, nil
}

func (s *gormStore) ListSlots(ctx context.Context, f SlotFilter) ([]model.Slot, int64, error) {
	q := dateRange(s.db.WithContext(ctx).Model(&model.Slot{}), f.From, f.To)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}

	q = q.Order("date ASC, time_of_day ASC")
	if f.Limit > 0 {
		q = q.Offset(offset(f.Page, f.Limit)).Limit(f.Limit)
	}

	var slots []model.Slot
	if err := q.Find(&slots).Error; err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}
	return slots, total, nil
}

func (s *gormStore) SlotStats(ctx context.Context, from, to string) (SlotStats, error) {
	var stats SlotStats
	err := dateRange(s.db.WithContext(ctx).Model(&model.Slot{}), from, to).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN is_available = ? AND is_booked = ? THEN 1 ELSE 0 END), 0) AS available, "+
				"COALESCE(SUM(CASE WHEN is_booked = ? THEN 1 ELSE 0 END), 0) AS booked, "+
				"COALESCE(SUM(CASE WHEN is_available = ? THEN 1 ELSE 0 END), 0) AS unavailable",
			true, false, true, false,
		).
		Scan(&stats).Error
	if err != nil {
		return SlotStats{}, fmt.Errorf("slot stats: %w", err)
	}
	return stats, nil
}

func (s *gormStore) GetSlot(ctx context.Context, id int64) (*model.Slot, error) {
	var slot model.Slot
	if err := s.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &slot, nil
}

// ClaimSlot books slot id for leadID. The precondition is part of the
// UPDATE so two concurrent claims cannot both succeed.
func (s *gormStore) ClaimSlot(ctx context.Context, id int64, leadID string) error {
	res := s.db.WithContext(ctx).Model(&model.Slot{}).
		Where("id = ? AND is_available = ? AND is_booked = ?", id, true, false).
		Updates(map[string]any{"is_booked": true, "lead_ref": leadID})
	if res.Error != nil {
		return fmt.Errorf("claim slot %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

// ClaimSlotAt is ClaimSlot addressed by (date, time). A missing slot is
// reported as ErrSlotUnavailable.
func (s *gormStore) ClaimSlotAt(ctx context.Context, date string, t catalog.TimeOfDay, leadID string) (*model.Slot, error) {
	res := s.db.WithContext(ctx).Model(&model.Slot{}).
		Where("date = ? AND time_of_day = ? AND is_available = ? AND is_booked = ?", date, t, true, false).
		Updates(map[string]any{"is_booked": true, "lead_ref": leadID})
	if res.Error != nil {
		return nil, fmt.Errorf("claim slot %s %s: %w", date, t, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrSlotUnavailable
	}

	var slot model.Slot
	if err := s.db.WithContext(ctx).Where("date = ? AND time_of_day = ?", date, t).First(&slot).Error; err != nil {
		return nil, fmt.Errorf("reload claimed slot: %w", err)
	}
	return &slot, nil
}

// ReleaseSlot clears the booking on slot id. Releasing an unbooked slot
// is a no-op.
func (s *gormStore) ReleaseSlot(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&model.Slot{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_booked": false, "lead_ref": nil})
	if res.Error != nil {
		return fmt.Errorf("release slot %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReleaseLeadSlot releases the slot at (date, t) if it is held by leadID.
// It reports whether such a slot was found.
func (s *gormStore) ReleaseLeadSlot(ctx context.Context, date string, t catalog.TimeOfDay, leadID string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Slot{}).
		Where("date = ? AND time_of_day = ? AND lead_ref = ?", date, t, leadID).
		Updates(map[string]any{"is_booked": false, "lead_ref": nil})
	if res.Error != nil {
		return false, fmt.Errorf("release slot of lead %s: %w", leadID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetSlotAvailability opens or blocks a slot. Blocking a booked slot fails
// with ErrSlotBooked and leaves it unchanged.
func (s *gormStore) SetSlotAvailability(ctx context.Context, id int64, available bool, reason *string) error {
	q := s.db.WithContext(ctx).Model(&model.Slot{}).Where("id = ?", id)
	values := map[string]any{"is_available": true, "block_reason": nil}
	if !available {
		q = q.Where("is_booked = ?", false)
		values = map[string]any{"is_available": false, "block_reason": reason}
	}

	res := q.Updates(values)
	if res.Error != nil {
		return fmt.Errorf("set availability of slot %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.missingOrBooked(ctx, id)
	}
	return nil
}

// DeleteSlot removes an unbooked slot.
func (s *gormStore) DeleteSlot(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND is_booked = ?", id, false).
		Delete(&model.Slot{})
	if res.Error != nil {
		return fmt.Errorf("delete slot %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.missingOrBooked(ctx, id)
	}
	return nil
}

// missingOrBooked explains why a guarded write on slot id matched nothing.
func (s *gormStore) missingOrBooked(ctx context.Context, id int64) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Slot{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("lookup slot %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrSlotBooked
}

func dateRange(q *gorm.DB, from, to string) *gorm.DB {
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	return q
}
