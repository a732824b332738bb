package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/dbtest"
	"consult-booking-backend/internal/logger"
	"consult-booking-backend/internal/model"
	"consult-booking-backend/internal/store"
)

var twoSlotDay = []catalog.TimeOfDay{"09:00", "14:00"}

func newTestService(t *testing.T, opts ...Option) (*Service, store.Store) {
	t.Helper()
	st := store.NewGormStore(dbtest.Open(t))
	opts = append([]Option{WithTemplate(twoSlotDay)}, opts...)
	return NewService(st, logger.Discard(), opts...), st
}

func TestGenerate_Idempotent(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	// Monday to Friday.
	created, err := svc.Generate(ctx, "2026-10-19", "2026-10-23")
	require.NoError(t, err)
	assert.Equal(t, 10, created)

	created, err = svc.Generate(ctx, "2026-10-19", "2026-10-23")
	require.NoError(t, err)
	assert.Zero(t, created)

	// Overlapping range only adds the new days.
	created, err = svc.Generate(ctx, "2026-10-22", "2026-10-27")
	require.NoError(t, err)
	assert.Equal(t, 4, created)

	n, err := st.CountSlots(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(14), n)
}

func TestGenerate_SkipsWeekends(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	created, err := svc.Generate(ctx, "2026-10-17", "2026-11-01")
	require.NoError(t, err)
	assert.Equal(t, 20, created)

	slots, _, err := st.ListSlots(ctx, store.SlotFilter{})
	require.NoError(t, err)
	for _, slot := range slots {
		day, err := catalog.ParseDate(slot.Date)
		require.NoError(t, err)
		assert.False(t, catalog.IsWeekend(day), "slot generated on %s", slot.Date)
		assert.True(t, slot.Open())
	}
}

func TestGenerate_InvalidRange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	testCases := []struct {
		name       string
		start, end string
		field      string
	}{
		{"bad start", "19/10/2026", "2026-10-23", "startDate"},
		{"bad end", "2026-10-19", "", "endDate"},
		{"reversed", "2026-10-23", "2026-10-19", "endDate"},
		{"too long", "2026-01-01", "2027-06-01", "endDate"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Generate(ctx, tc.start, tc.end)
			require.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)

			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			require.NotEmpty(t, ae.Fields)
			assert.Equal(t, tc.field, ae.Fields[0].Field)
		})
	}
}

func TestBook_SecondAttemptFails(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, "2026-10-19", "2026-10-23")
	require.NoError(t, err)

	first, err := svc.BookAt(ctx, "2026-10-19", "09:00", "L1")
	require.NoError(t, err)
	assert.True(t, first.IsBooked)

	_, err = svc.BookAt(ctx, "2026-10-19", "09:00", "L2")
	assert.True(t, apperr.Is(err, apperr.KindSlotNotAvailable), "got %v", err)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.True(t, ae.Retryable())

	err = svc.Book(ctx, first.ID, "L2")
	assert.True(t, apperr.Is(err, apperr.KindSlotNotAvailable))

	got, err := st.GetSlot(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "L1", *got.LeadRef)
}

func TestLifecycle_BookedSlotProtection(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	slot, err := svc.CreateSlot(ctx, CreateSlotInput{Date: "2026-10-19", TimeOfDay: "09:00"})
	require.NoError(t, err)
	require.NoError(t, svc.Book(ctx, slot.ID, "L1"))

	_, err = svc.SetAvailability(ctx, slot.ID, false, "vacation")
	assert.True(t, apperr.Is(err, apperr.KindSlotBooked))
	assert.True(t, apperr.Is(svc.Delete(ctx, slot.ID), apperr.KindSlotBooked))

	got, err := svc.Get(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBooked)
	assert.True(t, got.IsAvailable)

	require.NoError(t, svc.Release(ctx, slot.ID))
	require.NoError(t, svc.Release(ctx, slot.ID))

	blocked, err := svc.SetAvailability(ctx, slot.ID, false, "  vacation ")
	require.NoError(t, err)
	assert.False(t, blocked.IsAvailable)
	assert.Equal(t, "vacation", *blocked.BlockReason)

	require.NoError(t, svc.Delete(ctx, slot.ID))
	_, err = svc.Get(ctx, slot.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLifecycle_MissingSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetAvailability(ctx, 99, false, "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, 99), apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Release(ctx, 99), apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Book(ctx, 99, "L1"), apperr.KindSlotNotAvailable))
}

func TestCreateSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	no := false
	slot, err := svc.CreateSlot(ctx, CreateSlotInput{Date: "2026-10-19", TimeOfDay: "11:30", IsAvailable: &no, Reason: "training"})
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable)
	assert.Equal(t, "training", *slot.BlockReason)

	_, err = svc.CreateSlot(ctx, CreateSlotInput{Date: "2026-10-19", TimeOfDay: "11:30"})
	assert.True(t, apperr.Is(err, apperr.KindDuplicateSlot))

	_, err = svc.CreateSlot(ctx, CreateSlotInput{Date: "2026-10-19", TimeOfDay: "12:00"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAvailableDatesWithin(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	var changes int
	// Friday morning in Paris: the window starts Saturday 2026-10-17.
	clock := func() time.Time { return time.Date(2026, 10, 16, 10, 0, 0, 0, paris) }
	svc, _ := newTestService(t,
		WithLocation(paris),
		WithClock(clock),
		WithChangeHook(func() { changes++ }),
	)
	ctx := context.Background()

	avail, err := svc.AvailableDatesWithin(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, avail.TotalSlots)
	require.Len(t, avail.AvailableDates, 3)
	assert.Equal(t, "2026-10-19", avail.AvailableDates[0].Date)
	assert.Equal(t, []catalog.TimeOfDay{"09:00", "14:00"}, avail.AvailableDates[0].Times)
	assert.Equal(t, "2026-10-21", avail.AvailableDates[2].Date)
	assert.Equal(t, 1, changes)

	// Second call finds the window populated and generates nothing.
	_, err = svc.BookAt(ctx, "2026-10-19", "09:00", "L1")
	require.NoError(t, err)
	avail, err = svc.AvailableDatesWithin(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 9, avail.TotalSlots)
	assert.Equal(t, []catalog.TimeOfDay{"14:00"}, avail.AvailableDates[0].Times)
	assert.Equal(t, 2, changes)
}

func TestAvailableDatesWithin_UsesConfiguredZone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	// 23:30 UTC on Sunday is already Monday in Paris, so tomorrow is Tuesday.
	clock := func() time.Time { return time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC) }
	svc, _ := newTestService(t, WithLocation(paris), WithClock(clock))

	avail, err := svc.AvailableDatesWithin(context.Background(), 3, 10)
	require.NoError(t, err)
	require.NotEmpty(t, avail.AvailableDates)
	assert.Equal(t, "2026-10-20", avail.AvailableDates[0].Date)
	assert.Len(t, avail.AvailableDates, 3)
}

func TestFirstBookableDate(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC) }
	utc, _ := newTestService(t, WithClock(clock))
	assert.Equal(t, "2026-10-19", utc.FirstBookableDate())

	local, _ := newTestService(t, WithLocation(paris), WithClock(clock))
	assert.Equal(t, "2026-10-20", local.FirstBookableDate())
}

func TestAvailableDatesWithin_InvalidHorizon(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AvailableDatesWithin(context.Background(), 0, 10)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestListAvailable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, "2026-10-19", "2026-10-20")
	require.NoError(t, err)
	_, err = svc.BookAt(ctx, "2026-10-19", "14:00", "L1")
	require.NoError(t, err)

	slots, err := svc.ListAvailable(ctx, "2026-10-19", "2026-10-20")
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, catalog.TimeOfDay("09:00"), slots[0].TimeOfDay)
	assert.Equal(t, "2026-10-20", slots[1].Date)

	_, err = svc.ListAvailable(ctx, "2026-10-20", "2026-10-19")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGroupByDate(t *testing.T) {
	slots := []model.Slot{
		{Date: "2026-10-19", TimeOfDay: "09:00"},
		{Date: "2026-10-19", TimeOfDay: "09:30"},
		{Date: "2026-10-20", TimeOfDay: "10:00"},
		{Date: "2026-10-21", TimeOfDay: "11:00"},
	}

	all := groupByDate(slots, 0)
	require.Len(t, all, 3)
	assert.Equal(t, []catalog.TimeOfDay{"09:00", "09:30"}, all[0].Times)

	limited := groupByDate(slots, 2)
	require.Len(t, limited, 2)
	assert.Equal(t, "2026-10-20", limited[1].Date)

	assert.Empty(t, groupByDate(nil, 10))
}

func TestFromStore(t *testing.T) {
	assert.Nil(t, FromStore(nil))
	assert.True(t, apperr.Is(FromStore(store.ErrNotFound), apperr.KindNotFound))
	assert.True(t, apperr.Is(FromStore(store.ErrDuplicateSlot), apperr.KindDuplicateSlot))

	internal := FromStore(assert.AnError)
	assert.True(t, apperr.Is(internal, apperr.KindInternal))
	assert.ErrorIs(t, internal, assert.AnError)

	domain := apperr.SlotBooked()
	assert.Same(t, domain, FromStore(domain))
}
