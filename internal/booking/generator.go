package booking

import (
	"context"
	"fmt"
	"time"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/metrics"
	"consult-booking-backend/internal/model"
)

// maxGenerateDays bounds a single generation request.
const maxGenerateDays = 366

// Generate creates one slot per template time on every weekday of
// [startDate, endDate], skipping pairs that already exist. It returns the
// number of slots created and may be called repeatedly over overlapping
// ranges.
func (s *Service) Generate(ctx context.Context, startDate, endDate string) (int, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return 0, err
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxGenerateDays {
		return 0, apperr.Validation(apperr.FieldError{
			Field:   "endDate",
			Message: fmt.Sprintf("range is limited to %d days", maxGenerateDays),
		})
	}

	slots := s.grid(start, end)
	created, err := s.store.InsertMissingSlots(ctx, slots)
	if err != nil {
		return 0, FromStore(err)
	}

	metrics.RecordSlotsGenerated(created)
	if created > 0 {
		s.log.Info("slots generated", "start", startDate, "end", endDate, "created", created)
		s.changed()
	}
	return created, nil
}

// grid lays the template over every weekday of [start, end].
func (s *Service) grid(start, end time.Time) []model.Slot {
	var slots []model.Slot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if catalog.IsWeekend(day) {
			continue
		}
		date := catalog.FormatDate(day)
		for _, t := range s.template {
			slots = append(slots, model.Slot{
				Date:        date,
				TimeOfDay:   t,
				IsAvailable: true,
			})
		}
	}
	return slots
}

// expectedSlots is how many slots grid would produce for [start, end].
func (s *Service) expectedSlots(start, end time.Time) int64 {
	var n int64
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !catalog.IsWeekend(day) {
			n += int64(len(s.template))
		}
	}
	return n
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	var fields []apperr.FieldError
	start, err := catalog.ParseDate(startDate)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "startDate", Message: "must be a date formatted YYYY-MM-DD"})
	}
	end, err := catalog.ParseDate(endDate)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "endDate", Message: "must be a date formatted YYYY-MM-DD"})
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, apperr.Validation(fields...)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.Validation(apperr.FieldError{
			Field:   "endDate",
			Message: "must not be before startDate",
		})
	}
	return start, end, nil
}
