package booking

import (
	"context"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/catalog"
	"consult-booking-backend/internal/metrics"
	"consult-booking-backend/internal/model"
)

// DateSlots is one day of open times.
type DateSlots struct {
	Date  string              `json:"date"`
	Times []catalog.TimeOfDay `json:"times"`
}

// Availability is the grouped view served to the booking wizard.
type Availability struct {
	AvailableDates []DateSlots `json:"availableDates"`
	TotalSlots     int         `json:"totalSlots"`
}

// ListAvailable returns open slots in [startDate, endDate] ordered by date
// then time.
func (s *Service) ListAvailable(ctx context.Context, startDate, endDate string) ([]model.Slot, error) {
	if _, _, err := parseRange(startDate, endDate); err != nil {
		return nil, err
	}
	slots, err := s.store.ListOpenSlots(ctx, startDate, endDate)
	if err != nil {
		return nil, FromStore(err)
	}
	return slots, nil
}

// AvailableDatesWithin looks from tomorrow to today+horizonDays, filling
// the grid first when the store holds fewer slots than the window needs.
// At most maxDates days are returned; TotalSlots counts every open slot in
// the window.
func (s *Service) AvailableDatesWithin(ctx context.Context, horizonDays, maxDates int) (Availability, error) {
	if horizonDays < 1 {
		return Availability{}, apperr.Validation(apperr.FieldError{Field: "horizonDays", Message: "must be at least 1"})
	}

	today := s.today()
	start := today.AddDate(0, 0, 1)
	end := today.AddDate(0, 0, horizonDays)
	from, to := catalog.FormatDate(start), catalog.FormatDate(end)

	have, err := s.store.CountSlots(ctx, from, to)
	if err != nil {
		return Availability{}, FromStore(err)
	}
	if want := s.expectedSlots(start, end); have < want {
		created, err := s.store.InsertMissingSlots(ctx, s.grid(start, end))
		if err != nil {
			return Availability{}, FromStore(err)
		}
		metrics.RecordSlotsGenerated(created)
		if created > 0 {
			s.log.Info("availability window extended", "start", from, "end", to, "created", created)
			s.changed()
		}
	}

	open, err := s.store.ListOpenSlots(ctx, from, to)
	if err != nil {
		return Availability{}, FromStore(err)
	}
	return Availability{
		AvailableDates: groupByDate(open, maxDates),
		TotalSlots:     len(open),
	}, nil
}

// groupByDate folds date-ordered slots into at most maxDates days.
// maxDates <= 0 means no limit.
func groupByDate(slots []model.Slot, maxDates int) []DateSlots {
	days := make([]DateSlots, 0)
	for _, slot := range slots {
		n := len(days)
		if n == 0 || days[n-1].Date != slot.Date {
			if maxDates > 0 && n == maxDates {
				break
			}
			days = append(days, DateSlots{Date: slot.Date})
			n++
		}
		days[n-1].Times = append(days[n-1].Times, slot.TimeOfDay)
	}
	return days
}
