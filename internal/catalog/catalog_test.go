package catalog

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalRejectsUnknownValues(t *testing.T) {
	testCases := []struct {
		name      string
		payload   string
		target    any
		field     string
		expectErr bool
	}{
		{name: "Known budget", payload: `"plus-50k"`, target: new(Budget)},
		{name: "Unknown budget", payload: `"plus-100k"`, target: new(Budget), field: "budget", expectErr: true},
		{name: "Known timeline", payload: `"urgent-1mois"`, target: new(Timeline)},
		{name: "Unknown timeline", payload: `"hier"`, target: new(Timeline), field: "timeline", expectErr: true},
		{name: "Known project type", payload: `"integration-ia"`, target: new(ProjectType)},
		{name: "Label instead of value", payload: `"Intégration IA"`, target: new(ProjectType), field: "projectType", expectErr: true},
		{name: "Known modality", payload: `"visio-zoom"`, target: new(Modality)},
		{name: "Unknown modality", payload: `"fax"`, target: new(Modality), field: "consultationType", expectErr: true},
		{name: "Lunch gap time", payload: `"12:30"`, target: new(TimeOfDay), field: "time", expectErr: true},
		{name: "Last afternoon time", payload: `"17:00"`, target: new(TimeOfDay)},
		{name: "Unknown status", payload: `"archived"`, target: new(Status), field: "status", expectErr: true},
		{name: "Unknown priority", payload: `"critical"`, target: new(Priority), field: "priority", expectErr: true},
		{name: "Number instead of string", payload: `3`, target: new(Budget), field: "budget", expectErr: true},
		{name: "Known event type", payload: `"cta_click"`, target: new(EventType)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := json.Unmarshal([]byte(tc.payload), tc.target)
			if !tc.expectErr {
				assert.NoError(t, err)
				return
			}
			var invalid *InvalidValueError
			require.True(t, errors.As(err, &invalid), "expected InvalidValueError, got %v", err)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func TestWorkingTimesAreSortedAndSkipLunch(t *testing.T) {
	require.Len(t, WorkingTimes, 13)
	for i := 1; i < len(WorkingTimes); i++ {
		assert.True(t, WorkingTimes[i-1] < WorkingTimes[i], "%s should precede %s", WorkingTimes[i-1], WorkingTimes[i])
	}
	for _, tod := range WorkingTimes {
		assert.False(t, tod >= "12:00" && tod < "14:00", "%s falls in the lunch gap", tod)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2026-10-19", FormatDate(d))

	_, err = ParseDate("19/10/2026")
	assert.Error(t, err)
}

func TestIsWeekend(t *testing.T) {
	sat, _ := ParseDate("2026-10-24")
	sun, _ := ParseDate("2026-10-25")
	mon, _ := ParseDate("2026-10-26")
	assert.True(t, IsWeekend(sat))
	assert.True(t, IsWeekend(sun))
	assert.False(t, IsWeekend(mon))
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusScheduled.Terminal())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Intégration IA", ProjectAIIntegration.Label())
	assert.Equal(t, "À discuter", BudgetToDiscuss.Label())
	assert.Equal(t, "Rendez-vous Physique", ModalityInPerson.Label())
	assert.Equal(t, "1 à 3 mois", Timeline1To3Months.Label())
}
