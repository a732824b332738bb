package catalog

// TimeOfDay is one of the fixed appointment start times. Values sort
// lexically in chronological order.
type TimeOfDay string

// WorkingTimes is the business-hours template: a morning block, a lunch gap,
// then an afternoon block, every 30 minutes.
var WorkingTimes = []TimeOfDay{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
}

// Valid reports whether t is a member of WorkingTimes.
func (t TimeOfDay) Valid() bool { return contains(WorkingTimes, t) }

// ParseTimeOfDay validates s against WorkingTimes.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t := TimeOfDay(s)
	if !t.Valid() {
		return "", &InvalidValueError{Field: "time", Value: s}
	}
	return t, nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	v, err := decode("time", data, TimeOfDay.Valid)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
