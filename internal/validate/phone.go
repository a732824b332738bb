package validate

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "FR"

// Phone formats a phone number to E.164. Numbers without a country prefix
// are read as French. ok is false when the input is not a valid number.
func Phone(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed, false
	}
	return phonenumbers.Format(number, phonenumbers.E164), true
}
