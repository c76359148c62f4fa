package cadence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownFrequency = errors.New("unknown frequency")

type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
)

// Parse accepts any casing and surrounding whitespace.
func Parse(s string) (Frequency, error) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
	}
	return f, nil
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

func (f Frequency) String() string { return string(f) }

// Next returns the earliest instant after which a cycle that last fired at
// last is due again. Months are calendar months, so Jan 31 rolls to Mar 2/3
// the same way time.AddDate normalizes. An unknown frequency is treated as
// Daily.
func Next(last time.Time, f Frequency) time.Time {
	switch f {
	case Weekly:
		return last.AddDate(0, 0, 7)
	case Monthly:
		return last.AddDate(0, 1, 0)
	default:
		return last.AddDate(0, 0, 1)
	}
}

// Due reports whether a cycle is due at now. A cycle that never fired is
// always due; otherwise now must be strictly after Next(last).
func Due(last *time.Time, f Frequency, now time.Time) bool {
	if last == nil || last.IsZero() {
		return true
	}
	return now.After(Next(*last, f))
}
