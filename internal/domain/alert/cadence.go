package alert

import (
	"time"

	"skill-alert/internal/domain/cadence"
)

// CadenceState is the part of an alert the dispatch cycle reads and writes.
// Commands below return a new value and never mutate their input.
type CadenceState struct {
	Frequency  cadence.Frequency
	LastSentAt *time.Time
	Active     bool
}

// ShouldProcess is true for an active alert that was never sent or whose
// interval has fully elapsed.
func ShouldProcess(s CadenceState, now time.Time) bool {
	if !s.Active {
		return false
	}
	return cadence.Due(s.LastSentAt, s.Frequency, now)
}

// NextDueAt reports when the alert next becomes processable. ok is false
// for an alert that was never sent, which is due immediately.
func NextDueAt(s CadenceState) (due time.Time, ok bool) {
	if s.LastSentAt == nil || s.LastSentAt.IsZero() {
		return time.Time{}, false
	}
	return cadence.Next(*s.LastSentAt, s.Frequency), true
}

// MarkSent records a successful send at now. LastSentAt never moves
// backwards. Inactive alerts are stamped too.
func MarkSent(s CadenceState, now time.Time) CadenceState {
	if s.LastSentAt != nil && s.LastSentAt.After(now) {
		return s
	}
	t := now
	s.LastSentAt = &t
	return s
}

func Activate(s CadenceState) CadenceState {
	s.Active = true
	return s
}

func Deactivate(s CadenceState) CadenceState {
	s.Active = false
	return s
}

// ShouldEvaluate is ShouldProcess plus the evaluation interval. An alert
// whose match was recorded without an email waits a full interval from
// LastEvaluatedAt before it is scored again.
func ShouldEvaluate(a Alert, now time.Time) bool {
	return ShouldProcess(a.Cadence(), now) && cadence.Due(a.LastEvaluatedAt, a.Frequency, now)
}

// CycleKey names the cycle an alert is in. It changes whenever LastSentAt
// or LastEvaluatedAt advances, so one match per alert and cycle is recorded.
func CycleKey(a Alert) string {
	return stamp(a.LastSentAt) + "/" + stamp(a.LastEvaluatedAt)
}

// MarkEvaluated records a match handled without an email. Like MarkSent it
// never moves the stamp backwards.
func MarkEvaluated(a Alert, now time.Time) Alert {
	if a.LastEvaluatedAt != nil && a.LastEvaluatedAt.After(now) {
		return a
	}
	t := now
	a.LastEvaluatedAt = &t
	return a
}

func stamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
