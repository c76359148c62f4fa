package notification

import (
	"time"

	"skill-alert/internal/domain/cadence"
)

func ShouldNotify(p Preference) bool {
	return p.EmailEnabled && p.JobAlertEmailEnabled && p.OptedIn
}

func ShouldDigest(p Preference) bool {
	return p.EmailEnabled && p.WeeklyDigestEnabled && p.OptedIn
}

func ShouldRemind(p Preference) bool {
	return p.EmailEnabled && p.AnalysisReminderEnabled && p.OptedIn
}

// ShouldDigestNow is ShouldDigest plus the digest interval having elapsed
// since the last digest.
func ShouldDigestNow(p Preference, now time.Time) bool {
	if !ShouldDigest(p) {
		return false
	}
	return cadence.Due(p.LastDigestSentAt, p.DigestFrequency, now)
}

// ShouldNotifyMatch gates match emails on the user's minimum score.
func ShouldNotifyMatch(p Preference, score float64) bool {
	return ShouldNotify(p) && score >= p.MinMatchThreshold
}

// ShouldPushMatch gates in-app match events. Email toggles do not apply.
func ShouldPushMatch(p Preference, score float64) bool {
	return p.OptedIn && p.MatchNotificationEnabled && score >= p.MinMatchThreshold
}

// InDigestWindow reports whether now, in the user's timezone, is at or past
// the preferred time of day, and for weekly digests on the preferred
// weekday. An unknown timezone is read as UTC.
func InDigestWindow(p Preference, now time.Time) bool {
	local := now.In(location(p))

	if p.DigestFrequency == cadence.Weekly && isoWeekday(local.Weekday()) != p.PreferredDayOfWeek {
		return false
	}
	minutes := local.Hour()*60 + local.Minute()
	return minutes >= p.PreferredHour*60+p.PreferredMinute
}

// WindowStart is the preferred time of day on t's calendar date in the
// user's timezone. A digest sent at any point of a window is stamped with
// its start, so the next window opens at the same wall-clock time.
func WindowStart(p Preference, t time.Time) time.Time {
	loc := location(p)
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), p.PreferredHour, p.PreferredMinute, 0, 0, loc)
}

// DigestDue is the dispatch-time check. The window must be open and the
// current window must start a full interval after the window of the last
// digest. Comparing window starts keeps an hourly tick on the same slot
// every cycle, across DST changes too.
func DigestDue(p Preference, now time.Time) bool {
	if !ShouldDigest(p) || !InDigestWindow(p, now) {
		return false
	}
	if p.LastDigestSentAt == nil || p.LastDigestSentAt.IsZero() {
		return true
	}
	next := cadence.Next(WindowStart(p, *p.LastDigestSentAt), p.DigestFrequency)
	return !WindowStart(p, now).Before(next)
}

func location(p Preference) *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
