package notification

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"skill-alert/internal/domain/cadence"
)

var ErrInvalidPreference = errors.New("invalid notification preference")

const (
	DefaultHour      = 9
	DefaultMinute    = 0
	DefaultDayOfWeek = 1 // Monday
	DefaultTimezone  = "UTC"
	DefaultThreshold = 60.0
)

// Preference is one user's notification settings. DayOfWeek runs from
// 1 (Monday) to 7 (Sunday).
type Preference struct {
	UserID                   uuid.UUID
	EmailEnabled             bool
	JobAlertEmailEnabled     bool
	MatchNotificationEnabled bool
	WeeklyDigestEnabled      bool
	AnalysisReminderEnabled  bool
	DigestFrequency          cadence.Frequency
	PreferredHour            int
	PreferredMinute          int
	PreferredDayOfWeek       int
	Timezone                 string
	MinMatchThreshold        float64
	OptedIn                  bool
	OptedInAt                *time.Time
	OptedOutAt               *time.Time
	LastDigestSentAt         *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func Defaults(userID uuid.UUID, now time.Time) Preference {
	t := now
	return Preference{
		UserID:                   userID,
		EmailEnabled:             true,
		JobAlertEmailEnabled:     true,
		MatchNotificationEnabled: true,
		WeeklyDigestEnabled:      true,
		AnalysisReminderEnabled:  false,
		DigestFrequency:          cadence.Weekly,
		PreferredHour:            DefaultHour,
		PreferredMinute:          DefaultMinute,
		PreferredDayOfWeek:       DefaultDayOfWeek,
		Timezone:                 DefaultTimezone,
		MinMatchThreshold:        DefaultThreshold,
		OptedIn:                  true,
		OptedInAt:                &t,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

// Update is a partial preference change; nil fields are left as they are.
type Update struct {
	EmailEnabled             *bool    `json:"email_enabled"`
	JobAlertEmailEnabled     *bool    `json:"job_alert_email_enabled"`
	MatchNotificationEnabled *bool    `json:"match_notification_enabled"`
	WeeklyDigestEnabled      *bool    `json:"weekly_digest_enabled"`
	AnalysisReminderEnabled  *bool    `json:"analysis_reminder_enabled"`
	DigestFrequency          *string  `json:"digest_frequency"`
	PreferredHour            *int     `json:"preferred_hour"`
	PreferredMinute          *int     `json:"preferred_minute"`
	PreferredDayOfWeek       *int     `json:"preferred_day_of_week"`
	Timezone                 *string  `json:"timezone"`
	MinMatchThreshold        *float64 `json:"min_match_threshold"`
}

// Apply validates u as a whole and returns p with the changes applied. On
// error p is returned unchanged.
func Apply(p Preference, u Update, now time.Time) (Preference, error) {
	var problems []string
	if u.PreferredHour != nil && (*u.PreferredHour < 0 || *u.PreferredHour > 23) {
		problems = append(problems, "preferred_hour must be between 0 and 23")
	}
	if u.PreferredMinute != nil && (*u.PreferredMinute < 0 || *u.PreferredMinute > 59) {
		problems = append(problems, "preferred_minute must be between 0 and 59")
	}
	if u.PreferredDayOfWeek != nil && (*u.PreferredDayOfWeek < 1 || *u.PreferredDayOfWeek > 7) {
		problems = append(problems, "preferred_day_of_week must be between 1 (Monday) and 7 (Sunday)")
	}
	if u.MinMatchThreshold != nil && (*u.MinMatchThreshold < 0 || *u.MinMatchThreshold > 100 || math.IsNaN(*u.MinMatchThreshold)) {
		problems = append(problems, "min_match_threshold must be between 0 and 100")
	}
	var freq cadence.Frequency
	if u.DigestFrequency != nil {
		f, err := cadence.Parse(*u.DigestFrequency)
		if err != nil {
			problems = append(problems, "digest_frequency must be DAILY, WEEKLY or MONTHLY")
		}
		freq = f
	}
	var tz string
	if u.Timezone != nil {
		tz = strings.TrimSpace(*u.Timezone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" {
			problems = append(problems, fmt.Sprintf("unknown timezone %q", *u.Timezone))
		}
	}
	if len(problems) > 0 {
		return p, fmt.Errorf("%w: %s", ErrInvalidPreference, strings.Join(problems, "; "))
	}

	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setBool(&p.EmailEnabled, u.EmailEnabled)
	setBool(&p.JobAlertEmailEnabled, u.JobAlertEmailEnabled)
	setBool(&p.MatchNotificationEnabled, u.MatchNotificationEnabled)
	setBool(&p.WeeklyDigestEnabled, u.WeeklyDigestEnabled)
	setBool(&p.AnalysisReminderEnabled, u.AnalysisReminderEnabled)
	if u.DigestFrequency != nil {
		p.DigestFrequency = freq
	}
	if u.PreferredHour != nil {
		p.PreferredHour = *u.PreferredHour
	}
	if u.PreferredMinute != nil {
		p.PreferredMinute = *u.PreferredMinute
	}
	if u.PreferredDayOfWeek != nil {
		p.PreferredDayOfWeek = *u.PreferredDayOfWeek
	}
	if u.Timezone != nil {
		p.Timezone = tz
	}
	if u.MinMatchThreshold != nil {
		p.MinMatchThreshold = *u.MinMatchThreshold
	}
	p.UpdatedAt = now
	return p, nil
}

// OptIn re-enables delivery and clears the opt-out stamp.
func OptIn(p Preference, now time.Time) Preference {
	t := now
	p.OptedIn = true
	p.OptedInAt = &t
	p.OptedOutAt = nil
	p.UpdatedAt = now
	return p
}

// OptOut stops all delivery. OptedInAt is kept as history.
func OptOut(p Preference, now time.Time) Preference {
	t := now
	p.OptedIn = false
	p.OptedOutAt = &t
	p.UpdatedAt = now
	return p
}

// MarkDigestSent never moves LastDigestSentAt backwards.
func MarkDigestSent(p Preference, now time.Time) Preference {
	if p.LastDigestSentAt != nil && p.LastDigestSentAt.After(now) {
		return p
	}
	t := now
	p.LastDigestSentAt = &t
	p.UpdatedAt = now
	return p
}
