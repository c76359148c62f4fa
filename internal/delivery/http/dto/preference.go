package dto

import (
	"time"

	"github.com/google/uuid"

	"skill-alert/internal/domain/notification"
)

type PreferenceResponse struct {
	UserID                   uuid.UUID  `json:"user_id"`
	EmailEnabled             bool       `json:"email_enabled"`
	JobAlertEmailEnabled     bool       `json:"job_alert_email_enabled"`
	MatchNotificationEnabled bool       `json:"match_notification_enabled"`
	WeeklyDigestEnabled      bool       `json:"weekly_digest_enabled"`
	AnalysisReminderEnabled  bool       `json:"analysis_reminder_enabled"`
	DigestFrequency          string     `json:"digest_frequency"`
	PreferredHour            int        `json:"preferred_hour"`
	PreferredMinute          int        `json:"preferred_minute"`
	PreferredDayOfWeek       int        `json:"preferred_day_of_week"`
	Timezone                 string     `json:"timezone"`
	MinMatchThreshold        float64    `json:"min_match_threshold"`
	OptedIn                  bool       `json:"opted_in"`
	OptedInAt                *time.Time `json:"opted_in_at"`
	OptedOutAt               *time.Time `json:"opted_out_at"`
	LastDigestSentAt         *time.Time `json:"last_digest_sent_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

func NewPreferenceResponse(p notification.Preference) PreferenceResponse {
	return PreferenceResponse{
		UserID:                   p.UserID,
		EmailEnabled:             p.EmailEnabled,
		JobAlertEmailEnabled:     p.JobAlertEmailEnabled,
		MatchNotificationEnabled: p.MatchNotificationEnabled,
		WeeklyDigestEnabled:      p.WeeklyDigestEnabled,
		AnalysisReminderEnabled:  p.AnalysisReminderEnabled,
		DigestFrequency:          p.DigestFrequency.String(),
		PreferredHour:            p.PreferredHour,
		PreferredMinute:          p.PreferredMinute,
		PreferredDayOfWeek:       p.PreferredDayOfWeek,
		Timezone:                 p.Timezone,
		MinMatchThreshold:        p.MinMatchThreshold,
		OptedIn:                  p.OptedIn,
		OptedInAt:                p.OptedInAt,
		OptedOutAt:               p.OptedOutAt,
		LastDigestSentAt:         p.LastDigestSentAt,
		UpdatedAt:                p.UpdatedAt,
	}
}
