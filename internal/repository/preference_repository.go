package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skill-alert/internal/database"
	"skill-alert/internal/domain/cadence"
	"skill-alert/internal/domain/notification"
)

type PreferenceRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (notification.Preference, error)
	Save(ctx context.Context, p notification.Preference) error
	// ListDigestCandidates returns preferences that could receive a digest:
	// email and digest toggles on and opted in.
	ListDigestCandidates(ctx context.Context) ([]notification.Preference, error)
	MarkDigestSent(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type PostgresPreferenceRepository struct {
	db database.DB
}

func NewPostgresPreferenceRepository(db database.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

const preferenceColumns = `user_id, email_enabled, job_alert_email_enabled, match_notification_enabled,
	weekly_digest_enabled, analysis_reminder_enabled, digest_frequency, preferred_hour, preferred_minute,
	preferred_day_of_week, timezone, min_match_threshold, opted_in, opted_in_at, opted_out_at,
	last_digest_sent_at, created_at, updated_at`

func scanPreference(row database.Row) (notification.Preference, error) {
	var p notification.Preference
	var freq string
	err := row.Scan(
		&p.UserID, &p.EmailEnabled, &p.JobAlertEmailEnabled, &p.MatchNotificationEnabled,
		&p.WeeklyDigestEnabled, &p.AnalysisReminderEnabled, &freq, &p.PreferredHour, &p.PreferredMinute,
		&p.PreferredDayOfWeek, &p.Timezone, &p.MinMatchThreshold, &p.OptedIn, &p.OptedInAt, &p.OptedOutAt,
		&p.LastDigestSentAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return notification.Preference{}, err
	}
	p.DigestFrequency = cadence.Frequency(freq)
	return p, nil
}

func (r *PostgresPreferenceRepository) Get(ctx context.Context, userID uuid.UUID) (notification.Preference, error) {
	p, err := scanPreference(r.db.QueryRow(ctx,
		`SELECT `+preferenceColumns+` FROM notification_preferences WHERE user_id = $1`, userID))
	if err != nil {
		if isNoRows(err) {
			return notification.Preference{}, ErrNotFound
		}
		return notification.Preference{}, err
	}
	return p, nil
}

func (r *PostgresPreferenceRepository) Save(ctx context.Context, p notification.Preference) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notification_preferences (`+preferenceColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		 ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			job_alert_email_enabled = EXCLUDED.job_alert_email_enabled,
			match_notification_enabled = EXCLUDED.match_notification_enabled,
			weekly_digest_enabled = EXCLUDED.weekly_digest_enabled,
			analysis_reminder_enabled = EXCLUDED.analysis_reminder_enabled,
			digest_frequency = EXCLUDED.digest_frequency,
			preferred_hour = EXCLUDED.preferred_hour,
			preferred_minute = EXCLUDED.preferred_minute,
			preferred_day_of_week = EXCLUDED.preferred_day_of_week,
			timezone = EXCLUDED.timezone,
			min_match_threshold = EXCLUDED.min_match_threshold,
			opted_in = EXCLUDED.opted_in,
			opted_in_at = EXCLUDED.opted_in_at,
			opted_out_at = EXCLUDED.opted_out_at,
			last_digest_sent_at = GREATEST(notification_preferences.last_digest_sent_at, EXCLUDED.last_digest_sent_at),
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.EmailEnabled, p.JobAlertEmailEnabled, p.MatchNotificationEnabled,
		p.WeeklyDigestEnabled, p.AnalysisReminderEnabled, string(p.DigestFrequency), p.PreferredHour, p.PreferredMinute,
		p.PreferredDayOfWeek, p.Timezone, p.MinMatchThreshold, p.OptedIn, p.OptedInAt, p.OptedOutAt,
		p.LastDigestSentAt, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *PostgresPreferenceRepository) ListDigestCandidates(ctx context.Context) ([]notification.Preference, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+preferenceColumns+` FROM notification_preferences
		 WHERE email_enabled AND weekly_digest_enabled AND opted_in
		 ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Preference, 0)
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPreferenceRepository) MarkDigestSent(ctx context.Context, userID uuid.UUID, at time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE notification_preferences
		 SET last_digest_sent_at = GREATEST(COALESCE(last_digest_sent_at, $2), $2), updated_at = now()
		 WHERE user_id = $1`,
		userID, at,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
