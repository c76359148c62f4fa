package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skill-alert/internal/database"
	"skill-alert/internal/domain/match"
)

type JobMatchRepository interface {
	// Create records m unless its alert already has a match for m.CycleKey.
	// It returns the id of the stored row and whether this call inserted it.
	Create(ctx context.Context, m match.JobMatch) (uuid.UUID, bool, error)
	MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error
	// ListUndigested returns the user's matches not yet included in a digest,
	// best score first.
	ListUndigested(ctx context.Context, userID uuid.UUID, limit int) ([]match.JobMatch, error)
	MarkDigested(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

type PostgresJobMatchRepository struct {
	db database.DB
}

func NewPostgresJobMatchRepository(db database.DB) *PostgresJobMatchRepository {
	return &PostgresJobMatchRepository{db: db}
}

func (r *PostgresJobMatchRepository) Create(ctx context.Context, m match.JobMatch) (uuid.UUID, bool, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.CycleKey == "" {
		m.CycleKey = m.ID.String()
	}
	var resumeID *uuid.UUID
	if m.ResumeID != uuid.Nil {
		resumeID = &m.ResumeID
	}

	n, err := r.db.Exec(ctx,
		`INSERT INTO job_matches
			(id, alert_id, cycle_key, user_id, resume_id, job_title, company, job_url, match_score,
			 matched_skills, missing_skills, notification_sent, notification_sent_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		 ON CONFLICT (alert_id, cycle_key) DO NOTHING`,
		m.ID, m.AlertID, m.CycleKey, m.UserID, resumeID, m.JobTitle, m.Company, m.JobURL, m.MatchScore,
		match.JoinSkills(m.MatchedSkills), match.JoinSkills(m.MissingSkills), m.NotificationSent, m.NotificationSentAt,
		m.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, false, err
	}
	if n > 0 {
		return m.ID, true, nil
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx,
		`SELECT id FROM job_matches WHERE alert_id = $1 AND cycle_key = $2`,
		m.AlertID, m.CycleKey,
	).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return uuid.Nil, false, ErrNotFound
		}
		return uuid.Nil, false, err
	}
	return id, false, nil
}

func (r *PostgresJobMatchRepository) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE job_matches SET notification_sent = TRUE, notification_sent_at = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresJobMatchRepository) ListUndigested(ctx context.Context, userID uuid.UUID, limit int) ([]match.JobMatch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, alert_id, cycle_key, user_id, COALESCE(resume_id, '00000000-0000-0000-0000-000000000000'::uuid),
			job_title, company, job_url, match_score, matched_skills, missing_skills,
			notification_sent, notification_sent_at, digest_sent_at, created_at
		 FROM job_matches
		 WHERE user_id = $1 AND digest_sent_at IS NULL
		 ORDER BY match_score DESC, created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.JobMatch, 0)
	for rows.Next() {
		var m match.JobMatch
		var matched, missing string
		if err := rows.Scan(
			&m.ID, &m.AlertID, &m.CycleKey, &m.UserID, &m.ResumeID, &m.JobTitle, &m.Company, &m.JobURL, &m.MatchScore,
			&matched, &missing, &m.NotificationSent, &m.NotificationSentAt, &m.DigestSentAt, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.MatchedSkills = match.SplitSkills(matched)
		m.MissingSkills = match.SplitSkills(missing)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobMatchRepository) MarkDigested(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE job_matches SET digest_sent_at = $2 WHERE id = ANY($1) AND digest_sent_at IS NULL`,
		ids, at,
	)
	return err
}
