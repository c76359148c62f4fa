package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skill-alert/internal/database"
	"skill-alert/internal/domain/alert"
	"skill-alert/internal/domain/cadence"
)

type AlertRepository interface {
	ListActive(ctx context.Context) ([]alert.Alert, error)
	GetByID(ctx context.Context, id uuid.UUID) (alert.Alert, error)
	Create(ctx context.Context, a alert.Alert) error
	// MarkSent advances last_sent_at to at unless it is already later and
	// returns the stored value.
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (time.Time, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type PostgresAlertRepository struct {
	db database.DB
}

func NewPostgresAlertRepository(db database.DB) *PostgresAlertRepository {
	return &PostgresAlertRepository{db: db}
}

const alertColumns = `id, user_id, job_title, company, description, required_skills, salary_min, salary_max,
	location, job_url, frequency, match_threshold, send_email_notification, is_active, last_sent_at,
	last_evaluated_at, created_at, updated_at`

func scanAlert(row database.Row) (alert.Alert, error) {
	var a alert.Alert
	var freq string
	err := row.Scan(
		&a.ID, &a.UserID, &a.JobTitle, &a.Company, &a.Description, &a.RequiredSkills, &a.SalaryMin, &a.SalaryMax,
		&a.Location, &a.JobURL, &freq, &a.MatchThreshold, &a.SendEmailNotification, &a.Active, &a.LastSentAt,
		&a.LastEvaluatedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return alert.Alert{}, err
	}
	a.Frequency = cadence.Frequency(freq)
	return a, nil
}

func (r *PostgresAlertRepository) ListActive(ctx context.Context) ([]alert.Alert, error) {
	rows, err := r.db.Query(ctx, `SELECT `+alertColumns+` FROM job_alerts WHERE is_active ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]alert.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAlertRepository) GetByID(ctx context.Context, id uuid.UUID) (alert.Alert, error) {
	a, err := scanAlert(r.db.QueryRow(ctx, `SELECT `+alertColumns+` FROM job_alerts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return alert.Alert{}, ErrNotFound
		}
		return alert.Alert{}, err
	}
	return a, nil
}

func (r *PostgresAlertRepository) Create(ctx context.Context, a alert.Alert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO job_alerts (`+alertColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		a.ID, a.UserID, a.JobTitle, a.Company, a.Description, a.RequiredSkills, a.SalaryMin, a.SalaryMax,
		a.Location, a.JobURL, string(a.Frequency), a.MatchThreshold, a.SendEmailNotification, a.Active, a.LastSentAt,
		a.LastEvaluatedAt, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *PostgresAlertRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (time.Time, error) {
	var stored time.Time
	err := r.db.QueryRow(ctx,
		`UPDATE job_alerts
		 SET last_sent_at = GREATEST(COALESCE(last_sent_at, $2), $2), updated_at = now()
		 WHERE id = $1
		 RETURNING last_sent_at`,
		id, at,
	).Scan(&stored)
	if err != nil {
		if isNoRows(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return stored, nil
}

// MarkEvaluated stamps a match that was recorded without an email. Like
// MarkSent it never moves the stamp backwards.
func (r *PostgresAlertRepository) MarkEvaluated(ctx context.Context, id uuid.UUID, at time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE job_alerts
		 SET last_evaluated_at = GREATEST(COALESCE(last_evaluated_at, $2), $2), updated_at = now()
		 WHERE id = $1`,
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

func (r *PostgresAlertRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	n, err := r.db.Exec(ctx, `UPDATE job_alerts SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
