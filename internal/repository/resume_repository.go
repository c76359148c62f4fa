package repository

import (
	"context"

	"github.com/google/uuid"

	"skill-alert/internal/database"
	"skill-alert/internal/domain/resume"
)

type ResumeRepository interface {
	// Latest returns the user's most recently uploaded resume.
	Latest(ctx context.Context, userID uuid.UUID) (resume.Resume, error)
}

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) Latest(ctx context.Context, userID uuid.UUID) (resume.Resume, error) {
	var res resume.Resume
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, filename, content, location, expected_salary, experience_years, created_at, updated_at
		 FROM resumes
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&res.ID, &res.UserID, &res.Filename, &res.Content, &res.Location, &res.ExpectedSalary,
		&res.ExperienceYears, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return resume.Resume{}, ErrNotFound
		}
		return resume.Resume{}, err
	}
	return res, nil
}
