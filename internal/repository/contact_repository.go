package repository

import (
	"context"

	"github.com/google/uuid"

	"skill-alert/internal/database"
)

// Contact is who a notification is addressed to.
type Contact struct {
	UserID   uuid.UUID
	Email    string
	FullName string
}

type ContactRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (Contact, error)
}

type PostgresContactRepository struct {
	db database.DB
}

func NewPostgresContactRepository(db database.DB) *PostgresContactRepository {
	return &PostgresContactRepository{db: db}
}

func (r *PostgresContactRepository) Get(ctx context.Context, userID uuid.UUID) (Contact, error) {
	var c Contact
	err := r.db.QueryRow(ctx, `SELECT id, email, full_name FROM users WHERE id = $1`, userID).
		Scan(&c.UserID, &c.Email, &c.FullName)
	if err != nil {
		if isNoRows(err) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
	}
	return c, nil
}
