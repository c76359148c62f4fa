package repository

import (
	"context"

	"skill-alert/internal/database"
	"skill-alert/internal/domain/skill"
)

type SkillRepository interface {
	List(ctx context.Context) ([]skill.Token, error)
	Upsert(ctx context.Context, tokens []skill.Token) (int64, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) List(ctx context.Context) ([]skill.Token, error) {
	rows, err := r.db.Query(ctx, `SELECT name, category FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Token, 0)
	for rows.Next() {
		var t skill.Token
		if err := rows.Scan(&t.Name, &t.Category); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Load makes the skills table a registry source.
func (r *PostgresSkillRepository) Load(ctx context.Context) ([]skill.Token, error) {
	return r.List(ctx)
}

// Upsert inserts tokens whose name is not present yet and returns how many
// rows were added.
func (r *PostgresSkillRepository) Upsert(ctx context.Context, tokens []skill.Token) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	var added int64
	for _, t := range tokens {
		category := t.Category
		if category == "" {
			category = skill.DefaultCategory
		}
		n, err := tx.Exec(ctx,
			`INSERT INTO skills (name, category) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			t.Name, category,
		)
		if err != nil {
			return added, err
		}
		added += n
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return added, nil
}
