package seeder

import (
	"context"

	"skill-alert/internal/database"
	"skill-alert/internal/domain/skill"
	"skill-alert/internal/repository"
)

// SkillsSeeder inserts registry tokens that are not in the skills table
// yet. Existing rows, including their categories, are left alone.
type SkillsSeeder struct {
	Tokens []skill.Token
}

func (SkillsSeeder) Name() string { return "skills" }

func (s SkillsSeeder) Run(ctx context.Context, db database.DB) (int64, error) {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return 0, err
	}
	return repository.NewPostgresSkillRepository(db).Upsert(ctx, s.Tokens)
}
