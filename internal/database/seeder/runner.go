package seeder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"skill-alert/internal/database"
	"skill-alert/internal/domain/skill"
	applog "skill-alert/internal/pkg/logger"
)

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

// Defaults seeds the skills table with the built-in registry list.
func Defaults(logger *zap.Logger) Runner {
	return Runner{
		Seeders: []Seeder{SkillsSeeder{Tokens: skill.FallbackTokens()}},
		Logger:  logger,
	}
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	logger := applog.OrNop(r.Logger)
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		n, err := s.Run(ctx, db)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Info("seeder finished", zap.String("seeder", s.Name()), zap.Int64("inserted", n))
	}
	return nil
}
