package seeder

import (
	"context"

	"skill-alert/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) (int64, error)
}
