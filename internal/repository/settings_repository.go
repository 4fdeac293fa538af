package repository

import (
	"context"

	"github.com/lucroml/backend-go/internal/domain"
)

// SettingsRepository stores the single global configuration row.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, s *domain.Settings) error
}
