package settings

import (
	"context"
	"time"
)

// Stored is the persisted settings row.
type Stored struct {
	Settings  Settings
	UpdatedBy *string
	UpdatedAt time.Time
}

type SettingsRepository interface {
	// Get returns ErrSettingsNotFound before the row has been seeded
	Get(ctx context.Context) (Stored, error)
	Save(ctx context.Context, s Settings, updatedBy *string) (Stored, error)

	// SeedIfMissing inserts s only when no row exists. Reports whether it inserted.
	SeedIfMissing(ctx context.Context, s Settings) (bool, error)
}
