package memory

import (
	"context"

	"github.com/dag-industries/attendance-backend-go/internal/domain/settings"
)

type settingsRepository struct {
	store *Store
}

func (s *Store) Settings() settings.SettingsRepository {
	return &settingsRepository{store: s}
}

func (r *settingsRepository) Get(ctx context.Context) (settings.Stored, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.data.settings == nil {
		return settings.Stored{}, settings.ErrSettingsNotFound
	}
	return *r.store.data.settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, s settings.Settings, updatedBy *string) (settings.Stored, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("settings.Save"); err != nil {
		return settings.Stored{}, err
	}
	stored := settings.Stored{Settings: s, UpdatedBy: updatedBy, UpdatedAt: r.store.now()}
	r.store.data.settings = &stored
	return stored, nil
}

func (r *settingsRepository) SeedIfMissing(ctx context.Context, s settings.Settings) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.data.settings != nil {
		return false, nil
	}
	r.store.data.settings = &settings.Stored{Settings: s, UpdatedAt: r.store.now()}
	return true, nil
}
