package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dag-industries/attendance-backend-go/internal/domain/settings"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get implements settings.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context) (settings.Stored, error) {
	q := GetQuerier(ctx, r.db)

	var (
		stored settings.Stored
		data   []byte
	)
	err := q.QueryRow(ctx, `SELECT data, updated_by, updated_at FROM organization_settings WHERE id = 1`).
		Scan(&data, &stored.UpdatedBy, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Stored{}, settings.ErrSettingsNotFound
		}
		return settings.Stored{}, fmt.Errorf("failed to get settings: %w", err)
	}

	// Start from defaults so keys added later read sensibly from older rows
	stored.Settings = settings.Default()
	if err := json.Unmarshal(data, &stored.Settings); err != nil {
		return settings.Stored{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return stored, nil
}

// Save implements settings.SettingsRepository.
func (r *settingsRepository) Save(ctx context.Context, s settings.Settings, updatedBy *string) (settings.Stored, error) {
	q := GetQuerier(ctx, r.db)

	data, err := json.Marshal(s)
	if err != nil {
		return settings.Stored{}, fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `
		INSERT INTO organization_settings (id, data, updated_by, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
		RETURNING updated_by, updated_at
	`
	stored := settings.Stored{Settings: s}
	if err := q.QueryRow(ctx, query, data, updatedBy).Scan(&stored.UpdatedBy, &stored.UpdatedAt); err != nil {
		return settings.Stored{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return stored, nil
}

// SeedIfMissing implements settings.SettingsRepository.
func (r *settingsRepository) SeedIfMissing(ctx context.Context, s settings.Settings) (bool, error) {
	q := GetQuerier(ctx, r.db)

	data, err := json.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("failed to encode settings: %w", err)
	}

	tag, err := q.Exec(ctx, `INSERT INTO organization_settings (id, data) VALUES (1, $1) ON CONFLICT (id) DO NOTHING`, data)
	if err != nil {
		return false, fmt.Errorf("failed to seed settings: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
