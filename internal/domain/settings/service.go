package settings

import "context"

type SettingsService interface {
	Get(ctx context.Context) (SettingsResponse, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	// Current returns the effective settings for internal callers, defaults when unseeded.
	Current(ctx context.Context) (Settings, error)

	// Seed stores s unless settings already exist.
	Seed(ctx context.Context, s Settings) error
}
