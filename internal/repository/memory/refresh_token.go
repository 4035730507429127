package memory

import (
	"context"

	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
)

type refreshTokenRepository struct {
	store *Store
}

func (s *Store) RefreshTokens() auth.RefreshTokenRepository {
	return &refreshTokenRepository{store: s}
}

func (r *refreshTokenRepository) Create(ctx context.Context, profileID string, token string, expiresAt int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.data.refreshTokens[token] = refreshToken{profileID: profileID, expiresAt: expiresAt}
	return nil
}

func (r *refreshTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.data.refreshTokens[token]
	if !ok || t.revoked {
		return true, nil
	}
	return t.expiresAt <= r.store.now().Unix(), nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if t, ok := r.store.data.refreshTokens[token]; ok {
		t.revoked = true
		r.store.data.refreshTokens[token] = t
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllForProfile(ctx context.Context, profileID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for token, t := range r.store.data.refreshTokens {
		if t.profileID == profileID {
			t.revoked = true
			r.store.data.refreshTokens[token] = t
		}
	}
	return nil
}
