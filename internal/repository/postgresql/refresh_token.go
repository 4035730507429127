package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/audit"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type refreshTokenRepository struct {
	db *database.DB
}

func NewRefreshTokenRepository(db *database.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (r *refreshTokenRepository) Create(ctx context.Context, profileID string, token string, expiresAt int64) error {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate refresh token id: %w", err)
	}

	meta := audit.RequestMetaFromContext(ctx)
	query := `
		INSERT INTO refresh_tokens (id, profile_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
	`
	_, err = q.Exec(ctx, query, id.String(), profileID, hashToken(token), time.Unix(expiresAt, 0).UTC(), meta.UserAgent, meta.IPAddress)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var revokedAt *time.Time
	var expiresAt time.Time
	err := q.QueryRow(ctx, `SELECT revoked_at, expires_at FROM refresh_tokens WHERE token_hash = $1`, hashToken(token)).
		Scan(&revokedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}

	return revokedAt != nil || !expiresAt.After(time.Now()), nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = $1 AND revoked_at IS NULL`, hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllForProfile(ctx context.Context, profileID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE refresh_tokens SET revoked_at = NOW() WHERE profile_id = $1 AND revoked_at IS NULL`, profileID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}
