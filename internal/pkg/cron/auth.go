package cron

import (
	"context"
	"log/slog"
	"time"
)

type tokenPruner interface {
	PruneRevoked(now time.Time) int
}

// AuthJobs keeps the in-memory access token revocation list bounded
type AuthJobs struct {
	tokens tokenPruner
}

func NewAuthJobs(tokens tokenPruner) *AuthJobs {
	return &AuthJobs{tokens: tokens}
}

func (j *AuthJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_revoked_tokens", 30*time.Minute, j.PruneRevokedTokens)
}

func (j *AuthJobs) PruneRevokedTokens(ctx context.Context) error {
	if n := j.tokens.PruneRevoked(time.Now()); n > 0 {
		slog.Debug("Cron: Pruned revoked tokens", "count", n)
	}
	return nil
}
