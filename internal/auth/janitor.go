// AngelaMos | 2026
// janitor.go

package auth

import (
	"context"
	"log/slog"
	"time"
)

type expiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// RunJanitor purges expired refresh tokens every interval until ctx is done.
func RunJanitor(ctx context.Context, repo expiredDeleter, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("refresh token cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("refresh tokens purged", "count", n)
			}
		}
	}
}
