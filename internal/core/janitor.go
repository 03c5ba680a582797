package core

// janitor.go drops expired entries from an in-memory revocation store.
// Redis expires its keys on its own, so the janitor only runs for stores
// that implement Purger.

import (
	"context"
	"log/slog"
	"time"
)

// Purger is a revocation store that must be cleaned up explicitly.
type Purger interface {
	Purge() int
}

// StartRevocationJanitor purges expired revocations every interval until
// ctx is cancelled. It runs once immediately and returns at once when the
// revocation store does not need purging or interval is not positive.
func (s *Service) StartRevocationJanitor(ctx context.Context, interval time.Duration) {
	p, ok := s.revoked.(Purger)
	if !ok || interval <= 0 {
		slog.Debug("revocation janitor not needed")
		return
	}

	slog.Info("revocation janitor started", "interval", interval)

	runPurge(p)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("revocation janitor stopped")
			return
		case <-ticker.C:
			runPurge(p)
		}
	}
}

func runPurge(p Purger) {
	start := time.Now()
	purged := p.Purge()
	slog.Debug("revocations purged",
		"entries_purged", purged,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
