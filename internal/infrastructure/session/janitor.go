package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

const defaultSweepInterval = 10 * time.Minute

// Janitor periodically removes expired session files so the directory does
// not grow without bound. Lazy expiry in FileStore.Find already keeps stale
// sessions from authenticating; the janitor only reclaims disk.
type Janitor struct {
	store    *FileStore
	interval time.Duration
	log      zerolog.Logger
}

// NewJanitor creates a Janitor for the given store. A non-positive interval
// uses defaultSweepInterval.
func NewJanitor(store *FileStore, interval time.Duration, log zerolog.Logger) *Janitor {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Janitor{store: store, interval: interval, log: log}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := j.Sweep()
				if err != nil {
					j.log.Warn().Err(err).Msg("session sweep failed")
				} else if removed > 0 {
					j.log.Debug().Int("removed", removed).Msg("expired sessions swept")
				}
			}
		}
	}()
}

// Sweep removes every expired session file and reports how many went away.
func (j *Janitor) Sweep() (int, error) {
	if j.store.ttl <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(j.store.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(j.store.dir, entry.Name())

		payload, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var session domain.Session
		if err := json.Unmarshal(payload, &session); err != nil {
			// Unreadable session files are dead weight either way.
			if os.Remove(path) == nil {
				removed++
			}
			continue
		}
		if j.store.expired(session.CreatedAt) {
			if os.Remove(path) == nil {
				removed++
			}
		}
	}
	return removed, nil
}
