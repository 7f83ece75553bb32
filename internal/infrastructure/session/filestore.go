// Package session provides a file-backed session store: one JSON file per
// session under a configured directory. It is the default backend for local
// development; production deployments use the Redis store instead.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

// FileStore persists each session as <dir>/<id>.json. Sessions older than
// the configured TTL read as absent; the Janitor removes their files.
type FileStore struct {
	dir string
	ttl time.Duration
}

// NewFileStore creates the session directory if needed and returns the store.
// A non-positive ttl disables expiry.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if dir == "" {
		dir = "./sessions"
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir, ttl: ttl}, nil
}

func (s *FileStore) Save(_ context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// Write-then-rename so a concurrent Find never sees a partial file.
	tmp, err := os.CreateTemp(s.dir, "session-*")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(session.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileStore) Find(_ context.Context, id string) (*domain.Session, error) {
	payload, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.expired(session.CreatedAt) {
		_ = os.Remove(s.path(id))
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *FileStore) expired(createdAt time.Time) bool {
	return s.ttl > 0 && time.Since(createdAt) > s.ttl
}

func (s *FileStore) Delete(_ context.Context, id string) (bool, error) {
	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return true, nil
}

// path sanitises the id so a crafted cookie value cannot escape the
// session directory.
func (s *FileStore) path(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, id)
	return filepath.Join(s.dir, safe+".json")
}
