package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/assignhub/assignment-portal/internal/core/domain"
	"github.com/assignhub/assignment-portal/internal/core/ports"
)

// SessionService maintains server-side login sessions behind opaque ids.
type SessionService struct {
	store ports.SessionStore
	log   zerolog.Logger
}

func NewSessionService(store ports.SessionStore, log zerolog.Logger) *SessionService {
	return &SessionService{store: store, log: log}
}

// Create stores a new session referencing the principal and returns its
// opaque id, suitable for a cookie value.
func (s *SessionService) Create(ctx context.Context, principalID string, kind domain.PrincipalKind) (string, error) {
	session := &domain.Session{
		ID:          uuid.NewString(),
		PrincipalID: principalID,
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return "", err
	}
	return session.ID, nil
}

// Resolve returns the session for the given id, or domain.ErrSessionNotFound.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.store.Find(ctx, sessionID)
}

// Destroy removes the session if present. Destroying an absent or already
// destroyed session succeeds and reports existed=false.
func (s *SessionService) Destroy(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	existed, err := s.store.Delete(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if existed {
		s.log.Debug().Str("session_id", sessionID).Msg("session destroyed")
	}
	return existed, nil
}
