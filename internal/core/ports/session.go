package ports

import (
	"context"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

// SessionStore persists sessions keyed by their opaque id. Implementations
// exist for a local file directory and for Redis.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) error
	Find(ctx context.Context, id string) (*domain.Session, error)
	// Delete removes the session and reports whether it existed. Deleting an
	// absent session is not an error.
	Delete(ctx context.Context, id string) (bool, error)
}

// SessionManager drives the cookie-based login flow.
type SessionManager interface {
	Create(ctx context.Context, principalID string, kind domain.PrincipalKind) (string, error)
	Resolve(ctx context.Context, sessionID string) (*domain.Session, error)
	// Destroy is idempotent: destroying an absent session succeeds and
	// reports existed=false.
	Destroy(ctx context.Context, sessionID string) (existed bool, err error)
}
