package ports

import (
	"context"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

// RegisterInput carries the fields required for a local registration.
type RegisterInput struct {
	Kind      domain.PrincipalKind
	Username  string
	Password  string
	Firstname string
	Lastname  string
}

// AuthResult is produced by every successful authentication path.
type AuthResult struct {
	Token     string
	Principal *domain.Principal
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, kind domain.PrincipalKind, username, password string) (*AuthResult, error)
	FederatedLogin(ctx context.Context, kind domain.PrincipalKind, accessToken string) (*AuthResult, error)
	// VerifyToken checks signature, expiry and kind scope, then re-resolves
	// the principal so a token for a no-longer-existing account fails.
	VerifyToken(ctx context.Context, kind domain.PrincipalKind, token string) (*domain.Principal, error)
}

// IdentityProvider resolves an externally issued OAuth access token into a
// verified profile. Token validation is the provider's concern.
type IdentityProvider interface {
	Resolve(ctx context.Context, accessToken string) (*domain.ExternalIdentity, error)
}
