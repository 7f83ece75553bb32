package ports

import (
	"context"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

// PrincipalRepository defines the persistence interface for the two principal
// namespaces. Every method is scoped by kind; implementations must keep the
// User and Admin namespaces fully independent.
type PrincipalRepository interface {
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	FindByID(ctx context.Context, kind domain.PrincipalKind, id string) (*domain.Principal, error)
	FindByUsername(ctx context.Context, kind domain.PrincipalKind, username string) (*domain.Principal, error)
	FindByExternalID(ctx context.Context, kind domain.PrincipalKind, externalID string) (*domain.Principal, error)
	List(ctx context.Context, kind domain.PrincipalKind) ([]*domain.Principal, error)
	AttachExternalID(ctx context.Context, kind domain.PrincipalKind, id, externalID string) error
}
