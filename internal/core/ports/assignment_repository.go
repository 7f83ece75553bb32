package ports

import (
	"context"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

// AssignmentRepository defines the persistence interface for assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error)
	FindByID(ctx context.Context, id string) (*domain.Assignment, error)
	ListByAdmin(ctx context.Context, adminID string) ([]*domain.Assignment, error)
	// TransitionStatus performs a single atomic find-and-update: the
	// assignment must exist, still be pending, and reference adminID as its
	// reviewer. Returns domain.ErrAssignmentNotFound when no document
	// matched; callers disambiguate the cause with a follow-up FindByID.
	TransitionStatus(ctx context.Context, id, adminID string, status domain.AssignmentStatus) (*domain.Assignment, error)
}
