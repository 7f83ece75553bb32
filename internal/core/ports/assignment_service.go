package ports

import (
	"context"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

// UploadInput carries the fields for a new assignment submission.
type UploadInput struct {
	UserID  string
	AdminID string
	Task    string
}

// AdminListing is an admin together with the assignments targeted at them,
// mirroring the populated virtual field the portal exposes on admin listings.
type AdminListing struct {
	*domain.Principal
	Assignments []*domain.Assignment `json:"assignments"`
}

type AssignmentService interface {
	Upload(ctx context.Context, in UploadInput) (*domain.Assignment, error)
	Accept(ctx context.Context, assignmentID, actingAdminID string) (*domain.Assignment, error)
	Reject(ctx context.Context, assignmentID, actingAdminID string) (*domain.Assignment, error)
	ListForAdmin(ctx context.Context, adminID string) ([]*domain.Assignment, error)
	ListAdmins(ctx context.Context) ([]AdminListing, error)
}
