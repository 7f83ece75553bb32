package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/assignhub/assignment-portal/internal/core/domain"
	"github.com/assignhub/assignment-portal/internal/core/ports"
)

// AssignmentService implements the upload/accept/reject workflow.
type AssignmentService struct {
	repo       ports.AssignmentRepository
	principals ports.PrincipalRepository
	log        zerolog.Logger
}

func NewAssignmentService(repo ports.AssignmentRepository, principals ports.PrincipalRepository, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{repo: repo, principals: principals, log: log}
}

// Upload creates a new pending assignment owned by the given user and
// targeted at an existing admin.
func (s *AssignmentService) Upload(ctx context.Context, in ports.UploadInput) (*domain.Assignment, error) {
	task := strings.TrimSpace(in.Task)
	if task == "" {
		return nil, fmt.Errorf("%w: a task is required", domain.ErrValidation)
	}
	if in.AdminID == "" {
		return nil, fmt.Errorf("%w: adminId is required", domain.ErrValidation)
	}

	if _, err := s.principals.FindByID(ctx, domain.KindAdmin, in.AdminID); err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, fmt.Errorf("%w: invalid adminId", domain.ErrValidation)
		}
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Assignment{
		UserID:    in.UserID,
		AdminID:   in.AdminID,
		Task:      task,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", in.UserID).Msg("failed to create assignment")
		return nil, err
	}

	s.log.Info().Str("assignment_id", created.ID).Str("user_id", in.UserID).Str("admin_id", in.AdminID).Msg("assignment uploaded")
	return created, nil
}

// Accept moves a pending assignment to accepted. Only the assignment's
// reviewing admin may perform the transition.
func (s *AssignmentService) Accept(ctx context.Context, assignmentID, actingAdminID string) (*domain.Assignment, error) {
	return s.transition(ctx, assignmentID, actingAdminID, domain.StatusAccepted)
}

// Reject moves a pending assignment to rejected.
func (s *AssignmentService) Reject(ctx context.Context, assignmentID, actingAdminID string) (*domain.Assignment, error) {
	return s.transition(ctx, assignmentID, actingAdminID, domain.StatusRejected)
}

func (s *AssignmentService) transition(ctx context.Context, assignmentID, actingAdminID string, status domain.AssignmentStatus) (*domain.Assignment, error) {
	updated, err := s.repo.TransitionStatus(ctx, assignmentID, actingAdminID, status)
	if err == nil {
		s.log.Info().Str("assignment_id", assignmentID).Str("status", string(status)).Msg("assignment transitioned")
		return updated, nil
	}
	if !errors.Is(err, domain.ErrAssignmentNotFound) {
		return nil, err
	}

	// The atomic update matched nothing. Re-read to tell the caller why.
	existing, findErr := s.repo.FindByID(ctx, assignmentID)
	if findErr != nil {
		return nil, findErr
	}
	if existing.AdminID != actingAdminID {
		return nil, domain.ErrForbidden
	}
	if !existing.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s is terminal", domain.ErrInvalidTransition, existing.Status)
	}
	return nil, err
}

// ListForAdmin returns all assignments targeted at the given admin.
func (s *AssignmentService) ListForAdmin(ctx context.Context, adminID string) ([]*domain.Assignment, error) {
	return s.repo.ListByAdmin(ctx, adminID)
}

// ListAdmins returns every admin along with the assignments targeted at them.
func (s *AssignmentService) ListAdmins(ctx context.Context) ([]ports.AdminListing, error) {
	admins, err := s.principals.List(ctx, domain.KindAdmin)
	if err != nil {
		return nil, err
	}

	listings := make([]ports.AdminListing, 0, len(admins))
	for _, admin := range admins {
		assignments, err := s.repo.ListByAdmin(ctx, admin.ID)
		if err != nil {
			return nil, err
		}
		listings = append(listings, ports.AdminListing{Principal: admin, Assignments: assignments})
	}
	return listings, nil
}
