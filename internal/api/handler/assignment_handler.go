package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assignhub/assignment-portal/internal/api/metrics"
	"github.com/assignhub/assignment-portal/internal/core/domain"
	"github.com/assignhub/assignment-portal/internal/core/ports"
)

// AssignmentHandler handles HTTP requests for the assignment workflow.
type AssignmentHandler struct {
	service ports.AssignmentService
}

func NewAssignmentHandler(service ports.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Upload handles POST /users/upload: a user submits a task to an admin.
//
// @Summary      Upload an assignment
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      uploadRequest  true  "Task and target admin"
// @Success      201   {object}  assignmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/upload [post]
func (h *AssignmentHandler) Upload(c echo.Context) error {
	user, err := principalFromCtx(c)
	if err != nil {
		return err
	}

	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if req.Task == "" || req.AdminID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "task and adminId are required"})
	}

	assignment, err := h.service.Upload(c.Request().Context(), ports.UploadInput{
		UserID:  user.ID,
		AdminID: req.AdminID,
		Task:    req.Task,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.AssignmentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, assignmentResponse{Success: true, Assignment: assignment})
}

// ListAdmins handles GET /users/admins and GET /admins: every admin together
// with the assignments targeted at them.
//
// @Summary      List admins with their assignments
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminListResponse
// @Router       /users/admins [get]
func (h *AssignmentHandler) ListAdmins(c echo.Context) error {
	listings, err := h.service.ListAdmins(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminListResponse{
		Success: true,
		Data:    listings,
		Status:  "Fetched all admins successfully!",
	})
}

// ListOwn handles GET /admins/assignments: the authenticated admin's queue.
//
// @Summary      List the authenticated admin's assignments
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Assignment
// @Router       /admins/assignments [get]
func (h *AssignmentHandler) ListOwn(c echo.Context) error {
	admin, err := principalFromCtx(c)
	if err != nil {
		return err
	}

	assignments, err := h.service.ListForAdmin(c.Request().Context(), admin.ID)
	if err != nil {
		return err
	}
	if assignments == nil {
		assignments = []*domain.Assignment{}
	}
	return c.JSON(http.StatusOK, assignments)
}

// Accept handles POST /admins/assignments/:id/accept.
//
// @Summary      Accept a pending assignment
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Assignment id"
// @Success      200  {object}  assignmentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /admins/assignments/{id}/accept [post]
func (h *AssignmentHandler) Accept(c echo.Context) error {
	return h.transition(c, domain.StatusAccepted)
}

// Reject handles POST /admins/assignments/:id/reject.
//
// @Summary      Reject a pending assignment
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Assignment id"
// @Success      200  {object}  assignmentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /admins/assignments/{id}/reject [post]
func (h *AssignmentHandler) Reject(c echo.Context) error {
	return h.transition(c, domain.StatusRejected)
}

func (h *AssignmentHandler) transition(c echo.Context, status domain.AssignmentStatus) error {
	admin, err := principalFromCtx(c)
	if err != nil {
		return err
	}

	var assignment *domain.Assignment
	if status == domain.StatusAccepted {
		assignment, err = h.service.Accept(c.Request().Context(), c.Param("id"), admin.ID)
	} else {
		assignment, err = h.service.Reject(c.Request().Context(), c.Param("id"), admin.ID)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAssignmentNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: "assignment not found"})
		case errors.Is(err, domain.ErrForbidden):
			return c.JSON(http.StatusForbidden, errorResponse{Error: "access forbidden"})
		case errors.Is(err, domain.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.AssignmentTransitionsTotal.WithLabelValues(string(status)).Inc()
	return c.JSON(http.StatusOK, assignmentResponse{Success: true, Assignment: assignment})
}
