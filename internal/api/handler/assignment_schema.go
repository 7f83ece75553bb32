package handler

import (
	"github.com/assignhub/assignment-portal/internal/core/domain"
	"github.com/assignhub/assignment-portal/internal/core/ports"
)

type uploadRequest struct {
	Task    string `json:"task"    validate:"required"`
	AdminID string `json:"adminId" validate:"required"`
}

type assignmentResponse struct {
	Success    bool               `json:"success"`
	Assignment *domain.Assignment `json:"assignment"`
}

type adminListResponse struct {
	Success bool                 `json:"success"`
	Data    []ports.AdminListing `json:"data"`
	Status  string               `json:"status"`
}
