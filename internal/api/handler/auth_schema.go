package handler

import "github.com/assignhub/assignment-portal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Username  string `json:"username"  validate:"required"`
	Password  string `json:"password"  validate:"required"`
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname"  validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse is returned by register, login and facebook token exchange.
// Status carries the human-readable outcome the portal's clients display.
type authResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Status  string `json:"status"`
}

type checkTokenResponse struct {
	Success bool              `json:"success"`
	Status  string            `json:"status"`
	User    *domain.Principal `json:"user,omitempty"`
}
