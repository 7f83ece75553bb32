package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side state behind an opaque browser cookie. It holds
// a reference to the logged-in principal, never the principal itself.
type Session struct {
	ID          string        `json:"id"`
	PrincipalID string        `json:"principal_id"`
	Kind        PrincipalKind `json:"kind"`
	CreatedAt   time.Time     `json:"created_at"`
}
