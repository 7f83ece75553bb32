package domain

import (
	"errors"
	"time"
)

// AssignmentStatus represents the review state of an assignment.
type AssignmentStatus string

const (
	StatusPending  AssignmentStatus = "pending"
	StatusAccepted AssignmentStatus = "accepted"
	StatusRejected AssignmentStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions.
// Accepted and rejected are terminal.
var validTransitions = map[AssignmentStatus][]AssignmentStatus{
	StatusPending: {StatusAccepted, StatusRejected},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrAssignmentNotFound = errors.New("assignment not found")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s AssignmentStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Assignment is a task submitted by a user for review by a specific admin.
// Only the referenced admin may move it out of pending.
type Assignment struct {
	ID        string           `json:"id" bson:"_id,omitempty"`
	UserID    string           `json:"user_id" bson:"user_id"`
	AdminID   string           `json:"admin_id" bson:"admin_id"`
	Task      string           `json:"task" bson:"task"`
	Status    AssignmentStatus `json:"status" bson:"status"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}
