package domain

import (
	"errors"
	"time"
)

// PrincipalKind selects one of the two independent principal namespaces.
type PrincipalKind string

const (
	KindUser  PrincipalKind = "user"
	KindAdmin PrincipalKind = "admin"
)

// Valid reports whether k is one of the known principal kinds.
func (k PrincipalKind) Valid() bool {
	return k == KindUser || k == KindAdmin
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrDuplicateUsername = errors.New("username already taken")
var ErrDuplicateExternalID = errors.New("external identity already linked")
var ErrPrincipalNotFound = errors.New("principal not found")
var ErrValidation = errors.New("invalid input")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")

// Principal models an authenticated actor, either a User or an Admin.
// Usernames are unique per kind; the same string may exist once in each
// namespace. A principal registered locally carries a password hash, one
// created through a federated login carries an external identity id instead.
type Principal struct {
	ID           string        `json:"id"`
	Kind         PrincipalKind `json:"kind"`
	Username     string        `json:"username"`
	Firstname    string        `json:"firstname"`
	Lastname     string        `json:"lastname"`
	PasswordHash string        `json:"-"`
	ExternalID   string        `json:"facebook_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ExternalIdentity is a provider-verified profile resolved from an OAuth
// access token.
type ExternalIdentity struct {
	ID          string
	DisplayName string
	FirstName   string
	LastName    string
}
