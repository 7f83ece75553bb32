package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// TokenIssuer signs and decodes the bearer tokens handed out on login. A
// token binds a principal id to its kind; decoding in the wrong kind context
// fails even when the id would resolve in both namespaces.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given principal. A non-positive ttl uses the
// issuer default.
func (t *TokenIssuer) Issue(principalID string, kind domain.PrincipalKind, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = t.ttl
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"_id":  principalID,
		"kind": string(kind),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Decode verifies signature and expiry and returns the embedded principal id.
// Tokens signed for the other principal kind are rejected as invalid.
func (t *TokenIssuer) Decode(token string, kind domain.PrincipalKind) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return "", domain.ErrTokenInvalid
	}

	id, _ := claims["_id"].(string)
	tokenKind, _ := claims["kind"].(string)
	if id == "" || tokenKind != string(kind) {
		return "", domain.ErrTokenInvalid
	}
	return id, nil
}
