package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/assignhub/assignment-portal/internal/core/domain"
	"github.com/assignhub/assignment-portal/internal/core/ports"
)

// AuthService implements registration and the three login strategies (local,
// federated, bearer token) for both principal kinds.
type AuthService struct {
	repo     ports.PrincipalRepository
	identity ports.IdentityProvider
	tokens   *TokenIssuer
	log      zerolog.Logger
}

func NewAuthService(repo ports.PrincipalRepository, identity ports.IdentityProvider, tokens *TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, identity: identity, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if !in.Kind.Valid() || in.Username == "" || in.Password == "" || in.Firstname == "" || in.Lastname == "" {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Principal{
		Kind:         in.Kind,
		Username:     in.Username,
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID, created.Kind, 0)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("kind", string(in.Kind)).Str("username", in.Username).Msg("principal registered")
	return &ports.AuthResult{Token: token, Principal: created}, nil
}

func (s *AuthService) Login(ctx context.Context, kind domain.PrincipalKind, username, password string) (*ports.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	p, err := s.repo.FindByUsername(ctx, kind, username)
	if err != nil {
		// Unknown username and bad password are indistinguishable to the caller.
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// Federated-only accounts have no password credential.
	if p.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(p.ID, p.Kind, 0)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{Token: token, Principal: p}, nil
}

func (s *AuthService) FederatedLogin(ctx context.Context, kind domain.PrincipalKind, accessToken string) (*ports.AuthResult, error) {
	if accessToken == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.identity.Resolve(ctx, accessToken)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("federated identity resolution failed")
		return nil, domain.ErrInvalidCredentials
	}

	p, err := s.repo.FindByExternalID(ctx, kind, identity.ID)
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		p, err = s.registerFederated(ctx, kind, identity)
	}
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(p.ID, p.Kind, 0)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{Token: token, Principal: p}, nil
}

// registerFederated creates a just-in-time account from the resolved profile.
// Concurrent first logins race on the unique external-id index; the loser
// re-reads the winner's principal.
func (s *AuthService) registerFederated(ctx context.Context, kind domain.PrincipalKind, identity *domain.ExternalIdentity) (*domain.Principal, error) {
	first, last := identity.FirstName, identity.LastName
	if first == "" || last == "" {
		first, last = splitDisplayName(identity.DisplayName)
	}

	created, err := s.repo.Create(ctx, &domain.Principal{
		Kind:       kind,
		Username:   identity.DisplayName,
		Firstname:  first,
		Lastname:   last,
		ExternalID: identity.ID,
	})
	if err == nil {
		s.log.Info().Str("kind", string(kind)).Str("external_id", identity.ID).Msg("federated principal created")
		return created, nil
	}
	if errors.Is(err, domain.ErrDuplicateExternalID) || errors.Is(err, domain.ErrDuplicateUsername) {
		return s.repo.FindByExternalID(ctx, kind, identity.ID)
	}
	return nil, err
}

func (s *AuthService) VerifyToken(ctx context.Context, kind domain.PrincipalKind, token string) (*domain.Principal, error) {
	id, err := s.tokens.Decode(token, kind)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		// A signed token for a since-removed principal is unauthenticated,
		// not a server error.
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return p, nil
}

// splitDisplayName derives first/last name from a provider display name when
// the profile carries no structured name fields.
func splitDisplayName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
