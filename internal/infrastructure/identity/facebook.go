// Package identity implements external identity providers used for
// federated login.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

const defaultGraphURL = "https://graph.facebook.com/v12.0"

// FacebookConfig holds the Facebook Graph settings. GraphURL is overridable
// for tests.
type FacebookConfig struct {
	GraphURL   string
	HTTPClient *http.Client
}

// FacebookProvider resolves Facebook access tokens into verified profiles via
// the Graph API /me endpoint. The Graph call itself is the token validation:
// an expired or forged token never yields a profile.
type FacebookProvider struct {
	graphURL   string
	httpClient *http.Client
}

func NewFacebookProvider(cfg FacebookConfig) *FacebookProvider {
	graphURL := cfg.GraphURL
	if graphURL == "" {
		graphURL = defaultGraphURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FacebookProvider{graphURL: graphURL, httpClient: client}
}

type facebookProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Resolve implements ports.IdentityProvider.
func (p *FacebookProvider) Resolve(ctx context.Context, accessToken string) (*domain.ExternalIdentity, error) {
	q := url.Values{}
	q.Set("fields", "id,name,first_name,last_name")
	q.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.graphURL+"/me?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read profile response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook graph returned status %d", resp.StatusCode)
	}

	var profile facebookProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("facebook profile has no id")
	}

	return &domain.ExternalIdentity{
		ID:          profile.ID,
		DisplayName: profile.Name,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
	}, nil
}
