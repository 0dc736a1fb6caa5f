package apiclient

import (
	"context"

	"github.com/dgellow/review-front/internal/tokenstore"
)

// UserProfile is the authenticated user record returned by the backend.
// Read-only from the frontend's perspective; fetched fresh on each
// dashboard request and never persisted locally.
type UserProfile struct {
	ID               string `json:"id"`
	GitHubUsername   string `json:"github_username"`
	Email            string `json:"email,omitempty"`
	Name             string `json:"name,omitempty"`
	AvatarURL        string `json:"avatar_url,omitempty"`
	SubscriptionTier string `json:"subscription_tier,omitempty"`
}

// DisplayName returns the best available human-readable name
func (p *UserProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.GitHubUsername
}

// CurrentUser fetches the authenticated user's profile from the backend
func (c *Client) CurrentUser(ctx context.Context, ts tokenstore.Store) (*UserProfile, error) {
	var profile UserProfile
	if err := c.Get(ctx, ts, "/api/auth/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
