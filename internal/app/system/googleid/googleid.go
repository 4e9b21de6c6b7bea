// Package googleid resolves a Google access token to the signed-in
// account's identity.
package googleid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// DefaultUserInfoURL is Google's OpenID userinfo endpoint.
const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// ErrNoSubject is returned when the userinfo response has no subject id.
var ErrNoSubject = errors.New("google userinfo: missing subject")

// Identity is what sign-in and sign-up need from Google.
type Identity struct {
	Email     string `json:"email"`
	UID       string `json:"uid"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Resolver maps an access token to an Identity.
type Resolver interface {
	Resolve(ctx context.Context, accessToken string) (*Identity, error)
}

// UserInfo calls the userinfo endpoint with the token as a bearer.
type UserInfo struct {
	URL string
}

// NewUserInfo returns a resolver for url. An empty url means
// DefaultUserInfoURL.
func NewUserInfo(url string) *UserInfo {
	if url == "" {
		url = DefaultUserInfoURL
	}
	return &UserInfo{URL: url}
}

type userInfoResponse struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// Resolve implements Resolver.
func (u *UserInfo) Resolve(ctx context.Context, accessToken string) (*Identity, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.Sub == "" {
		return nil, ErrNoSubject
	}

	return &Identity{
		Email:     info.Email,
		UID:       info.Sub,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
	}, nil
}

// Static resolves tokens from a fixed map. Used by handler tests.
type Static map[string]Identity

// Resolve implements Resolver.
func (s Static) Resolve(_ context.Context, accessToken string) (*Identity, error) {
	id, ok := s[accessToken]
	if !ok {
		return nil, errors.New("unexpected status code: 401")
	}
	return &id, nil
}
