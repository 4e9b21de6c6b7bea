package api

import (
	"context"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/domain/models"
)

// Session is the result of a successful sign-in.
type Session struct {
	Token string         `json:"token"`
	User  models.Account `json:"user"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin exchanges email and password for a token.
func (c *Client) Signin(ctx context.Context, email, password string) (Session, error) {
	var out Session
	if _, err := c.do(ctx, http.MethodPost, "/auth/signin", signinRequest{email, password}, &out); err != nil {
		return Session{}, err
	}
	if out.Token == "" {
		return Session{}, malformed("/auth/signin", "token")
	}
	return out, nil
}

type googleRequest struct {
	Token   string `json:"token"`
	IsLogin bool   `json:"isLogin"`
}

// GoogleSignin signs in with a Google access token.
func (c *Client) GoogleSignin(ctx context.Context, accessToken string) (Session, error) {
	var out Session
	if _, err := c.do(ctx, http.MethodPost, "/auth/google", googleRequest{accessToken, true}, &out); err != nil {
		return Session{}, err
	}
	if out.Token == "" {
		return Session{}, malformed("/auth/google", "token")
	}
	return out, nil
}

// GoogleProfile is the identity behind a Google access token, used to
// prefill sign-up.
type GoogleProfile struct {
	Email     string `json:"email"`
	UID       string `json:"uid"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// GoogleUserInfo resolves a Google access token without signing in.
func (c *Client) GoogleUserInfo(ctx context.Context, accessToken string) (GoogleProfile, error) {
	var out struct {
		UserInfo GoogleProfile `json:"userInfo"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/auth/google", googleRequest{accessToken, false}, &out); err != nil {
		return GoogleProfile{}, err
	}
	return out.UserInfo, nil
}

// SignupRequest registers a dentist. Password is empty when UID binds a
// Google account.
type SignupRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"`
	NPI           string `json:"npi"`
	UID           string `json:"uid,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Specialty     string `json:"specialty,omitempty"`
	NeedFinancing bool   `json:"needFinancing"`
}

// Signup creates a pending account and returns the server's message.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	return c.do(ctx, http.MethodPost, "/auth/signup", req, nil)
}

// CurrentUser returns the signed-in account.
func (c *Client) CurrentUser(ctx context.Context) (models.Account, error) {
	var out struct {
		User *models.Account `json:"user"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/auth/current-user", nil, &out); err != nil {
		return models.Account{}, err
	}
	if out.User == nil {
		return models.Account{}, malformed("/auth/current-user", "user")
	}
	return *out.User, nil
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword,omitempty"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword sets a new password. oldPassword may be empty for an
// account that has none yet.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	return c.do(ctx, http.MethodPost, "/auth/change-password", changePasswordRequest{oldPassword, newPassword}, nil)
}
