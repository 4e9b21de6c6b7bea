package api

import (
	"context"
	"net/http"
)

// CheckEmail reports whether an account already uses email.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out struct {
		Taken bool `json:"taken"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/public/check-email", map[string]string{"email": email}, &out); err != nil {
		return false, err
	}
	return out.Taken, nil
}

// ValidateNPI reports whether the registry knows npi. A number already on
// an account comes back as a 400 *Error.
func (c *Client) ValidateNPI(ctx context.Context, npi string) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/public/validate-npi", map[string]string{"npi": npi}, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}
