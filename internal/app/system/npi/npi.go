// Package npi checks National Provider Identifier numbers against the
// public NPPES registry.
package npi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/practicefinder/internal/app/system/normalize"
)

// DefaultBaseURL is the registry API endpoint.
const DefaultBaseURL = "https://npiregistry.cms.hhs.gov/api/"

// Validator reports whether an NPI is registered.
type Validator interface {
	Valid(ctx context.Context, npi string) (bool, error)
}

// Registry queries the NPPES API.
type Registry struct {
	BaseURL string
	Client  *http.Client
}

// NewRegistry returns a Registry for baseURL. An empty baseURL means
// DefaultBaseURL.
func NewRegistry(baseURL string) *Registry {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Registry{BaseURL: baseURL, Client: http.DefaultClient}
}

type registryResponse struct {
	ResultCount int `json:"result_count"`
}

// Valid implements Validator. A number is valid when the registry returns
// at least one result for it.
func (r *Registry) Valid(ctx context.Context, number string) (bool, error) {
	number = normalize.NPI(number)
	if number == "" {
		return false, nil
	}

	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return false, fmt.Errorf("npi base url: %w", err)
	}
	q := u.Query()
	q.Set("version", "2.1")
	q.Set("number", number)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("npi registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("npi registry: unexpected status code: %d", resp.StatusCode)
	}

	var body registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("npi registry decode: %w", err)
	}
	return body.ResultCount > 0, nil
}

// Static is a Validator with a fixed answer set. Used in tests and when
// the registry lookup is disabled.
type Static map[string]bool

// Valid implements Validator.
func (s Static) Valid(_ context.Context, number string) (bool, error) {
	return s[normalize.NPI(number)], nil
}
