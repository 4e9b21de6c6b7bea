// Package api is a typed client for the Practice Finder HTTP API.
//
// Every endpoint has its own request and response types. Non-2xx
// responses come back as *Error carrying the server's message; failures
// to reach the server wrap ErrUnreachable.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GenericMessage is shown when the server gave no usable message.
const GenericMessage = "Something went wrong."

// ErrUnreachable wraps transport failures and undecodable responses.
var ErrUnreachable = errors.New("api unreachable")

// Error is a non-2xx response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Message returns the text to show the user for err.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericMessage
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// TokenSource supplies the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// Client calls the API rooted at BaseURL, e.g. "https://pf.example.com/api/v1".
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New returns a Client. httpClient may be nil; tokens may be nil for
// public endpoints only.
func New(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, tokens: tokens}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
}

// do sends body as JSON and decodes the payload into out. It returns the
// envelope message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return "", fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: decode %s %s: %v", ErrUnreachable, method, path, decodeErr)
	}
	if out != nil && len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, out); err != nil {
			return "", fmt.Errorf("%w: decode %s %s payload: %v", ErrUnreachable, method, path, err)
		}
	}
	return env.Message, nil
}

// malformed reports a 2xx response missing a required field.
func malformed(path, field string) error {
	return fmt.Errorf("%w: %s response has no %s", ErrUnreachable, path, field)
}
