package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const loginTimeout = 15 * time.Second

// ErrRateLimited is surfaced to the caller as an upstream 429.
var ErrRateLimited = errors.New("auth backend rate limited")

// LoginResult is what the external auth backend hands back on success.
type LoginResult struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Client proxies credential checks to the external auth backend. This
// service never sees password hashes; it only forwards and relays.
type Client struct {
	loginURL string
	hc       *http.Client
}

func NewClient(loginURL string) *Client {
	return &Client{
		loginURL: loginURL,
		hc:       &http.Client{Timeout: loginTimeout},
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if c.loginURL == "" {
		return LoginResult{}, errors.New("auth backend URL not configured")
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, bytes.NewReader(body))
	if err != nil {
		return LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth backend: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return LoginResult{}, ErrRateLimited
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return LoginResult{}, fmt.Errorf("auth backend status %d", res.StatusCode)
	}

	var out LoginResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return LoginResult{}, fmt.Errorf("auth backend decode: %w", err)
	}
	if out.Token == "" {
		return LoginResult{}, errors.New("auth backend returned no token")
	}
	return out, nil
}
