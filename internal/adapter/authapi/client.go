// Package authapi is the HTTP adapter for the RTCC identity endpoints:
// /auth/login, /auth/refresh, /auth/me and /auth/logout.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// maxErrorBody caps how much of a failure payload is read for message extraction.
const maxErrorBody = 64 << 10

// TokenPair is the credential pair issued by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Client calls the identity endpoints. It must be given an http.Client that
// does NOT carry the auth-refresh middleware, so refresh cannot recurse.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client rooted at baseURL (e.g. "https://rtcc.example.gov/api/v1").
// A nil httpClient gets a default client with a 10s timeout.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        logger.With("adapter", "authapi"),
	}
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Username: username, Password: password}, &pair); err != nil {
		return nil, fmt.Errorf("authapi: login: %w", err)
	}
	if err := pair.validate(); err != nil {
		return nil, fmt.Errorf("authapi: login: %w", err)
	}
	return &pair, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", "", refreshRequest{RefreshToken: refreshToken}, &pair); err != nil {
		return nil, fmt.Errorf("authapi: refresh: %w", err)
	}
	if err := pair.validate(); err != nil {
		return nil, fmt.Errorf("authapi: refresh: %w", err)
	}
	return &pair, nil
}

// Me fetches the full profile of the bearer of accessToken.
func (c *Client) Me(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", accessToken, nil, &profile); err != nil {
		return nil, fmt.Errorf("authapi: me: %w", err)
	}
	if profile.ID == "" || profile.Username == "" {
		return nil, fmt.Errorf("authapi: me: %w", &APIError{Message: "Profile response is missing required fields."})
	}
	if !profile.Role.IsValid() {
		return nil, fmt.Errorf("authapi: me: %w", &APIError{Message: fmt.Sprintf("Unsupported role %q.", profile.Role)})
	}
	return &profile, nil
}

// Logout notifies the server that accessToken should be revoked.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("authapi: logout: %w", err)
	}
	return nil
}

func (p *TokenPair) validate() error {
	if p.AccessToken == "" || p.RefreshToken == "" {
		return &APIError{Message: "Token response is missing credentials."}
	}
	return nil
}

// do performs one JSON request. in and out may be nil.
func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "auth request failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(raw)}
		c.log.DebugContext(ctx, "auth request rejected",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", &APIError{Status: resp.StatusCode, Message: "Invalid response from server."})
	}
	return nil
}
