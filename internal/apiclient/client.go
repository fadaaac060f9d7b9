// Package apiclient is the typed HTTP client for the platform API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"primmfy/internal/entity"
)

const defaultBaseURL = "http://localhost:8080/api"

// Client provides typed access to the login, register and profile endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a token and the user's profile.
func (c *Client) Login(ctx context.Context, req entity.LoginRequest) (*entity.AuthResponse, error) {
	var resp entity.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", req, "", &resp); err != nil {
		return nil, err
	}
	if err := checkAuthResponse(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, req entity.RegisterRequest) (*entity.AuthResponse, error) {
	var resp entity.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/register", req, "", &resp); err != nil {
		return nil, err
	}
	if err := checkAuthResponse(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the user owning token.
func (c *Client) Profile(ctx context.Context, token string) (*entity.User, error) {
	var resp entity.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/profile", nil, token, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.ID == 0 {
		return nil, &Error{Kind: KindMalformedResponse, Err: errors.New("profile response has no user")}
	}
	return resp.User, nil
}

func checkAuthResponse(resp *entity.AuthResponse) error {
	switch {
	case strings.TrimSpace(resp.Token) == "":
		return &Error{Kind: KindMalformedResponse, Err: errors.New("response has no token")}
	case resp.User == nil || resp.User.ID == 0:
		return &Error{Kind: KindMalformedResponse, Err: errors.New("response has no user")}
	case !resp.User.Role.Valid():
		return &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("unsupported role %q", resp.User.Role)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: extractError(resp.Body),
		}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &Error{Kind: KindMalformedResponse, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// extractError pulls the human readable message out of an error body.
// The API sends {"error": "..."}; {"message": "..."} is preferred when present.
func extractError(body io.Reader) string {
	if body == nil {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Error)
}
