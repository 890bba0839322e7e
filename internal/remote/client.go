// Package remote implements the REST client for the hosted plant store. The
// store speaks a PostgREST-style dialect: table endpoints with query-string
// filters, bearer-token auth, and a password-grant auth endpoint.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/plantd/plantd/pkg/plantlib"
)

// StoreError is a non-2xx response from the remote store.
type StoreError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote store: HTTP %d", e.Status)
	}
	return fmt.Sprintf("remote store: HTTP %d: %s", e.Status, e.Message)
}

// Client talks to the hosted plant store. Safe for concurrent use; the
// session token may be swapped while requests are in flight.
type Client struct {
	httpc   *http.Client
	baseURL string
	apiKey  string

	mu    sync.RWMutex
	token string
}

// NewClient creates a store client for the given base URL and project api
// key. If httpc is nil, a default client is used.
func NewClient(httpc *http.Client, baseURL, apiKey string) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{
		httpc:   httpc,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// SetToken replaces the session bearer token. An empty token means
// unauthenticated.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the configured store base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIKey returns the configured project api key.
func (c *Client) APIKey() string {
	return c.apiKey
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error: failed to encode request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("error: failed to build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost && strings.HasPrefix(path, "/rest/") {
		// Ask the store to echo the inserted row back.
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("error: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StoreError{Status: resp.StatusCode, Message: readErrMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error: failed to decode response: %w", err)
	}
	return nil
}

func readErrMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(b, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Msg != "" {
			return payload.Msg
		}
	}
	return strings.TrimSpace(string(b))
}

// ListPlants fetches all of the user's plants, newest first.
func (c *Client) ListPlants(ctx context.Context) ([]*plantlib.Plant, error) {
	var plants []*plantlib.Plant
	err := c.do(ctx, http.MethodGet, "/rest/v1/plants?select=*&order=created_at.desc", nil, &plants)
	if err != nil {
		return nil, err
	}
	return plants, nil
}

// InsertPlant creates a plant and returns the stored row (with the
// server-assigned id and created_at).
func (c *Client) InsertPlant(ctx context.Context, p *plantlib.Plant) (*plantlib.Plant, error) {
	var rows []*plantlib.Plant
	if err := c.do(ctx, http.MethodPost, "/rest/v1/plants", p, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("error: insert returned no row")
	}
	return rows[0], nil
}

// UpdatePlant applies a field map to the plant with the given id.
func (c *Client) UpdatePlant(ctx context.Context, id string, fields map[string]any) error {
	return c.do(ctx, http.MethodPatch, "/rest/v1/plants?id=eq."+url.QueryEscape(id), fields, nil)
}

// DeletePlant removes the plant with the given id.
func (c *Client) DeletePlant(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/rest/v1/plants?id=eq."+url.QueryEscape(id), nil, nil)
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	UserId       string `json:"user_id,omitempty"`
}

// SignIn exchanges an email and password for a session token. The token is
// not installed on the client; call SetToken with the result.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body, &s); err != nil {
		return nil, err
	}
	if s.AccessToken == "" {
		return nil, fmt.Errorf("error: sign-in returned no access token")
	}
	return &s, nil
}
