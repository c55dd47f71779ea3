// Package client implements the chat client side of the protocol: a thin
// HTTP transport against the server's JSON API, a per-room cache with
// optimistic inserts, and a terminal renderer that decrypts records on read.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bledchat/server/internal/domain"
)

// DefaultTimeout bounds every HTTP call made by the transport.
const DefaultTimeout = 10 * time.Second

// Client is the HTTP transport for the chat API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New builds a transport for the given server base URL, e.g.
// "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// APIError carries the status and message of a structured server failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// errorBody matches both server failure shapes: the envelope with "message"
// and the legacy "error" field.
type errorBody struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

// do performs one JSON request. A nil out skips response decoding.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Err
		if msg == "" {
			msg = eb.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// submitResponse mirrors the server's submit envelope.
type submitResponse struct {
	Success bool           `json:"success"`
	Message domain.Message `json:"message"`
}

// Submit posts a record and returns its stored form. For a replayed id the
// server answers with the original record.
func (c *Client) Submit(ctx context.Context, m domain.Message) (domain.Message, error) {
	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/messages", m, &resp); err != nil {
		return domain.Message{}, err
	}
	if !resp.Success {
		return domain.Message{}, &APIError{Status: http.StatusOK, Message: "server rejected message"}
	}
	return resp.Message, nil
}

// History fetches a room's retained records, newest last. limit <= 0 leaves
// the page size to the server.
func (c *Client) History(ctx context.Context, room string, limit int) ([]domain.Message, error) {
	path := "/api/v1/messages?room=" + url.QueryEscape(room)
	if limit > 0 {
		path += "&limit=" + strconv.Itoa(limit)
	}
	var msgs []domain.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// authRequest is the payload for both auth actions.
type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup registers an account.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth",
		authRequest{Action: "signup", Username: username, Password: password}, nil)
}

// Login verifies credentials. The password doubles as the cipher key
// material; the server never sees it again after this call.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth",
		authRequest{Action: "login", Username: username, Password: password}, nil)
}

// presenceResponse mirrors the server's presence envelope.
type presenceResponse struct {
	Success     bool     `json:"success"`
	Count       int      `json:"count"`
	Subscribers []string `json:"subscribers"`
}

// Presence returns the online-user count and names.
func (c *Client) Presence(ctx context.Context) (int, []string, error) {
	var resp presenceResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/presence", nil, &resp); err != nil {
		return 0, nil, err
	}
	return resp.Count, resp.Subscribers, nil
}

// presenceUpdate is the payload for POST /presence.
type presenceUpdate struct {
	Username string `json:"username"`
	Action   string `json:"action"`
	Room     string `json:"room,omitempty"`
}

// Subscribe marks a user online. A non-empty room makes the server append a
// join banner to that room.
func (c *Client) Subscribe(ctx context.Context, username, room string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/presence",
		presenceUpdate{Username: username, Action: "subscribe", Room: room}, nil)
}

// Unsubscribe marks a user offline.
func (c *Client) Unsubscribe(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/presence",
		presenceUpdate{Username: username, Action: "unsubscribe"}, nil)
}

// Download fetches a shared file's bytes by id.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/api/v1/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Err
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, "", &APIError{Status: resp.StatusCode, Message: msg}
	}
	return raw, resp.Header.Get("Content-Type"), nil
}
