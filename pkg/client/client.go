// Package client is the Go data-access layer for the marketplace API. It
// owns the session credential: every request carries the bearer token, a 401
// destroys the session, and transport failures are distinguishable from
// server-reported errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNoSession is returned when a protected call is made without a
	// logged-in session. No request is sent.
	ErrNoSession = errors.New("no active session")
	// ErrSessionExpired is returned when the server answers 401; the
	// session has already been cleared and the caller must log in again.
	ErrSessionExpired = errors.New("session expired")
)

// APIError is any non-2xx answer other than 401, carrying the
// server-supplied message when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %d: %s", e.Status, e.Message)
}

// NetworkError is a transport failure: no HTTP status was obtained.
type NetworkError struct{ Err error }

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// User and Note mirror the API's wire format.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Note struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// NoteInput is the create payload. Title, Description and Location are
// required by the server.
type NoteInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// NoteUpdate is a partial update; only set fields are sent.
type NoteUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New builds a client around an explicit session. Passing nil starts with an
// empty session owned by the client.
func New(baseURL string, session *Session) *Client {
	if session == nil {
		session = &Session{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

func (c *Client) Session() *Session { return c.session }

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password, name string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	in := map[string]string{"email": email, "password": password, "name": name}
	if err := c.do(ctx, http.MethodPost, "/register", false, in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login authenticates and stores the returned token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		User  *User  `json:"user"`
		Token string `json:"token"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", false, in, &out); err != nil {
		return nil, err
	}
	c.session.set(out.Token)
	return out.User, nil
}

// Logout destroys the session locally. The token itself is left to expire.
func (c *Client) Logout() { c.session.Clear() }

func (c *Client) Notes(ctx context.Context) ([]Note, error) {
	var out []Note
	if err := c.do(ctx, http.MethodGet, "/notes", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Note(ctx context.Context, id string) (*Note, error) {
	var out Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+id, true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	var out Note
	if err := c.do(ctx, http.MethodPost, "/notes", true, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, patch NoteUpdate) (*Note, error) {
	var out Note
	if err := c.do(ctx, http.MethodPut, "/notes/"+id, true, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+id, true, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		tok, ok := c.session.Token()
		if !ok {
			return ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && authed {
		c.session.Clear()
		return ErrSessionExpired
	}
	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: serverMessage(raw)}
	}
	if out != nil && len(raw) > 0 {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func serverMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
