// Package hosted talks to the hosted identity+storage provider over its
// REST surface: token-based auth endpoints under /auth/v1 and a
// PostgREST-style table API for the notes table under /rest/v1.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ftcaleb/marketing-kasiverse/internal/models"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository"
)

const notesTable = "notes"

// Client implements both repository.IdentityProvider and
// repository.NoteRepository against the hosted provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

var (
	_ repository.IdentityProvider = (*Client)(nil)
	_ repository.NoteRepository   = (*Client)(nil)
)

// -----------------------------------------------------------------------------
// Identity
// -----------------------------------------------------------------------------

// authUser is the provider's user record. The display name and role live in
// metadata; role may sit in either bag, user metadata winning.
type authUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (a authUser) toModel() *models.User {
	name, _ := a.UserMetadata["name"].(string)
	role, _ := a.UserMetadata["role"].(string)
	if role == "" {
		role, _ = a.AppMetadata["role"].(string)
	}
	return &models.User{
		ID:        a.ID,
		Email:     a.Email,
		Name:      name,
		Role:      models.ParseRole(role),
		CreatedAt: a.CreatedAt,
	}
}

func (c *Client) SignUp(ctx context.Context, email, password, name string) (*models.User, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]any{
			"name": name,
			"role": string(models.RoleUser), // default role
		},
	}
	var out authUser
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, nil, body, &out); err != nil {
		var se *statusError
		if asStatus(err, &se) && se.Code < 500 {
			return nil, repository.Validation(se.Message)
		}
		return nil, err
	}
	return out.toModel(), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.User, string, error) {
	q := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken string   `json:"access_token"`
		User        authUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", q, nil, body, &out); err != nil {
		var se *statusError
		if asStatus(err, &se) && (se.Code == http.StatusBadRequest || se.Code == http.StatusUnauthorized) {
			return nil, "", repository.ErrInvalidCredentials
		}
		return nil, "", err
	}
	return out.User.toModel(), out.AccessToken, nil
}

func (c *Client) GetUser(ctx context.Context, token string) (*models.User, error) {
	h := http.Header{"Authorization": {"Bearer " + token}}
	var out authUser
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", nil, h, nil, &out); err != nil {
		var se *statusError
		if asStatus(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			return nil, repository.ErrInvalidToken
		}
		return nil, err
	}
	return out.toModel(), nil
}

// -----------------------------------------------------------------------------
// Notes table
// -----------------------------------------------------------------------------

func (c *Client) List(ctx context.Context) ([]models.Note, error) {
	q := url.Values{
		"select": {"*"},
		"order":  {"created_at.desc"},
	}
	var out []models.Note
	if err := c.do(ctx, http.MethodGet, "/rest/v1/"+notesTable, q, nil, nil, &out); err != nil {
		return nil, tableError(err)
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Note, error) {
	q := url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
	}
	var out []models.Note
	if err := c.do(ctx, http.MethodGet, "/rest/v1/"+notesTable, q, nil, nil, &out); err != nil {
		return nil, tableError(err)
	}
	if len(out) == 0 {
		return nil, repository.ErrNoteNotFound
	}
	return &out[0], nil
}

func (c *Client) Create(ctx context.Context, n *models.Note) (*models.Note, error) {
	h := http.Header{"Prefer": {"return=representation"}}
	body := map[string]any{
		"user_id":     n.UserID,
		"title":       n.Title,
		"description": n.Description,
		"location":    n.Location,
		"price":       n.Price,    // nil marshals to null
		"category":    n.Category, // nil marshals to null
	}
	var out []models.Note
	if err := c.do(ctx, http.MethodPost, "/rest/v1/"+notesTable, nil, h, body, &out); err != nil {
		return nil, tableError(err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("provider returned no row for insert")
	}
	return &out[0], nil
}

func (c *Client) Update(ctx context.Context, id string, patch repository.NotePatch) (*models.Note, error) {
	if patch.Empty() {
		return c.Get(ctx, id)
	}

	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Description != nil {
		body["description"] = *patch.Description
	}
	if patch.Location != nil {
		body["location"] = *patch.Location
	}
	if patch.PriceSet {
		body["price"] = patch.Price
	}
	if patch.CategorySet {
		body["category"] = patch.Category
	}

	q := url.Values{"id": {"eq." + id}}
	h := http.Header{"Prefer": {"return=representation"}}
	var out []models.Note
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/"+notesTable, q, h, body, &out); err != nil {
		return nil, tableError(err)
	}
	if len(out) == 0 {
		return nil, repository.ErrNoteNotFound
	}
	return &out[0], nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	q := url.Values{"id": {"eq." + id}}
	h := http.Header{"Prefer": {"return=representation"}}
	var out []models.Note
	if err := c.do(ctx, http.MethodDelete, "/rest/v1/"+notesTable, q, h, nil, &out); err != nil {
		return tableError(err)
	}
	if len(out) == 0 {
		return repository.ErrNoteNotFound
	}
	return nil
}

// tableError converts provider 4xx responses on the table API into
// client-safe validation errors, keeping the provider's message.
func tableError(err error) error {
	var se *statusError
	if asStatus(err, &se) && se.Code >= 400 && se.Code < 500 {
		return repository.Validation(se.Message)
	}
	return err
}

// -----------------------------------------------------------------------------
// Transport
// -----------------------------------------------------------------------------

type statusError struct {
	Code    int
	Message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider: status %d: %s", e.Code, e.Message)
}

func asStatus(err error, target **statusError) bool {
	se, ok := err.(*statusError)
	if ok {
		*target = se
	}
	return ok
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, h http.Header, in, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range h {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	// The table API authenticates with the service key unless a user token
	// was set explicitly above.
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		return &statusError{Code: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("provider response %s %s: %w", method, path, err)
		}
	}
	return nil
}

// errorMessage digs the human-readable message out of a provider error body,
// which uses different keys across the auth and table APIs.
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		ErrDesc string `json:"error_description"`
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, m := range []string{body.ErrDesc, body.Msg, body.Message, body.Error} {
			if m != "" {
				return m
			}
		}
	}
	s := strings.TrimSpace(string(raw))
	if s == "" {
		s = "unknown provider error"
	}
	return s
}
