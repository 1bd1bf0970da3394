package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiDouble(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, nil)
}

func TestLoginStoresTokenInSession(t *testing.T) {
	c := apiDouble(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Successfully Logged In",
			"user":    map[string]any{"id": "u1", "email": "a@x.com"},
			"token":   "tok-123",
		})
	})

	u, err := c.Login(context.Background(), "a@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	tok, ok := c.Session().Token()
	require.True(t, ok)
	assert.Equal(t, "tok-123", tok)
	assert.True(t, c.Session().Active())
}

func TestProtectedCallAttachesBearer(t *testing.T) {
	var gotAuth string
	c := apiDouble(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	c.Session().set("tok-xyz")

	_, err := c.Notes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-xyz", gotAuth)
}

func TestNoSessionFailsLocally(t *testing.T) {
	called := false
	c := apiDouble(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.Notes(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, called, "no request may be sent without a session")
}

func TestUnauthorizedDestroysSession(t *testing.T) {
	c := apiDouble(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
	})
	c.Session().set("stale")

	_, err := c.Notes(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, c.Session().Active(), "401 must clear the stored token")
}

func TestLoginFailureIsAPIErrorNotSessionExpiry(t *testing.T) {
	c := apiDouble(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid login credentials"}`))
	})

	_, err := c.Login(context.Background(), "a@x.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr, "an unauthenticated login is not an expired session")
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func TestServerErrorCarriesMessage(t *testing.T) {
	c := apiDouble(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing required fields"}`))
	})
	c.Session().set("tok")

	_, err := c.CreateNote(context.Background(), NoteInput{Title: "T"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Missing required fields", apiErr.Message)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // connection refused from here on

	c := New(url, NewSession("tok"))
	_, err := c.Notes(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr, "transport failures must be distinguishable")
	assert.True(t, c.Session().Active(), "network failures must not destroy the session")
}

func TestUpdateNoteSendsOnlySetFields(t *testing.T) {
	var got map[string]any
	c := apiDouble(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"n1","title":"New"}`))
	})
	c.Session().set("tok")

	title := "New"
	_, err := c.UpdateNote(context.Background(), "n1", NoteUpdate{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "New", got["title"])
	_, descSent := got["description"]
	assert.False(t, descSent, "unset fields must stay out of the body")
}

func TestLogoutClearsSession(t *testing.T) {
	c := New("http://localhost:0", NewSession("tok"))
	require.True(t, c.Session().Active())
	c.Logout()
	assert.False(t, c.Session().Active())
}
