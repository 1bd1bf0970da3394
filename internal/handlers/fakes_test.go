package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ftcaleb/marketing-kasiverse/internal/config"
	"github.com/ftcaleb/marketing-kasiverse/internal/models"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository"
	"github.com/ftcaleb/marketing-kasiverse/internal/router"
)

// fakeIdentity resolves tokens from a fixed map and registers users
// in-memory. Token for a registered account is "tok-" + email.
type fakeIdentity struct {
	mu       sync.Mutex
	byToken  map[string]*models.User
	byEmail  map[string]string // email -> password
	getCalls int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		byToken: map[string]*models.User{},
		byEmail: map[string]string{},
	}
}

func (f *fakeIdentity) addUser(token string, u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byToken[token] = u
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[email]; ok {
		return nil, repository.Validation("User already registered")
	}
	f.byEmail[email] = password
	u := &models.User{
		ID:        "id-" + email,
		Email:     email,
		Name:      name,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	f.byToken["tok-"+email] = u
	return u, nil
}

func (f *fakeIdentity) SignInWithPassword(ctx context.Context, email, password string) (*models.User, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pw, ok := f.byEmail[email]
	if !ok || pw != password {
		return nil, "", repository.ErrInvalidCredentials
	}
	tok := "tok-" + email
	return f.byToken[tok], tok, nil
}

func (f *fakeIdentity) GetUser(ctx context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	u, ok := f.byToken[token]
	if !ok {
		return nil, repository.ErrInvalidToken
	}
	return u, nil
}

// fakeNotes is an in-memory NoteRepository with the same patch semantics as
// the real implementations.
type fakeNotes struct {
	mu    sync.Mutex
	rows  map[string]models.Note
	seq   int
	calls int
	fail  error // when set, every call fails with it
}

func newFakeNotes() *fakeNotes {
	return &fakeNotes{rows: map[string]models.Note{}}
}

func (f *fakeNotes) seed(n models.Note) models.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if n.ID == "" {
		n.ID = "n" + strconv.Itoa(f.seq)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	f.rows[n.ID] = n
	return n
}

func (f *fakeNotes) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeNotes) begin() error {
	f.calls++
	return f.fail
}

func (f *fakeNotes) List(ctx context.Context) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	out := make([]models.Note, 0, len(f.rows))
	for _, n := range f.rows {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNotes) Get(ctx context.Context, id string) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	n, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	return &n, nil
}

func (f *fakeNotes) Create(ctx context.Context, in *models.Note) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	f.seq++
	n := *in
	n.ID = "n" + strconv.Itoa(f.seq)
	n.CreatedAt = time.Now()
	f.rows[n.ID] = n
	return &n, nil
}

func (f *fakeNotes) Update(ctx context.Context, id string, patch repository.NotePatch) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	n, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Description != nil {
		n.Description = *patch.Description
	}
	if patch.Location != nil {
		n.Location = *patch.Location
	}
	if patch.PriceSet {
		n.Price = patch.Price
	}
	if patch.CategorySet {
		n.Category = patch.Category
	}
	f.rows[id] = n
	return &n, nil
}

func (f *fakeNotes) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return err
	}
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNoteNotFound
	}
	delete(f.rows, id)
	return nil
}

const (
	userToken  = "user-token"
	adminToken = "admin-token"
	otherToken = "other-token"
)

func newEnv(t *testing.T) (*fakeIdentity, *fakeNotes, http.Handler) {
	t.Helper()
	fi := newFakeIdentity()
	fi.addUser(userToken, &models.User{ID: "u1", Email: "a@x.com", Name: "A", Role: models.RoleUser})
	fi.addUser(adminToken, &models.User{ID: "adm", Email: "root@x.com", Name: "Root", Role: models.RoleAdmin})
	fi.addUser(otherToken, &models.User{ID: "u2", Email: "b@x.com", Name: "B", Role: models.RoleUser})
	fn := newFakeNotes()
	h := router.New(zerolog.Nop(), fi, fn, config.Config{Env: "test", Origin: "*"})
	return fi, fn, h
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
