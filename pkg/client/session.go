package client

import "sync"

// Session holds the bearer credential. Its lifecycle is explicit: Login
// creates it, Logout or a server 401 destroys it. It is safe for concurrent
// use and can be shared between clients.
type Session struct {
	mu    sync.Mutex
	token string
}

// NewSession resumes a session from a previously stored token.
func NewSession(token string) *Session {
	return &Session{token: token}
}

// Token returns the current credential, if any.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Active reports whether a credential is held. It says nothing about
// server-side validity.
func (s *Session) Active() bool {
	_, ok := s.Token()
	return ok
}

// Clear destroys the credential.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *Session) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}
