// Package auth is the shared-password gate for the household ledger. There is
// exactly one password for the whole household; a successful check issues an
// opaque session token held in memory. The ledger core never sees any of this.
package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const DefaultSessionTTL = 7 * 24 * time.Hour

var (
	ErrWrongPassword = errors.New("wrong password")
	ErrNoSession     = errors.New("no valid session")
)

// Gate checks the shared password against its bcrypt hash and manages the
// resulting sessions.
type Gate struct {
	hash     []byte
	sessions *Sessions
}

func NewGate(passwordHash string, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Gate{
		hash:     []byte(passwordHash),
		sessions: NewSessions(ttl),
	}
}

// Login verifies the password and issues a session token with its expiry.
func (g *Gate) Login(password string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return "", time.Time{}, ErrWrongPassword
	}
	token, expires := g.sessions.Issue()
	return token, expires, nil
}

// Verify reports whether the token belongs to a live session.
func (g *Gate) Verify(token string) error {
	if !g.sessions.Valid(token) {
		return ErrNoSession
	}
	return nil
}

// Logout revokes the session. Revoking an unknown token is a no-op.
func (g *Gate) Logout(token string) {
	g.sessions.Revoke(token)
}

// Sessions is an in-memory token store with per-token expiry. Expired tokens
// are pruned lazily on lookup.
type Sessions struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
	}
}

func (s *Sessions) Issue() (string, time.Time) {
	token := uuid.NewString()
	expires := time.Now().Add(s.ttl)

	s.mu.Lock()
	s.tokens[token] = expires
	s.mu.Unlock()

	return token, expires
}

func (s *Sessions) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expires) {
		delete(s.tokens, token)
		return false
	}
	return true
}

func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
