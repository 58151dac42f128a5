package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Session guards the bearer credential. It is the only writer of the
// persisted token file. Invariant: Identity is non-nil only while a
// credential is held and the last verification against the server
// succeeded; any verification failure clears both (fail closed).
type Session struct {
	mu       sync.Mutex
	token    string
	identity *Identity
	path     string
	log      *zap.Logger
}

// NewSession creates a session guard persisting its credential at path.
func NewSession(path string, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{path: path, log: log}
}

// Load restores a persisted credential. A token that is already expired
// by its own exp claim is discarded without a round trip; the caller
// still needs a Verify to populate identity.
func (s *Session) Load() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return false
	}
	if expired(token) {
		s.log.Info("persisted token expired, discarding")
		s.Clear()
		return false
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return true
}

// SetToken stores and persists a fresh credential. Identity stays nil
// until the next successful verification.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.identity = nil
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.Warn("token dir", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		s.log.Warn("persist token", zap.Error(err))
	}
}

// Clear wipes the credential, identity and the persisted file. Used by
// logout and by any verification failure.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("remove token file", zap.Error(err))
	}
}

// Token returns the current credential, or "" when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Identity returns the verified identity, or nil.
func (s *Session) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Valid reports whether the session holds a verified credential.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.identity != nil
}

func (s *Session) setIdentity(id *Identity) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
}

// Subject returns the subject and role claims of the held token without
// verifying its signature. Useful for display before the first round
// trip; authorization still belongs to the server.
func (s *Session) Subject() (sub, role string) {
	tok := s.Token()
	if tok == "" {
		return "", ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return "", ""
	}
	sub, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	return sub, role
}

// expired reports whether the token's exp claim is in the past. Tokens
// without a parseable exp are left for the server to judge.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) <= 0
}
