package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rickgao/ctsp-server/internal/metrics"
)

// Token is an opaque session identifier. Callers cannot fabricate one: the
// only producers are Create and TokenFromWire, and lookups go through the
// registry.
type Token struct {
	value string
}

// String returns the wire form carried in the Player-ID header.
func (t Token) String() string { return t.value }

// IsZero reports whether the token is absent.
func (t Token) IsZero() bool { return t.value == "" }

// TokenFromWire wraps a raw Player-ID header value. An unknown value simply
// fails to resolve; no validation happens here.
func TokenFromWire(s string) Token { return Token{value: s} }

// Registry maps session tokens to authenticated usernames.
type Registry interface {
	// Create registers a new session for username and returns its token.
	Create(username string) Token

	// Resolve returns the username owning the token.
	Resolve(t Token) (string, bool)

	// Destroy removes the session. Destroying an absent token is a no-op,
	// which keeps disconnect cleanup unconditional.
	Destroy(t Token)

	// Count returns the number of active sessions.
	Count() int
}

// registry is the internal implementation.
type registry struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[Token]string
}

// NewRegistry creates an empty session registry.
func NewRegistry(logger *slog.Logger) Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &registry{
		logger:   logger,
		sessions: make(map[Token]string),
	}
}

func (r *registry) Create(username string) Token {
	t := Token{value: uuid.NewString()}

	r.mu.Lock()
	r.sessions[t] = username
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	r.logger.Debug("session created", "username", username, "active", n)
	return t
}

func (r *registry) Resolve(t Token) (string, bool) {
	if t.IsZero() {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	username, ok := r.sessions[t]
	return username, ok
}

func (r *registry) Destroy(t Token) {
	if t.IsZero() {
		return
	}

	r.mu.Lock()
	username, ok := r.sessions[t]
	if ok {
		delete(r.sessions, t)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if ok {
		metrics.ActiveSessions.Set(float64(n))
		r.logger.Debug("session destroyed", "username", username, "active", n)
	}
}

func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
