// Package api exposes the dashboard over HTTP and WebSocket.
package api

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/metrics"
)

// ErrInvalidPassword is returned when the dashboard password does not match.
var ErrInvalidPassword = fmt.Errorf("invalid password")

// Authenticator implements the single-user password gate. A successful
// login issues an opaque bearer token with a TTL; there are no accounts.
type Authenticator struct {
	password []byte
	tokenTTL time.Duration
	logger   *logrus.Logger

	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry

	now func() time.Time // swapped in tests
}

// NewAuthenticator creates a new password gate
func NewAuthenticator(password string, tokenTTL time.Duration, logger *logrus.Logger) *Authenticator {
	return &Authenticator{
		password: []byte(password),
		tokenTTL: tokenTTL,
		logger:   logger,
		tokens:   make(map[string]time.Time),
		now:      time.Now,
	}
}

// Login validates the password in constant time and returns a fresh token.
func (a *Authenticator) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare(a.password, []byte(password)) != 1 {
		metrics.LoginFailuresTotal.Inc()
		a.logger.Warn("Rejected dashboard login")
		return "", ErrInvalidPassword
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	a.mu.Lock()
	a.tokens[token] = a.now().Add(a.tokenTTL)
	a.pruneLocked()
	a.mu.Unlock()

	return token, nil
}

// Validate reports whether the token is known and unexpired.
func (a *Authenticator) Validate(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	expiry, ok := a.tokens[token]
	if !ok {
		return false
	}
	if a.now().After(expiry) {
		delete(a.tokens, token)
		return false
	}
	return true
}

// Revoke invalidates a token immediately.
func (a *Authenticator) Revoke(token string) {
	a.mu.Lock()
	delete(a.tokens, token)
	a.mu.Unlock()
}

func (a *Authenticator) pruneLocked() {
	now := a.now()
	for token, expiry := range a.tokens {
		if now.After(expiry) {
			delete(a.tokens, token)
		}
	}
}

// Middleware rejects requests without a valid bearer token.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Validate(bearerToken(r)) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	// the WebSocket browser client cannot set headers
	return r.URL.Query().Get("token")
}
