// Package server hosts the HTTP surface of the MemeForge backend: the
// listener lifecycle, request middleware, rate limiting, and the password
// guard on the history endpoint.
package server

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances hash strength against login latency. Cost 12 takes
// around 250ms on modern hardware.
const bcryptCost = 12

var (
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("server: password cannot be empty")

	// ErrPasswordMismatch is returned on verification failure. It does not
	// reveal whether the stored hash was valid.
	ErrPasswordMismatch = errors.New("server: password does not match")
)

// HashPassword creates a bcrypt hash of the password, including a random
// salt and the cost factor.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash in
// constant time.
func VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// PasswordGuard protects a handler behind a shared password supplied as a
// bearer token. The plaintext is hashed once at construction; requests are
// verified against the hash.
type PasswordGuard struct {
	hash    string
	limiter *RateLimiter
}

// NewPasswordGuard hashes the configured password. An empty password
// returns a nil guard, meaning the endpoint is open.
func NewPasswordGuard(password string, limiter *RateLimiter) (*PasswordGuard, error) {
	if password == "" {
		return nil, nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &PasswordGuard{hash: hash, limiter: limiter}, nil
}

// Middleware enforces the password on the wrapped handler. A nil guard
// passes every request through.
func (g *PasswordGuard) Middleware(next http.Handler) http.Handler {
	if g == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if g.limiter != nil {
			if allowed, _ := g.limiter.Allow(ip); !allowed {
				http.Error(w, "too many failed attempts", http.StatusTooManyRequests)
				return
			}
		}

		supplied := bearerToken(r)
		if supplied == "" || VerifyPassword(supplied, g.hash) != nil {
			if g.limiter != nil {
				g.limiter.RecordFailure(ip)
			}
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if g.limiter != nil {
			g.limiter.Reset(ip)
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// clientIP strips the port from the remote address.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[:i]
	}
	return addr
}
