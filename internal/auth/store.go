package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Default cookie names; overridable via config.
const (
	DefaultSessionCookie = "session_token"
	DefaultRoleCookie    = "user_role"
)

// TokenStore persists the session credential in cookies and mirrors the
// decoded identity claims into the session repository.
type TokenStore struct {
	repo       SessionRepository
	cookieName string
	roleCookie string
	maxAge     time.Duration
}

// NewTokenStore creates a token store over the given repository. Empty
// cookie names fall back to the defaults; a non-positive maxAge falls back
// to one hour.
func NewTokenStore(repo SessionRepository, cookieName, roleCookie string, maxAge time.Duration) *TokenStore {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	if roleCookie == "" {
		roleCookie = DefaultRoleCookie
	}
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &TokenStore{
		repo:       repo,
		cookieName: cookieName,
		roleCookie: roleCookie,
		maxAge:     maxAge,
	}
}

// Write sets the session and role cookies on the response and mirrors the
// claims into the repository with the same lifetime.
func (s *TokenStore) Write(ctx context.Context, w http.ResponseWriter, credential string, claims *IdentityClaims) error {
	maxAge := int(s.maxAge.Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:   s.cookieName,
		Value:  credential,
		Path:   "/",
		MaxAge: maxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:   s.roleCookie,
		Value:  string(claims.Role),
		Path:   "/",
		MaxAge: maxAge,
	})

	if err := s.repo.WriteClaims(ctx, claims, s.maxAge); err != nil {
		return fmt.Errorf("mirror claims: %w", err)
	}
	return nil
}

// Read extracts the session credential from a raw Cookie header. It returns
// the empty string when the cookie is absent.
func (s *TokenStore) Read(cookieHeader string) string {
	return cookieValue(cookieHeader, s.cookieName)
}

// ReadRequest extracts the session credential from an incoming request.
func (s *TokenStore) ReadRequest(r *http.Request) string {
	return s.Read(r.Header.Get("Cookie"))
}

// Clear removes the mirrored claims entry. The cookie itself is left to
// expire: the backend clears it server-side on logout, and a stale cookie
// without cached claims is never trusted.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Repository exposes the underlying session repository.
func (s *TokenStore) Repository() SessionRepository {
	return s.repo
}

// MaxAge returns the configured session lifetime.
func (s *TokenStore) MaxAge() time.Duration {
	return s.maxAge
}

// CookieName returns the session cookie name.
func (s *TokenStore) CookieName() string {
	return s.cookieName
}

// RoleCookieName returns the role cookie name.
func (s *TokenStore) RoleCookieName() string {
	return s.roleCookie
}

// cookieValue scans a raw Cookie header for name and returns its value,
// matching only up to the next ';'. Values containing ';'-adjacent
// characters therefore cannot bleed into the result.
func cookieValue(cookieHeader, name string) string {
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, name+"=") {
			return strings.TrimPrefix(part, name+"=")
		}
	}
	return ""
}

// CookieValue is the exported form of cookieValue for callers that hold a
// raw header, such as the route guard.
func CookieValue(cookieHeader, name string) string {
	return cookieValue(cookieHeader, name)
}
