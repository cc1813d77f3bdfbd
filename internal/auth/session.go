package auth

import (
	"context"
	"errors"
	"time"
)

// Cache keys used by the session repository. The claims mirror lives under
// KeyUser; KeyLogoutReason holds a one-shot message for the next login render.
const (
	KeyUser         = "user"
	KeyLogoutReason = "logout_reason"
)

// SessionState is the in-memory projection of the current session.
// User is present if and only if IsAuthenticated is true.
type SessionState struct {
	User            *IdentityClaims
	IsAuthenticated bool
}

// ErrNotFound is returned when a repository key has no value.
type notFoundError struct{}

func (notFoundError) Error() string { return "auth: session entry not found" }

var ErrNotFound error = notFoundError{}

// IsNotFound reports whether err means a missing repository entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// SessionRepository is durable storage for the denormalized identity claims
// and one-shot flags. It abstracts the claims cache so tests can swap in an
// in-memory fake.
type SessionRepository interface {
	// ReadClaims returns the cached identity claims, or ErrNotFound.
	ReadClaims(ctx context.Context) (*IdentityClaims, error)

	// WriteClaims mirrors the claims into the cache with the given TTL.
	WriteClaims(ctx context.Context, claims *IdentityClaims, ttl time.Duration) error

	// Clear removes the cached claims entry. Clearing an absent entry is not
	// an error.
	Clear(ctx context.Context) error

	// SetFlag stores a one-shot string under key.
	SetFlag(ctx context.Context, key, value string, ttl time.Duration) error

	// TakeFlag returns and removes the one-shot string under key, or
	// ErrNotFound when unset.
	TakeFlag(ctx context.Context, key string) (string, error)
}
