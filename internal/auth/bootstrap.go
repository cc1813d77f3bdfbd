package auth

import (
	"context"
	"sync"
)

// Bootstrapper reconstructs the session state once, at startup, without a
// network round trip. The cached claims mirror is the fast path; failing
// that, the credential cookie is decoded. Decode failures are not fatal --
// the session simply starts unauthenticated.
type Bootstrapper struct {
	once  sync.Once
	store *TokenStore
	state SessionState
}

// NewBootstrapper creates a bootstrapper over the given token store.
func NewBootstrapper(store *TokenStore) *Bootstrapper {
	return &Bootstrapper{store: store}
}

// Bootstrap resolves the initial session state from the claims mirror or,
// failing that, from the credential in cookieHeader. It runs at most once;
// subsequent calls return the first result.
func (b *Bootstrapper) Bootstrap(ctx context.Context, cookieHeader string) SessionState {
	b.once.Do(func() {
		b.state = b.resolve(ctx, cookieHeader)
	})
	return b.state
}

func (b *Bootstrapper) resolve(ctx context.Context, cookieHeader string) SessionState {
	// Fast path: trust the last known-good decode.
	if claims, err := b.store.Repository().ReadClaims(ctx); err == nil {
		return SessionState{User: claims, IsAuthenticated: true}
	}

	credential := b.store.Read(cookieHeader)
	if credential == "" {
		return SessionState{}
	}

	claims, err := DecodeToken(credential)
	if err != nil {
		// Treated as unauthenticated, not as an error.
		return SessionState{}
	}

	return SessionState{User: claims, IsAuthenticated: true}
}
