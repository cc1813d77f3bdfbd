package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreDefaults(t *testing.T) {
	store := NewTokenStore(NewMemorySessionRepository(), "", "", 0)

	assert.Equal(t, DefaultSessionCookie, store.CookieName())
	assert.Equal(t, DefaultRoleCookie, store.RoleCookieName())
	assert.Equal(t, time.Hour, store.MaxAge())
}

func TestTokenStoreWrite(t *testing.T) {
	repo := NewMemorySessionRepository()
	store := NewTokenStore(repo, "session_token", "user_role", time.Hour)

	claims := &IdentityClaims{UserID: 3, Username: "carla", Email: "carla@smartmart.local", Role: RoleAdmin}
	rec := httptest.NewRecorder()

	err := store.Write(context.Background(), rec, "header.payload.sig", claims)
	require.NoError(t, err, "Failed to write session")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2, "Expected session and role cookies")

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	session := byName["session_token"]
	require.NotNil(t, session, "Session cookie missing")
	assert.Equal(t, "header.payload.sig", session.Value)
	assert.Equal(t, "/", session.Path)
	assert.Equal(t, 3600, session.MaxAge)

	role := byName["user_role"]
	require.NotNil(t, role, "Role cookie missing")
	assert.Equal(t, "admin", role.Value)
	assert.Equal(t, "/", role.Path)
	assert.Equal(t, 3600, role.MaxAge)

	// Claims are mirrored into the repository with the same lifetime.
	cached, err := repo.ReadClaims(context.Background())
	require.NoError(t, err, "Claims should be mirrored")
	assert.Equal(t, claims, cached)
}

func TestTokenStoreRead(t *testing.T) {
	store := NewTokenStore(NewMemorySessionRepository(), "session_token", "user_role", time.Hour)

	t.Run("SingleCookie", func(t *testing.T) {
		assert.Equal(t, "abc.def.ghi", store.Read("session_token=abc.def.ghi"))
	})

	t.Run("AmongOtherCookies", func(t *testing.T) {
		header := "theme=dark; session_token=tok123; user_role=admin"
		assert.Equal(t, "tok123", store.Read(header))
	})

	t.Run("LeadingWhitespace", func(t *testing.T) {
		assert.Equal(t, "tok", store.Read("a=b;   session_token=tok"))
	})

	t.Run("Absent", func(t *testing.T) {
		assert.Equal(t, "", store.Read("user_role=admin; theme=dark"))
	})

	t.Run("EmptyHeader", func(t *testing.T) {
		assert.Equal(t, "", store.Read(""))
	})

	t.Run("PrefixedName", func(t *testing.T) {
		// A cookie whose name merely starts with ours must not match.
		assert.Equal(t, "", store.Read("session_token_old=stale"))
	})

	t.Run("FromRequest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("Cookie", "session_token=via-request")
		assert.Equal(t, "via-request", store.ReadRequest(req))
	})
}

func TestTokenStoreClear(t *testing.T) {
	repo := NewMemorySessionRepository()
	store := NewTokenStore(repo, "session_token", "user_role", time.Hour)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	claims := &IdentityClaims{UserID: 1, Username: "carla", Role: RoleAdmin}
	require.NoError(t, store.Write(ctx, rec, "tok", claims))

	require.NoError(t, store.Clear(ctx))

	_, err := repo.ReadClaims(ctx)
	assert.True(t, IsNotFound(err), "Claims should be gone after clear")
}

func TestCookieValue(t *testing.T) {
	assert.Equal(t, "y", CookieValue("x=1; name=y; z=2", "name"))
	assert.Equal(t, "", CookieValue("x=1", "name"))
}
