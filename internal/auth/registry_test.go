package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryMatches(t *testing.T) {
	reg := NewRouteRegistry(nil)

	matched := []string{
		"/",
		"/home",
		"/dashboard",
		"/products",
		"/products/42",
		"/categories",
		"/sales/profit/total",
		"/users",
		"/users/7",
		"/price-history/3",
		"/audit/logins",
		"/login",
	}
	for _, path := range matched {
		assert.True(t, reg.Matches(path), "Expected %s to be guarded", path)
	}

	unmatched := []string{
		"/health",
		"/ping",
		"/session",
		"/productsXL",
		"/export/sales",
	}
	for _, path := range unmatched {
		assert.False(t, reg.Matches(path), "Expected %s to pass unguarded", path)
	}
}

func TestRegistryAllowedRoles(t *testing.T) {
	reg := NewRouteRegistry(map[string][]string{
		"/users":         {"admin"},
		"/users/bulk":    {"admin", "viewer"},
		"/price-history": {"admin"},
	})

	t.Run("GatedPrefix", func(t *testing.T) {
		roles, gated := reg.AllowedRoles("/users/7")
		assert.True(t, gated)
		assert.Equal(t, []Role{RoleAdmin}, roles)
	})

	t.Run("LongestPrefixWins", func(t *testing.T) {
		roles, gated := reg.AllowedRoles("/users/bulk")
		assert.True(t, gated)
		assert.Equal(t, []Role{RoleAdmin, RoleViewer}, roles)
	})

	t.Run("Ungated", func(t *testing.T) {
		_, gated := reg.AllowedRoles("/products/1")
		assert.False(t, gated, "Products are open to any authenticated session")
	})
}

func TestRoleAllowed(t *testing.T) {
	allowed := []Role{RoleViewer}

	assert.True(t, RoleAllowed(RoleViewer, allowed))

	// No hierarchy: admin is not implicitly a viewer.
	assert.False(t, RoleAllowed(RoleAdmin, allowed))
	assert.False(t, RoleAllowed(Role(""), allowed))
	assert.False(t, RoleAllowed(Role("superadmin"), []Role{RoleAdmin}))
}
