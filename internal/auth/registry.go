package auth

import (
	"sort"
	"strings"
)

// Route constants used by the guard.
const (
	LoginPath   = "/login"
	RootPath    = "/"
	LandingPath = "/dashboard"
)

// defaultMatchers is the path set the guard applies to. Paths outside this
// set pass through unguarded.
var defaultMatchers = []string{
	"/",
	"/home",
	"/dashboard",
	"/products",
	"/categories",
	"/sales",
	"/users",
	"/price-history",
	"/audit",
	"/login",
}

// RouteRegistry is the static mapping from path prefixes to the roles
// allowed to reach them. It is built once at startup and never mutated.
// Role checks are exact-match against a flat set; there is no inheritance.
type RouteRegistry struct {
	matchers  []string
	protected []protectedRoute
}

type protectedRoute struct {
	prefix string
	roles  []Role
}

// NewRouteRegistry builds a registry from a prefix -> allowed-roles map,
// typically sourced from config. A nil map yields a registry where every
// matched route requires only an authenticated session.
func NewRouteRegistry(protected map[string][]string) *RouteRegistry {
	reg := &RouteRegistry{matchers: defaultMatchers}

	// Longest prefix first so nested overrides win.
	prefixes := make([]string, 0, len(protected))
	for prefix := range protected {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, prefix := range prefixes {
		roles := make([]Role, 0, len(protected[prefix]))
		for _, r := range protected[prefix] {
			roles = append(roles, Role(r))
		}
		reg.protected = append(reg.protected, protectedRoute{prefix: prefix, roles: roles})
	}

	return reg
}

// Matches reports whether the guard applies to path.
func (r *RouteRegistry) Matches(path string) bool {
	for _, m := range r.matchers {
		if pathUnder(path, m) {
			return true
		}
	}
	return false
}

// AllowedRoles returns the roles permitted on path when it is role-gated.
// The second result is false for routes open to any authenticated session.
func (r *RouteRegistry) AllowedRoles(path string) ([]Role, bool) {
	for _, p := range r.protected {
		if pathUnder(path, p.prefix) {
			return p.roles, true
		}
	}
	return nil, false
}

// RoleAllowed reports whether role is in the allowed set. Comparison is
// exact: an admin is not implicitly allowed where viewer is required.
func RoleAllowed(role Role, allowed []Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// pathUnder reports whether path equals prefix or sits beneath it.
func pathUnder(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
