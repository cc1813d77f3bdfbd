package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wesandradealves/smartmart-gateway/internal/auth"
)

// RouteGuard gates navigation before any route-specific code runs. It reads
// the persisted cookies directly and never consults in-memory session
// state, so it works even when the bootstrapper has not run.
//
// Evaluation order per request:
//  1. login routes pass unconditionally
//  2. the root path redirects to the landing route regardless of auth state
//  3. without a session cookie, every other guarded path redirects to login
//  4. role-gated paths redirect to the landing route unless the role cookie
//     matches an allowed role exactly
//  5. everything else proceeds
//
// Unauthorized navigations redirect silently; no error body is written.
func RouteGuard(registry *auth.RouteRegistry, sessionCookie, roleCookie string, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// API endpoints that manage the session itself are exempt.
		if _, ok := skipped[path]; ok {
			c.Next()
			return
		}

		if !registry.Matches(path) {
			c.Next()
			return
		}

		if path == auth.LoginPath || strings.HasPrefix(path, auth.LoginPath+"/") {
			c.Next()
			return
		}

		// The root path bounces to the landing route even when
		// unauthenticated; the landing route then bounces again to login.
		// Observed behavior, kept as-is.
		if path == auth.RootPath {
			c.Redirect(http.StatusTemporaryRedirect, auth.LandingPath)
			c.Abort()
			return
		}

		cookieHeader := c.Request.Header.Get("Cookie")

		if auth.CookieValue(cookieHeader, sessionCookie) == "" {
			c.Redirect(http.StatusTemporaryRedirect, auth.LoginPath)
			c.Abort()
			return
		}

		if allowed, gated := registry.AllowedRoles(path); gated {
			role := auth.Role(auth.CookieValue(cookieHeader, roleCookie))
			if !auth.RoleAllowed(role, allowed) {
				c.Redirect(http.StatusTemporaryRedirect, auth.LandingPath)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
