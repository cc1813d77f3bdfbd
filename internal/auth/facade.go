package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/wesandradealves/smartmart-gateway/internal/backend"
	"github.com/wesandradealves/smartmart-gateway/pkg/logger"
)

// AuditRecorder receives login/logout events. Implemented by the audit
// store; a nil recorder disables auditing.
type AuditRecorder interface {
	RecordAttempt(ctx context.Context, event, identifier string, success bool, detail string)
	RecentFailures(ctx context.Context, identifier string, since time.Time) (int, error)
}

// Audit event names.
const (
	EventLogin  = "login"
	EventLogout = "logout"
)

const msgTooManyAttempts = "Too many failed login attempts. Try again later."

// Manager is the auth facade: the only component that mutates the session
// state. Overlapping login/logout calls are not fenced; the last write to
// the state wins.
type Manager struct {
	mu         sync.Mutex
	state      SessionState
	credential string

	store   *TokenStore
	backend backend.Client
	audit   AuditRecorder
	log     *logger.Logger

	maxAttempts   int
	lockoutWindow time.Duration
}

// NewManager creates the auth facade. audit may be nil.
func NewManager(store *TokenStore, client backend.Client, audit AuditRecorder, log *logger.Logger) *Manager {
	return &Manager{
		store:   store,
		backend: client,
		audit:   audit,
		log:     log.WithComponent("auth"),
	}
}

// WithThrottle enables the failed-attempt lockout. A non-positive
// maxAttempts disables it.
func (m *Manager) WithThrottle(maxAttempts int, window time.Duration) *Manager {
	m.maxAttempts = maxAttempts
	m.lockoutWindow = window
	return m
}

// Adopt installs a bootstrapped session state.
func (m *Manager) Adopt(state SessionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// Login authenticates against the backend. The identifier is sent as email
// when it contains '@', as username otherwise. On success the credential is
// written to the token store and the session becomes authenticated. Failures
// never surface as raw errors: the result is a boolean plus a classified,
// human-readable message.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, identifier, password string) (bool, string) {
	if m.throttled(ctx, identifier) {
		m.record(ctx, EventLogin, identifier, false, "throttled")
		return false, msgTooManyAttempts
	}

	req := backend.LoginRequest{Password: password}
	if strings.Contains(identifier, "@") {
		req.Email = identifier
	} else {
		req.Username = identifier
	}

	resp, err := m.backend.Login(ctx, req)
	if err != nil {
		m.setState(SessionState{}, "")
		message := backend.FailureMessage(err)
		m.log.AuthLogger("login_failed", identifier, err.Error())
		m.record(ctx, EventLogin, identifier, false, message)
		return false, message
	}

	claims, err := DecodeToken(resp.Token)
	if err != nil {
		// The backend issued a credential we cannot read. Without claims the
		// session invariant (user present iff authenticated) cannot hold, so
		// treat this as a failed login.
		m.setState(SessionState{}, "")
		m.log.Error("login returned undecodable token", "identifier", identifier)
		m.record(ctx, EventLogin, identifier, false, "undecodable token")
		return false, "Login failed due to an unexpected error."
	}

	if err := m.store.Write(ctx, w, resp.Token, claims); err != nil {
		m.log.Error("failed to mirror session claims", "error", err.Error())
	}

	m.setState(SessionState{User: claims, IsAuthenticated: true}, resp.Token)
	m.log.AuthLogger("login", identifier, "authenticated as "+claims.Username)
	m.record(ctx, EventLogin, identifier, true, "")
	return true, resp.Message
}

// Logout revokes the session. The backend call is best effort: failures are
// logged and local state is cleared regardless, since removing client-side
// trust takes priority over guaranteed server-side revocation. A non-empty
// reason is persisted once for the next login render.
func (m *Manager) Logout(ctx context.Context, reason string) {
	m.mu.Lock()
	credential := m.credential
	identifier := ""
	if m.state.User != nil {
		identifier = m.state.User.Username
	}
	m.mu.Unlock()

	if err := m.backend.Logout(ctx, credential); err != nil {
		m.log.Warning("backend logout failed", "error", err.Error())
	}

	if err := m.store.Clear(ctx); err != nil {
		m.log.Error("failed to clear session cache", "error", err.Error())
	}

	if reason != "" {
		if err := m.store.Repository().SetFlag(ctx, KeyLogoutReason, reason, m.store.MaxAge()); err != nil {
			m.log.Error("failed to persist logout reason", "error", err.Error())
		}
	}

	m.setState(SessionState{}, "")
	m.log.AuthLogger("logout", identifier, reason)
	m.record(ctx, EventLogout, identifier, true, reason)
}

// CurrentUser returns the authenticated identity claims, or nil.
func (m *Manager) CurrentUser() *IdentityClaims {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.User
}

// IsAuthenticated reports whether the session is authenticated.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsAuthenticated
}

// Credential returns the raw session token, empty when unauthenticated.
func (m *Manager) Credential() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential
}

// ConsumeLogoutReason returns and clears the one-shot logout message.
func (m *Manager) ConsumeLogoutReason(ctx context.Context) string {
	reason, err := m.store.Repository().TakeFlag(ctx, KeyLogoutReason)
	if err != nil {
		return ""
	}
	return reason
}

func (m *Manager) setState(state SessionState, credential string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.credential = credential
}

func (m *Manager) throttled(ctx context.Context, identifier string) bool {
	if m.audit == nil || m.maxAttempts <= 0 {
		return false
	}
	since := time.Now().Add(-m.lockoutWindow)
	count, err := m.audit.RecentFailures(ctx, identifier, since)
	if err != nil {
		m.log.Warning("failed to check login attempts", "error", err.Error())
		return false
	}
	return count >= m.maxAttempts
}

func (m *Manager) record(ctx context.Context, event, identifier string, success bool, detail string) {
	if m.audit == nil {
		return
	}
	m.audit.RecordAttempt(ctx, event, identifier, success, detail)
}
