package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Role is a flat user role. There is no hierarchy between roles;
// authorization checks compare for exact membership only.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// IdentityClaims are the user attributes embedded in the session token
// payload. They are decoded WITHOUT signature verification and are suitable
// for display and UI gating only; the backend remains authoritative for
// every authorization decision.
type IdentityClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// ErrMalformedToken is returned by DecodeToken for any credential that
// cannot be decoded. Callers always receive this sentinel, never a panic.
var ErrMalformedToken = errors.New("auth: malformed session token")

// DecodeToken extracts the identity claims from the payload segment of a
// session token. The signature is NOT verified; this is a read-only
// convenience decode and not a trust boundary.
func DecodeToken(credential string) (*IdentityClaims, error) {
	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	payload := strings.ReplaceAll(parts[1], "-", "+")
	payload = strings.ReplaceAll(payload, "_", "/")
	if pad := len(payload) % 4; pad != 0 {
		payload += strings.Repeat("=", 4-pad)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrMalformedToken
	}

	var claims IdentityClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, ErrMalformedToken
	}

	return &claims, nil
}
