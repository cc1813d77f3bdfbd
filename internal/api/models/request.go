package models

// LoginRequest represents a login attempt from the admin UI. The UI sends a
// single identifier field; email and username are accepted as aliases so
// raw API callers can be explicit.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password" binding:"required"`
}

// ResolveIdentifier returns the login identifier from whichever field was
// provided.
func (r *LoginRequest) ResolveIdentifier() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// LogoutRequest optionally carries a one-shot message to show on the next
// login screen.
type LogoutRequest struct {
	Reason string `json:"reason"`
}
