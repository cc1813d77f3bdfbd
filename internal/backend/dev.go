package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wesandradealves/smartmart-gateway/pkg/config"
)

// DevClient is a local stand-in for the SmartMart backend. It authenticates
// a single configured user and mints HS256 tokens itself, so the gateway can
// run without a backend during development.
type DevClient struct {
	user   config.DevUserConfig
	secret []byte
	ttl    time.Duration
}

// NewDevClient creates a dev-mode backend stub.
func NewDevClient(user config.DevUserConfig, secret string, ttl time.Duration) *DevClient {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DevClient{
		user:   user,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (c *DevClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	matches := (req.Email != "" && req.Email == c.user.Email) ||
		(req.Username != "" && req.Username == c.user.Username)
	if !matches || req.Password != c.user.Password {
		return nil, &APIError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect username or password"}
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id":  c.user.UserID,
		"username": c.user.Username,
		"email":    c.user.Email,
		"role":     c.user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(c.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Message: "Login successful", Token: signed}, nil
}

func (c *DevClient) Logout(ctx context.Context, token string) error {
	return nil
}

func (c *DevClient) Forward(ctx context.Context, req ForwardRequest) (*http.Response, error) {
	return nil, &APIError{StatusCode: http.StatusNotImplemented, Detail: "not available in dev mode"}
}
