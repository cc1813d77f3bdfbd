package models

// BaseResponse represents the base API response structure
type BaseResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp" example:"1640995200"`
	RequestID string      `json:"request_id,omitempty" example:"req_123456"`
}

// ErrorInfo represents error information
type ErrorInfo struct {
	Code    string `json:"code" example:"INVALID_REQUEST"`
	Message string `json:"message" example:"Invalid request parameters"`
	Details string `json:"details,omitempty" example:"Field 'password' is required"`
}

// UserInfo represents the decoded identity exposed to the UI
type UserInfo struct {
	UserID   int64  `json:"user_id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Role     string `json:"role" example:"admin"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Message string    `json:"message" example:"Login successful"`
	User    *UserInfo `json:"user"`
}

// SessionResponse represents the current session state
type SessionResponse struct {
	IsAuthenticated bool      `json:"is_authenticated" example:"true"`
	User            *UserInfo `json:"user,omitempty"`
	LogoutReason    string    `json:"logout_reason,omitempty" example:"You have been logged out."`
}

// HealthCheckResponse represents health check response
type HealthCheckResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp int64  `json:"timestamp" example:"1640995200"`
	Version   string `json:"version" example:"1.0.0"`
	Backend   string `json:"backend" example:"http"`
}
