package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wesandradealves/smartmart-gateway/internal/api"
	"github.com/wesandradealves/smartmart-gateway/internal/api/models"
	"github.com/wesandradealves/smartmart-gateway/internal/auth"
)

// Login authenticates the caller against the SmartMart backend and sets the
// session cookies on success.
func Login(services *api.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInvalidRequest,
					Message: "Invalid login payload",
					Details: err.Error(),
				},
				Timestamp: time.Now().Unix(),
				RequestID: c.GetString("request_id"),
			})
			return
		}

		identifier := req.ResolveIdentifier()
		if identifier == "" {
			c.JSON(http.StatusBadRequest, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInvalidRequest,
					Message: "An email or username is required",
				},
				Timestamp: time.Now().Unix(),
				RequestID: c.GetString("request_id"),
			})
			return
		}

		ok, message := services.Auth.Login(c.Request.Context(), c.Writer, identifier, req.Password)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInvalidCredentials,
					Message: message,
				},
				Timestamp: time.Now().Unix(),
				RequestID: c.GetString("request_id"),
			})
			return
		}

		c.JSON(http.StatusOK, models.BaseResponse{
			Success: true,
			Message: message,
			Data: models.LoginResponse{
				Message: message,
				User:    userInfo(services.Auth.CurrentUser()),
			},
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
	}
}

// Logout revokes the session. Always succeeds from the caller's point of
// view; backend failures are logged server-side only.
func Logout(services *api.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LogoutRequest
		// The body is optional; ignore bind failures.
		_ = c.ShouldBindJSON(&req)

		services.Auth.Logout(c.Request.Context(), req.Reason)

		c.JSON(http.StatusOK, models.BaseResponse{
			Success:   true,
			Message:   "Logged out",
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
	}
}

// Session reports the current session state. The first call bootstraps the
// state from persisted credentials; it also consumes the one-shot logout
// reason, if any.
func Session(services *api.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		services.BootstrapSession(ctx, c.Request.Header.Get("Cookie"))

		resp := models.SessionResponse{
			IsAuthenticated: services.Auth.IsAuthenticated(),
			User:            userInfo(services.Auth.CurrentUser()),
			LogoutReason:    services.Auth.ConsumeLogoutReason(ctx),
		}

		c.JSON(http.StatusOK, models.BaseResponse{
			Success:   true,
			Data:      resp,
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
	}
}

func userInfo(claims *auth.IdentityClaims) *models.UserInfo {
	if claims == nil {
		return nil
	}
	return &models.UserInfo{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     string(claims.Role),
	}
}
