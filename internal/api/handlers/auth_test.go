package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesandradealves/smartmart-gateway/internal/api"
	"github.com/wesandradealves/smartmart-gateway/internal/api/models"
	"github.com/wesandradealves/smartmart-gateway/pkg/config"
	"github.com/wesandradealves/smartmart-gateway/pkg/logger"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Backend.Mode = "dev"
	cfg.Backend.DevSecret = "test-secret"
	cfg.Backend.DevUser = config.DevUserConfig{
		UserID:   1,
		Username: "admin",
		Email:    "admin@smartmart.local",
		Password: "admin",
		Role:     "admin",
	}
	cfg.Session.CookieName = "session_token"
	cfg.Session.RoleCookie = "user_role"
	cfg.Session.MaxAge = time.Hour
	cfg.Security.ProtectedRoutes = map[string][]string{"/users": {"admin"}}
	return cfg
}

func testServices(t *testing.T) *api.Services {
	t.Helper()
	services, err := api.NewServices(testConfig(), logger.NewLogger("error", ""))
	require.NoError(t, err, "Failed to wire services")
	t.Cleanup(func() { services.Close() })
	return services
}

func testRouter(services *api.Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/users/login", Login(services))
	router.POST("/users/logout", Logout(services))
	router.GET("/session", Session(services))
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.BaseResponse {
	t.Helper()
	var resp models.BaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "Response should be a valid envelope")
	return resp
}

func TestLoginHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router := testRouter(testServices(t))

		rec := postJSON(router, "/users/login", `{"identifier": "admin", "password": "admin"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)

		names := map[string]bool{}
		for _, c := range rec.Result().Cookies() {
			names[c.Name] = true
		}
		assert.True(t, names["session_token"], "Session cookie should be set")
		assert.True(t, names["user_role"], "Role cookie should be set")
	})

	t.Run("EmailIdentifier", func(t *testing.T) {
		router := testRouter(testServices(t))

		rec := postJSON(router, "/users/login", `{"email": "admin@smartmart.local", "password": "admin"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		router := testRouter(testServices(t))

		rec := postJSON(router, "/users/login", `{"identifier": "admin", "password": "nope"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeResponse(t, rec)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, models.ErrCodeInvalidCredentials, resp.Error.Code)
		assert.Equal(t, "Incorrect username or password", resp.Error.Message)

		assert.Empty(t, rec.Result().Cookies(), "No cookies on failed login")
	})

	t.Run("MissingPassword", func(t *testing.T) {
		router := testRouter(testServices(t))

		rec := postJSON(router, "/users/login", `{"identifier": "admin"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MissingIdentifier", func(t *testing.T) {
		router := testRouter(testServices(t))

		rec := postJSON(router, "/users/login", `{"password": "admin"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		router := testRouter(testServices(t))

		rec := postJSON(router, "/users/login", `{`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	services := testServices(t)
	router := testRouter(services)

	rec := postJSON(router, "/users/login", `{"identifier": "admin", "password": "admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(router, "/users/logout", `{"reason": "Session expired"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.False(t, services.Auth.IsAuthenticated())
}

func TestLogoutHandlerWithoutBody(t *testing.T) {
	router := testRouter(testServices(t))

	req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "Logout without a body still succeeds")
}

func TestSessionHandler(t *testing.T) {
	t.Run("Anonymous", func(t *testing.T) {
		router := testRouter(testServices(t))

		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data models.SessionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Data.IsAuthenticated)
		assert.Nil(t, resp.Data.User)
	})

	t.Run("AfterLogin", func(t *testing.T) {
		router := testRouter(testServices(t))

		rec := postJSON(router, "/users/login", `{"identifier": "admin", "password": "admin"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var resp struct {
			Data models.SessionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Data.IsAuthenticated)
		require.NotNil(t, resp.Data.User)
		assert.Equal(t, "admin", resp.Data.User.Username)
		assert.Equal(t, "admin", resp.Data.User.Role)
	})

	t.Run("LogoutReasonIsOneShot", func(t *testing.T) {
		router := testRouter(testServices(t))

		rec := postJSON(router, "/users/login", `{"identifier": "admin", "password": "admin"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = postJSON(router, "/users/logout", `{"reason": "Session expired"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		read := func() models.SessionResponse {
			req := httptest.NewRequest(http.MethodGet, "/session", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			var resp struct {
				Data models.SessionResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			return resp.Data
		}

		first := read()
		assert.Equal(t, "Session expired", first.LogoutReason)

		second := read()
		assert.Equal(t, "", second.LogoutReason, "The reason shows exactly once")
	})
}
