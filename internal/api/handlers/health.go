package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wesandradealves/smartmart-gateway/internal/api"
	"github.com/wesandradealves/smartmart-gateway/internal/api/models"
)

// HealthCheck provides a simple health check endpoint
func HealthCheck(services *api.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthCheckResponse{
			Status:    "healthy",
			Timestamp: time.Now().Unix(),
			Version:   "1.0.0",
			Backend:   services.Config.Backend.Mode,
		})
	}
}

// SPA serves the built admin UI. Unknown GET paths fall back to index.html
// so client-side routing keeps working after a hard refresh; the route
// guard has already run by the time this handler executes.
func SPA(services *api.Services) gin.HandlerFunc {
	staticDir := services.Config.Server.StaticDir

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		if staticDir == "" {
			c.Status(http.StatusNotFound)
			return
		}

		requested := filepath.Join(staticDir, filepath.Clean("/"+c.Request.URL.Path))
		if !strings.HasPrefix(requested, filepath.Clean(staticDir)) {
			c.Status(http.StatusNotFound)
			return
		}

		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			c.File(requested)
			return
		}

		c.File(filepath.Join(staticDir, "index.html"))
	}
}
