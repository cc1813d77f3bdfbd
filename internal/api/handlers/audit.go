package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wesandradealves/smartmart-gateway/internal/api"
	"github.com/wesandradealves/smartmart-gateway/internal/api/models"
)

// AuditLog lists recent authentication events, newest first. Operator
// endpoint; returns 503 when the audit store is disabled.
func AuditLog(services *api.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if services.Audit == nil {
			c.JSON(http.StatusServiceUnavailable, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeServiceUnavailable,
					Message: "Audit store is disabled",
				},
				Timestamp: time.Now().Unix(),
				RequestID: c.GetString("request_id"),
			})
			return
		}

		limit := 50
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
				limit = l
			}
		}

		entries, err := services.Audit.RecentEntries(c.Request.Context(), limit)
		if err != nil {
			services.Logger.Error("Error reading audit entries: %v", err)
			c.JSON(http.StatusInternalServerError, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInternalError,
					Message: "Failed to retrieve audit entries",
				},
				Timestamp: time.Now().Unix(),
				RequestID: c.GetString("request_id"),
			})
			return
		}

		c.JSON(http.StatusOK, models.BaseResponse{
			Success: true,
			Data: map[string]interface{}{
				"entries": entries,
				"limit":   limit,
				"total":   len(entries),
			},
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
	}
}
