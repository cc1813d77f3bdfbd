package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wesandradealves/smartmart-gateway/internal/api"
	"github.com/wesandradealves/smartmart-gateway/internal/api/models"
	"github.com/wesandradealves/smartmart-gateway/internal/backend"
)

// Proxy forwards the request to the SmartMart backend verbatim, attaching
// the session credential as a bearer token. Response status, content type
// and attachment headers stream back unchanged, which covers both JSON CRUD
// responses and CSV downloads.
func Proxy(services *api.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := services.Tokens.ReadRequest(c.Request)

		resp, err := services.Backend.Forward(c.Request.Context(), backend.ForwardRequest{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Query:       c.Request.URL.Query(),
			Body:        c.Request.Body,
			ContentType: c.GetHeader("Content-Type"),
			Token:       token,
		})
		if err != nil {
			writeBackendError(c, err)
			return
		}
		defer resp.Body.Close()

		extraHeaders := map[string]string{}
		if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
			extraHeaders["Content-Disposition"] = disposition
		}

		c.DataFromReader(resp.StatusCode, resp.ContentLength, resp.Header.Get("Content-Type"), resp.Body, extraHeaders)
	}
}

func writeBackendError(c *gin.Context, err error) {
	var transport *backend.TransportError
	if errors.As(err, &transport) {
		c.JSON(http.StatusBadGateway, models.BaseResponse{
			Success: false,
			Error: &models.ErrorInfo{
				Code:    models.ErrCodeBackendUnreachable,
				Message: "The SmartMart API is unreachable",
			},
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, models.BaseResponse{
			Success: false,
			Error: &models.ErrorInfo{
				Code:    models.ErrCodeBackendError,
				Message: backend.FailureMessage(err),
			},
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, models.BaseResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    models.ErrCodeInternalError,
			Message: "Internal server error",
		},
		Timestamp: time.Now().Unix(),
		RequestID: c.GetString("request_id"),
	})
}
