package api

import (
	"github.com/gin-gonic/gin"
)

// RouteBuilder registers handlers on the router. Defined here so routes.go
// does not import the handlers package (which imports this one).
type RouteBuilder struct {
	Login       gin.HandlerFunc
	Logout      gin.HandlerFunc
	Session     gin.HandlerFunc
	HealthCheck gin.HandlerFunc
	AuditLog    gin.HandlerFunc
	Proxy       gin.HandlerFunc
	SPA         gin.HandlerFunc
	Guard       gin.HandlerFunc
	Middlewares []gin.HandlerFunc
}

// SetupRoutes configures all gateway routes with proper middleware
func SetupRoutes(router *gin.Engine, b RouteBuilder) {
	// Global middleware
	for _, mw := range b.Middlewares {
		router.Use(mw)
	}
	router.Use(b.Guard)

	// Health check (no auth required)
	router.GET("/health", b.HealthCheck)
	router.GET("/ping", b.HealthCheck)

	// Operator endpoints; the guard requires an admin session for /audit
	router.GET("/audit/logins", b.AuditLog)

	// Session management
	router.POST("/users/login", b.Login)
	router.POST("/users/logout", b.Logout)
	router.GET("/session", b.Session)

	// Proxied CRUD surfaces
	categories := router.Group("/categories")
	{
		categories.GET("", b.Proxy)
		categories.POST("", b.Proxy)
		categories.PUT("/:id", b.Proxy)
		categories.DELETE("/:id", b.Proxy)
		categories.POST("/upload-csv", b.Proxy)
	}

	products := router.Group("/products")
	{
		products.GET("", b.Proxy)
		products.POST("", b.Proxy)
		products.PUT("/:id", b.Proxy)
		products.DELETE("/:id", b.Proxy)
		products.PUT("/categories/:id/discount", b.Proxy)
		products.POST("/upload-csv", b.Proxy)
	}

	sales := router.Group("/sales")
	{
		sales.GET("", b.Proxy)
		sales.POST("", b.Proxy)
		sales.PUT("/:id", b.Proxy)
		sales.DELETE("/:id", b.Proxy)
		sales.GET("/profit/total", b.Proxy)
		sales.POST("/upload-csv", b.Proxy)
	}

	users := router.Group("/users")
	{
		users.PUT("/:id", b.Proxy)
		users.POST("/upload-csv", b.Proxy)
	}

	router.GET("/price-history/:id", b.Proxy)

	// CSV downloads
	export := router.Group("/export")
	{
		export.GET("/products", b.Proxy)
		export.GET("/categories", b.Proxy)
		export.GET("/sales", b.Proxy)
		export.GET("/users", b.Proxy)
		export.GET("/sales_with_profit", b.Proxy)
	}

	// Admin UI assets; everything unmatched falls through to the SPA
	router.NoRoute(b.SPA)
}
