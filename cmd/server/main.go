package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/wesandradealves/smartmart-gateway/internal/api"
	"github.com/wesandradealves/smartmart-gateway/internal/api/handlers"
	"github.com/wesandradealves/smartmart-gateway/internal/api/middlewares"
	"github.com/wesandradealves/smartmart-gateway/pkg/config"
	"github.com/wesandradealves/smartmart-gateway/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/gateway.yaml", "path to config file")
	flag.Parse()

	// Local overrides, ignored when absent
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	log.SetFormatter(cfg.Logging.Format)

	services, err := api.NewServices(cfg, log)
	if err != nil {
		log.Fatal("Failed to wire services: %v", err)
	}
	defer services.Close()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	api.SetupRoutes(router, api.RouteBuilder{
		Login:       handlers.Login(services),
		Logout:      handlers.Logout(services),
		Session:     handlers.Session(services),
		HealthCheck: handlers.HealthCheck(services),
		AuditLog:    handlers.AuditLog(services),
		Proxy:       handlers.Proxy(services),
		SPA:         handlers.SPA(services),
		Guard: middlewares.RouteGuard(
			services.Registry,
			cfg.Session.CookieName,
			cfg.Session.RoleCookie,
			"/users/login", "/users/logout", "/session",
		),
		Middlewares: []gin.HandlerFunc{
			middlewares.Recovery(),
			middlewares.CORS(cfg.API.CORS),
			middlewares.Security(),
			middlewares.RequestLogging(log),
			middlewares.RateLimit(cfg.API.RateLimit),
		},
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Starting SmartMart gateway", "addr", server.Addr, "backend", cfg.Backend.Mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gateway")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown: %v", err)
	}
}
