package api

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/wesandradealves/smartmart-gateway/internal/audit"
	"github.com/wesandradealves/smartmart-gateway/internal/auth"
	"github.com/wesandradealves/smartmart-gateway/internal/backend"
	"github.com/wesandradealves/smartmart-gateway/pkg/config"
	"github.com/wesandradealves/smartmart-gateway/pkg/logger"
)

// Services contains all the dependencies for API handlers
type Services struct {
	Config   *config.Config
	Logger   *logger.Logger
	Tokens   *auth.TokenStore
	Auth     *auth.Manager
	Backend  backend.Client
	Registry *auth.RouteRegistry
	Audit    *audit.Store

	db           *sql.DB
	bootstrapper *auth.Bootstrapper
	bootOnce     sync.Once
}

// NewServices wires the gateway's dependencies from configuration.
func NewServices(cfg *config.Config, log *logger.Logger) (*Services, error) {
	var repo auth.SessionRepository
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		repo = auth.NewRedisSessionRepository(client, cfg.Session.CachePrefix)
		log.Info("session cache backed by redis", "addr", cfg.Redis.Addr)
	} else {
		repo = auth.NewMemorySessionRepository()
		log.Info("session cache backed by memory")
	}

	tokens := auth.NewTokenStore(repo, cfg.Session.CookieName, cfg.Session.RoleCookie, cfg.Session.MaxAge)

	var client backend.Client
	switch cfg.Backend.Mode {
	case "dev":
		client = backend.NewDevClient(cfg.Backend.DevUser, cfg.Backend.DevSecret, cfg.Session.MaxAge)
		log.Warning("backend running in dev mode; tokens are minted locally")
	default:
		client = backend.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	}

	s := &Services{
		Config:       cfg,
		Logger:       log,
		Tokens:       tokens,
		Backend:      client,
		Registry:     auth.NewRouteRegistry(cfg.Security.ProtectedRoutes),
		bootstrapper: auth.NewBootstrapper(tokens),
	}

	var recorder auth.AuditRecorder
	if cfg.Database.Enabled {
		db, err := audit.NewConnection(cfg)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
		store, err := audit.NewStore(db, cfg.Database.Type, log)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.db = db
		s.Audit = store
		recorder = store
	}

	s.Auth = auth.NewManager(tokens, client, recorder, log).
		WithThrottle(cfg.Security.MaxLoginAttempts, cfg.Security.LockoutWindow)

	return s, nil
}

// BootstrapSession reconstructs the session from persisted credential
// material exactly once per process; later calls are no-ops.
func (s *Services) BootstrapSession(ctx context.Context, cookieHeader string) {
	s.bootOnce.Do(func() {
		state := s.bootstrapper.Bootstrap(ctx, cookieHeader)
		if state.IsAuthenticated {
			s.Auth.Adopt(state)
			s.Logger.Info("session restored from persisted credentials", "user", state.User.Username)
		}
	})
}

// Close releases held resources.
func (s *Services) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
