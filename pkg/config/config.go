package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete gateway configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Security SecurityConfig `mapstructure:"security"`
	API      APIConfig      `mapstructure:"api"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // gin mode: debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	StaticDir    string        `mapstructure:"static_dir"` // built admin UI assets
}

// BackendConfig holds the upstream SmartMart API configuration
type BackendConfig struct {
	Mode      string        `mapstructure:"mode"` // http, dev
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	DevSecret string        `mapstructure:"dev_secret"` // HS256 key for dev-mode tokens
	DevUser   DevUserConfig `mapstructure:"dev_user"`
}

// DevUserConfig is the identity issued by the dev-mode backend stub
type DevUserConfig struct {
	UserID   int64  `mapstructure:"user_id"`
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Role     string `mapstructure:"role"`
}

// SessionConfig holds session cookie and claims-cache configuration
type SessionConfig struct {
	CookieName  string        `mapstructure:"cookie_name"`
	RoleCookie  string        `mapstructure:"role_cookie"`
	MaxAge      time.Duration `mapstructure:"max_age"`
	CachePrefix string        `mapstructure:"cache_prefix"`
}

// RedisConfig holds Redis configuration for the session claims cache
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Enabled      bool          `mapstructure:"enabled"`
}

// DatabaseConfig holds the login audit store configuration
type DatabaseConfig struct {
	Type         string        `mapstructure:"type"` // postgres, sqlite
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	DBName       string        `mapstructure:"dbname"`
	Path         string        `mapstructure:"path"`    // For SQLite
	SSLMode      string        `mapstructure:"sslmode"` // For PostgreSQL
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
	Enabled      bool          `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	MaxLoginAttempts int                 `mapstructure:"max_login_attempts"`
	LockoutWindow    time.Duration       `mapstructure:"lockout_window"`
	ProtectedRoutes  map[string][]string `mapstructure:"protected_routes"` // path prefix -> allowed roles
}

// APIConfig holds API-related configuration
type APIConfig struct {
	RateLimit  int        `mapstructure:"rate_limit"` // requests per minute
	BurstLimit int        `mapstructure:"burst_limit"`
	CORS       CORSConfig `mapstructure:"cors"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Set default values
	setDefaults()

	// Set config file path
	viper.SetConfigFile(configPath)

	// Allow environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("SMARTMART")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if notFound || errors.Is(err, os.ErrNotExist) {
			// Config file not found; use defaults and env vars
			fmt.Printf("Warning: Config file not found at %s, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	// Override with environment variables
	overrideWithEnvVars()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %v", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.static_dir", "./web/dist")

	// Backend defaults
	viper.SetDefault("backend.mode", "http")
	viper.SetDefault("backend.base_url", "http://localhost:8000")
	viper.SetDefault("backend.timeout", "10s")
	viper.SetDefault("backend.dev_user.user_id", 1)
	viper.SetDefault("backend.dev_user.username", "admin")
	viper.SetDefault("backend.dev_user.email", "admin@smartmart.local")
	viper.SetDefault("backend.dev_user.password", "admin")
	viper.SetDefault("backend.dev_user.role", "admin")

	// Session defaults
	viper.SetDefault("session.cookie_name", "session_token")
	viper.SetDefault("session.role_cookie", "user_role")
	viper.SetDefault("session.max_age", "3600s")
	viper.SetDefault("session.cache_prefix", "smartmart:")

	// Redis defaults
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.dial_timeout", "5s")
	viper.SetDefault("redis.read_timeout", "3s")
	viper.SetDefault("redis.write_timeout", "3s")
	viper.SetDefault("redis.enabled", false)

	// Database defaults (login audit store)
	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.path", "./gateway.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_lifetime", "5m")
	viper.SetDefault("database.enabled", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.file", "./logs/gateway.log")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("logging.compress", true)

	// Security defaults
	viper.SetDefault("security.max_login_attempts", 5)
	viper.SetDefault("security.lockout_window", "15m")
	viper.SetDefault("security.protected_routes", map[string][]string{
		"/users": {"admin"},
		"/audit": {"admin"},
	})

	// API defaults
	viper.SetDefault("api.rate_limit", 100)
	viper.SetDefault("api.burst_limit", 200)

	// CORS defaults
	viper.SetDefault("api.cors.allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("api.cors.allow_credentials", true)
	viper.SetDefault("api.cors.max_age", 86400)
}

// overrideWithEnvVars overrides config with specific environment variables
func overrideWithEnvVars() {
	// Critical environment variables that should always override config
	envMappings := map[string]string{
		"API_BASE_URL":   "backend.base_url",
		"BACKEND_MODE":   "backend.mode",
		"DEV_JWT_SECRET": "backend.dev_secret",
		"DB_PASSWORD":    "database.password",
		"DB_USER":        "database.user",
		"REDIS_URL":      "redis.addr",
		"REDIS_PASSWORD": "redis.password",
	}

	for envVar, configKey := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			viper.Set(configKey, value)
		}
	}
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Backend.Mode {
	case "http":
		if config.Backend.BaseURL == "" {
			return fmt.Errorf("backend base URL is required")
		}
	case "dev":
		if config.Backend.DevSecret == "" {
			return fmt.Errorf("dev backend requires a signing secret")
		}
	default:
		return fmt.Errorf("unsupported backend mode: %s", config.Backend.Mode)
	}

	if config.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	if config.Session.MaxAge <= 0 {
		return fmt.Errorf("session max age must be positive")
	}

	// Validate audit store configuration
	if config.Database.Enabled {
		switch config.Database.Type {
		case "postgres":
			if config.Database.Host == "" || config.Database.User == "" {
				return fmt.Errorf("postgres requires host and user")
			}
		case "sqlite":
			if config.Database.Path == "" {
				return fmt.Errorf("sqlite requires path")
			}
		default:
			return fmt.Errorf("unsupported database type: %s", config.Database.Type)
		}
	}

	for prefix, roles := range config.Security.ProtectedRoutes {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("protected route prefix must start with /: %s", prefix)
		}
		if len(roles) == 0 {
			return fmt.Errorf("protected route %s has no allowed roles", prefix)
		}
	}

	return nil
}

// GetDatabaseDSN returns the audit store connection string
func (c *Config) GetDatabaseDSN() string {
	switch c.Database.Type {
	case "postgres":
		sslMode := c.Database.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Database.Host, c.Database.Port, c.Database.User,
			c.Database.Password, c.Database.DBName, sslMode)
	case "sqlite":
		return c.Database.Path
	default:
		return ""
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == "debug" || c.Server.Mode == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "release" || c.Server.Mode == "production"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// SanitizeForLogging returns a copy of the config with sensitive data redacted
func (c *Config) SanitizeForLogging() *Config {
	sanitized := *c

	// Redact sensitive information
	if sanitized.Database.Password != "" {
		sanitized.Database.Password = "[REDACTED]"
	}

	if sanitized.Backend.DevSecret != "" {
		sanitized.Backend.DevSecret = "[REDACTED]"
	}

	if sanitized.Backend.DevUser.Password != "" {
		sanitized.Backend.DevUser.Password = "[REDACTED]"
	}

	if sanitized.Redis.Password != "" {
		sanitized.Redis.Password = "[REDACTED]"
	}

	return &sanitized
}
