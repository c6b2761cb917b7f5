package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Env is the runtime mode of the process
type Env string

const (
	EnvDevelopment Env = "development"
	EnvProduction  Env = "production"
	EnvTest        Env = "test"
)

// Defaults applied when the corresponding variable is absent or blank
const (
	DefaultPort            = 3001
	DefaultEnv             = EnvDevelopment
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBodyLimit       = 10 << 20
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LogLevel slog.Level
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int
	Env             Env
	CORSOrigin      string
	ShutdownTimeout time.Duration
	BodyLimit       int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

type loadOptions struct {
	envFile string
	lookup  func(string) (string, bool)
	logger  *slog.Logger
}

// LoadOption customizes Load
type LoadOption func(*loadOptions)

// WithEnvFile loads the given dotenv file instead of .env and .env.local.
// Unlike the default files, a missing explicit file is an error.
func WithEnvFile(path string) LoadOption {
	return func(o *loadOptions) { o.envFile = path }
}

// WithLookup replaces os.LookupEnv as the variable source and skips dotenv files.
func WithLookup(lookup func(string) (string, bool)) LoadOption {
	return func(o *loadOptions) { o.lookup = lookup }
}

// WithLogger sets the logger used for configuration warnings
func WithLogger(logger *slog.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = logger }
}

// Load reads configuration from the environment, applies defaults and
// validates the result. The returned error describes every failure.
func Load(opts ...LoadOption) (*Config, error) {
	o := loadOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.lookup == nil {
		if err := loadEnvFiles(o.envFile); err != nil {
			return nil, err
		}
	}

	v := newViper(o.lookup)

	var errs []error

	port, err := parsePort(v.GetString("PORT"))
	if err != nil {
		errs = append(errs, err)
	}

	env := parseEnv(v.GetString("NODE_ENV"), o.logger)

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", v.GetString("SHUTDOWN_TIMEOUT"), DefaultShutdownTimeout)
	if err != nil {
		errs = append(errs, err)
	}

	bodyLimit, err := parseBytes("BODY_LIMIT", v.GetString("BODY_LIMIT"), DefaultBodyLimit)
	if err != nil {
		errs = append(errs, err)
	}

	level, err := parseLevel(v.GetString("LOG_LEVEL"), env)
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            port,
			Env:             env,
			CORSOrigin:      strings.TrimSpace(v.GetString("CORS_ORIGIN")),
			ShutdownTimeout: shutdownTimeout,
			BodyLimit:       bodyLimit,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
		},
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		LogLevel: level,
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

// IsTest returns true if running in test mode
func (c *Config) IsTest() bool {
	return c.Server.Env == EnvTest
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Database.URL) == "" {
		errs = append(errs, errors.New("missing required environment variable: DATABASE_URL (set it in your .env file)"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !c.Server.Env.Valid() {
		errs = append(errs, fmt.Errorf("NODE_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.Server.BodyLimit <= 0 {
		errs = append(errs, errors.New("BODY_LIMIT must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LogSummary logs the effective configuration. Credentials in the
// database URL are never logged.
func (c *Config) LogSummary(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.String("env", string(c.Server.Env)),
		slog.Int("port", c.Server.Port),
		slog.String("database", RedactURL(c.Database.URL)),
	)
}

// Valid reports whether e is one of the recognized modes
func (e Env) Valid() bool {
	switch e {
	case EnvDevelopment, EnvProduction, EnvTest:
		return true
	}
	return false
}

// RedactURL reduces a connection string to its scheme and host
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "<redacted>"
	}
	if u.Host == "" {
		return u.Scheme + ":<redacted>"
	}
	return u.Scheme + "://" + u.Host
}

// loadEnvFiles loads variables from dotenv files without overriding
// variables already present in the process environment.
func loadEnvFiles(explicit string) error {
	if explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return fmt.Errorf("loading env file %s: %w", explicit, err)
		}
		return nil
	}

	// .env.local is loaded first so its values win over .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
	return nil
}

var keys = []string{
	"PORT",
	"DATABASE_URL",
	"NODE_ENV",
	"CORS_ORIGIN",
	"SHUTDOWN_TIMEOUT",
	"BODY_LIMIT",
	"LOG_LEVEL",
}

// newViper binds the known keys to the process environment, or to lookup
// when one is given.
func newViper(lookup func(string) (string, bool)) *viper.Viper {
	v := viper.New()
	if lookup == nil {
		v.AutomaticEnv()
		for _, key := range keys {
			_ = v.BindEnv(key)
		}
		return v
	}
	for _, key := range keys {
		if value, ok := lookup(key); ok {
			v.Set(key, value)
		}
	}
	return v
}

// Helper functions for parsing raw values. Blank values select the default.

func parsePort(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultPort, fmt.Errorf("PORT must be an integer, got '%s'", raw)
	}
	return port, nil
}

func parseEnv(raw string, logger *slog.Logger) Env {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultEnv
	}
	env := Env(raw)
	if !env.Valid() {
		logger.Warn("invalid NODE_ENV value, defaulting to development",
			slog.String("value", raw),
		)
		return DefaultEnv
	}
	return env
}

func parseDuration(key, raw string, defaultValue time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a duration, got '%s'", key, raw)
	}
	return d, nil
}

func parseBytes(key, raw string, defaultValue int64) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a byte count, got '%s'", key, raw)
	}
	return n, nil
}

func parseLevel(raw string, env Env) (slog.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == EnvDevelopment {
			return slog.LevelDebug, nil
		}
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got '%s'", raw)
	}
	return level, nil
}
