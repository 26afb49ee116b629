package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultPort           = 3000
	defaultDBPath         = "call-tracker.db"
	defaultExportMax      = 2
	defaultPublicDir      = "public"
	defaultAllowedOrigins = "*"
)

// Config holds all configuration required by the API process.
// Values come from env, optionally seeded from a .env file.
// No business logic should depend on raw environment variables.
type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Export ExportConfig
	HTTP   HTTPConfig
}

type AppConfig struct {
	Env      string
	Port     int
	LogLevel string
}

type DBConfig struct {
	// Driver is sqlite (default) or postgres.
	Driver string
	// Path is the SQLite file; its directory is created on open.
	Path string
	// URL is the Postgres DSN. Avoid logging it; it contains secrets.
	URL string
}

type RedisConfig struct {
	// Addr is optional; empty disables Redis.
	Addr string
}

type ExportConfig struct {
	MaxConcurrent int
}

type HTTPConfig struct {
	PublicDir      string
	AllowedOrigins []string
}

// Load reads configuration from the environment.
// A .env file in the working directory is loaded first when present; existing env vars win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(getenv("APP_ENV"))
	c.App.LogLevel = strings.TrimSpace(getenv("LOG_LEVEL"))
	c.App.Port, parseErrs = intOr(getenv, "PORT", defaultPort, parseErrs)

	c.DB.Driver = strings.ToLower(strings.TrimSpace(getenv("DB_DRIVER")))
	c.DB.Path = strings.TrimSpace(getenv("DB_PATH"))
	c.DB.URL = strings.TrimSpace(getenv("DATABASE_URL"))

	c.Redis.Addr = strings.TrimSpace(getenv("REDIS_ADDR"))

	c.Export.MaxConcurrent, parseErrs = intOr(getenv, "EXPORT_MAX_CONCURRENT", defaultExportMax, parseErrs)

	c.HTTP.PublicDir = strings.TrimSpace(getenv("PUBLIC_DIR"))
	c.HTTP.AllowedOrigins = splitList(getenv("CORS_ORIGINS"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "local"
	}
	if c.DB.Driver == "" {
		c.DB.Driver = DriverSQLite
	}
	if c.DB.Path == "" {
		c.DB.Path = defaultDBPath
	}
	if c.HTTP.PublicDir == "" {
		c.HTTP.PublicDir = defaultPublicDir
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{defaultAllowedOrigins}
	}
}

func (c Config) Validate() error {
	var errs []error

	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid port, got %d", c.App.Port))
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	case DriverPostgres:
		if c.DB.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be one of sqlite, postgres, got %q", c.DB.Driver))
	}

	if c.Export.MaxConcurrent <= 0 {
		errs = append(errs, fmt.Errorf("EXPORT_MAX_CONCURRENT must be > 0, got %d", c.Export.MaxConcurrent))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// DebugSQL reports whether queries should be logged.
func (c Config) DebugSQL() bool {
	return strings.EqualFold(c.App.LogLevel, "debug")
}

// intOr parses key as an integer, returning def only when the variable is unset or blank.
// An explicit 0 is kept so Validate can reject it.
func intOr(getenv func(string) string, key string, def int, errs []error) (int, []error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, errs
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, append(errs, fmt.Errorf("%s must be an integer, got %q", key, v))
	}
	return n, errs
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
