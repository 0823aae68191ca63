package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	Auth      AuthConfig      `koanf:"auth"`
	Dashboard DashboardConfig `koanf:"dashboard"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host       string     `koanf:"host"`
	Port       int        `koanf:"port"`
	Mode       string     `koanf:"mode"`
	CSRFSecret string     `koanf:"csrf_secret"`
	Timeout    string     `koanf:"timeout"`
	CORS       CORSConfig `koanf:"cors"`
}

// CORSConfig holds CORS middleware settings for the JSON API.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
	// Migrate applies pending goose migrations on startup.
	Migrate bool `koanf:"migrate"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Enabled     bool     `koanf:"enabled"`
	JWTSecret   string   `koanf:"jwt_secret"`
	TokenExpiry string   `koanf:"token_expiry"`
	CookieName  string   `koanf:"cookie_name"`
	PublicPaths []string `koanf:"public_paths"`
}

// DashboardConfig tunes the listing pages.
type DashboardConfig struct {
	// PageWindow is the number of page links shown in pagination controls.
	PageWindow int `koanf:"page_window"`
}

const defaultCookieName = "leadboard_session"

// requiredPublicPaths must stay reachable without a session when auth is on.
var requiredPublicPaths = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/register",
	"/login",
	"/signup",
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load reads the YAML file at configPath, overlays APP__ environment
// variables and validates the result. A double underscore separates levels
// and single underscores stay in the key: APP__SERVER__PORT sets server.port
// and APP__AUTH__JWT_SECRET sets auth.jwt_secret.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	envKey := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const (
	envPrefix         = "APP__"
	defaultPageWindow = 5
)

// Validate checks cross-field constraints and supported values, normalizing
// fields in place.
func (c *Config) Validate() error {
	for _, validate := range []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateAuth,
		c.validateLog,
		c.validateDashboard,
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	s := &c.Server
	var err error
	if s.Mode, err = oneOf("server.mode", s.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode); err != nil {
		return err
	}
	if err := validPort("server.port", s.Port); err != nil {
		return err
	}
	if s.Host, err = required("server.host", s.Host, ""); err != nil {
		return err
	}

	s.Timeout = strings.TrimSpace(s.Timeout)
	s.CORS.MaxAge = strings.TrimSpace(s.CORS.MaxAge)
	if err := validateOptionalDuration("server.timeout", s.Timeout); err != nil {
		return err
	}
	if err := validateOptionalDuration("server.cors.max_age", s.CORS.MaxAge); err != nil {
		return err
	}

	if s.Mode == gin.ReleaseMode && len(strings.TrimSpace(s.CSRFSecret)) < 32 {
		return errors.New("server.csrf_secret must be at least 32 characters in release mode")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	db := &c.Database
	var err error
	switch db.Driver {
	case "sqlite":
		if db.SQLite.Path, err = required("database.sqlite.path", db.SQLite.Path, "sqlite"); err != nil {
			return err
		}
	case "postgres":
		pg := &db.Postgres
		for _, f := range []struct {
			name  string
			value *string
		}{
			{"database.postgres.host", &pg.Host},
			{"database.postgres.user", &pg.User},
			{"database.postgres.dbname", &pg.DBName},
		} {
			if *f.value, err = required(f.name, *f.value, "postgres"); err != nil {
				return err
			}
		}
		if err := validPort("database.postgres.port", pg.Port); err != nil {
			return err
		}
		if pg.SSLMode, err = oneOf("database.postgres.sslmode", pg.SSLMode,
			"disable", "allow", "prefer", "require", "verify-ca", "verify-full"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", db.Driver, "sqlite", "postgres")
	}

	db.Pool.ConnMaxLifetime = strings.TrimSpace(db.Pool.ConnMaxLifetime)
	return validateOptionalDuration("database.pool.conn_max_lifetime", db.Pool.ConnMaxLifetime)
}

func (c *Config) validateAuth() error {
	a := &c.Auth
	if a.CookieName = strings.TrimSpace(a.CookieName); a.CookieName == "" {
		a.CookieName = defaultCookieName
	}
	if !a.Enabled {
		return nil
	}

	a.JWTSecret = strings.TrimSpace(a.JWTSecret)
	if len(a.JWTSecret) < 32 {
		return errors.New("invalid auth.jwt_secret: must be at least 32 characters when auth is enabled")
	}
	if c.Server.Mode == gin.ReleaseMode && CountSecretClasses(a.JWTSecret) < 3 {
		return errors.New("auth.jwt_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}

	var err error
	if a.TokenExpiry, err = required("auth.token_expiry", a.TokenExpiry, ""); err != nil {
		return err
	}
	if err := validateOptionalDuration("auth.token_expiry", a.TokenExpiry); err != nil {
		return err
	}

	paths := make([]string, 0, len(a.PublicPaths)+len(requiredPublicPaths))
	seen := make(map[string]bool, cap(paths))
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for i, p := range a.PublicPaths {
		p = strings.TrimSpace(p)
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("invalid auth.public_paths[%d] %q: must start with '/'", i, a.PublicPaths[i])
		}
		add(p)
	}
	for _, p := range requiredPublicPaths {
		add(p)
	}
	a.PublicPaths = paths
	return nil
}

func (c *Config) validateLog() error {
	var err error
	if c.Log.Level, err = oneOf("log.level", strings.ToLower(c.Log.Level), "debug", "info", "warn", "error"); err != nil {
		return err
	}
	c.Log.Format, err = oneOf("log.format", strings.ToLower(c.Log.Format), "text", "json", "custom")
	return err
}

func (c *Config) validateDashboard() error {
	switch w := c.Dashboard.PageWindow; {
	case w < 0:
		return fmt.Errorf("invalid dashboard.page_window %d: must not be negative", w)
	case w == 0:
		c.Dashboard.PageWindow = defaultPageWindow
	}
	return nil
}

// oneOf returns the trimmed value when it is one of allowed.
func oneOf(name, value string, allowed ...string) (string, error) {
	v := strings.TrimSpace(value)
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = strconv.Quote(a)
	}
	return "", fmt.Errorf("invalid %s %q: must be one of %s", name, value, strings.Join(quoted, ", "))
}

// required returns the trimmed value, or an error when it is blank. A
// non-empty driver is named in the message.
func required(name, value, driver string) (string, error) {
	v := strings.TrimSpace(value)
	if v != "" {
		return v, nil
	}
	if driver != "" {
		return "", fmt.Errorf("%s is required when driver is %s", name, driver)
	}
	return "", fmt.Errorf("%s is required", name)
}

func validPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %d: must be between 1 and 65535", name, port)
	}
	return nil
}

// validateOptionalDuration accepts an empty value or a positive Go duration.
func validateOptionalDuration(name, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	switch {
	case err != nil:
		return fmt.Errorf("invalid %s %q: %w", name, value, err)
	case d <= 0:
		return fmt.Errorf("invalid %s %q: must be greater than 0", name, value)
	}
	return nil
}

// TokenTTL returns the parsed token expiry, or 24h when unset.
func (a AuthConfig) TokenTTL() time.Duration {
	if d, err := time.ParseDuration(a.TokenExpiry); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// CountSecretClasses reports how many of lowercase, uppercase, digit and
// symbol characters appear in secret.
func CountSecretClasses(secret string) int {
	var seen [4]bool
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			seen[0] = true
		case unicode.IsUpper(r):
			seen[1] = true
		case unicode.IsDigit(r):
			seen[2] = true
		default:
			seen[3] = true
		}
	}
	n := 0
	for _, ok := range seen {
		if ok {
			n++
		}
	}
	return n
}
