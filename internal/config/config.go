// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Log      LogConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the database connection settings. Driver is
// "postgres" or "sqlite"; Path is only used by sqlite.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Migrations    bool
	MigrationsDir string
	Seed          bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // json or console
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	Secret       string
	TokenTTL     time.Duration
	CookieName   string
	SecureCookie bool
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format, as expected
// by golang-migrate.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("server_read_timeout", 15)
	v.SetDefault("server_write_timeout", 15)
	v.SetDefault("server_idle_timeout", 60)

	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "facturapp")
	v.SetDefault("db_password", "facturapp123")
	v.SetDefault("db_name", "facturapp")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_path", "facturapp.db")

	v.SetDefault("dev", true)
	v.SetDefault("migrations", false)
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("seed", false)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "")

	v.SetDefault("auth_secret", "dev-secret-change-me")
	v.SetDefault("auth_token_ttl", "24h")
	v.SetDefault("auth_cookie_name", "session")
	v.SetDefault("auth_secure_cookie", false)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("port"),
			ReadTimeout:  v.GetInt("server_read_timeout"),
			WriteTimeout: v.GetInt("server_write_timeout"),
			IdleTimeout:  v.GetInt("server_idle_timeout"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("db_driver")),
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
			Path:     v.GetString("db_path"),
		},
		App: AppConfig{
			Dev:           v.GetBool("dev"),
			Migrations:    v.GetBool("migrations"),
			MigrationsDir: v.GetString("migrations_dir"),
			Seed:          v.GetBool("seed"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Auth: AuthConfig{
			Secret:       v.GetString("auth_secret"),
			TokenTTL:     v.GetDuration("auth_token_ttl"),
			CookieName:   v.GetString("auth_cookie_name"),
			SecureCookie: v.GetBool("auth_secure_cookie"),
		},
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
		if cfg.App.Dev {
			cfg.Log.Format = "console"
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	if !c.App.Dev && len(c.Auth.Secret) < 32 {
		return errors.New("AUTH_SECRET must be at least 32 characters outside dev mode")
	}
	return nil
}
