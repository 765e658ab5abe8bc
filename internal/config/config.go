// Package config provides configuration for the tutorial servers with
// multi-source priority.
//
// Sources (highest to lowest priority):
//  1. Environment variables (including those loaded from .env)
//  2. Config file (~/.mcptut/config.yaml or ./config.yaml)
//  3. Default values
//
// Absence of an external credential never fails the load: the weather server
// falls back to demo data without OPENWEATHER_API_KEY, and the database
// server falls back to demo data without POSTGRES_PASSWORD.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidWorkspace indicates the file workspace path is unusable.
	ErrInvalidWorkspace = errors.New("invalid workspace path")

	// ErrInvalidMemoDBPath indicates the memo database path is unusable.
	ErrInvalidMemoDBPath = errors.New("invalid memo database path")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")
)

// Config stores settings for all five tutorial servers. Each server reads
// only the fields it needs.
type Config struct {
	// Weather server. Empty APIKey selects demo mode.
	WeatherAPIKey  string `mapstructure:"weather_api_key"`
	WeatherBaseURL string `mapstructure:"weather_base_url"`

	// File manager server. All file operations are confined to Workspace.
	Workspace string `mapstructure:"workspace"`

	// Database server (PostgreSQL). Empty Password selects demo mode.
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE: never logged
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// Memo server (SQLite file).
	MemoDBPath string `mapstructure:"memo_db_path"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".mcptut"))
	v.AddConfigPath(".")

	setDefaults(v, home)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("weather_base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("workspace", filepath.Join(home, "mcp_workspace"))
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "itlog")
	v.SetDefault("postgres_db_name", "itlog")
	v.SetDefault("postgres_ssl_mode", "disable")
	v.SetDefault("memo_db_path", filepath.Join(home, ".mcptut", "memos.db"))
}

// bindEnvVariables binds the environment variables each tutorial documents.
func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("weather_api_key", "OPENWEATHER_API_KEY")
	_ = v.BindEnv("weather_base_url", "OPENWEATHER_BASE_URL")
	_ = v.BindEnv("workspace", "FILE_WORKSPACE")
	_ = v.BindEnv("postgres_host", "POSTGRES_HOST")
	_ = v.BindEnv("postgres_port", "POSTGRES_PORT")
	_ = v.BindEnv("postgres_user", "POSTGRES_USER")
	_ = v.BindEnv("postgres_password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("postgres_db_name", "POSTGRES_DB")
	_ = v.BindEnv("postgres_ssl_mode", "POSTGRES_SSL_MODE")
	_ = v.BindEnv("memo_db_path", "MEMO_DB_PATH")
}

// Validate performs fail-fast validation of the loaded values.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("configuration is nil")
	}
	if c.Workspace == "" {
		return fmt.Errorf("%w: empty", ErrInvalidWorkspace)
	}
	if c.MemoDBPath == "" {
		return fmt.Errorf("%w: empty", ErrInvalidMemoDBPath)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	return nil
}

// DatabaseLive reports whether a PostgreSQL credential is configured. Without
// one the database server runs against fixed demonstration data.
func (c *Config) DatabaseLive() bool {
	return c.PostgresPassword != ""
}

// WeatherLive reports whether a weather API key is configured.
func (c *Config) WeatherLive() bool {
	return c.WeatherAPIKey != ""
}

// PostgresURL builds a postgres:// connection URL from the individual
// settings, with the password safely escaped.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
