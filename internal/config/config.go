package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Zendesk   ZendeskConfig
	Auth      AuthConfig
	Directory DirectoryConfig
	Metrics   MetricsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Output string
}

// ZendeskConfig holds the ticketing backend credentials.
type ZendeskConfig struct {
	Subdomain      string
	Username       string
	APIToken       string
	BaseURL        string
	TimeoutSeconds int
}

// AuthConfig defines the shared-secret gate.
type AuthConfig struct {
	Required bool
	Token    string
}

// DirectoryConfig points at the agent directory file.
type DirectoryConfig struct {
	File string
}

// MetricsConfig controls the prometheus listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "Zendesk MCP Server"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "8080"),
			Version: getEnv("APP_VERSION", "1.0.0"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Zendesk: ZendeskConfig{
			Subdomain:      os.Getenv("ZENDESK_SUBDOMAIN"),
			Username:       os.Getenv("ZENDESK_USERNAME"),
			APIToken:       os.Getenv("ZENDESK_API_TOKEN"),
			BaseURL:        os.Getenv("ZENDESK_BASE_URL"),
			TimeoutSeconds: getEnvAsInt("ZENDESK_TIMEOUT_SECONDS", 30),
		},
		Auth: AuthConfig{
			Required: getEnvAsBool("AUTH_REQUIRED", true),
			Token:    os.Getenv("AUTH_TOKEN"),
		},
		Directory: DirectoryConfig{
			File: os.Getenv("AGENT_DIRECTORY_FILE"),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing required value at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Zendesk.Subdomain == "" && c.Zendesk.BaseURL == "" {
		errs = append(errs, errors.New("ZENDESK_SUBDOMAIN or ZENDESK_BASE_URL is required"))
	}
	if c.Zendesk.Username == "" {
		errs = append(errs, errors.New("ZENDESK_USERNAME is required"))
	}
	if c.Zendesk.APIToken == "" {
		errs = append(errs, errors.New("ZENDESK_API_TOKEN is required"))
	}
	if c.Auth.Required && c.Auth.Token == "" {
		errs = append(errs, errors.New("AUTH_TOKEN is required when AUTH_REQUIRED is true"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// URL returns the API root, derived from the subdomain unless overridden.
func (z ZendeskConfig) URL() string {
	if z.BaseURL != "" {
		return strings.TrimRight(z.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.zendesk.com", z.Subdomain)
}

// Timeout returns the backend request timeout.
func (z ZendeskConfig) Timeout() time.Duration {
	if z.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(z.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
