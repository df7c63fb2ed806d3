// Package config provides configuration management for the ticket intake
// service. It supports environment variable-based configuration with
// validation and default values for all service components including the
// HTTP server, member-platform credentials, classifier, database, and
// logging settings.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// MinPortNumber is the minimum valid port number.
	MinPortNumber = 1
	// MaxPortNumber is the maximum valid port number.
	MaxPortNumber = 65535
	// MinSearchQueryLength is the minimum member-search query length
	// enforced at the inbound surface.
	MinSearchQueryLength = 2
)

// Config represents the complete configuration for the ticket service,
// aggregating all component-specific configurations.
type Config struct {
	// Environment holds environment-specific settings.
	Environment EnvironmentConfig `envconfig:"ENVIRONMENT"`
	// Server contains HTTP server configuration including ports and timeouts.
	Server ServerConfig `envconfig:"SERVER"`
	// Momence contains credentials and tuning for the external
	// member/session platform.
	Momence MomenceConfig `envconfig:"MOMENCE"`
	// Classifier contains the external text-classification endpoint settings.
	Classifier ClassifierConfig `envconfig:"CLASSIFIER"`
	// Database contains PostgreSQL ticket store configuration.
	Database DatabaseConfig `envconfig:"POSTGRES"`
	// Notify contains the ticket-event webhook configuration.
	Notify NotifyConfig `envconfig:"NOTIFY"`
	// Security contains CORS and security header settings.
	Security SecurityConfig `envconfig:"SECURITY"`
	// Logging contains logging configuration.
	Logging LoggingConfig `envconfig:"LOGGING"`
}

type Environment string

const (
	Local   Environment = "LOCAL"
	NonProd Environment = "NONPROD"
	Prod    Environment = "PROD"
)

// EnvironmentConfig holds environment-specific settings.
type EnvironmentConfig struct {
	// Environment indicates the current running environment (LOCAL, NONPROD, PROD).
	Environment Environment `envconfig:"ENV" default:"LOCAL"`
}

// ServerConfig holds HTTP server configuration including network settings
// and timeouts.
type ServerConfig struct {
	// Port is the HTTP server listening port.
	Port int `envconfig:"PORT"             default:"8080"`
	// Host is the network interface to bind to.
	Host string `envconfig:"HOST"             default:"0.0.0.0"`
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT"     default:"15s"`
	// WriteTimeout is the maximum duration before timing out writes.
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT"    default:"60s"`
	// IdleTimeout is the maximum amount of time to wait for keep-alive connections.
	IdleTimeout time.Duration `envconfig:"IDLE_TIMEOUT"     default:"60s"`
	// ShutdownTimeout is the maximum time to wait for graceful server shutdown.
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// MomenceConfig contains credentials and request tuning for the external
// member/session platform. The credential set is immutable after load; an
// incomplete set disables all authenticated operations rather than failing
// the process.
type MomenceConfig struct {
	// BaseURL is the platform API root.
	BaseURL string `envconfig:"BASE_URL"   default:"https://api.momence.com/api/v1"`
	// BasicToken is the pre-encoded Basic authorization value sent on
	// token-grant requests.
	BasicToken string `envconfig:"BASIC_TOKEN"`
	// Username is the password-grant username.
	Username string `envconfig:"USERNAME"`
	// Password is the password-grant password.
	Password string `envconfig:"PASSWORD"`
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `envconfig:"TIMEOUT"    default:"20s"`
	// PageSize is the fixed page size used by the session aggregation loop.
	PageSize int `envconfig:"PAGE_SIZE"  default:"200"`
	// MaxPages caps the number of pages one aggregation call may fetch.
	MaxPages int `envconfig:"MAX_PAGES"  default:"10"`
}

// ClassifierConfig contains the external text-classification endpoint
// settings. Model and token limit are fixed configuration, not runtime
// negotiable.
type ClassifierConfig struct {
	// BaseURL is the completion API root.
	BaseURL string `envconfig:"BASE_URL"   default:"https://api.openai.com/v1"`
	// APIKey is the bearer key for the completion API.
	APIKey string `envconfig:"API_KEY"`
	// Model is the completion model identifier.
	Model string `envconfig:"MODEL"      default:"gpt-4o-mini"`
	// MaxTokens caps the completion length.
	MaxTokens int `envconfig:"MAX_TOKENS" default:"600"`
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `envconfig:"TIMEOUT"    default:"30s"`
	// ConfidenceThreshold is the classifier confidence below which the
	// category default department applies.
	ConfidenceThreshold float64 `envconfig:"CONFIDENCE_THRESHOLD" default:"0.7"`
}

// DatabaseConfig contains PostgreSQL database connection configuration
// including connection pool settings and health check parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname.
	Host string `envconfig:"HOST"                default:"localhost"`
	// Port is the PostgreSQL server port.
	Port int `envconfig:"PORT"                default:"5432"`
	// Database is the PostgreSQL database name.
	Database string `envconfig:"DB"                  default:"ticket_manager"`
	// Schema is the PostgreSQL schema name.
	Schema string `envconfig:"SCHEMA"              default:"ticket_manager"`
	// User is the database username.
	User string `envconfig:"USER"`
	// Password is the database password.
	Password string `envconfig:"PASSWORD"`
	// SSLMode is the SSL connection mode (disable, require, verify-ca, verify-full).
	SSLMode string `envconfig:"SSL_MODE"            default:"require"`
	// MaxConn is the maximum number of connections in the pool.
	MaxConn int32 `envconfig:"MAX_CONN"            default:"25"`
	// MinConn is the minimum number of connections in the pool.
	MinConn int32 `envconfig:"MIN_CONN"            default:"5"`
	// MaxConnLifetime is the maximum lifetime of a connection.
	MaxConnLifetime time.Duration `envconfig:"MAX_CONN_LIFETIME"   default:"1h"`
	// MaxConnIdleTime is the maximum idle time for a connection.
	MaxConnIdleTime time.Duration `envconfig:"MAX_CONN_IDLE_TIME"  default:"30m"`
	// HealthCheckPeriod is how often to check database connectivity.
	HealthCheckPeriod time.Duration `envconfig:"HEALTH_CHECK_PERIOD" default:"30s"`
	// ConnectTimeout is the timeout for establishing connections.
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT"     default:"10s"`
}

// NotifyConfig contains the webhook endpoint notified after ticket creation.
// An empty URL disables dispatch.
type NotifyConfig struct {
	// WebhookURL receives ticket.created events.
	WebhookURL string `envconfig:"WEBHOOK_URL"`
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// SecurityConfig contains CORS configuration and security header settings.
type SecurityConfig struct {
	// AllowedOrigins are the CORS allowed origins.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"   default:"*"`
	// AllowedMethods are the CORS allowed HTTP methods.
	AllowedMethods []string `envconfig:"ALLOWED_METHODS"   default:"GET,POST,PUT,DELETE,OPTIONS"`
	// AllowedHeaders are the CORS allowed headers.
	AllowedHeaders []string `envconfig:"ALLOWED_HEADERS"   default:"*"`
	// AllowCredentials determines if CORS allows credentials.
	AllowCredentials bool `envconfig:"ALLOW_CREDENTIALS" default:"true"`
	// MaxAge is the CORS preflight cache duration in seconds.
	MaxAge int `envconfig:"MAX_AGE"           default:"86400"`
}

// LoggingConfig contains logging configuration including log level, format,
// and output destination.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `envconfig:"LEVEL"  default:"info"`
	// Format is the log output format (json, text).
	Format string `envconfig:"FORMAT" default:"json"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `envconfig:"OUTPUT" default:"stdout"`
}

// Load reads configuration from environment variables and returns a
// validated Config instance. It returns an error if configuration is
// invalid or required values are missing.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate performs validation of all configuration values, ensuring they
// meet operational requirements.
func (c *Config) Validate() error {
	if c.Server.Port < MinPortNumber || c.Server.Port > MaxPortNumber {
		return errors.New("server port must be between 1 and 65535")
	}

	if c.Momence.PageSize <= 0 {
		return errors.New("momence page size must be positive")
	}

	if c.Momence.MaxPages <= 0 {
		return errors.New("momence max pages must be positive")
	}

	if c.Classifier.MaxTokens <= 0 {
		return errors.New("classifier max tokens must be positive")
	}

	if c.Classifier.ConfidenceThreshold < 0 || c.Classifier.ConfidenceThreshold > 1 {
		return errors.New("classifier confidence threshold must be within [0,1]")
	}

	return nil
}

// ServerAddr returns the formatted server address string in host:port format.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DatabaseDSN returns the PostgreSQL connection string (Data Source Name).
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s search_path=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.User,
		c.Database.Password,
		c.Database.SSLMode,
		c.Database.Schema,
	)
}

// IsDatabaseConfigured returns true if the database user and password are
// configured.
func (c *Config) IsDatabaseConfigured() bool {
	return c.Database.User != "" && c.Database.Password != ""
}

// IsMomenceConfigured returns true if the full member-platform credential
// set is present.
func (c *Config) IsMomenceConfigured() bool {
	return c.Momence.BasicToken != "" && c.Momence.Username != "" && c.Momence.Password != ""
}
