package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// User repository backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Files       FilesConfig       `yaml:"files"`
	Users       UsersConfig       `yaml:"users"`
	Logging     LogConfig         `yaml:"logging"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	CORS        CORSConfig        `yaml:"cors"`
	Compression CompressionConfig `yaml:"compression"`
	Sentry      SentryConfig      `yaml:"sentry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000" yaml:"port"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" yaml:"shutdown_timeout"`
}

// FilesConfig holds file resource configuration.
type FilesConfig struct {
	BaseDir         string `envconfig:"FILES_BASE_DIR" default:"./data/files" yaml:"base_dir"`
	DefaultContent  string `envconfig:"FILES_DEFAULT_CONTENT" default:"New file" yaml:"default_content"`
	MaxBodyBytes    int64  `envconfig:"FILES_MAX_BODY_BYTES" default:"10485760" yaml:"max_body_bytes"`
	CreateBaseDir   bool   `envconfig:"FILES_CREATE_BASE_DIR" default:"true" yaml:"create_base_dir"`
	ResolveSymlinks bool   `envconfig:"FILES_RESOLVE_SYMLINKS" default:"false" yaml:"resolve_symlinks"`
}

// UsersConfig selects and configures the user repository.
type UsersConfig struct {
	Backend        string `envconfig:"USERS_BACKEND" default:"memory" yaml:"backend"`
	File           string `envconfig:"USERS_FILE" default:"./data/users.json" yaml:"file"`
	DynamoTable    string `envconfig:"USERS_DYNAMO_TABLE" yaml:"dynamo_table"`
	DynamoRegion   string `envconfig:"USERS_DYNAMO_REGION" default:"us-east-1" yaml:"dynamo_region"`
	DynamoEndpoint string `envconfig:"USERS_DYNAMO_ENDPOINT" yaml:"dynamo_endpoint"`
	// BreakerThreshold consecutive store failures open the circuit. Zero disables it.
	BreakerThreshold uint32        `envconfig:"USERS_BREAKER_THRESHOLD" default:"5" yaml:"breaker_threshold"`
	BreakerCooldown  time.Duration `envconfig:"USERS_BREAKER_COOLDOWN" default:"30s" yaml:"breaker_cooldown"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// CORSConfig holds allowed origins.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*" yaml:"allow_origins"`
}

// CompressionConfig toggles gzip responses.
type CompressionConfig struct {
	Enabled bool `envconfig:"GZIP_ENABLED" default:"true" yaml:"enabled"`
}

// SentryConfig holds error reporting configuration. An empty DSN disables it.
type SentryConfig struct {
	DSN         string `envconfig:"SENTRY_DSN" yaml:"dsn"`
	Environment string `envconfig:"SENTRY_ENV" default:"development" yaml:"environment"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads the environment, then overlays the YAML file at path.
// Keys absent from the file keep their environment or default value.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 30 * time.Second,
		},
		Files: FilesConfig{
			BaseDir:         "./data/files",
			DefaultContent:  "New file",
			MaxBodyBytes:    10 << 20,
			CreateBaseDir:   true,
			ResolveSymlinks: false,
		},
		Users: UsersConfig{
			Backend:          BackendMemory,
			File:             "./data/users.json",
			DynamoRegion:     "us-east-1",
			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		Compression: CompressionConfig{
			Enabled: true,
		},
		Sentry: SentryConfig{
			Environment: "development",
		},
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var problems []error

	if c.Server.Port == "" {
		problems = append(problems, errors.New("server port is required"))
	}
	if c.Files.BaseDir == "" {
		problems = append(problems, errors.New("files base directory is required"))
	}
	if c.Files.MaxBodyBytes <= 0 {
		problems = append(problems, errors.New("files max body bytes must be positive"))
	}

	switch c.Users.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Users.File == "" {
			problems = append(problems, errors.New("users file is required for the file backend"))
		}
	case BackendDynamoDB:
		if c.Users.DynamoTable == "" {
			problems = append(problems, errors.New("users dynamo table is required for the dynamodb backend"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown users backend %q", c.Users.Backend))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, errors.New("rate limit rps and burst must be positive"))
	}

	return errors.Join(problems...)
}
