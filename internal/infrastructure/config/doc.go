// Package config provides 12-factor configuration management for resthub.
//
// Configuration is loaded from environment variables with sensible defaults.
// An optional YAML file overlays the environment, and CLI flags override
// both.
//
// Configuration Sections:
//   - Server: HTTP listener settings (port, host, shutdown timeout)
//   - Files: file resource base directory and limits
//   - Users: user repository backend selection
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - CORS, Compression, Sentry: HTTP extras and error reporting
//
// Example Usage:
//
//	cfg, err := config.LoadFile("resthub.yaml")
//	fmt.Printf("Serving %s on %s:%s\n", cfg.Files.BaseDir, cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - FILES_BASE_DIR, FILES_DEFAULT_CONTENT, FILES_MAX_BODY_BYTES,
//     FILES_CREATE_BASE_DIR, FILES_RESOLVE_SYMLINKS
//   - USERS_BACKEND, USERS_FILE, USERS_DYNAMO_TABLE, USERS_DYNAMO_REGION,
//     USERS_DYNAMO_ENDPOINT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ALLOW_ORIGINS, GZIP_ENABLED, SENTRY_DSN, SENTRY_ENV
package config
