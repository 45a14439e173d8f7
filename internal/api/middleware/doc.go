// Package middleware provides the HTTP middleware stack.
//
// Middleware stack includes:
//   - RequestID: X-Request-ID propagation
//   - AccessLog and Recovery: zap request logging and panic recovery
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle eviction
//   - Gzip: Pooled gzip response compression
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.Recovery(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
