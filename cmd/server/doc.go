// Package main is the entry point for the resthub server.
//
// The server exposes two REST collections: files directly beneath a base
// directory (/api/file) and user records (/api/users), plus /health,
// /metrics and the OpenAPI description at /api-docs.
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML file (-config or CONFIG_FILE), overriding the environment
//   - CLI flags, overriding both
//   - Defaults for development
//
// Usage:
//
//	# Serve ./data/files on :8000 with in-memory users
//	./server
//
//	# Custom base directory and persistent users
//	./server -base-dir /srv/files -users-backend file
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
