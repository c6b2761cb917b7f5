// Package config manages application configuration for the Bookmarks API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Variables are read from the process environment after .env.local and .env
// are loaded into it. Variables already set in the process win over files:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    // missing DATABASE_URL, malformed PORT, ...
//	}
//
// # Environment Variables
//
//	DATABASE_URL      - Database connection URL (required)
//	PORT              - HTTP server port (default: 3001)
//	NODE_ENV          - development, production or test (default: development)
//	CORS_ORIGIN       - Allowed origin in production (default: *)
//	SHUTDOWN_TIMEOUT  - Graceful shutdown window (default: 10s)
//	BODY_LIMIT        - Maximum request body in bytes (default: 10485760)
//	LOG_LEVEL         - debug, info, warn or error (default: debug in development, info otherwise)
//
// An unrecognized NODE_ENV is not an error: it logs a warning and falls back
// to development.
package config
