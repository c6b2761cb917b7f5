package database

import (
	"context"
	"errors"
	"time"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrNotConnected indicates an operation on a handle that was never connected.
	ErrNotConnected = errors.New("database not connected")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")

	// ErrUnsupportedScheme indicates a connection URL no driver understands.
	ErrUnsupportedScheme = errors.New("unsupported database URL scheme")

	// ErrClosed indicates the client was already disconnected.
	ErrClosed = errors.New("database client closed")
)

// Row is a single result record keyed by column name
type Row map[string]interface{}

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, args ...interface{}) ([]Row, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, args ...interface{}) (Row, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, args ...interface{}) error
}

// Config holds database configuration
type Config struct {
	// URL selects the driver by scheme, see Open
	URL string

	// LogQueries logs every statement. Errors are always logged.
	LogQueries bool

	// Pool settings for database/sql drivers; zero keeps the driver default
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
