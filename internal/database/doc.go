// Package database provides database connectivity for the Bookmarks API.
//
// # Database Interface
//
// The Database interface abstracts the drivers behind one set of operations:
//
//	type Database interface {
//	    Connect(ctx context.Context) error
//	    Close() error
//	    Ping(ctx context.Context) error
//	    Query(ctx context.Context, query string, args ...interface{}) ([]Row, error)
//	    QueryOne(ctx context.Context, query string, args ...interface{}) (Row, error)
//	    Execute(ctx context.Context, query string, args ...interface{}) error
//	}
//
// # Drivers
//
// Open picks the driver from the DATABASE_URL scheme: PostgreSQL, MySQL and
// SQLite through database/sql, and SurrealDB over its RPC protocol. SQL drivers
// take positional arguments; SurrealDB takes one map of named variables.
//
// # Client Lifecycle
//
// Client owns the process-wide handle:
//
//	client := database.NewClient(database.Config{URL: cfg.Database.URL})
//	if err := client.Connect(ctx); err != nil {
//	    return err // startup aborts
//	}
//	defer client.Disconnect(ctx)
//
//	ok := client.HealthCheck(ctx) // false instead of an error
//
// # Error Types
//
//   - ErrNotFound: Record does not exist
//   - ErrConnection: Database connection failed
//   - ErrNotConnected: Handle used before Connect
//   - ErrQuery: Query execution failed
//   - ErrUnsupportedScheme: No driver for the URL scheme
//   - ErrClosed: Client already disconnected
package database
