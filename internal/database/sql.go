package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Drivers selected by connection URL scheme in Open
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SQLConfig holds settings for a database/sql backed handle
type SQLConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SQLDB implements the Database interface over database/sql
type SQLDB struct {
	db     *sql.DB
	config SQLConfig
}

// NewSQLDB creates a new SQLDB instance
func NewSQLDB(cfg SQLConfig) *SQLDB {
	return &SQLDB{
		config: cfg,
	}
}

// Driver returns the database/sql driver name
func (s *SQLDB) Driver() string {
	return s.config.Driver
}

// Connect opens the pool and verifies it with a ping
func (s *SQLDB) Connect(ctx context.Context) error {
	db, err := sql.Open(s.config.Driver, s.config.DSN)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if s.config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(s.config.MaxOpenConns)
	}
	if s.config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(s.config.MaxIdleConns)
	}
	if s.config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(s.config.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	s.db = db
	return nil
}

// Close closes the connection pool
func (s *SQLDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping runs a trivial round-trip query
func (s *SQLDB) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConnected
	}
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query executes a query and returns every row keyed by column name
func (s *SQLDB) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	var results []Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scanArgs := make([]interface{}, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuery, err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			// Text columns arrive as []byte from several drivers
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	return results, nil
}

// QueryOne executes a query and returns the first row
func (s *SQLDB) QueryOne(ctx context.Context, query string, args ...interface{}) (Row, error) {
	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Execute runs a query without returning results
func (s *SQLDB) Execute(ctx context.Context, query string, args ...interface{}) error {
	if s.db == nil {
		return ErrNotConnected
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return nil
}
