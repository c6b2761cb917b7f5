package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealConfig holds SurrealDB connection settings
type SurrealConfig struct {
	Endpoint  string
	User      string
	Password  string
	Namespace string
	Database  string
}

// SurrealDB implements the Database interface for SurrealDB
type SurrealDB struct {
	db     *surrealdb.DB
	config SurrealConfig
}

// NewSurrealDB creates a new SurrealDB instance
func NewSurrealDB(cfg SurrealConfig) *SurrealDB {
	return &SurrealDB{
		config: cfg,
	}
}

// Connect establishes a connection to SurrealDB
func (s *SurrealDB) Connect(ctx context.Context) error {
	db, err := surrealdb.FromEndpointURLString(ctx, s.config.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if s.config.User != "" {
		_, err = db.SignIn(ctx, &surrealdb.Auth{
			Username: s.config.User,
			Password: s.config.Password,
		})
		if err != nil {
			_ = db.Close(ctx)
			return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
		}
	}

	// Use namespace and database
	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SurrealDB) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping checks the database connection
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConnected
	}
	if _, err := s.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query executes a query and returns the records of every statement.
// SurrealQL binds named variables, so args is either empty or a single
// map[string]interface{}.
func (s *SurrealDB) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	vars, err := surrealVars(args)
	if err != nil {
		return nil, err
	}

	results, err := surrealdb.Query[[]map[string]interface{}](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if results == nil {
		return nil, nil
	}

	var output []Row
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, ErrQuery
		}
		for _, record := range r.Result {
			output = append(output, Row(record))
		}
	}

	return output, nil
}

// QueryOne executes a query and returns the first record
func (s *SurrealDB) QueryOne(ctx context.Context, query string, args ...interface{}) (Row, error) {
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
func (s *SurrealDB) Execute(ctx context.Context, query string, args ...interface{}) error {
	if s.db == nil {
		return ErrNotConnected
	}

	vars, err := surrealVars(args)
	if err != nil {
		return err
	}

	results, err := surrealdb.Query[interface{}](ctx, s.db, query, vars)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if results != nil {
		for _, r := range *results {
			if r.Status != "OK" && r.Error != nil {
				return fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
		}
	}
	return nil
}

func surrealVars(args []interface{}) (map[string]interface{}, error) {
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		if vars, ok := args[0].(map[string]interface{}); ok {
			return vars, nil
		}
	}
	return nil, fmt.Errorf("%w: surrealdb queries take a single map of named variables", ErrQuery)
}
