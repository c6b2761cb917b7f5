package testdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/forgo/bookmarks/api/internal/database"
)

// DefaultURL is used when TEST_DATABASE_URL is unset
const DefaultURL = "sqlite::memory:"

// TestDB is a connected client scoped to one test
type TestDB struct {
	Client *database.Client
	DB     database.Database
	URL    string
	Kind   database.Kind

	// Namespace is set for SurrealDB targets
	Namespace string

	t *testing.T
}

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

// URL returns the configured test database URL
func URL() string {
	if u := os.Getenv("TEST_DATABASE_URL"); u != "" {
		return u
	}
	return DefaultURL
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// New connects a client for t. The client is disconnected when t ends.
func New(t *testing.T) *TestDB {
	t.Helper()

	raw := URL()
	target, err := database.ParseURL(raw)
	if err != nil {
		t.Fatalf("testdb: invalid TEST_DATABASE_URL: %v", err)
	}

	tdb := &TestDB{Kind: target.Kind, t: t}
	if target.Kind == database.KindSurreal {
		tdb.Namespace = uniqueNamespace()
		raw, err = withNamespace(raw, tdb.Namespace)
		if err != nil {
			t.Fatalf("testdb: %v", err)
		}
	}
	tdb.URL = raw

	tdb.Client = database.NewClient(database.Config{URL: raw},
		database.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := tdb.Client.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}
	if tdb.DB, err = tdb.Client.Handle(); err != nil {
		t.Fatalf("testdb: %v", err)
	}

	t.Cleanup(tdb.Close)
	return tdb
}

// withNamespace points a SurrealDB URL at namespace, keeping its database
func withNamespace(raw, namespace string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	target, err := database.ParseURL(raw)
	if err != nil {
		return "", err
	}
	u.Path = "/" + namespace + "/" + target.Surreal.Database
	return u.String(), nil
}

// Close removes the SurrealDB namespace, if any, and disconnects. It is
// safe to call more than once.
func (tdb *TestDB) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if tdb.Namespace != "" && tdb.Client.HealthCheck(ctx) {
		// Ignore errors on cleanup
		_ = tdb.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", tdb.Namespace))
	}
	_ = tdb.Client.Disconnect(ctx)
}

// SQL reports whether the target is a database/sql driver
func (tdb *TestDB) SQL() bool {
	return tdb.Kind != database.KindSurreal
}

// Ctx returns a context bounded for one test operation
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}

// MustExec executes a statement and fails the test on error
func (tdb *TestDB) MustExec(query string, args ...interface{}) {
	tdb.t.Helper()
	if err := tdb.DB.Execute(tdb.Ctx(), query, args...); err != nil {
		tdb.t.Fatalf("testdb: exec failed: %v\nQuery: %s", err, query)
	}
}

// MustQuery runs a query and fails the test on error
func (tdb *TestDB) MustQuery(query string, args ...interface{}) []database.Row {
	tdb.t.Helper()
	rows, err := tdb.DB.Query(tdb.Ctx(), query, args...)
	if err != nil {
		tdb.t.Fatalf("testdb: query failed: %v\nQuery: %s", err, query)
	}
	return rows
}
