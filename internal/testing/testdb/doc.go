// Package testdb provides a connected database client for tests.
//
// The target comes from TEST_DATABASE_URL and defaults to an in-memory
// SQLite database, so tests run without external services:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    tdb.MustExec("CREATE TABLE bookmark (url TEXT)")
//	}
//
// The client is disconnected by t.Cleanup.
//
// # Isolation
//
// A SurrealDB target gets a fresh namespace per TestDB, removed on close:
//
//	TEST_DATABASE_URL=ws://root:root@localhost:8000/ignored/test go test ./...
//
// SQL targets other than in-memory SQLite are shared; tests must create and
// drop their own tables.
package testdb
