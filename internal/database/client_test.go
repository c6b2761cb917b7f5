package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB records lifecycle calls and can be told to fail or block
type fakeDB struct {
	connectErr error
	pingErr    error
	pingPanic  bool
	closeGate  chan struct{}

	connects atomic.Int32
	closes   atomic.Int32
	pings    atomic.Int32
}

func (f *fakeDB) Connect(ctx context.Context) error {
	f.connects.Add(1)
	return f.connectErr
}

func (f *fakeDB) Close() error {
	if f.closeGate != nil {
		<-f.closeGate
	}
	f.closes.Add(1)
	return nil
}

func (f *fakeDB) Ping(ctx context.Context) error {
	f.pings.Add(1)
	if f.pingPanic {
		panic("driver exploded")
	}
	return f.pingErr
}

func (f *fakeDB) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	return []Row{{"one": 1}}, nil
}

func (f *fakeDB) QueryOne(ctx context.Context, query string, args ...interface{}) (Row, error) {
	return nil, ErrNotFound
}

func (f *fakeDB) Execute(ctx context.Context, query string, args ...interface{}) error {
	return errors.New("syntax error")
}

func newTestClient(t *testing.T, db *fakeDB) (*Client, *atomic.Int32, *bytes.Buffer) {
	t.Helper()

	var opens atomic.Int32
	var buf bytes.Buffer
	client := NewClient(
		Config{URL: "fake://", LogQueries: true},
		WithOpener(func(Config) (Database, error) {
			opens.Add(1)
			return db, nil
		}),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	return client, &opens, &buf
}

// ============================================================================
// Handle Tests
// ============================================================================

func TestClient_Handle_IsIdempotent(t *testing.T) {
	t.Parallel()

	client, opens, _ := newTestClient(t, &fakeDB{})

	first, err := client.Handle()
	require.NoError(t, err)
	second, err := client.Handle()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), opens.Load())
}

func TestClient_Handle_ConcurrentCallersShareOneHandle(t *testing.T) {
	t.Parallel()

	client, opens, _ := newTestClient(t, &fakeDB{})

	var wg sync.WaitGroup
	handles := make([]Database, 20)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := client.Handle()
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
	assert.Equal(t, int32(1), opens.Load())
}

func TestClient_Handle_OpenerError(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{URL: "gopher://nowhere"})

	_, err := client.Handle()
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

// ============================================================================
// Connect Tests
// ============================================================================

func TestClient_Connect_Succeeds(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	client, _, buf := newTestClient(t, db)

	require.NoError(t, client.Connect(context.Background()))
	require.NoError(t, client.Connect(context.Background()))

	assert.Equal(t, int32(1), db.connects.Load(), "second Connect should be a no-op")
	assert.Contains(t, buf.String(), "database connected")
}

func TestClient_Connect_PropagatesFailure(t *testing.T) {
	t.Parallel()

	db := &fakeDB{connectErr: ErrConnection}
	client, _, buf := newTestClient(t, db)

	err := client.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnection)
	assert.Contains(t, buf.String(), "database connection failed")
	assert.False(t, client.HealthCheck(context.Background()))
}

// ============================================================================
// Disconnect Tests
// ============================================================================

func TestClient_Disconnect_NeverCreated_NoOp(t *testing.T) {
	t.Parallel()

	client, opens, _ := newTestClient(t, &fakeDB{})

	require.NoError(t, client.Disconnect(context.Background()))
	assert.Equal(t, int32(0), opens.Load(), "Disconnect must not build a handle")

	_, err := client.Handle()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClient_Disconnect_ClosesOnce(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	client, _, buf := newTestClient(t, db)
	require.NoError(t, client.Connect(context.Background()))

	require.NoError(t, client.Disconnect(context.Background()))
	require.NoError(t, client.Disconnect(context.Background()))

	assert.Equal(t, int32(1), db.closes.Load())
	assert.Contains(t, buf.String(), "database disconnected")
	assert.False(t, client.HealthCheck(context.Background()))
}

func TestClient_Disconnect_HonorsContext(t *testing.T) {
	t.Parallel()

	db := &fakeDB{closeGate: make(chan struct{})}
	defer close(db.closeGate)

	client, _, _ := newTestClient(t, db)
	require.NoError(t, client.Connect(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.Disconnect(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ============================================================================
// HealthCheck Tests
// ============================================================================

func TestClient_HealthCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		db       *fakeDB
		connect  bool
		expected bool
	}{
		{"healthy", &fakeDB{}, true, true},
		{"ping_fails", &fakeDB{pingErr: ErrConnection}, true, false},
		{"ping_panics", &fakeDB{pingPanic: true}, true, false},
		{"not_connected", &fakeDB{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _, _ := newTestClient(t, tt.db)
			if tt.connect {
				require.NoError(t, client.Connect(context.Background()))
			}

			assert.Equal(t, tt.expected, client.HealthCheck(context.Background()))
		})
	}
}

// ============================================================================
// Query Logging Tests
// ============================================================================

func TestClient_LogsQueries(t *testing.T) {
	t.Parallel()

	client, _, buf := newTestClient(t, &fakeDB{})
	db, err := client.Handle()
	require.NoError(t, err)

	_, err = db.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	_, err = db.QueryOne(context.Background(), "SELECT missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, db.Execute(context.Background(), "DELETE"))

	out := buf.String()
	assert.Contains(t, out, `msg=query query="SELECT 1"`)
	assert.Contains(t, out, `msg="query failed" query=DELETE`)
	assert.NotContains(t, out, `msg="query failed" query="SELECT missing"`, "not found is not a failure")
}

func TestClient_QueryLoggingDisabled_StillLogsErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	client := NewClient(
		Config{URL: "fake://", LogQueries: false},
		WithOpener(func(Config) (Database, error) { return &fakeDB{}, nil }),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	db, err := client.Handle()
	require.NoError(t, err)

	_, _ = db.Query(context.Background(), "SELECT 1")
	_ = db.Execute(context.Background(), "DELETE")

	assert.NotContains(t, buf.String(), "msg=query ")
	assert.Contains(t, buf.String(), "query failed")
}
