package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Opener builds an unconnected handle from configuration
type Opener func(cfg Config) (Database, error)

// Client owns the single database handle of the process. It is created
// once at startup and passed to everything that needs database access.
type Client struct {
	config Config
	open   Opener
	logger *slog.Logger

	mu        sync.Mutex
	db        Database
	connected bool
	closed    bool
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithOpener replaces Open, typically with a fake in tests
func WithOpener(open Opener) ClientOption {
	return func(c *Client) { c.open = open }
}

// WithLogger sets the logger for lifecycle and query logging
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client; no handle is built until first use
func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		config: cfg,
		open:   Open,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle returns the process-wide handle, building it on the first call.
// Later calls return the same handle.
func (c *Client) Handle() (Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handleLocked()
}

func (c *Client) handleLocked() (Database, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.db != nil {
		return c.db, nil
	}

	db, err := c.open(c.config)
	if err != nil {
		return nil, err
	}
	c.db = withLogging(db, c.logger, c.config.LogQueries)
	return c.db, nil
}

// Connect establishes the underlying connection. Failures are logged and
// returned to the caller.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	db, err := c.handleLocked()
	if err != nil {
		c.logger.Error("database connection failed", slog.String("error", err.Error()))
		return err
	}
	if c.connected {
		return nil
	}

	if err := db.Connect(ctx); err != nil {
		c.logger.Error("database connection failed", slog.String("error", err.Error()))
		return err
	}

	c.connected = true
	c.logger.Info("database connected")
	return nil
}

// Disconnect closes the handle if one was ever built. Only the first call
// closes; later calls and calls on a client that never built a handle are
// no-ops. If ctx ends first the close keeps running in the background and
// ctx's error is returned.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.db == nil {
		c.closed = true
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	db := c.db
	c.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- db.Close() }()

	select {
	case err := <-done:
		if err != nil {
			c.logger.Error("database disconnect failed", slog.String("error", err.Error()))
			return fmt.Errorf("%w: close failed: %v", ErrConnection, err)
		}
		c.logger.Info("database disconnected")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HealthCheck runs a trivial round trip and reports whether it succeeded.
// It never panics.
func (c *Client) HealthCheck(ctx context.Context) (ok bool) {
	c.mu.Lock()
	db, connected := c.db, c.connected && !c.closed
	c.mu.Unlock()

	if db == nil || !connected {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("database health check panicked", slog.Any("panic", r))
			ok = false
		}
	}()

	if err := db.Ping(ctx); err != nil {
		c.logger.Warn("database health check failed", slog.String("error", err.Error()))
		return false
	}
	return true
}
