// Package app wires configuration, the database client and the HTTP
// pipeline into a running server. It never exits the process; callers
// decide what a returned error means.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/forgo/bookmarks/api/internal/config"
	"github.com/forgo/bookmarks/api/internal/database"
	"github.com/forgo/bookmarks/api/internal/handler"
	"github.com/forgo/bookmarks/api/internal/routes"
	"github.com/forgo/bookmarks/api/internal/server"
)

// App is a started server: the database is connected and the listener bound
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *database.Client
	server   *server.Server
	listener net.Listener
}

type options struct {
	logger     *slog.Logger
	opener     database.Opener
	listener   net.Listener
	registrars []server.Registrar
}

// Option customizes Startup
type Option func(*options)

// WithLogger sets the logger passed to every component
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOpener replaces the database driver factory
func WithOpener(open database.Opener) Option {
	return func(o *options) { o.opener = open }
}

// WithListener serves on l instead of binding the configured port
func WithListener(l net.Listener) Option {
	return func(o *options) { o.listener = l }
}

// WithRegistrars mounts extra routes after the built-in ones
func WithRegistrars(registrars ...server.Registrar) Option {
	return func(o *options) { o.registrars = append(o.registrars, registrars...) }
}

// Startup connects the database, assembles the pipeline and binds the
// listener, in that order. On error nothing is left listening and the
// database client is closed.
func Startup(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []database.ClientOption{database.WithLogger(o.logger)}
	if o.opener != nil {
		clientOpts = append(clientOpts, database.WithOpener(o.opener))
	}
	db := database.NewClient(database.Config{
		URL:        cfg.Database.URL,
		LogQueries: !cfg.IsProduction(),
	}, clientOpts...)

	if err := db.Connect(ctx); err != nil {
		_ = db.Disconnect(ctx)
		return nil, fmt.Errorf("connect database: %w", err)
	}

	health := handler.NewHealthHandler(handler.HealthHandlerConfig{
		Database:  db,
		StartedAt: time.Now(),
	})
	registrars := append([]server.Registrar{routes.Register(routes.Deps{Health: health})}, o.registrars...)
	pipeline := server.NewPipeline(cfg, o.logger, registrars...)
	srv := server.New(cfg, pipeline, o.logger)

	l := o.listener
	if l == nil {
		var err error
		if l, err = srv.Listen(); err != nil {
			_ = db.Disconnect(ctx)
			return nil, fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
		}
	}

	return &App{
		cfg:      cfg,
		logger:   o.logger,
		db:       db,
		server:   srv,
		listener: l,
	}, nil
}

// Serve blocks serving requests until Shutdown
func (a *App) Serve() error {
	return a.server.Serve(a.listener)
}

// Shutdown stops accepting connections, drains in-flight requests and then
// disconnects the database.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down",
		slog.Duration("timeout", a.cfg.Server.ShutdownTimeout),
	)
	if err := a.server.Shutdown(ctx); err != nil {
		_ = a.db.Disconnect(ctx)
		return fmt.Errorf("shutdown server: %w", err)
	}
	// Shutdown only closes listeners Serve has seen
	_ = a.listener.Close()

	if err := a.db.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect database: %w", err)
	}
	return nil
}

// Addr is the bound listener address
func (a *App) Addr() string {
	return a.listener.Addr().String()
}

// Database returns the connected database client
func (a *App) Database() *database.Client {
	return a.db
}
