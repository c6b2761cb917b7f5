package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forgo/bookmarks/api/internal/app"
	"github.com/forgo/bookmarks/api/internal/config"
	"github.com/forgo/bookmarks/api/internal/lifecycle"
)

func main() {
	exiter := lifecycle.NewExiter(os.Exit)

	// Initialize structured logging; the level is refined once config loads
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cmd := newRootCommand(logger, level, exiter)
	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
	}
	exiter.Exit(lifecycle.ExitCode(err))
}

func newRootCommand(logger *slog.Logger, level *slog.LevelVar, exiter *lifecycle.Exiter) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Bookmarks API server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var loadOpts []config.LoadOption
			if envFile != "" {
				loadOpts = append(loadOpts, config.WithEnvFile(envFile))
			}
			loadOpts = append(loadOpts, config.WithLogger(logger))

			cfg, err := config.Load(loadOpts...)
			if err != nil {
				return err
			}
			level.Set(cfg.LogLevel)
			cfg.LogSummary(logger)

			return run(cmd.Context(), cfg, logger, exiter)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "load environment variables from this file instead of .env.local and .env")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, exiter *lifecycle.Exiter) error {
	a, err := app.Startup(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}

	served := make(chan error, 1)
	go func() { served <- a.Serve() }()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-served:
		// The server stopped without being asked to
		_ = a.Database().Disconnect(context.Background())
		if err == nil {
			err = errors.New("server stopped unexpectedly")
		}
		return err
	case <-sigCtx.Done():
	}

	// A second signal abandons graceful shutdown
	releaseForce := exiter.ForceExitOn(logger, syscall.SIGINT, syscall.SIGTERM)
	defer releaseForce()
	stop()
	logger.Info("shutdown signal received")

	if err := lifecycle.Shutdown(context.Background(), cfg.Server.ShutdownTimeout, a.Shutdown); err != nil {
		return err
	}
	<-served

	logger.Info("server exited")
	return nil
}
