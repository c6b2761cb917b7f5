package database

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// loggingDatabase logs statements and their failures around another handle
type loggingDatabase struct {
	Database
	logger  *slog.Logger
	verbose bool
}

func withLogging(db Database, logger *slog.Logger, verbose bool) Database {
	return &loggingDatabase{Database: db, logger: logger, verbose: verbose}
}

func (l *loggingDatabase) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	start := time.Now()
	rows, err := l.Database.Query(ctx, query, args...)
	l.log(ctx, query, start, err)
	return rows, err
}

func (l *loggingDatabase) QueryOne(ctx context.Context, query string, args ...interface{}) (Row, error) {
	start := time.Now()
	row, err := l.Database.QueryOne(ctx, query, args...)
	if errors.Is(err, ErrNotFound) {
		l.log(ctx, query, start, nil)
		return row, err
	}
	l.log(ctx, query, start, err)
	return row, err
}

func (l *loggingDatabase) Execute(ctx context.Context, query string, args ...interface{}) error {
	start := time.Now()
	err := l.Database.Execute(ctx, query, args...)
	l.log(ctx, query, start, err)
	return err
}

func (l *loggingDatabase) log(ctx context.Context, query string, start time.Time, err error) {
	if err != nil {
		l.logger.ErrorContext(ctx, "query failed",
			slog.String("query", query),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return
	}
	if l.verbose {
		l.logger.InfoContext(ctx, "query",
			slog.String("query", query),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
