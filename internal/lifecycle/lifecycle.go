// Package lifecycle coordinates process shutdown: bounding graceful
// teardown with a deadline and making the exit itself happen once.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"
)

// ErrShutdownTimeout is returned when graceful shutdown outlives its window
var ErrShutdownTimeout = errors.New("shutdown timed out")

// Step is one ordered part of graceful shutdown
type Step func(ctx context.Context) error

// Shutdown runs steps in order and returns the first error. If they have
// not finished within timeout, Shutdown returns ErrShutdownTimeout right
// away; ctx passed to the steps expires at the same moment, and the steps
// are left to unwind on their own. A step failing on that expiry also
// reports ErrShutdownTimeout.
func Shutdown(ctx context.Context, timeout time.Duration, steps ...Step) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		for _, step := range steps {
			if err := step(ctx); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrShutdownTimeout, err)
		}
		return err
	case <-timer.C:
		return ErrShutdownTimeout
	}
}

// Exiter ends the process with the first code it is given. Later calls do
// nothing, so racing exit paths cannot exit twice.
type Exiter struct {
	once sync.Once
	exit func(code int)
}

// NewExiter wraps exit, normally os.Exit
func NewExiter(exit func(code int)) *Exiter {
	return &Exiter{exit: exit}
}

// Exit calls the wrapped exit function on the first call only
func (e *Exiter) Exit(code int) {
	e.once.Do(func() { e.exit(code) })
}

// ForceExitOn exits with status 1 as soon as one of sigs arrives. The
// signals are registered before it returns, so a caller that releases an
// earlier registration afterwards leaves no window where the default
// action applies. stop unregisters them.
func (e *Exiter) ForceExitOn(logger *slog.Logger, sigs ...os.Signal) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			logger.Error("second signal received, forcing exit", slog.String("signal", sig.String()))
			e.Exit(1)
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}

// ExitCode maps a run result to a process exit status
func ExitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
