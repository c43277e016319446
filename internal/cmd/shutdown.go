package cmd

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"go.uber.org/zap"

	errwrap "github.com/harulabs/mintgate/internal/errors"
)

const defaultShutdownTimeout = 10 * time.Second

// shutdowner is the part of the HTTP server the shutdown chain drives.
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// gracefulShutdown drives serve's exit. SIGINT and SIGTERM run the cleanup
// chain; a second Ctrl+C inside the double-tap window exits immediately.
type gracefulShutdown struct {
	manager *signals.Manager
	drain   signals.CleanupFunc
	stopped chan error
}

func newGracefulShutdown(srv shutdowner, timeout time.Duration, logger *zap.Logger) *gracefulShutdown {
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := signals.NewManager()
	g := &gracefulShutdown{manager: m, stopped: make(chan error, 1)}

	logSignal := func(_ context.Context, sig os.Signal) error {
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
		return nil
	}
	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGINT} {
		if _, err := m.Handle(sig, logSignal); err != nil {
			logger.Warn("Signal not supported on this platform", zap.String("signal", sig.String()), zap.Error(err))
		}
	}

	// Cleanup runs LIFO: the server drains first, the logger flushes last.
	m.OnShutdown(func(ctx context.Context) error {
		if err := logger.Sync(); err != nil {
			// Sync on stderr commonly fails with EINVAL.
			logger.Debug("Logger sync returned error", zap.Error(err))
		}
		return nil
	})
	g.drain = func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errwrap.WrapInternal(ctx, err, "server shutdown failed")
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	}
	m.OnShutdown(g.drain)

	if err := m.EnableDoubleTap(signals.DoubleTapConfig{
		Window:   2 * time.Second,
		Message:  "Press Ctrl+C again within 2 seconds to force quit",
		ExitCode: 130,
	}); err != nil {
		logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}

	return g
}

// Wait blocks until serverErr yields, a signal has run the cleanup chain, or
// ctx is cancelled. A cancelled ctx drains the server without a signal.
func (g *gracefulShutdown) Wait(ctx context.Context, serverErr <-chan error) error {
	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer g.manager.Stop()

	go func() {
		g.stopped <- g.manager.Listen(listenCtx)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return errwrap.WrapInternal(ctx, err, "server error")
		}
		return nil
	case err := <-g.stopped:
		if ctx.Err() != nil {
			return g.drain(context.WithoutCancel(ctx))
		}
		return err
	}
}
