package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/lsfremote/internal/playersim"
)

// Simulate serves an in-memory player on addr until ctx is cancelled.
func Simulate(ctx context.Context, addr string, cfg playersim.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Logger = logger
	srv := &http.Server{
		Addr:              addr,
		Handler:           playersim.New(cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("simulated player listening", "addr", addr, "items", len(cfg.Items))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
