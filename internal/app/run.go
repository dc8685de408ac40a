package app

import (
	"context"
	"fmt"

	"github.com/vk/restflow/internal/ctxlog"
	"github.com/vk/restflow/internal/server"
)

// Run starts the resource server and blocks until it fails or the context
// is done.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if len(a.model.Resources) == 0 {
		a.logger.Warn("No resources found in schema model, nothing to serve.")
		return nil
	}
	for name := range a.model.Resources {
		a.logger.Info("Serving resource endpoints.", "resource", name)
	}

	srv := server.New(a.registry, a.logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(appConfig.ListenAddr)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("🏁 Shutting down.")
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("resource server failed: %w", err)
	}
}
