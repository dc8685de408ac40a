package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/ctxlog"
	"github.com/vk/restflow/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all schema definitions into the format-agnostic model first.
	model, err := loader.Load(ctx, appConfig.SchemasPath)
	if err != nil {
		// A failure to load schemas is a fatal startup error.
		panic(fmt.Errorf("failed to load resource schemas: %w", err))
	}
	logger.Debug("Schemas loaded and translated into unified model.")

	// Create and populate the registry with Go callback handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All callback modules registered.", "count", len(modules))

	reg.PopulateDefinitionsFromModel(model)
	logger.Debug("Registry definitions populated from schema model.")

	// Validate the integrity of the registry. A mismatch between Go code
	// and schemas is a programmer error, so we panic.
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
