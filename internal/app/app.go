package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/executor"
	"github.com/vk/taskgridgo/internal/loader"
	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW        io.Writer
	logger      *slog.Logger
	config      *Config
	registry    *registry.Registry
	coordinator *executor.Coordinator
}

// NewApp is the constructor for the main application. It loads the grid from
// disk, registers the runner modules, and builds a coordinator holding the
// full task graph. It returns a fully initialized App instance with its own
// isolated logger and registry.
func NewApp(outW io.Writer, config *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	grid, err := loader.Load(ctx, config.GridPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load grid: %w", err)
	}
	logger.Debug("Grid loaded into unified model.", "tasks", len(grid.Tasks))

	// Create and populate the registry with Go handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All runner modules registered.", "count", len(modules))

	coord := executor.New(executor.Options{
		FailFast: config.FailFast,
		Hooks:    loggingHooks(logger),
	})
	if err := populate(coord, reg, grid); err != nil {
		return nil, err
	}
	logger.Debug("Coordinator populated from grid.", "tasks", len(grid.Tasks))

	return &App{
		outW:        outW,
		logger:      logger,
		config:      config,
		registry:    reg,
		coordinator: coord,
	}, nil
}

// populate registers every grid task with the coordinator. Argument decoding
// and runner resolution happen here, so a bad manifest fails before any task
// runs.
func populate(coord *executor.Coordinator, reg *registry.Registry, grid *model.Grid) error {
	for _, t := range grid.Tasks {
		body, err := reg.Body(t)
		if err != nil {
			return err
		}
		if err := coord.AddTask(t.Name, t.DependsOn, body); err != nil {
			return fmt.Errorf("task %q (%s): %w", t.Name, t.Source, err)
		}
	}
	return nil
}

// Coordinator returns the application's coordinator. This is primarily for
// testing.
func (a *App) Coordinator() *executor.Coordinator {
	return a.coordinator
}
