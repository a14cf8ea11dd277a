package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/executor"
)

// loggingHooks reports task lifecycle transitions through the app logger.
func loggingHooks(logger *slog.Logger) executor.Hooks {
	return executor.Hooks{
		OnTaskStart: func(name string, deps []string) {
			logger.Info("▶️ Task scheduled.", "task", name, "deps", deps)
		},
		OnTaskEnd: func(name string, elapsed time.Duration) {
			logger.Info("✅ Task finished.", "task", name, "duration", elapsed)
		},
		OnTaskFail: func(name string, err error) {
			logger.Error("❌ Task failed.", "task", name, "error", err)
		},
		OnTaskCancel: func(name string) {
			logger.Warn("⏭️ Task cancelled.", "task", name)
		},
	}
}

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ListTasks {
		return a.listTasks()
	}

	a.logger.Info("🚀 Starting concurrent execution...", "target", a.config.Target)
	result, err := a.coordinator.Run(ctx, a.config.Target)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.")

	if result != nil {
		fmt.Fprintf(a.outW, "%v\n", result)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// listTasks prints every registered task with its dependencies, sorted by
// name.
func (a *App) listTasks() error {
	tasks := a.coordinator.TaskList()

	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		deps := tasks[name]
		if len(deps) == 0 {
			fmt.Fprintln(a.outW, name)
			continue
		}
		fmt.Fprintf(a.outW, "%s -> %s\n", name, strings.Join(deps, ", "))
	}
	return nil
}
