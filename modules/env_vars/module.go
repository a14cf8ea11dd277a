// Package env_vars provides the 'env_vars' runner: a snapshot of the process
// environment for dependent tasks.
package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/taskgridgo/internal/registry"
	"github.com/vk/taskgridgo/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func run(ctx context.Context, input any, deps task.ResultMap) (any, error) {
	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return envMap, nil
}

// Register registers the 'env_vars' runner.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("env_vars", &registry.RegisteredRunner{
		NewInput: nil, // no 'arguments' block
		Fn:       run,
	})
}
