// Package print provides the 'print' runner, mostly useful for wiring up and
// debugging grids.
package print

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/registry"
	"github.com/vk/taskgridgo/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the print runner.
type Input struct {
	Message string `cty:"message,optional"`
}

// run logs the message and each direct dependency result, sorted for
// consistent output.
func run(ctx context.Context, input any, deps task.ResultMap) (any, error) {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	if in.Message != "" {
		fmt.Println(in.Message)
	}

	keys := make([]string, 0, len(deps))
	for k := range deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s = %v\n", k, deps[k])
	}

	logger.Debug("Print runner finished.", "dependencies", len(deps))
	return in.Message, nil
}

// Register registers the 'print' runner.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("print", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       run,
	})
}
