// Package registry maps runner type names to their Go handlers and turns a
// manifest task into an executable body for the coordinator.
//
// Arguments are decoded into the handler's input struct once, when the body
// is built — never re-inspected at invocation time.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/task"
)

// ErrUnknownRunner indicates a manifest task names a runner type that no
// compiled-in module registered.
var ErrUnknownRunner = errors.New("unknown runner type")

// Module is the interface all built-in runner modules implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredRunner is the Go side of one runner type.
type RegisteredRunner struct {
	// NewInput returns a pointer to a fresh input struct with `cty` field
	// tags, or nil when the runner takes no arguments.
	NewInput func() any
	// Fn executes the runner. input is the decoded input struct (nil when
	// NewInput is nil) and deps carries the direct-dependency results.
	Fn func(ctx context.Context, input any, deps task.ResultMap) (any, error)
}

// Registry holds the registered runners for a single application instance.
type Registry struct {
	runners map[string]*RegisteredRunner
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{runners: make(map[string]*RegisteredRunner)}
}

// RegisterRunner registers a runner type. Later registrations of the same
// name win, which lets tests swap a built-in for a mock.
func (r *Registry) RegisterRunner(name string, runner *RegisteredRunner) {
	r.runners[name] = runner
}

// Runner looks up a runner type.
func (r *Registry) Runner(name string) (*RegisteredRunner, bool) {
	runner, ok := r.runners[name]
	return runner, ok
}

// Body builds the coordinator task body for a manifest task: the runner is
// resolved and its arguments decoded here, so invocation is a plain call.
func (r *Registry) Body(t *model.Task) (task.Operation, error) {
	runner, ok := r.runners[t.Runner]
	if !ok {
		return nil, fmt.Errorf("task %q: %w: %s", t.Name, ErrUnknownRunner, t.Runner)
	}

	var input any
	if runner.NewInput != nil {
		input = runner.NewInput()
		if err := DecodeArguments(t.Arguments, input); err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, err)
		}
	} else if len(t.Arguments) > 0 {
		return nil, fmt.Errorf("task %q: runner %q takes no arguments", t.Name, t.Runner)
	}

	return func(ctx context.Context, deps task.ResultMap) (any, error) {
		return runner.Fn(ctx, input, deps)
	}, nil
}
