// Package runner normalizes the supported task body conventions into the
// single canonical task.Operation form.
//
// The convention is fixed once, when the task is registered, so the executor
// never branches on a body's shape at invocation time.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/taskgridgo/internal/task"
)

var (
	// ErrNilBody indicates a task was registered without an implementation.
	ErrNilBody = errors.New("task body must not be nil")
	// ErrUnsupportedBody indicates a body that matches none of the supported
	// calling conventions.
	ErrUnsupportedBody = errors.New("unsupported task body signature")
)

// PanicError wraps a panic recovered from a task body.
type PanicError struct {
	Task  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in task %q: %v", e.Task, e.Value)
}

// Normalize converts a task body into a canonical Operation. Supported
// conventions:
//
//	func(ctx context.Context) (any, error)                             // no dependency access
//	func(ctx context.Context, deps task.ResultMap) (any, error)        // canonical
//	func(ctx context.Context, deps task.ResultMap, done task.CompleteFunc)
//
// The callback convention resolves when done is first invoked; later
// invocations are ignored. Any other body shape fails with
// ErrUnsupportedBody. The returned Operation recovers panics in the body and
// reports them as a *PanicError naming the task.
func Normalize(name string, body any) (task.Operation, error) {
	if body == nil {
		return nil, fmt.Errorf("task %q: %w", name, ErrNilBody)
	}

	switch fn := body.(type) {
	case task.Operation:
		return guard(name, fn), nil
	case func(ctx context.Context, deps task.ResultMap) (any, error):
		return guard(name, fn), nil
	case func(ctx context.Context) (any, error):
		return guard(name, func(ctx context.Context, _ task.ResultMap) (any, error) {
			return fn(ctx)
		}), nil
	case func(ctx context.Context, deps task.ResultMap, done task.CompleteFunc):
		return guard(name, adaptCallback(fn)), nil
	default:
		return nil, fmt.Errorf("task %q: %w: %T", name, ErrUnsupportedBody, body)
	}
}

// adaptCallback turns a callback-convention body into a blocking Operation.
func adaptCallback(fn func(context.Context, task.ResultMap, task.CompleteFunc)) task.Operation {
	return func(ctx context.Context, deps task.ResultMap) (any, error) {
		type outcome struct {
			value any
			err   error
		}
		settled := make(chan outcome, 1)
		done := func(value any, err error) {
			// First completion wins; drop the rest.
			select {
			case settled <- outcome{value: value, err: err}:
			default:
			}
		}

		fn(ctx, deps, done)

		select {
		case out := <-settled:
			return out.value, out.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// guard wraps an Operation with panic recovery.
func guard(name string, op task.Operation) task.Operation {
	return func(ctx context.Context, deps task.ResultMap) (value any, err error) {
		defer func() {
			if r := recover(); r != nil {
				value = nil
				err = &PanicError{Task: name, Value: r}
			}
		}()
		return op(ctx, deps)
	}
}
