package graph

import "errors"

var (
	// ErrEmptyTaskName indicates a mutation was called without a task name.
	ErrEmptyTaskName = errors.New("task name must not be empty")
	// ErrTaskExists indicates an Add collided with an existing task while
	// overwrite is disallowed.
	ErrTaskExists = errors.New("task already exists")
	// ErrUnknownTask indicates a name that maps to no registered task, either
	// in a mutation call or as a dependency reached during a run.
	ErrUnknownTask = errors.New("unknown task")
)
