package executor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrRunInProgress indicates a mutation or a new run was attempted while a
	// run is active.
	ErrRunInProgress = errors.New("run in progress")
	// ErrCycle indicates a task was reached again while still being resolved
	// within the same run.
	ErrCycle = errors.New("dependency cycle")
	// ErrTaskCancelled indicates a task never ran because a dependency failed
	// or the run was aborted after an earlier failure.
	ErrTaskCancelled = errors.New("task cancelled")
)

// AggregateError is the failure surfaced by Run: every task that failed or
// was cancelled during the run, keyed by task name. The requested task always
// has an entry, even when its own body never executed.
type AggregateError struct {
	Task     string
	Failures map[string]error
}

func (e *AggregateError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "run of %q failed (%d task(s)):", e.Task, len(names))
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %v", name, e.Failures[name])
	}
	return b.String()
}

// Unwrap exposes the individual task errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		errs = append(errs, err)
	}
	return errs
}
