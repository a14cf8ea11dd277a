package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/taskgridgo/internal/graph"
	"github.com/vk/taskgridgo/internal/task"
)

// taskState is the per-run lifecycle of one task.
type taskState int

const (
	stateVisiting taskState = iota // reached by the descent, deps still expanding
	statePending                   // discovered, waiting on dependencies
	stateRunning
	stateDone
	stateCancelled
	stateFailed
)

// runEntry is one slot in the per-run state arena. The arena is allocated
// fresh for every top-level run and discarded when the run settles; nothing
// here outlives the run.
type runEntry struct {
	name string
	def  *graph.Definition // nil when the name maps to no registered task

	state     taskState
	remaining int   // direct dependencies not yet settled
	queued    bool  // entered the ready queue; a task is dispatched at most once
	blockErr  error // first dependency failure observed, set before dispatch

	result    any
	err       error
	startedAt time.Time
}

// completion is the message a finished operation sends back to the
// scheduling loop.
type completion struct {
	name   string
	result any
	err    error
}

// run carries the state of one top-level Run invocation.
type run struct {
	root  string
	defs  map[string]*graph.Definition
	opts  Options
	hooks Hooks

	arena      map[string]*runEntry
	dependents map[string][]*runEntry
	failures   map[string]error
	ready      []*runEntry
	pending    int
}

func newRun(root string, defs map[string]*graph.Definition, opts Options) *run {
	return &run{
		root:       root,
		defs:       defs,
		opts:       opts,
		hooks:      opts.Hooks,
		arena:      make(map[string]*runEntry),
		dependents: make(map[string][]*runEntry),
		failures:   make(map[string]error),
	}
}

// execute resolves the closure of the root task and drives it to completion.
// It runs entirely on the caller's goroutine except for the dispatched
// operations themselves, so hooks and state transitions are serialized.
func (r *run) execute(ctx context.Context) (any, error) {
	r.collect()
	r.schedule(ctx)

	if len(r.failures) > 0 {
		return nil, &AggregateError{Task: r.root, Failures: r.failures}
	}
	return r.arena[r.root].result, nil
}

// collect performs an iterative pre-order descent from the root, building the
// arena. It fires the start hook for each known task as it is reached, marks
// unknown names failed, and flags any task re-entered while still expanding —
// a cycle — without ever starting its operation.
func (r *run) collect() {
	root := r.discover(r.root)
	if root.def == nil {
		return
	}

	type frame struct {
		entry *runEntry
		next  int
	}
	stack := []frame{{entry: root}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.next >= len(f.entry.def.Deps) {
			if _, prefailed := r.failures[f.entry.name]; !prefailed {
				f.entry.state = statePending
			}
			stack = stack[:len(stack)-1]
			continue
		}

		depName := f.entry.def.Deps[f.next]
		f.next++

		if dep, seen := r.arena[depName]; seen {
			if dep.state == stateVisiting {
				r.prefail(depName, fmt.Errorf("%w: task %q depends on itself transitively", ErrCycle, depName))
			}
			continue
		}

		dep := r.discover(depName)
		if dep.def != nil {
			stack = append(stack, frame{entry: dep})
		}
	}
}

// discover admits a name into the arena. Known tasks enter VISITING and fire
// the start hook; unknown names are settled failures from the outset.
func (r *run) discover(name string) *runEntry {
	entry := &runEntry{name: name, state: stateVisiting}
	r.arena[name] = entry

	def, known := r.defs[name]
	if !known {
		entry.state = stateFailed
		entry.err = fmt.Errorf("%w: %s", graph.ErrUnknownTask, name)
		r.failures[name] = entry.err
		return entry
	}

	entry.def = def
	entry.remaining = len(def.Deps)
	r.hooks.start(name, append([]string(nil), def.Deps...))
	return entry
}

// prefail marks a task failed before execution. Used for cycles: the entry is
// still on the descent stack, so only the failure is recorded here; the
// state settles when its frame pops.
func (r *run) prefail(name string, err error) {
	if _, already := r.failures[name]; already {
		return
	}
	entry := r.arena[name]
	entry.state = stateFailed
	entry.err = err
	r.failures[name] = err
}

// schedule drives the arena to quiescence: every entry settles exactly once.
// Ready tasks are dispatched on their own goroutine (there is no parallelism
// bound) and report back over one completion channel consumed here.
func (r *run) schedule(ctx context.Context) {
	for _, entry := range r.arena {
		if entry.def == nil {
			continue
		}
		for _, depName := range entry.def.Deps {
			r.dependents[depName] = append(r.dependents[depName], entry)
		}
	}

	for _, entry := range r.arena {
		if entry.state == statePending {
			r.pending++
			if entry.remaining == 0 {
				r.enqueue(entry)
			}
		}
	}
	for _, entry := range r.arena {
		if entry.state != statePending {
			// Pre-failed at collect time; settle its dependents now.
			r.propagate(entry)
		}
	}

	doneCh := make(chan completion, r.pending)
	failed := len(r.failures) > 0

	for r.pending > 0 {
		for len(r.ready) > 0 {
			entry := r.ready[0]
			r.ready = r.ready[1:]

			if entry.blockErr != nil || (r.opts.FailFast && failed) {
				r.cancelTask(entry)
				r.pending--
				continue
			}
			r.dispatch(ctx, entry, doneCh)
		}

		if r.pending == 0 {
			break
		}

		comp := <-doneCh
		r.pending--

		entry := r.arena[comp.name]
		if comp.err != nil {
			entry.state = stateFailed
			entry.err = comp.err
			r.failures[comp.name] = comp.err
			failed = true
			r.hooks.fail(comp.name, comp.err)
		} else {
			entry.state = stateDone
			entry.result = comp.result
			r.hooks.end(comp.name, time.Since(entry.startedAt))
		}
		r.propagate(entry)
	}
}

// dispatch transitions a task to RUNNING and launches its operation with the
// results of its direct dependencies. Once launched, an operation always runs
// to completion; it cannot be aborted from outside.
func (r *run) dispatch(ctx context.Context, entry *runEntry, doneCh chan<- completion) {
	deps := make(task.ResultMap, len(entry.def.Deps))
	for _, depName := range entry.def.Deps {
		deps[depName] = r.arena[depName].result
	}

	entry.state = stateRunning
	entry.startedAt = time.Now()

	go func(name string, op task.Operation) {
		result, err := op(ctx, deps)
		doneCh <- completion{name: name, result: result, err: err}
	}(entry.name, entry.def.Op)
}

// cancelTask settles a task that will never execute. It is keyed in the
// failure set with a cancellation error, distinct from a body failure, and
// reported via the cancel hook only.
func (r *run) cancelTask(entry *runEntry) {
	cause := entry.blockErr
	if cause == nil {
		cause = fmt.Errorf("%w: run aborted after earlier failure", ErrTaskCancelled)
	}
	entry.state = stateCancelled
	entry.err = cause
	r.failures[entry.name] = cause
	r.hooks.cancel(entry.name)
	r.propagate(entry)
}

// propagate tells every dependent that one of its dependencies settled. A
// dependent whose dependency failed or was cancelled is blocked before it can
// dispatch; a dependent whose last dependency settled becomes ready.
func (r *run) propagate(entry *runEntry) {
	unusable := entry.state == stateFailed || entry.state == stateCancelled

	for _, dependent := range r.dependents[entry.name] {
		dependent.remaining--
		if unusable && dependent.blockErr == nil {
			dependent.blockErr = fmt.Errorf("%w: dependency %q failed", ErrTaskCancelled, entry.name)
		}
		if dependent.remaining == 0 && dependent.state == statePending {
			r.enqueue(dependent)
		}
	}
}

func (r *run) enqueue(entry *runEntry) {
	if entry.queued {
		return
	}
	entry.queued = true
	r.ready = append(r.ready, entry)
}
