package executor

import (
	"context"
	"sync"
	"time"

	"github.com/vk/taskgridgo/internal/graph"
	"github.com/vk/taskgridgo/internal/runner"
)

// Hooks are optional, synchronous observer callbacks. They are invoked from
// the run's scheduling goroutine in a fixed per-task order (start, then
// either cancel, fail, or end) and must not mutate the coordinator.
type Hooks struct {
	// OnTaskStart fires when a task is first reached during the descent from
	// the requested task, before its dependencies begin resolving.
	OnTaskStart func(name string, deps []string)
	// OnTaskEnd fires after a task's operation settled successfully.
	OnTaskEnd func(name string, elapsed time.Duration)
	// OnTaskFail fires when a task's own operation failed.
	OnTaskFail func(name string, err error)
	// OnTaskCancel fires when a task will not execute because a dependency
	// failed or the run was aborted.
	OnTaskCancel func(name string)
}

func (h Hooks) start(name string, deps []string) {
	if h.OnTaskStart != nil {
		h.OnTaskStart(name, deps)
	}
}

func (h Hooks) end(name string, elapsed time.Duration) {
	if h.OnTaskEnd != nil {
		h.OnTaskEnd(name, elapsed)
	}
}

func (h Hooks) fail(name string, err error) {
	if h.OnTaskFail != nil {
		h.OnTaskFail(name, err)
	}
}

func (h Hooks) cancel(name string) {
	if h.OnTaskCancel != nil {
		h.OnTaskCancel(name)
	}
}

// Options configures a Coordinator.
type Options struct {
	// AllowOverwrite permits AddTask to replace an existing definition
	// instead of failing with graph.ErrTaskExists.
	AllowOverwrite bool
	// FailFast stops dispatching newly-ready tasks after the first failure.
	// The default collects every failure, letting independent tasks settle
	// before the run reports.
	FailFast bool
	// Hooks are the observer callbacks; each is a no-op unless supplied.
	Hooks Hooks
}

// Coordinator owns a task graph and executes the dependency closure of a
// requested task. Multiple independent graphs are simply multiple
// coordinators; there is no shared state between instances.
type Coordinator struct {
	mu      sync.Mutex
	running bool

	opts  Options
	store *graph.Store
}

// New returns a Coordinator with an empty graph.
func New(opts Options) *Coordinator {
	return &Coordinator{
		opts:  opts,
		store: graph.NewStore(),
	}
}

// AddTask registers a task under name with the given direct dependencies.
// The body is normalized once, here, into its canonical operation form; see
// runner.Normalize for the accepted conventions. Dependencies need not exist
// yet and are deduplicated.
func (c *Coordinator) AddTask(name string, deps []string, body any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrRunInProgress
	}
	if name == "" {
		return graph.ErrEmptyTaskName
	}

	op, err := runner.Normalize(name, body)
	if err != nil {
		return err
	}
	return c.store.Add(name, deps, op, c.opts.AllowOverwrite)
}

// RemoveTask deletes a task; unknown names are a no-op. References to the
// removed task held by other tasks stay in place and surface as
// graph.ErrUnknownTask at run time.
func (c *Coordinator) RemoveTask(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrRunInProgress
	}
	c.store.Remove(name)
	return nil
}

// AddDependencies appends dependencies to an existing task.
func (c *Coordinator) AddDependencies(name string, deps ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrRunInProgress
	}
	return c.store.AddDeps(name, deps)
}

// RemoveDependencies drops dependencies from an existing task; dependencies
// it never listed are ignored.
func (c *Coordinator) RemoveDependencies(name string, deps ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrRunInProgress
	}
	return c.store.RemoveDeps(name, deps)
}

// TaskList returns a snapshot of task names and their dependency lists. The
// snapshot is safe to mutate and safe to call while a run is active.
func (c *Coordinator) TaskList() map[string][]string {
	return c.store.List()
}

// Run executes the dependency closure of name and returns its result.
//
// The run-in-progress gate is set before any concurrent work starts and is
// cleared on every exit path, so the graph is mutable again as soon as Run
// returns. Any failure — a failing body, an unknown dependency, a cycle —
// surfaces as an *AggregateError carrying every affected task.
func (c *Coordinator) Run(ctx context.Context, name string) (any, error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil, ErrRunInProgress
	}
	if name == "" {
		c.mu.Unlock()
		return nil, graph.ErrEmptyTaskName
	}
	c.running = true
	defs := c.store.Snapshot()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	r := newRun(name, defs, c.opts)
	return r.execute(ctx)
}
