// Package graph holds the persistent task definitions: the mapping from task
// name to its deduplicated dependency list and normalized operation.
//
// The store is deliberately permissive about edges: a dependency may name a
// task that was never registered, and removing a task leaves other tasks'
// references to it in place. Dangling references are an execution-time
// concern, surfaced by the executor as ErrUnknownTask.
package graph

import (
	"fmt"
	"sync"

	"github.com/vk/taskgridgo/internal/task"
)

// Definition is one registered task.
type Definition struct {
	Name string
	Deps []string
	Op   task.Operation

	depSet map[string]struct{}
}

// Store is a mutable collection of task definitions.
type Store struct {
	mu    sync.Mutex
	nodes map[string]*Definition
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nodes: make(map[string]*Definition)}
}

// Add registers a task. Dependencies are deduplicated preserving first
// occurrence order and need not exist yet. When overwrite is false, adding an
// existing name fails with ErrTaskExists; when true, the previous definition
// is replaced.
func (s *Store) Add(name string, deps []string, op task.Operation, overwrite bool) error {
	if name == "" {
		return ErrEmptyTaskName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[name]; exists && !overwrite {
		return fmt.Errorf("%w: %s", ErrTaskExists, name)
	}

	def := &Definition{
		Name:   name,
		Op:     op,
		depSet: make(map[string]struct{}, len(deps)),
	}
	for _, dep := range deps {
		if _, seen := def.depSet[dep]; seen {
			continue
		}
		def.depSet[dep] = struct{}{}
		def.Deps = append(def.Deps, dep)
	}

	s.nodes[name] = def
	return nil
}

// Remove deletes a task. Removing an unknown name is a no-op, and references
// to the removed task held by other definitions are left untouched.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, name)
}

// AddDeps appends dependencies to an existing task, skipping any already
// listed. Unknown task names fail with ErrUnknownTask.
func (s *Store) AddDeps(name string, deps []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.nodes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	for _, dep := range deps {
		if _, seen := def.depSet[dep]; seen {
			continue
		}
		def.depSet[dep] = struct{}{}
		def.Deps = append(def.Deps, dep)
	}
	return nil
}

// RemoveDeps drops dependencies from an existing task. Dependencies the task
// never listed are ignored. Unknown task names fail with ErrUnknownTask.
func (s *Store) RemoveDeps(name string, deps []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.nodes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	drop := make(map[string]struct{}, len(deps))
	for _, dep := range deps {
		drop[dep] = struct{}{}
	}

	kept := def.Deps[:0]
	for _, dep := range def.Deps {
		if _, gone := drop[dep]; gone {
			delete(def.depSet, dep)
			continue
		}
		kept = append(kept, dep)
	}
	def.Deps = kept
	return nil
}

// List returns a snapshot of the current task names and their dependency
// lists. The returned map and slices are copies; mutating them does not
// affect the store.
func (s *Store) List() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]string, len(s.nodes))
	for name, def := range s.nodes {
		out[name] = append([]string(nil), def.Deps...)
	}
	return out
}

// Snapshot returns an immutable per-run view of the definitions. Dependency
// slices are copied so that later store mutations cannot leak into an
// in-flight run.
func (s *Store) Snapshot() map[string]*Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*Definition, len(s.nodes))
	for name, def := range s.nodes {
		out[name] = &Definition{
			Name: def.Name,
			Deps: append([]string(nil), def.Deps...),
			Op:   def.Op,
		}
	}
	return out
}
