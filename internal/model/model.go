// Package model is the format-agnostic representation of a task grid: what
// the loader produces from HCL or YAML task files and what the rest of the
// application consumes. The model is deliberately static — arguments are
// constant values resolved at load time, not expressions.
package model

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Task is one `task` block from a grid file.
type Task struct {
	// Name is the unique task name within the grid.
	Name string
	// Runner is the registered runner type that executes this task.
	Runner string
	// DependsOn lists the names of tasks that must complete first.
	DependsOn []string
	// Arguments are the constant argument values for the runner.
	Arguments map[string]cty.Value
	// Source is the file the task was defined in, for error messages.
	Source string
}

// Grid is the merged collection of tasks from every loaded file.
type Grid struct {
	Tasks []*Task
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{}
}

// Append adds tasks to the grid, rejecting duplicate names across files.
func (g *Grid) Append(tasks ...*Task) error {
	seen := make(map[string]string, len(g.Tasks))
	for _, t := range g.Tasks {
		seen[t.Name] = t.Source
	}
	for _, t := range tasks {
		if t.Name == "" {
			return fmt.Errorf("%s: task with empty name", t.Source)
		}
		if t.Runner == "" {
			return fmt.Errorf("%s: task %q has no runner", t.Source, t.Name)
		}
		if prev, dup := seen[t.Name]; dup {
			return fmt.Errorf("%s: task %q already defined in %s", t.Source, t.Name, prev)
		}
		seen[t.Name] = t.Source
		g.Tasks = append(g.Tasks, t)
	}
	return nil
}
