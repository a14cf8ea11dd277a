// Package task defines the contract between task bodies and the executor.
//
// Every task body, whatever convention it was registered with, is normalized
// into an Operation before it is stored in the graph. The executor only ever
// sees Operations.
package task

import "context"

// ResultMap carries the results of a task's direct dependencies, keyed by
// dependency name. A dependency that resolved to nil keeps its key, so a body
// can distinguish "resolved to nothing" from "not a dependency".
type ResultMap map[string]any

// Operation is the canonical form of a task body: it consumes the results of
// the task's direct dependencies and produces a value or fails.
type Operation func(ctx context.Context, deps ResultMap) (any, error)

// CompleteFunc settles a callback-convention body. Passing a non-nil err marks
// the task failed; otherwise value becomes the task's result. Only the first
// invocation counts.
type CompleteFunc func(value any, err error)
