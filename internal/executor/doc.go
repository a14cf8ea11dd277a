// Package executor is the run coordinator: given a requested task it
// computes the transitive dependency closure, detects cycles before anything
// executes, drives the closure concurrently in dependency order, memoizes
// each task for the duration of the run, and settles with either the
// requested task's result or an aggregate report of every failure.
//
// A Coordinator owns its graph. Mutations and runs are mutually exclusive
// through a single advisory run-in-progress gate; the gate is set before a
// run does any concurrent work and cleared on every exit path, so the graph
// is mutable again the moment Run returns.
//
// Scheduling is iterative rather than recursive: a ready queue of tasks
// whose dependencies have settled, advanced by one completion channel. Each
// dispatched operation gets its own goroutine and always runs to completion;
// dependents of a failed task are cancelled, never started.
package executor
