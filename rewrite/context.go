// Package rewrite implements spec.md §4.I's recipe/visitor core: a
// Recipe produces a Visitor, visitors traverse a tree by node type and
// may schedule follow-up visitors via doAfterVisit, and recipes chain
// via doNext. Grounded on the Design Notes' own reshaping guidance
// (spec.md §9): deep visitor class hierarchies become a struct of
// per-node-kind function fields, and doAfterVisit becomes a queue owned
// by the execution context.
package rewrite

import "context"

// maxPendingDepth bounds how many doAfterVisit rounds a single Run can
// drain before it's treated as a runaway schedule, per spec.md §9's
// "bound the queue depth to detect infinite schedules."
const maxPendingDepth = 64

// ExecutionContext carries cancellation and the doAfterVisit queue
// through one Run, matching the teacher's ctx context.Context threading
// and the source's ExecutionContext parameter on every visit method.
type ExecutionContext struct {
	Context context.Context
	pending []Recipe
}

// NewExecutionContext wraps a context.Context for a single Run.
func NewExecutionContext(ctx context.Context) *ExecutionContext {
	return &ExecutionContext{Context: ctx}
}

// DoAfterVisit schedules r to run, over the same tree, once the current
// traversal completes — in insertion order, per spec.md §4.I.
func (ec *ExecutionContext) DoAfterVisit(r Recipe) {
	ec.pending = append(ec.pending, r)
}
