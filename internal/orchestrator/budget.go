package orchestrator

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBudgetExceeded is returned when dispatching a task would exceed the
// run's task ceiling.
var ErrBudgetExceeded = errors.New("task budget exceeded")

// BudgetStatus represents the current state of budget consumption.
type BudgetStatus int

const (
	// BudgetOK indicates usage is below the warning threshold (<80%).
	BudgetOK BudgetStatus = iota
	// BudgetWarning indicates usage is between warning and exhaustion (80-99%).
	BudgetWarning
	// BudgetExhausted indicates the budget is fully consumed.
	BudgetExhausted
)

// String returns a human-readable representation of the budget status.
func (s BudgetStatus) String() string {
	switch s {
	case BudgetOK:
		return "OK"
	case BudgetWarning:
		return "Warning"
	case BudgetExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// warningThreshold is the usage fraction at which warnings begin.
const warningThreshold = 0.80

// RunBudget holds the recursion-safety counters of one orchestration run.
// It is created per run and passed through every recursive call, never held
// in a package-level variable, so concurrent runs don't interfere.
type RunBudget struct {
	mu        sync.Mutex
	maxTasks  int
	maxDepth  int
	taskCount int
}

// NewRunBudget creates a budget with the given ceilings.
func NewRunBudget(maxTasks, maxDepth int) *RunBudget {
	return &RunBudget{
		maxTasks: maxTasks,
		maxDepth: maxDepth,
	}
}

// Reserve atomically claims n task slots. It fails fast with
// ErrBudgetExceeded when the claim would push the count past maxTasks,
// without consuming any slots.
func (b *RunBudget) Reserve(n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.taskCount+n > b.maxTasks {
		return fmt.Errorf("%w: %d dispatched, %d requested, ceiling %d",
			ErrBudgetExceeded, b.taskCount, n, b.maxTasks)
	}
	b.taskCount += n
	return nil
}

// TaskCount returns the total tasks dispatched so far.
func (b *RunBudget) TaskCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.taskCount
}

// MaxDepth returns the configured recursion ceiling.
func (b *RunBudget) MaxDepth() int {
	return b.maxDepth
}

// MaxTasks returns the configured task ceiling.
func (b *RunBudget) MaxTasks() int {
	return b.maxTasks
}

// Status returns the current budget consumption level.
func (b *RunBudget) Status() BudgetStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxTasks <= 0 {
		return BudgetExhausted
	}

	fraction := float64(b.taskCount) / float64(b.maxTasks)
	if fraction >= 1.0 {
		return BudgetExhausted
	}
	if fraction >= warningThreshold {
		return BudgetWarning
	}
	return BudgetOK
}
