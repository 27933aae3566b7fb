// Package state provides SQLite-based run history for maestro.
// It records orchestration runs, their task trees, and per-task results so
// `maestro status` can report on past runs.
package state

import (
	"time"

	"github.com/maestro-ai/maestro/pkg/models"
)

// Run summarizes one orchestration run.
type Run struct {
	// ID is the unique run identifier.
	ID string
	// Task is the root task description.
	Task string
	// Answer is the final synthesized answer, empty on failure.
	Answer string
	// Status is done or failed.
	Status models.TaskStatus
	// TasksDispatched is the total task count of the run.
	TasksDispatched int
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt *time.Time
	// Error holds the failure message for failed runs.
	Error string
}

// Store persists orchestration history. The orchestrator writes through this
// interface; the sqlite implementation below is the only one in-tree, but
// tests substitute fakes.
type Store interface {
	// SaveRun inserts or updates a run record.
	SaveRun(run Run) error
	// SaveTask records a task belonging to a run.
	SaveTask(runID string, task models.Task) error
	// SaveResult records the outcome of a task.
	SaveResult(runID string, result models.Result) error
	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(limit int) ([]Run, error)
	// Close releases the underlying database.
	Close() error
}
