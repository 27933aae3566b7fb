// Package models defines the shared data types for maestro orchestration.
package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning indicates the task is being worked on.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusDone indicates the task completed successfully.
	TaskStatusDone TaskStatus = "done"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusDone, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Task represents a unit of work in an orchestration run.
// Tasks form a tree: the root task has no parent and depth 0, and every
// decomposition level increases depth by exactly 1.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// ParentID is the ID of the parent task, empty for the root.
	ParentID string `json:"parent_id,omitempty"`
	// Description is the work to perform.
	Description string `json:"description"`
	// Depth is the recursion depth, starting at 0 for the root.
	Depth int `json:"depth"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
	// CompletedAt is when the task finished, if applicable.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// Error contains the error message if the task failed.
	Error string `json:"error,omitempty"`
}

// Child derives a subtask one level below this task.
func (t Task) Child(id, description string) Task {
	return Task{
		ID:          id,
		ParentID:    t.ID,
		Description: description,
		Depth:       t.Depth + 1,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now(),
	}
}
