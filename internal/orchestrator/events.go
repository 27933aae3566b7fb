package orchestrator

import "time"

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventTaskStarted indicates a task has started execution.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task_failed"
	// EventDecomposed indicates a task was split into subtasks.
	EventDecomposed EventType = "decomposed"
	// EventAgentSpawned indicates a subagent was spawned.
	EventAgentSpawned EventType = "agent_spawned"
	// EventAgentTerminated indicates a subagent was terminated.
	EventAgentTerminated EventType = "agent_terminated"
	// EventSynthesisStarted indicates result aggregation has begun.
	EventSynthesisStarted EventType = "synthesis_started"
	// EventSynthesisCompleted indicates result aggregation finished.
	EventSynthesisCompleted EventType = "synthesis_completed"
	// EventRunDone indicates the entire orchestration run is complete.
	EventRunDone EventType = "run_done"
)

// Event represents an event emitted by the orchestrator.
// These events drive the TUI and progress reporting.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// TaskDescription is the description of the related task.
	TaskDescription string
	// ParentID is the ID of the parent task, if applicable.
	ParentID string
	// Depth is the recursion depth of the related task.
	Depth int
	// AgentID is the ID of the related subagent, if applicable.
	AgentID string
	// Role is the role of the related subagent.
	Role string
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Subtasks is the number of subtasks for decomposition events.
	Subtasks int
}
