package models

// Result is the outcome of one subagent task. A failed task carries its
// error here rather than aborting the batch it ran in.
type Result struct {
	// TaskID is the ID of the task this result belongs to.
	TaskID string `json:"task_id"`
	// Role is the role of the subagent that produced the output.
	Role string `json:"role"`
	// Output is the subagent's answer, empty when Err is set.
	Output string `json:"output,omitempty"`
	// Err is the task failure, nil on success.
	Err error `json:"-"`
}

// Failed returns true if the result carries an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// AgentStatus represents the lifecycle state of a spawned subagent.
type AgentStatus string

const (
	// AgentStatusActive indicates the subagent can accept work.
	AgentStatusActive AgentStatus = "active"
	// AgentStatusTerminated indicates the subagent has been released
	// and rejects further completions.
	AgentStatusTerminated AgentStatus = "terminated"
)
