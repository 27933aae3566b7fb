// Package llm provides the completion-service boundary for maestro agents.
package llm

import "context"

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks input provided to the model.
	RoleUser Role = "user"
	// RoleAssistant marks text produced by the model.
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation turn passed to the completion service.
type Turn struct {
	Role    Role
	Content string
}

// Completer is the completion service used by every agent. Implementations
// must be safe for concurrent use; retry policy belongs to the caller, not
// the implementation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, turns []Turn) (string, error)
}
