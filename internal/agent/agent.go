// Package agent provides the LLM-backed agent primitive for maestro.
// An agent is a named configuration (role, system prompt, tool set) bound to
// a completion service, plus its own private conversation history.
package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/maestro-ai/maestro/internal/llm"
	"github.com/maestro-ai/maestro/internal/tool"
)

// Agent is a single LLM-backed worker. It is immutable after creation except
// for its conversation history, which it owns exclusively; callers must not
// share one agent across concurrent goroutines.
type Agent struct {
	id           string
	role         string
	systemPrompt string
	tools        []tool.Tool
	completer    llm.Completer
	history      []llm.Turn
}

// Config contains configuration for creating a new Agent.
type Config struct {
	// Role is a short label for the agent (e.g., "researcher").
	Role string
	// SystemPrompt is the instruction text defining the agent's behavior.
	SystemPrompt string
	// Tools is the ordered tool set available to the agent.
	Tools []tool.Tool
	// Completer is the completion service. Required.
	Completer llm.Completer
}

// New creates a new agent.
func New(cfg Config) (*Agent, error) {
	if cfg.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if cfg.Role == "" {
		cfg.Role = "worker"
	}

	return &Agent{
		id:           uuid.New().String(),
		role:         cfg.Role,
		systemPrompt: cfg.SystemPrompt,
		tools:        cfg.Tools,
		completer:    cfg.Completer,
	}, nil
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() string { return a.id }

// Role returns the agent's role label.
func (a *Agent) Role() string { return a.role }

// SystemPrompt returns the agent's instruction text.
func (a *Agent) SystemPrompt() string { return a.systemPrompt }

// Tools returns the agent's tool set in registration order.
func (a *Agent) Tools() []tool.Tool { return a.tools }

// History returns a copy of the agent's conversation so far.
func (a *Agent) History() []llm.Turn {
	out := make([]llm.Turn, len(a.history))
	copy(out, a.history)
	return out
}

// Complete appends input to the agent's conversation, calls the completion
// service, appends the reply, and returns it. On provider failure the
// conversation is left without the failed exchange and the error is returned
// to the caller to retry, surface, or substitute.
func (a *Agent) Complete(ctx context.Context, input string) (string, error) {
	turns := append(a.History(), llm.Turn{Role: llm.RoleUser, Content: input})

	reply, err := a.completer.Complete(ctx, a.systemPrompt, turns)
	if err != nil {
		return "", fmt.Errorf("agent %s (%s): %w", a.id, a.role, err)
	}

	a.history = append(turns, llm.Turn{Role: llm.RoleAssistant, Content: reply})
	return reply, nil
}
