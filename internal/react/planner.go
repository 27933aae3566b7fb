package react

import (
	"context"
	"fmt"
	"log"

	"github.com/maestro-ai/maestro/internal/tool"
)

// DefaultMaxSteps bounds the loop when no explicit budget is configured.
const DefaultMaxSteps = 5

// Agent is the minimal surface the planner needs. Both *agent.Agent and a
// manager-owned subagent handle satisfy it; going through the handle keeps
// termination checks on the completion path.
type Agent interface {
	Role() string
	Complete(ctx context.Context, input string) (string, error)
}

// Planner runs the bounded reasoning loop for a single agent.
type Planner struct {
	agent    Agent
	registry *tool.Registry
	maxSteps int
}

// Config contains configuration for creating a Planner.
type Config struct {
	// Agent is the agent driven by the loop. Required.
	Agent Agent
	// Tools is the registry consulted for actions. Optional; with no tools
	// the agent can only answer directly.
	Tools *tool.Registry
	// MaxSteps bounds the number of completion calls (default 5).
	MaxSteps int
}

// RunResult is the outcome of a planner run.
type RunResult struct {
	// Answer is the final (or best-effort) answer.
	Answer string
	// Steps is the full Thought/Action/Observation transcript.
	Steps []ThoughtStep
	// Incomplete is true when the step budget ran out before a final answer;
	// Answer then holds the last observation or thought.
	Incomplete bool
}

// NewPlanner creates a planner for the given agent and tools.
func NewPlanner(cfg Config) (*Planner, error) {
	if cfg.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	registry := cfg.Tools
	if registry == nil {
		registry = tool.NewRegistry()
	}
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	return &Planner{
		agent:    cfg.Agent,
		registry: registry,
		maxSteps: maxSteps,
	}, nil
}

// Run executes the loop until a final answer, a completion failure, context
// cancellation, or the step budget. Tool failures never abort the loop; they
// become observations the agent can react to.
func (p *Planner) Run(ctx context.Context, question string) (*RunResult, error) {
	result := &RunResult{}

	for len(result.Steps) < p.maxSteps {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		prompt := buildPrompt(question, p.registry.All(), result.Steps)
		raw, err := p.agent.Complete(ctx, prompt)
		if err != nil {
			return result, fmt.Errorf("planner step %d: %w", len(result.Steps)+1, err)
		}

		step, ok := parseStep(raw)
		if !ok {
			// Format drift from the model: keep the text as a thought and
			// let the next iteration re-prompt with the full transcript.
			log.Printf("[react] %s: unparseable step %d, continuing", p.agent.Role(), len(result.Steps)+1)
			result.Steps = append(result.Steps, step)
			continue
		}

		if step.Terminal() {
			result.Steps = append(result.Steps, step)
			result.Answer = step.FinalAnswer
			return result, nil
		}

		step.Observation = p.observe(ctx, step)
		result.Steps = append(result.Steps, step)
	}

	// Budget exhausted without a final answer: return the best effort.
	result.Incomplete = true
	result.Answer = lastBestEffort(result.Steps)
	log.Printf("[react] %s: step budget %d exhausted, returning best effort", p.agent.Role(), p.maxSteps)
	return result, nil
}

// observe dispatches the step's action and renders the outcome as data.
func (p *Planner) observe(ctx context.Context, step ThoughtStep) string {
	t, ok := p.registry.Get(step.Action)
	if !ok {
		return fmt.Sprintf("tool %q not found; available tools: %v", step.Action, p.registry.Names())
	}

	res, err := t.Run(ctx, step.ActionInput)
	if err != nil {
		// Tool failures are data, not control flow.
		return fmt.Sprintf("tool %q failed: %v", step.Action, err)
	}
	return res.Content
}

func lastBestEffort(steps []ThoughtStep) string {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Observation != "" {
			return steps[i].Observation
		}
	}
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Thought != "" {
			return steps[i].Thought
		}
	}
	return ""
}
