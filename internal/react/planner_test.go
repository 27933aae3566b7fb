package react

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/maestro-ai/maestro/internal/agent"
	"github.com/maestro-ai/maestro/internal/llm"
	"github.com/maestro-ai/maestro/internal/tool"
)

// funcCompleter adapts a function to the Completer interface.
type funcCompleter func(systemPrompt string, turns []llm.Turn) (string, error)

func (f funcCompleter) Complete(_ context.Context, systemPrompt string, turns []llm.Turn) (string, error) {
	return f(systemPrompt, turns)
}

// errorTool always fails.
type errorTool struct{}

func (errorTool) Name() string        { return "flaky" }
func (errorTool) Description() string { return "always fails" }
func (errorTool) Run(context.Context, string) (tool.Result, error) {
	return tool.Result{}, errors.New("boom")
}

func newTestPlanner(t *testing.T, completer llm.Completer, tools []tool.Tool, maxSteps int) *Planner {
	t.Helper()

	a, err := agent.New(agent.Config{Role: "worker", Completer: completer})
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}

	registry := tool.NewRegistry()
	for _, tl := range tools {
		registry.Register(tl)
	}

	p, err := NewPlanner(Config{Agent: a, Tools: registry, MaxSteps: maxSteps})
	if err != nil {
		t.Fatalf("create planner: %v", err)
	}
	return p
}

func TestPlannerFinalAnswer(t *testing.T) {
	completer := funcCompleter(func(string, []llm.Turn) (string, error) {
		return "Thought: easy\nFinal Answer: 42", nil
	})

	p := newTestPlanner(t, completer, nil, 5)
	result, err := p.Run(context.Background(), "what is the answer?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Answer != "42" {
		t.Errorf("expected '42', got %q", result.Answer)
	}
	if result.Incomplete {
		t.Error("expected complete result")
	}
	if len(result.Steps) != 1 {
		t.Errorf("expected 1 step, got %d", len(result.Steps))
	}
}

func TestPlannerRunsTool(t *testing.T) {
	calls := 0
	completer := funcCompleter(func(_ string, turns []llm.Turn) (string, error) {
		calls++
		if calls == 1 {
			return "Thought: compute it\nAction: calculator\nAction Input: 2 * (3 + 4)", nil
		}
		// The observation must be present in the re-prompt.
		last := turns[len(turns)-1].Content
		if !strings.Contains(last, "Observation: 14") {
			return "", fmt.Errorf("observation missing from prompt: %q", last)
		}
		return "Thought: done\nFinal Answer: 14", nil
	})

	p := newTestPlanner(t, completer, []tool.Tool{tool.Calculator{}}, 5)
	result, err := p.Run(context.Background(), "compute 2 * (3 + 4)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Answer != "14" {
		t.Errorf("expected '14', got %q", result.Answer)
	}
	if result.Steps[0].Observation != "14" {
		t.Errorf("expected observation '14', got %q", result.Steps[0].Observation)
	}
}

func TestPlannerTerminatesAtMaxSteps(t *testing.T) {
	// A model that always wants another tool call must stop at the budget.
	calls := 0
	completer := funcCompleter(func(string, []llm.Turn) (string, error) {
		calls++
		return "Thought: keep going\nAction: calculator\nAction Input: 1 + 1", nil
	})

	const maxSteps = 3
	p := newTestPlanner(t, completer, []tool.Tool{tool.Calculator{}}, maxSteps)
	result, err := p.Run(context.Background(), "never finishes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != maxSteps {
		t.Errorf("expected exactly %d completion calls, got %d", maxSteps, calls)
	}
	if !result.Incomplete {
		t.Error("expected incomplete result")
	}
	if result.Answer != "2" {
		t.Errorf("expected best-effort answer '2' from last observation, got %q", result.Answer)
	}
}

func TestPlannerUnknownTool(t *testing.T) {
	calls := 0
	completer := funcCompleter(func(string, []llm.Turn) (string, error) {
		calls++
		if calls == 1 {
			return "Thought: try it\nAction: search\nAction Input: anything", nil
		}
		return "Final Answer: gave up on search", nil
	})

	p := newTestPlanner(t, completer, []tool.Tool{tool.Calculator{}}, 5)
	result, err := p.Run(context.Background(), "use a missing tool")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Steps[0].Observation, "not found") {
		t.Errorf("expected 'tool not found' observation, got %q", result.Steps[0].Observation)
	}
	if result.Answer != "gave up on search" {
		t.Errorf("unexpected answer %q", result.Answer)
	}
}

func TestPlannerToolErrorIsObservation(t *testing.T) {
	calls := 0
	completer := funcCompleter(func(string, []llm.Turn) (string, error) {
		calls++
		if calls == 1 {
			return "Thought: try it\nAction: flaky\nAction Input: x", nil
		}
		return "Final Answer: recovered", nil
	})

	p := newTestPlanner(t, completer, []tool.Tool{errorTool{}}, 5)
	result, err := p.Run(context.Background(), "tool fails")
	if err != nil {
		t.Fatalf("tool error must not fail the planner: %v", err)
	}
	if !strings.Contains(result.Steps[0].Observation, "failed") {
		t.Errorf("expected failure observation, got %q", result.Steps[0].Observation)
	}
	if result.Answer != "recovered" {
		t.Errorf("unexpected answer %q", result.Answer)
	}
}

func TestPlannerToleratesParseFailure(t *testing.T) {
	calls := 0
	completer := funcCompleter(func(string, []llm.Turn) (string, error) {
		calls++
		if calls == 1 {
			return "no structure here at all", nil
		}
		return "Final Answer: still got there", nil
	})

	p := newTestPlanner(t, completer, nil, 5)
	result, err := p.Run(context.Background(), "drifting model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Answer != "still got there" {
		t.Errorf("unexpected answer %q", result.Answer)
	}
	if result.Steps[0].Thought != "no structure here at all" {
		t.Errorf("expected drifted text kept as thought, got %q", result.Steps[0].Thought)
	}
}

func TestPlannerCompletionFailure(t *testing.T) {
	completer := funcCompleter(func(string, []llm.Turn) (string, error) {
		return "", errors.New("provider timeout")
	})

	p := newTestPlanner(t, completer, nil, 5)
	if _, err := p.Run(context.Background(), "anything"); err == nil {
		t.Fatal("expected completion failure to surface")
	}
}

func TestPlannerContextCancelled(t *testing.T) {
	completer := funcCompleter(func(string, []llm.Turn) (string, error) {
		return "Thought: loop\nAction: calculator\nAction Input: 1 + 1", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPlanner(t, completer, []tool.Tool{tool.Calculator{}}, 5)
	if _, err := p.Run(ctx, "cancelled"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
