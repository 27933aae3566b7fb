package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/maestro-ai/maestro/internal/llm"
	"github.com/maestro-ai/maestro/pkg/models"
)

// stubCompleter is a scripted completion service shared by the tests in this
// package. With a nil fn it answers "ok" to everything.
type stubCompleter struct {
	mu    sync.Mutex
	calls int
	fn    func(systemPrompt string, turns []llm.Turn) (string, error)
}

func (c *stubCompleter) Complete(_ context.Context, systemPrompt string, turns []llm.Turn) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.fn == nil {
		return "ok", nil
	}
	return c.fn(systemPrompt, turns)
}

func (c *stubCompleter) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(ManagerConfig{Completer: &stubCompleter{}})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestNewManagerRequiresCompleter(t *testing.T) {
	if _, err := NewManager(ManagerConfig{}); err == nil {
		t.Fatal("NewManager without completer should fail")
	}
}

func TestManagerSpawnAndTerminate(t *testing.T) {
	m := newTestManager(t)
	defer m.Close()

	h, err := m.Spawn("researcher", "find facts")
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if h.Role() != "researcher" {
		t.Errorf("Role() = %q, want researcher", h.Role())
	}
	if h.Task() != "find facts" {
		t.Errorf("Task() = %q, want the spawn task", h.Task())
	}
	if h.Status() != models.AgentStatusActive {
		t.Errorf("Status() = %v, want active", h.Status())
	}
	if got := m.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount() = %d, want 1", got)
	}

	m.Terminate(h)
	if h.Status() != models.AgentStatusTerminated {
		t.Errorf("Status() after Terminate = %v, want terminated", h.Status())
	}
	if got := m.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount() after Terminate = %d, want 0", got)
	}
}

func TestManagerTerminateIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	defer m.Close()

	h, err := m.Spawn("worker", "task")
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	m.Terminate(h)
	m.Terminate(h)
	m.Terminate(nil)

	if got := m.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount() = %d, want 0", got)
	}
	if h.Status() != models.AgentStatusTerminated {
		t.Errorf("Status() = %v, want terminated", h.Status())
	}
}

func TestTerminatedHandleRejectsWork(t *testing.T) {
	m := newTestManager(t)
	defer m.Close()

	h, err := m.Spawn("worker", "task")
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	m.Terminate(h)

	if _, err := h.Complete(context.Background(), "hello"); !errors.Is(err, ErrHandleTerminated) {
		t.Fatalf("Complete on terminated handle = %v, want ErrHandleTerminated", err)
	}
}

func TestManagerListActive(t *testing.T) {
	m := newTestManager(t)
	defer m.Close()

	if _, err := m.Spawn("researcher", "a"); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if _, err := m.Spawn("writer", "b"); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	roles := m.ListActive()
	if len(roles) != 2 {
		t.Fatalf("ListActive() returned %d entries, want 2", len(roles))
	}
}

func TestManagerClose(t *testing.T) {
	m := newTestManager(t)

	h, err := m.Spawn("worker", "task")
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	m.Close()
	if h.Status() != models.AgentStatusTerminated {
		t.Errorf("Status() after Close = %v, want terminated", h.Status())
	}
	if _, err := m.Spawn("worker", "another"); !errors.Is(err, ErrManagerClosed) {
		t.Fatalf("Spawn after Close = %v, want ErrManagerClosed", err)
	}

	// Close twice is fine.
	m.Close()
}
