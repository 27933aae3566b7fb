package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/maestro-ai/maestro/internal/agent"
	"github.com/maestro-ai/maestro/internal/llm"
	"github.com/maestro-ai/maestro/internal/roles"
	"github.com/maestro-ai/maestro/internal/tool"
	"github.com/maestro-ai/maestro/pkg/models"
)

// ErrManagerClosed is returned by Spawn after the manager has been closed.
var ErrManagerClosed = errors.New("subagent manager closed")

// ErrHandleTerminated is returned by Handle.Complete after termination.
var ErrHandleTerminated = errors.New("subagent terminated")

// Handle is a manager-owned subagent. No component other than the owning
// manager may hold a reference that outlives termination.
type Handle struct {
	agent     *agent.Agent
	role      string
	task      string
	spawnedAt time.Time

	mu     sync.Mutex
	status models.AgentStatus
}

// ID returns the underlying agent's unique identifier.
func (h *Handle) ID() string { return h.agent.ID() }

// Role returns the role the handle was spawned with.
func (h *Handle) Role() string { return h.role }

// Task returns the task description the handle was spawned for.
func (h *Handle) Task() string { return h.task }

// SpawnedAt returns when the handle was created.
func (h *Handle) SpawnedAt() time.Time { return h.spawnedAt }

// Status returns the handle's lifecycle state.
func (h *Handle) Status() models.AgentStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Complete delegates to the owned agent. Terminated handles reject the call.
func (h *Handle) Complete(ctx context.Context, input string) (string, error) {
	h.mu.Lock()
	terminated := h.status == models.AgentStatusTerminated
	h.mu.Unlock()

	if terminated {
		return "", fmt.Errorf("%w: %s (%s)", ErrHandleTerminated, h.agent.ID(), h.role)
	}
	return h.agent.Complete(ctx, input)
}

func (h *Handle) terminate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = models.AgentStatusTerminated
}

// Manager owns the lifecycle of a run's subagents. Spawn and terminate are
// called from different goroutines, so the active set is mutex-protected.
type Manager struct {
	completer llm.Completer
	catalog   *roles.Catalog
	registry  *tool.Registry

	mu     sync.Mutex
	active map[string]*Handle
	closed bool
}

// ManagerConfig contains configuration for creating a Manager.
type ManagerConfig struct {
	// Completer is the completion service shared by all spawned agents. Required.
	Completer llm.Completer
	// Catalog resolves roles to system prompts. Defaults to the built-in catalog.
	Catalog *roles.Catalog
	// Registry resolves role tool names to tools. Optional.
	Registry *tool.Registry
}

// NewManager creates a subagent manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = roles.DefaultCatalog()
	}
	if cfg.Registry == nil {
		cfg.Registry = tool.NewRegistry()
	}

	return &Manager{
		completer: cfg.Completer,
		catalog:   cfg.Catalog,
		registry:  cfg.Registry,
		active:    make(map[string]*Handle),
	}, nil
}

// Spawn creates a subagent for the given role and task and registers it in
// the active set. It fails with ErrManagerClosed after Close.
func (m *Manager) Spawn(role, task string) (*Handle, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	m.mu.Unlock()

	a, err := agent.New(agent.Config{
		Role:         role,
		SystemPrompt: m.catalog.SystemPrompt(role),
		Tools:        m.roleTools(role),
		Completer:    m.completer,
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", role, err)
	}

	h := &Handle{
		agent:     a,
		role:      role,
		task:      task,
		spawnedAt: time.Now(),
		status:    models.AgentStatusActive,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Close may have raced the agent construction.
	if m.closed {
		h.terminate()
		return nil, ErrManagerClosed
	}
	m.active[h.ID()] = h
	return h, nil
}

// roleTools resolves the catalog's tool names for a role against the registry.
func (m *Manager) roleTools(role string) []tool.Tool {
	r, ok := m.catalog.Get(role)
	if !ok {
		return nil
	}

	var tools []tool.Tool
	for _, name := range r.Tools {
		t, ok := m.registry.Get(name)
		if !ok {
			log.Printf("[manager] role %s references unknown tool %q", role, name)
			continue
		}
		tools = append(tools, t)
	}
	return tools
}

// ListActive returns the roles of all active handles.
func (m *Manager) ListActive() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.active))
	for _, h := range m.active {
		out = append(out, h.role)
	}
	return out
}

// ActiveCount returns the number of active handles.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Terminate marks the handle terminated and releases the manager's
// reference. Terminating twice is a no-op.
func (m *Manager) Terminate(h *Handle) {
	if h == nil {
		return
	}
	h.terminate()

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, h.ID())
}

// TerminateAll terminates every active handle. Idempotent.
func (m *Manager) TerminateAll() {
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.active))
	for _, h := range m.active {
		handles = append(handles, h)
	}
	m.active = make(map[string]*Handle)
	m.mu.Unlock()

	for _, h := range handles {
		h.terminate()
	}
}

// Close terminates all handles and rejects further spawns.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.TerminateAll()
}
