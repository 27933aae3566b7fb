// Package orchestrator coordinates hierarchical subagent runs. A run
// recursively decomposes a task into subtasks, dispatches each subtask to a
// dedicated subagent, and synthesizes the partial results into one answer.
// Recursion is bounded by depth and by a per-run task budget, and fan-out at
// each level is bounded by a branching cap.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/maestro-ai/maestro/internal/agent"
	"github.com/maestro-ai/maestro/internal/decompose"
	"github.com/maestro-ai/maestro/internal/llm"
	"github.com/maestro-ai/maestro/internal/react"
	"github.com/maestro-ai/maestro/internal/roles"
	"github.com/maestro-ai/maestro/internal/state"
	"github.com/maestro-ai/maestro/internal/tool"
	"github.com/maestro-ai/maestro/internal/tool/agenttool"
	"github.com/maestro-ai/maestro/pkg/models"
)

const eventBufferSize = 128

// Orchestrator runs one hierarchical task. Create a fresh Orchestrator per
// run; the event stream is closed when Orchestrate returns.
type Orchestrator struct {
	completer llm.Completer
	catalog   *roles.Catalog
	registry  *tool.Registry
	store     state.Store

	maxSteps     int
	maxDepth     int
	maxTasks     int
	branchingCap int

	events  chan Event
	dropped atomic.Uint64
}

// New creates an Orchestrator from required configuration and options.
func New(req RequiredConfig, opts ...Option) (*Orchestrator, error) {
	if req.Completer == nil {
		return nil, fmt.Errorf("orchestrator: completer is required")
	}

	options := orchestratorOptions{
		maxSteps:     DefaultMaxSteps,
		maxDepth:     DefaultMaxDepth,
		maxTasks:     DefaultMaxTasks,
		branchingCap: DefaultBranchingCap,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.maxSteps < 1 {
		return nil, fmt.Errorf("orchestrator: max steps must be at least 1, got %d", options.maxSteps)
	}
	if options.maxDepth < 0 {
		return nil, fmt.Errorf("orchestrator: max depth must not be negative, got %d", options.maxDepth)
	}
	if options.maxTasks < 1 {
		return nil, fmt.Errorf("orchestrator: max tasks must be at least 1, got %d", options.maxTasks)
	}
	if options.branchingCap < 1 {
		return nil, fmt.Errorf("orchestrator: branching cap must be at least 1, got %d", options.branchingCap)
	}
	if options.catalog == nil {
		options.catalog = roles.DefaultCatalog()
	}
	if options.registry == nil {
		options.registry = tool.DefaultRegistry()
	}

	return &Orchestrator{
		completer:    req.Completer,
		catalog:      options.catalog,
		registry:     options.registry,
		store:        options.store,
		maxSteps:     options.maxSteps,
		maxDepth:     options.maxDepth,
		maxTasks:     options.maxTasks,
		branchingCap: options.branchingCap,
		events:       make(chan Event, eventBufferSize),
	}, nil
}

// Events returns the stream of run events. The channel is closed after
// Orchestrate returns; slow consumers may miss events rather than block
// the run.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// DroppedEventCount reports how many events were dropped because the event
// buffer was full.
func (o *Orchestrator) DroppedEventCount() uint64 {
	return o.dropped.Load()
}

// runState carries the per-run collaborators threaded through the recursion.
type runState struct {
	id         string
	budget     *RunBudget
	manager    *Manager
	decomposer *decompose.Decomposer
	aggregator *Aggregator
}

// Orchestrate runs the full orchestration for task and returns the final
// answer. The run terminates on context cancellation, on budget exhaustion
// at the root, or when the root task resolves.
func (o *Orchestrator) Orchestrate(ctx context.Context, task string) (string, error) {
	defer close(o.events)

	if task == "" {
		return "", fmt.Errorf("orchestrator: task must not be empty")
	}

	runID := uuid.New().String()
	st, err := o.newRunState(runID)
	if err != nil {
		return "", err
	}
	defer st.manager.Close()

	run := state.Run{
		ID:        runID,
		Task:      task,
		Status:    models.TaskStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	o.saveRun(run)

	root := models.Task{
		ID:          uuid.New().String(),
		Description: task,
		Depth:       0,
		Status:      models.TaskStatusRunning,
		CreatedAt:   run.StartedAt,
	}
	// The root counts against the task budget like any dispatched task.
	if err := st.budget.Reserve(1); err != nil {
		o.finishRun(st, &run, "", err)
		return "", fmt.Errorf("orchestrator: run %s: %w", runID, err)
	}

	rootHandle, err := st.manager.Spawn("worker", task)
	if err != nil {
		o.finishRun(st, &run, "", err)
		return "", fmt.Errorf("orchestrator: run %s: %w", runID, err)
	}

	answer, err := o.solve(ctx, st, root, rootHandle)
	st.manager.TerminateAll()
	o.finishRun(st, &run, answer, err)
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (o *Orchestrator) newRunState(runID string) (*runState, error) {
	manager, err := NewManager(ManagerConfig{
		Completer: o.completer,
		Catalog:   o.catalog,
		Registry:  o.registry,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: create manager: %w", err)
	}

	return &runState{
		id:         runID,
		budget:     NewRunBudget(o.maxTasks, o.maxDepth),
		manager:    manager,
		decomposer: decompose.New(o.completer, o.catalog.SystemPrompt("decomposer"), o.branchingCap),
		aggregator: NewAggregator(o.completer, o.catalog.SystemPrompt("synthesizer")),
	}, nil
}

func (o *Orchestrator) finishRun(st *runState, run *state.Run, answer string, err error) {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Answer = answer
	run.TasksDispatched = st.budget.TaskCount()
	if err != nil {
		run.Status = models.TaskStatusFailed
		run.Error = err.Error()
	} else {
		run.Status = models.TaskStatusDone
	}
	o.saveRun(*run)
	o.emit(Event{
		Type:      EventRunDone,
		Message:   answer,
		Error:     err,
		Timestamp: now,
	})
}

// emit delivers an event without blocking the run. Events are dropped when
// the buffer is full. Subtask goroutines emit concurrently, so the drop
// counter is atomic.
func (o *Orchestrator) emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	select {
	case o.events <- ev:
	default:
		o.dropped.Add(1)
	}
}

// saveRun persists best-effort. Persistence failures never fail the run.
func (o *Orchestrator) saveRun(run state.Run) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveRun(run); err != nil {
		log.Printf("[orchestrator] save run %s: %v", run.ID, err)
	}
}

func (o *Orchestrator) saveTask(st *runState, task models.Task) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveTask(st.id, task); err != nil {
		log.Printf("[orchestrator] save task %s: %v", task.ID, err)
	}
}

func (o *Orchestrator) saveResult(st *runState, result models.Result) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveResult(st.id, result); err != nil {
		log.Printf("[orchestrator] save result for task %s: %v", result.TaskID, err)
	}
}

// plannerTools builds the registry visible to an agent of the given role.
// A tool name resolves against the shared registry first; a name that
// instead matches another catalog role becomes a delegation tool backed by a
// fresh agent of that role. Roles with no configured tools see an empty
// registry.
func (o *Orchestrator) plannerTools(role string) *tool.Registry {
	sub := tool.NewRegistry()
	r, ok := o.catalog.Get(role)
	if !ok {
		return sub
	}
	for _, name := range r.Tools {
		if t, ok := o.registry.Get(name); ok {
			sub.Register(t)
			continue
		}
		// A role delegating to itself would recurse without bound.
		if name == role {
			continue
		}
		delegate, ok := o.catalog.Get(name)
		if !ok {
			continue
		}
		// Delegate agents carry no tools of their own; they answer in a
		// single completion turn.
		a, err := agent.New(agent.Config{
			Role:         delegate.Name,
			SystemPrompt: delegate.SystemPrompt,
			Completer:    o.completer,
		})
		if err != nil {
			log.Printf("[orchestrator] delegate agent for role %s: %v", name, err)
			continue
		}
		sub.Register(agenttool.New(a, ""))
	}
	return sub
}

var _ react.Agent = (*Handle)(nil)
