package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/maestro-ai/maestro/internal/react"
	"github.com/maestro-ai/maestro/pkg/models"
)

// solve resolves one task and records its outcome. The handle is the agent
// assigned to the task; it does the work directly when the task is a leaf.
func (o *Orchestrator) solve(ctx context.Context, st *runState, task models.Task, h *Handle) (string, error) {
	task.Status = models.TaskStatusRunning
	o.saveTask(st, task)
	o.emit(Event{
		Type:            EventTaskStarted,
		TaskID:          task.ID,
		TaskDescription: task.Description,
		ParentID:        task.ParentID,
		Depth:           task.Depth,
		AgentID:         h.ID(),
		Role:            h.Role(),
	})

	answer, err := o.resolve(ctx, st, task, h)

	now := time.Now().UTC()
	task.CompletedAt = &now
	if err != nil {
		task.Status = models.TaskStatusFailed
		task.Error = err.Error()
		o.saveTask(st, task)
		o.emit(Event{Type: EventTaskFailed, TaskID: task.ID, Depth: task.Depth, Error: err})
		return "", err
	}

	task.Status = models.TaskStatusDone
	o.saveTask(st, task)
	o.saveResult(st, models.Result{TaskID: task.ID, Role: h.Role(), Output: answer})
	o.emit(Event{Type: EventTaskCompleted, TaskID: task.ID, Depth: task.Depth, Message: answer})
	return answer, nil
}

// resolve decides between decomposing the task and solving it directly.
// Decomposition stops at the depth bound; below it, the planner asks the
// decomposition agent and falls back to solving directly when the task does
// not split.
func (o *Orchestrator) resolve(ctx context.Context, st *runState, task models.Task, h *Handle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if task.Depth >= o.maxDepth {
		return o.solveLeaf(ctx, task, h)
	}

	subtasks, err := st.decomposer.Propose(ctx, task.Description)
	if err != nil {
		return "", fmt.Errorf("decompose task %s: %w", task.ID, err)
	}
	if len(subtasks) == 0 {
		return o.solveLeaf(ctx, task, h)
	}

	// Claim budget for the whole batch before any subagent is spawned, so a
	// partial fan-out never overshoots the task cap.
	if err := st.budget.Reserve(len(subtasks)); err != nil {
		return "", fmt.Errorf("task %s at depth %d: %w", task.ID, task.Depth, err)
	}

	children := make([]models.Task, len(subtasks))
	handles := make([]*Handle, len(subtasks))
	for i, sub := range subtasks {
		children[i] = task.Child(uuid.New().String(), sub.Description)

		ch, err := st.manager.Spawn(sub.Role, sub.Description)
		if err != nil {
			return "", fmt.Errorf("spawn %s for task %s: %w", sub.Role, task.ID, err)
		}
		handles[i] = ch
		o.emit(Event{
			Type:            EventAgentSpawned,
			TaskID:          children[i].ID,
			TaskDescription: sub.Description,
			ParentID:        task.ID,
			Depth:           children[i].Depth,
			AgentID:         ch.ID(),
			Role:            ch.Role(),
		})
	}
	o.emit(Event{Type: EventDecomposed, TaskID: task.ID, Depth: task.Depth, Subtasks: len(subtasks)})

	exec := NewExecutor(func(ctx context.Context, child models.Task, ch *Handle) (string, error) {
		return o.solve(ctx, st, child, ch)
	})
	results := exec.RunAll(ctx, children, handles)

	for _, ch := range handles {
		st.manager.Terminate(ch)
		o.emit(Event{Type: EventAgentTerminated, AgentID: ch.ID(), Role: ch.Role(), Depth: task.Depth + 1})
	}

	o.emit(Event{Type: EventSynthesisStarted, TaskID: task.ID, Depth: task.Depth})
	answer, err := st.aggregator.Synthesize(ctx, task, results)
	if err != nil {
		return "", err
	}
	o.emit(Event{Type: EventSynthesisCompleted, TaskID: task.ID, Depth: task.Depth})
	return answer, nil
}

// solveLeaf runs the bounded reasoning loop for a single task.
func (o *Orchestrator) solveLeaf(ctx context.Context, task models.Task, h *Handle) (string, error) {
	planner, err := react.NewPlanner(react.Config{
		Agent:    h,
		Tools:    o.plannerTools(h.Role()),
		MaxSteps: o.maxSteps,
	})
	if err != nil {
		return "", fmt.Errorf("planner for task %s: %w", task.ID, err)
	}

	res, err := planner.Run(ctx, task.Description)
	if err != nil {
		return "", fmt.Errorf("task %s: %w", task.ID, err)
	}
	if res.Incomplete {
		log.Printf("[orchestrator] task %s hit the step limit, returning best effort", task.ID)
	}
	return res.Answer, nil
}
