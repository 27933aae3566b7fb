package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/maestro-ai/maestro/pkg/models"
)

// RunFunc performs one subagent task. It must respect ctx cancellation; the
// blocking work inside is the completion call, which does.
type RunFunc func(ctx context.Context, task models.Task, h *Handle) (string, error)

// Executor fans a batch of independent tasks out to concurrent units and
// collects every result before returning.
type Executor struct {
	run RunFunc
}

// NewExecutor creates an executor around the given work function.
func NewExecutor(run RunFunc) *Executor {
	return &Executor{run: run}
}

// RunAll starts one unit per task, then blocks until every unit has finished.
// The returned slice is positionally aligned with tasks: result[i] belongs
// to tasks[i] regardless of completion order. Failures are captured
// per-result and never cancel sibling units; on ctx cancellation each
// in-flight unit returns its own cancellation error.
func (e *Executor) RunAll(ctx context.Context, tasks []models.Task, handles []*Handle) []models.Result {
	results := make([]models.Result, len(tasks))

	var wg sync.WaitGroup
	for i := range tasks {
		if i >= len(handles) || handles[i] == nil {
			results[i] = models.Result{
				TaskID: tasks[i].ID,
				Err:    fmt.Errorf("no subagent handle for task %s", tasks[i].ID),
			}
			continue
		}

		wg.Add(1)
		go func(i int, task models.Task, h *Handle) {
			defer wg.Done()

			output, err := e.run(ctx, task, h)
			results[i] = models.Result{
				TaskID: task.ID,
				Role:   h.Role(),
				Output: output,
				Err:    err,
			}
		}(i, tasks[i], handles[i])
	}
	wg.Wait()

	return results
}
