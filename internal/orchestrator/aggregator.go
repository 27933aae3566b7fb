package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maestro-ai/maestro/internal/llm"
	"github.com/maestro-ai/maestro/pkg/models"
)

// ErrAllSubtasksFailed is returned when no result carries usable output.
var ErrAllSubtasksFailed = errors.New("all subtasks failed")

const synthesisPrompt = `Original task: %s

The task was split among subagents. Their labeled results follow:

%s

Write one coherent answer to the original task based on these results.
Sections marked "[subtask failed" carry no content; work around them.`

// Aggregator collapses a batch of subagent results into one answer per
// decomposition level through a single synthesis completion call. Each call
// is an independent single-turn exchange, so one Aggregator can serve
// concurrent decomposition levels of the same run.
type Aggregator struct {
	completer    llm.Completer
	systemPrompt string
}

// NewAggregator creates an aggregator with the given synthesis prompt.
func NewAggregator(completer llm.Completer, systemPrompt string) *Aggregator {
	return &Aggregator{completer: completer, systemPrompt: systemPrompt}
}

// Synthesize formats each result as a labeled block and asks for a unified
// answer. Failed results appear as explicit failure placeholders so the
// synthesis accounts for missing branches. If every result failed, it
// returns ErrAllSubtasksFailed without spending a completion call.
func (g *Aggregator) Synthesize(ctx context.Context, task models.Task, results []models.Result) (string, error) {
	blocks := make([]string, 0, len(results))
	failures := 0

	for _, r := range results {
		if r.Failed() {
			failures++
			blocks = append(blocks, fmt.Sprintf("%s: [subtask failed: %v]", label(r), r.Err))
			continue
		}
		blocks = append(blocks, fmt.Sprintf("%s: %s", label(r), r.Output))
	}

	if len(results) == 0 || failures == len(results) {
		return "", fmt.Errorf("%w: task %s (%d subtasks)", ErrAllSubtasksFailed, task.ID, len(results))
	}

	prompt := fmt.Sprintf(synthesisPrompt, task.Description, strings.Join(blocks, "\n\n"))
	answer, err := g.completer.Complete(ctx, g.systemPrompt, []llm.Turn{
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("synthesis for task %s: %w", task.ID, err)
	}
	return answer, nil
}

func label(r models.Result) string {
	if r.Role == "" {
		return "worker"
	}
	return r.Role
}
