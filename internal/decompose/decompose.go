// Package decompose asks a planning agent whether a task should be split
// into parallel subtasks. The decision is an opaque model call: the reply is
// either a sentinel ("solve directly") or a bounded list of subtasks.
package decompose

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/maestro-ai/maestro/internal/llm"
)

// DefaultBranchingCap bounds subtasks per decomposition when no cap is
// configured. Worst-case total task count grows with cap^depth, so this
// stays small.
const DefaultBranchingCap = 3

// Subtask is one proposed unit of a split.
type Subtask struct {
	// Role is the agent role suggested for the subtask.
	Role string `json:"role"`
	// Description is the work to perform.
	Description string `json:"task"`
}

// Decomposer drives the split-or-solve decision through the completion
// service. Every Propose is an independent single-turn call, so one
// Decomposer can serve concurrent subtrees of the same run.
type Decomposer struct {
	completer    llm.Completer
	systemPrompt string
	branchingCap int
}

// New creates a Decomposer with the given planning prompt.
// A cap <= 0 falls back to DefaultBranchingCap.
func New(completer llm.Completer, systemPrompt string, branchingCap int) *Decomposer {
	if branchingCap <= 0 {
		branchingCap = DefaultBranchingCap
	}
	return &Decomposer{
		completer:    completer,
		systemPrompt: systemPrompt,
		branchingCap: branchingCap,
	}
}

// Propose asks whether the task should be split. A nil slice with nil error
// means "solve directly". Returned subtasks are hard-capped at the
// branching cap regardless of what the model produced.
func (d *Decomposer) Propose(ctx context.Context, task string) ([]Subtask, error) {
	prompt := fmt.Sprintf(decompositionPrompt, d.branchingCap, task)

	reply, err := d.completer.Complete(ctx, d.systemPrompt, []llm.Turn{
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("decomposition call: %w", err)
	}

	subtasks, err := ParseResponse(reply)
	if err != nil {
		// An unparseable decision is treated as "solve directly" rather
		// than failing the whole subtree.
		log.Printf("[decompose] unparseable decision, solving directly: %v", err)
		return nil, nil
	}

	if len(subtasks) > d.branchingCap {
		log.Printf("[decompose] capping %d subtasks to %d", len(subtasks), d.branchingCap)
		subtasks = subtasks[:d.branchingCap]
	}
	return subtasks, nil
}

// ParseResponse parses the model's split-or-solve reply. It returns nil for
// the SOLVE sentinel, and an error when the reply is neither the sentinel
// nor a usable JSON array.
func ParseResponse(response string) ([]Subtask, error) {
	trimmed := strings.TrimSpace(response)
	if strings.EqualFold(trimmed, "SOLVE") || strings.HasPrefix(strings.ToUpper(trimmed), "SOLVE") {
		return nil, nil
	}

	jsonStart := strings.Index(response, "[")
	jsonEnd := strings.LastIndex(response, "]")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		preview := response
		if len(preview) > 200 {
			preview = preview[:200] + "... (truncated)"
		}
		return nil, fmt.Errorf("no SOLVE sentinel or JSON array in response: %q", preview)
	}
	jsonStr := response[jsonStart : jsonEnd+1]

	var subtasks []Subtask
	if err := json.Unmarshal([]byte(jsonStr), &subtasks); err != nil {
		// Some models return a bare array of strings.
		var plain []string
		if err2 := json.Unmarshal([]byte(jsonStr), &plain); err2 != nil {
			return nil, fmt.Errorf("unmarshal subtasks: %w", err)
		}
		for _, description := range plain {
			subtasks = append(subtasks, Subtask{Description: description})
		}
	}

	out := subtasks[:0]
	for _, st := range subtasks {
		st.Description = strings.TrimSpace(st.Description)
		if st.Description == "" {
			continue
		}
		if st.Role == "" {
			st.Role = "worker"
		}
		out = append(out, st)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
