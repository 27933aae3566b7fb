// Package react drives an agent through a bounded Thought/Action/Observation
// loop, invoking tools until the agent produces a final answer or the step
// budget runs out.
package react

import "strings"

// ThoughtStep is one iteration of the planner loop. A valid step has exactly
// one of Action or FinalAnswer set; a step with neither is a parse failure
// and is kept as a thought-only step.
type ThoughtStep struct {
	// Thought is the agent's free-text reasoning.
	Thought string
	// Action is the tool to invoke, empty for terminal steps.
	Action string
	// ActionInput is the string argument passed to the tool.
	ActionInput string
	// Observation is the result of running the tool.
	Observation string
	// FinalAnswer terminates the loop when non-empty.
	FinalAnswer string
}

// Terminal returns true if the step carries a final answer.
func (s ThoughtStep) Terminal() bool {
	return s.FinalAnswer != ""
}

// parseStep extracts a ThoughtStep from raw model output. The second return
// is false when the output contains neither an action nor a final answer;
// the caller tolerates that as format drift rather than aborting.
func parseStep(text string) (ThoughtStep, bool) {
	var step ThoughtStep
	var finalLines []string
	inFinal := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case hasField(trimmed, "Final Answer:"):
			inFinal = true
			finalLines = append(finalLines, fieldValue(trimmed, "Final Answer:"))
		case hasField(trimmed, "Thought:"):
			inFinal = false
			step.Thought = fieldValue(trimmed, "Thought:")
		case hasField(trimmed, "Action Input:"):
			inFinal = false
			step.ActionInput = fieldValue(trimmed, "Action Input:")
		case hasField(trimmed, "Action:"):
			inFinal = false
			step.Action = fieldValue(trimmed, "Action:")
		case inFinal:
			finalLines = append(finalLines, line)
		}
	}

	step.FinalAnswer = strings.TrimSpace(strings.Join(finalLines, "\n"))

	// An answer and an action in one step is ambiguous; the answer wins and
	// the loop terminates.
	if step.FinalAnswer != "" {
		step.Action = ""
		step.ActionInput = ""
		return step, true
	}
	if step.Action != "" {
		return step, true
	}

	// Neither action nor answer: record whatever text came back as thought.
	if step.Thought == "" {
		step.Thought = strings.TrimSpace(text)
	}
	return step, false
}

func hasField(line, prefix string) bool {
	return len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix)
}

func fieldValue(line, prefix string) string {
	return strings.TrimSpace(line[len(prefix):])
}
