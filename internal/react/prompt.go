package react

import (
	"fmt"
	"strings"

	"github.com/maestro-ai/maestro/internal/tool"
)

const instructionTemplate = `Answer the question below. You may use tools.

Available tools:
%s

Respond in this exact format:

Thought: your reasoning about what to do next
Action: the tool name to use, one of [%s]
Action Input: the input for the tool

or, when you know the answer:

Thought: your reasoning
Final Answer: the answer to the question

Question: %s`

// buildPrompt renders the question, the tool catalog, and the transcript of
// all prior steps. Each step's prompt depends on everything before it, which
// is why the loop is strictly sequential.
func buildPrompt(question string, tools []tool.Tool, steps []ThoughtStep) string {
	descriptions := make([]string, 0, len(tools))
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		descriptions = append(descriptions, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
		names = append(names, t.Name())
	}
	if len(descriptions) == 0 {
		descriptions = append(descriptions, "(none)")
	}

	var b strings.Builder
	fmt.Fprintf(&b, instructionTemplate, strings.Join(descriptions, "\n"), strings.Join(names, ", "), question)

	for _, step := range steps {
		b.WriteString("\n\n")
		if step.Thought != "" {
			fmt.Fprintf(&b, "Thought: %s\n", step.Thought)
		}
		if step.Action != "" {
			fmt.Fprintf(&b, "Action: %s\n", step.Action)
			fmt.Fprintf(&b, "Action Input: %s\n", step.ActionInput)
		}
		if step.Observation != "" {
			fmt.Fprintf(&b, "Observation: %s", step.Observation)
		}
	}

	return b.String()
}
