package decompose

// decompositionPrompt asks the model to either split a task or decline.
// %d is the subtask cap, %s the task description.
const decompositionPrompt = `Decide whether the following task should be split into independent subtasks
that can run in parallel, or solved directly by a single agent.

Rules:
- If the task is small, focused, or inherently sequential, reply with exactly:
  SOLVE
- Otherwise reply with ONLY a JSON array of at most %d subtasks:
  [{"role": "researcher", "task": "..."}, {"role": "writer", "task": "..."}]
- Each subtask must be independently completable without the others' output.
- Prefer SOLVE when in doubt; splitting has coordination overhead.

Task: %s`
