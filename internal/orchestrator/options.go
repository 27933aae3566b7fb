package orchestrator

import (
	"github.com/maestro-ai/maestro/internal/llm"
	"github.com/maestro-ai/maestro/internal/roles"
	"github.com/maestro-ai/maestro/internal/state"
	"github.com/maestro-ai/maestro/internal/tool"
)

// Defaults for the orchestration knobs. These are the only tunables that
// affect orchestration semantics.
const (
	DefaultMaxSteps     = 5
	DefaultMaxDepth     = 2
	DefaultMaxTasks     = 10
	DefaultBranchingCap = 3
)

// RequiredConfig contains the minimal required configuration for an
// Orchestrator. All fields are required and have no defaults.
type RequiredConfig struct {
	// Completer is the completion service shared by all agents of the run.
	Completer llm.Completer
}

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	maxSteps     int
	maxDepth     int
	maxTasks     int
	branchingCap int
	catalog      *roles.Catalog
	registry     *tool.Registry
	store        state.Store
}

// WithMaxSteps bounds the ReAct loop per agent.
func WithMaxSteps(n int) Option {
	return func(o *orchestratorOptions) { o.maxSteps = n }
}

// WithMaxDepth bounds the recursion depth of decomposition.
func WithMaxDepth(n int) Option {
	return func(o *orchestratorOptions) { o.maxDepth = n }
}

// WithMaxTasks bounds the total tasks dispatched across a run.
func WithMaxTasks(n int) Option {
	return func(o *orchestratorOptions) { o.maxTasks = n }
}

// WithBranchingCap bounds subtasks per decomposition level.
func WithBranchingCap(n int) Option {
	return func(o *orchestratorOptions) { o.branchingCap = n }
}

// WithCatalog sets the role catalog used when spawning subagents.
func WithCatalog(c *roles.Catalog) Option {
	return func(o *orchestratorOptions) { o.catalog = c }
}

// WithTools sets the tool registry available to spawned agents.
func WithTools(r *tool.Registry) Option {
	return func(o *orchestratorOptions) { o.registry = r }
}

// WithStateStore enables run-history persistence.
func WithStateStore(s state.Store) Option {
	return func(o *orchestratorOptions) { o.store = s }
}
