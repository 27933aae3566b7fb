// Package roles maps role labels to the system prompts and tool sets used
// when spawning subagents. A project can override or extend the built-in
// catalog with a roles.yaml file.
package roles

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Role describes one agent role.
type Role struct {
	// Name is the role label (e.g., "researcher").
	Name string `yaml:"name"`
	// SystemPrompt is the instruction text for agents with this role.
	SystemPrompt string `yaml:"system_prompt"`
	// Tools lists the tool names available to this role.
	Tools []string `yaml:"tools,omitempty"`
}

// Catalog holds the known roles. It is built once at startup and read-only
// afterwards.
type Catalog struct {
	roles map[string]Role
}

// rolesFile is the YAML structure of a roles.yaml file.
type rolesFile struct {
	Roles []Role `yaml:"roles"`
}

// genericPrompt is used for roles not present in the catalog.
const genericPrompt = "You are a %s agent. Complete the task you are given concisely and accurately."

var builtin = []Role{
	{
		Name:         "worker",
		SystemPrompt: "You are a diligent worker agent. Solve the task you are given step by step and report a clear, complete answer.",
		Tools:        []string{"calculator", "clock"},
	},
	{
		Name:         "researcher",
		SystemPrompt: "You are a research agent. Gather the relevant facts for the task and report them as a concise brief.",
	},
	{
		Name:         "writer",
		SystemPrompt: "You are a writing agent. Produce clear, well-structured prose for the task you are given.",
	},
	{
		Name:         "analyst",
		SystemPrompt: "You are an analysis agent. Examine the material you are given and report findings, patterns, and caveats.",
		Tools:        []string{"calculator"},
	},
	{
		Name:         "decomposer",
		SystemPrompt: "You are a planning agent. Decide whether a task should be split into independent subtasks, and if so, produce them.",
	},
	{
		Name:         "synthesizer",
		SystemPrompt: "You are a synthesis agent. Combine the labeled partial results you are given into one coherent answer to the original task.",
	},
}

// DefaultCatalog returns the built-in role catalog.
func DefaultCatalog() *Catalog {
	c := &Catalog{roles: make(map[string]Role, len(builtin))}
	for _, r := range builtin {
		c.roles[r.Name] = r
	}
	return c
}

// Load reads a roles.yaml file and merges it over the built-in catalog.
// File entries replace built-in roles with the same name.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}

	var file rolesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roles file: %w", err)
	}

	c := DefaultCatalog()
	for _, r := range file.Roles {
		if r.Name == "" {
			return nil, fmt.Errorf("role with empty name in %s", path)
		}
		if r.SystemPrompt == "" {
			return nil, fmt.Errorf("role %q has no system_prompt", r.Name)
		}
		c.roles[r.Name] = r
	}
	return c, nil
}

// Get returns the role for the given name.
func (c *Catalog) Get(name string) (Role, bool) {
	r, ok := c.roles[name]
	return r, ok
}

// SystemPrompt returns the system prompt for a role, falling back to a
// generic prompt derived from the role name for unknown roles.
func (c *Catalog) SystemPrompt(name string) string {
	if r, ok := c.roles[name]; ok {
		return r.SystemPrompt
	}
	return fmt.Sprintf(genericPrompt, strings.TrimSpace(name))
}

// Names returns all catalog role names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.roles))
	for name := range c.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
