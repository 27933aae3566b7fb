package roles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	for _, name := range []string{"worker", "researcher", "writer", "analyst", "decomposer", "synthesizer"} {
		if _, ok := c.Get(name); !ok {
			t.Errorf("expected built-in role %q", name)
		}
	}

	worker, _ := c.Get("worker")
	if len(worker.Tools) == 0 {
		t.Error("expected worker role to carry tools")
	}
}

func TestSystemPromptFallback(t *testing.T) {
	c := DefaultCatalog()

	prompt := c.SystemPrompt("archivist")
	if !strings.Contains(prompt, "archivist") {
		t.Errorf("expected generic prompt to mention the role, got %q", prompt)
	}

	known := c.SystemPrompt("researcher")
	if strings.Contains(known, "archivist") || known == prompt {
		t.Error("expected known role to use its own prompt")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roles.yaml")
	content := `roles:
  - name: researcher
    system_prompt: Custom research instructions.
  - name: reviewer
    system_prompt: You review drafts for accuracy.
    tools:
      - calculator
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write roles file: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, ok := c.Get("researcher")
	if !ok || r.SystemPrompt != "Custom research instructions." {
		t.Errorf("expected researcher override, got %+v", r)
	}

	reviewer, ok := c.Get("reviewer")
	if !ok || len(reviewer.Tools) != 1 {
		t.Errorf("expected new reviewer role with one tool, got %+v", reviewer)
	}

	// Untouched built-ins survive the merge.
	if _, ok := c.Get("writer"); !ok {
		t.Error("expected built-in writer role to survive merge")
	}
}

func TestLoadRejectsInvalidRoles(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "noname.yaml")
	os.WriteFile(noName, []byte("roles:\n  - system_prompt: x\n"), 0644)
	if _, err := Load(noName); err == nil {
		t.Error("expected error for role without name")
	}

	noPrompt := filepath.Join(dir, "noprompt.yaml")
	os.WriteFile(noPrompt, []byte("roles:\n  - name: empty\n"), 0644)
	if _, err := Load(noPrompt); err == nil {
		t.Error("expected error for role without system_prompt")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
