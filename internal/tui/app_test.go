package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maestro-ai/maestro/internal/orchestrator"
)

func apply(t *testing.T, app *App, events ...orchestrator.Event) *App {
	t.Helper()
	model := tea.Model(app)
	for _, ev := range events {
		model, _ = model.Update(EventMsg(ev))
	}
	return model.(*App)
}

func TestAppTracksTaskTree(t *testing.T) {
	app := New("root task", nil)

	app = apply(t, app,
		orchestrator.Event{Type: orchestrator.EventTaskStarted, TaskID: "root", TaskDescription: "root task", Depth: 0},
		orchestrator.Event{Type: orchestrator.EventTaskStarted, TaskID: "a", TaskDescription: "left", Depth: 1, Role: "researcher"},
		orchestrator.Event{Type: orchestrator.EventTaskStarted, TaskID: "b", TaskDescription: "right", Depth: 1, Role: "writer"},
		orchestrator.Event{Type: orchestrator.EventTaskCompleted, TaskID: "a"},
		orchestrator.Event{Type: orchestrator.EventTaskFailed, TaskID: "b"},
	)

	if len(app.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(app.rows))
	}
	if app.rows[1].status != "done" {
		t.Errorf("row a status = %q, want done", app.rows[1].status)
	}
	if app.rows[2].status != "failed" {
		t.Errorf("row b status = %q, want failed", app.rows[2].status)
	}
	if app.rows[0].status != "running" {
		t.Errorf("root status = %q, want running", app.rows[0].status)
	}
}

func TestAppCountsAgents(t *testing.T) {
	app := New("task", nil)

	app = apply(t, app,
		orchestrator.Event{Type: orchestrator.EventAgentSpawned, AgentID: "1"},
		orchestrator.Event{Type: orchestrator.EventAgentSpawned, AgentID: "2"},
		orchestrator.Event{Type: orchestrator.EventAgentTerminated, AgentID: "1"},
	)

	if app.activeAgents != 1 {
		t.Errorf("activeAgents = %d, want 1", app.activeAgents)
	}
	if app.totalSpawned != 2 {
		t.Errorf("totalSpawned = %d, want 2", app.totalSpawned)
	}
}

func TestAppRunDone(t *testing.T) {
	app := New("task", nil)

	app = apply(t, app, orchestrator.Event{
		Type:    orchestrator.EventRunDone,
		Message: "the answer",
	})
	if app.answer != "the answer" {
		t.Errorf("answer = %q, want the run result", app.answer)
	}

	view := app.View()
	if !strings.Contains(view, "the answer") {
		t.Errorf("view does not show the answer:\n%s", view)
	}
}

func TestAppRunFailure(t *testing.T) {
	app := New("task", nil)

	app = apply(t, app, orchestrator.Event{
		Type:  orchestrator.EventRunDone,
		Error: errors.New("budget exceeded"),
	})
	if !strings.Contains(app.View(), "budget exceeded") {
		t.Error("view does not show the run failure")
	}
}

func TestAppQuitKeys(t *testing.T) {
	app := New("task", nil)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command on q")
	}
	if !model.(*App).quitting {
		t.Error("app should be quitting after q")
	}
}

func TestAppStreamClosed(t *testing.T) {
	app := New("task", nil)

	model, cmd := app.Update(StreamClosedMsg{})
	if cmd == nil {
		t.Fatal("expected quit command when the stream closes")
	}
	if !model.(*App).finished {
		t.Error("app should be finished after the stream closes")
	}
}
