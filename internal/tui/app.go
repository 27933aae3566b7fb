// Package tui renders a live view of an orchestration run: the task tree as
// it decomposes, agent activity, and the final synthesized answer.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maestro-ai/maestro/internal/orchestrator"
)

// EventMsg wraps one orchestrator event for the update loop.
type EventMsg orchestrator.Event

// StreamClosedMsg signals that the orchestrator has finished emitting events.
type StreamClosedMsg struct{}

// taskRow is one line of the task tree, in arrival order.
type taskRow struct {
	id          string
	description string
	depth       int
	role        string
	status      string
}

// App is the bubbletea model for a single orchestration run.
type App struct {
	events <-chan orchestrator.Event

	spinner spinner.Model
	styles  styles

	task  string
	rows  []taskRow
	index map[string]int

	activeAgents int
	totalSpawned int

	answer   string
	runErr   string
	finished bool
	quitting bool

	width int
}

// New creates a run view fed by the given event stream.
func New(task string, events <-chan orchestrator.Event) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &App{
		events:  events,
		spinner: s,
		styles:  defaultStyles(),
		task:    task,
		index:   make(map[string]int),
		width:   80,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.listen())
}

// listen delivers the next orchestrator event as a message.
func (a *App) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.events
		if !ok {
			return StreamClosedMsg{}
		}
		return EventMsg(ev)
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case spinner.TickMsg:
		if a.finished {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case EventMsg:
		a.apply(orchestrator.Event(msg))
		return a, a.listen()

	case StreamClosedMsg:
		a.finished = true
		return a, tea.Quit
	}

	return a, nil
}

// apply folds one orchestrator event into the view state.
func (a *App) apply(ev orchestrator.Event) {
	switch ev.Type {
	case orchestrator.EventTaskStarted:
		a.index[ev.TaskID] = len(a.rows)
		a.rows = append(a.rows, taskRow{
			id:          ev.TaskID,
			description: ev.TaskDescription,
			depth:       ev.Depth,
			role:        ev.Role,
			status:      "running",
		})

	case orchestrator.EventTaskCompleted:
		a.setStatus(ev.TaskID, "done")

	case orchestrator.EventTaskFailed:
		a.setStatus(ev.TaskID, "failed")

	case orchestrator.EventAgentSpawned:
		a.activeAgents++
		a.totalSpawned++

	case orchestrator.EventAgentTerminated:
		if a.activeAgents > 0 {
			a.activeAgents--
		}

	case orchestrator.EventRunDone:
		a.answer = ev.Message
		if ev.Error != nil {
			a.runErr = ev.Error.Error()
		}
	}
}

func (a *App) setStatus(taskID, status string) {
	if i, ok := a.index[taskID]; ok {
		a.rows[i].status = status
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(a.styles.title.Render("maestro"))
	b.WriteString("  ")
	b.WriteString(a.styles.taskText.Render(truncate(a.task, a.width-10)))
	b.WriteString("\n\n")

	for _, row := range a.rows {
		b.WriteString(a.renderRow(row))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(a.styles.stats.Render(fmt.Sprintf(
		"agents: %d active / %d spawned", a.activeAgents, a.totalSpawned)))
	b.WriteString("\n\n")

	switch {
	case a.runErr != "":
		b.WriteString(a.styles.errorText.Render("run failed: " + a.runErr))
		b.WriteByte('\n')
	case a.answer != "":
		b.WriteString(a.styles.answerBox.Width(min(a.width-2, 100)).Render(a.answer))
		b.WriteByte('\n')
	}

	b.WriteString(a.styles.hint.Render("q to quit"))
	b.WriteByte('\n')

	return b.String()
}

func (a *App) renderRow(row taskRow) string {
	indent := strings.Repeat("  ", row.depth)

	var marker string
	switch row.status {
	case "done":
		marker = a.styles.done.Render("✓")
	case "failed":
		marker = a.styles.failed.Render("✗")
	default:
		marker = a.styles.running.Render(a.spinner.View())
	}

	line := fmt.Sprintf("%s%s %s", indent, marker, truncate(row.description, a.width-len(indent)-16))
	if row.role != "" {
		line += " " + a.styles.role.Render("("+row.role+")")
	}
	return line
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// Run drives the TUI until the event stream closes or the user quits, then
// returns so the caller can print the final answer on a plain terminal.
func Run(task string, events <-chan orchestrator.Event) error {
	app := New(task, events)
	p := tea.NewProgram(app)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
