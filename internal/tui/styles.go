package tui

import "github.com/charmbracelet/lipgloss"

// styles groups the lipgloss styles used by the run view.
type styles struct {
	title     lipgloss.Style
	taskText  lipgloss.Style
	running   lipgloss.Style
	done      lipgloss.Style
	failed    lipgloss.Style
	role      lipgloss.Style
	stats     lipgloss.Style
	answerBox lipgloss.Style
	errorText lipgloss.Style
	hint      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true),
		taskText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#45B7D1")),
		done: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96E6A1")),
		failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		role: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true),
		stats: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		answerBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1),
		errorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}
