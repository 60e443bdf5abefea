package narrate

import "github.com/charmbracelet/lipgloss"

type styles struct {
	rule    lipgloss.Style
	heading lipgloss.Style
	step    lipgloss.Style
	symbol  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		rule: r.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")),
		heading: r.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true),
		step: r.NewStyle().
			Bold(true),
		symbol: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")),
	}
}
