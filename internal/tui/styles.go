package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the wizard.
type Styles struct {
	Title    lipgloss.Style
	Step     lipgloss.Style
	Active   lipgloss.Style
	Done     lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Preview  lipgloss.Style
	Help     lipgloss.Style
	Progress lipgloss.Style
}

func DefaultStyles() Styles {
	primary := lipgloss.Color("#3b82f6")
	muted := lipgloss.Color("#6b7280")

	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1),
		Step:    lipgloss.NewStyle().Foreground(muted),
		Active:  lipgloss.NewStyle().Bold(true).Foreground(primary).Underline(true),
		Done:    lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
		Label:   lipgloss.NewStyle().Bold(true).Width(10),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#dc2626")).Padding(0, 1),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981")),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b")),
		Preview: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Progress: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#f59e0b")),
	}
}
