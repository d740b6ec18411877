package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Header       lipgloss.Style
	Subtitle     lipgloss.Style
	List         lipgloss.Style
	ListHeader   lipgloss.Style
	Textarea     lipgloss.Style
	Help         lipgloss.Style
	Footer       lipgloss.Style
	Accent       lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Searching    lipgloss.Style
	AgentTag     lipgloss.Style
	Risk         lipgloss.Style
	MapContainer lipgloss.Style
	Detail       lipgloss.Style
	Subtle       lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555")).
			Faint(true).
			Padding(0, 1),

		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Padding(0, 1),

		List: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00E6B8")),

		ListHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6B8")).
			Bold(true).
			Padding(0, 1),

		Textarea: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00E6B8")),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			Faint(true),

		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6B8")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5C5C")).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")).
			Bold(true),

		Searching: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")),

		AgentTag: lipgloss.NewStyle().
			Background(lipgloss.Color("#00E6B8")).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1),

		Risk: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5C5C")).
			Bold(true).
			Blink(true),

		MapContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00E6B8")).
			Padding(0, 1),

		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")),
	}
}
