package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const Logo = `
┌─┐┌─┐┌┬┐┬ ┬┌─┐┬┌┐┌┌┬┐┌─┐┬─┐
├─┘├─┤ │ ├─┤├┤ ││││ ││├┤ ├┬┘
┴  ┴ ┴ ┴ ┴ ┴└  ┴┘└┘─┴┘└─┘┴└─
`

// Render generates the full UI string based on the provided state.
func Render(s State, styles Styles) string {
	header := renderHeader(styles)
	body := renderBody(s, styles)
	footer := renderFooter(s, styles)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func renderHeader(styles Styles) string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00E6B8")).Bold(true)
	subtitle := styles.Header.Render("Pathfinder — group venue intelligence")

	return lipgloss.JoinVertical(lipgloss.Left, logoStyle.Render(Logo), subtitle)
}

func renderFooter(s State, styles Styles) string {
	help := "ctrl+c: quit"
	switch s.Mode {
	case ModeQuery:
		help += " | enter: search"
	case ModeSearching:
		help += " | esc: cancel"
	case ModeResults:
		help += " | ↑/↓: venue | v: cycle vibe overlay | V: overlay off | esc: new search"
	}
	if s.FilterName != "" {
		help += fmt.Sprintf(" | overlay: %s", s.FilterName)
	}
	return styles.Footer.Render(help)
}

func renderBody(s State, styles Styles) string {
	switch s.Mode {
	case ModeQuery:
		return renderQuery(s, styles)
	case ModeSearching:
		return renderSearching(s, styles)
	case ModeResults:
		return renderResults(s, styles)
	default:
		return ""
	}
}

func renderQuery(s State, styles Styles) string {
	lines := []string{
		styles.Subtitle.Render("Where does the group want to go?"),
		s.TextArea.View(),
	}
	if s.ErrorText != "" {
		lines = append(lines, styles.Error.Render(s.ErrorText))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSearching(s State, styles Styles) string {
	status := styles.Searching.Render(fmt.Sprintf("%s planning %q", s.Spinner.View(), s.Query))
	if s.ActiveAgent != "" {
		status = lipgloss.JoinHorizontal(lipgloss.Top,
			styles.AgentTag.Render(s.ActiveAgent), " ", status)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Viewport.View(),
		status,
	)
}

func renderResults(s State, styles Styles) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		styles.MapContainer.Render(s.MapPane),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		styles.List.Render(s.VenueList.View()),
		styles.Detail.Render(s.DetailPane),
	)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	lines := []string{panes}
	if s.Consensus != "" {
		lines = append(lines, styles.Subtle.Render("Consensus: "+s.Consensus))
	}
	if s.ActionPrompt != "" {
		lines = append(lines, styles.Accent.Render("» "+s.ActionPrompt))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
