package src

import (
	"github.com/pathfinder-labs/pathfinder-tui/src/ui"
)

func (m *model) View() string {
	s := ui.State{
		Mode:       m.uiMode(),
		Width:      m.width,
		Height:     m.height,
		Query:      m.session.Query(),
		ErrorText:  m.lastError,
		FilterName: m.currentFilterName(),
		TextArea:   m.textarea,
		Viewport:   m.viewport,
		Spinner:    m.spinner,
		VenueList:  m.venueList,
	}

	if node := m.session.ActiveAgent(); node != "" {
		s.ActiveAgent = AgentDisplay(node).Display
	}

	if s.Mode == ui.ModeResults {
		s.MapPane = m.mapView.Render(m.mapW, m.mapH)
		s.DetailPane = m.detailContent()
		if result := m.session.Result(); result != nil {
			s.Consensus = result.GlobalConsensus
			s.ActionPrompt = actionPrompt(result)
		}
	}

	return ui.Render(s, m.styles)
}
