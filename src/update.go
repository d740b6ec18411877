package src

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pathfinder-labs/pathfinder-tui/src/ui"
)

// waitForTransport re-arms the event pump for one transport handle.
// Events are delivered one at a time into Update, in arrival order, so
// the session never sees interleaved mutation.
func waitForTransport(t TransportHandle) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-t.Events()
		return transportMsg{from: t, ev: ev, ok: ok}
	}
}

func pulseTick() tea.Cmd {
	return tea.Tick(600*time.Millisecond, func(time.Time) tea.Msg {
		return mapTickMsg{}
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		headerHeight := lipgloss.Height(ui.Logo) + 2
		bodyHeight := m.height - headerHeight - 2

		m.mapW = m.width*3/5 - 4
		m.mapH = bodyHeight - 2
		listWidth := m.width - m.mapW - 7

		m.textarea.SetWidth(m.width - 4)
		m.viewport.Width = m.width - 4
		m.viewport.Height = bodyHeight - 1
		m.venueList.SetSize(listWidth, bodyHeight/2)

		firstSize := !m.mapReady
		m.mapReady = true
		if firstSize {
			return m, m.overlayCmd()
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case transportMsg:
		return m.handleTransport(msg)

	case overlayMsg:
		m.overlay.Complete(msg.generation, msg.points, msg.err)
		return m, nil

	case historyWrittenMsg:
		if msg.err != nil {
			slog.Warn("history: append failed", "error", msg.err)
		}
		return m, nil

	case mapTickMsg:
		if m.uiMode() == ui.ModeResults && m.hasRiskMarkers() {
			m.mapView.Advance()
			return m, pulseTick()
		}
		return m, nil
	}

	return m, m.updateChildren(msg)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true

	case "enter":
		if m.uiMode() == ui.ModeQuery {
			return m.submit(), true
		}

	case "esc":
		switch m.uiMode() {
		case ui.ModeSearching, ui.ModeResults:
			m.startNewSearch()
			return nil, true
		}

	case "v":
		if m.uiMode() == ui.ModeResults {
			m.filterIdx = (m.filterIdx + 1) % len(m.filters)
			return m.overlayCmd(), true
		}

	case "V":
		if m.uiMode() == ui.ModeResults {
			m.filterIdx = -1
			return m.overlayCmd(), true
		}
	}
	return nil, false
}

// submit kicks off a streaming search session for the typed query.
func (m *model) submit() tea.Cmd {
	query := strings.TrimSpace(m.textarea.Value())
	if query == "" {
		return nil
	}
	if err := m.session.Submit(m.ctx, query, m.cfg.Members); err != nil {
		m.lastError = "Could not reach the planner — is the backend running?"
		return nil
	}
	m.lastError = ""
	m.queryCtx = query
	m.textarea.Blur()
	m.viewport.SetContent("")
	return tea.Batch(
		waitForTransport(m.session.Transport()),
		m.spinner.Tick,
		m.overlayCmd(),
	)
}

func (m *model) startNewSearch() {
	m.session.Reset()
	m.adapter.Sync(nil, 0)
	m.lastError = ""
	m.textarea.Reset()
	m.textarea.Focus()
}

func (m *model) handleTransport(msg transportMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		// Reader finished and the channel drained; nothing to re-arm.
		return m, nil
	}
	prev := m.session.Phase()
	m.session.HandleTransportEvent(m.ctx, msg.from, msg.ev)

	cmds := []tea.Cmd{waitForTransport(msg.from)}

	switch {
	case prev == PhaseSearching && m.session.Phase() == PhaseResults:
		cmds = append(cmds, m.enterResults(), m.appendHistoryCmd())

	case prev == PhaseSearching && m.session.Phase() == PhaseIdle:
		m.lastError = "Search failed — the connection dropped. Try again."
		m.adapter.Sync(nil, 0)
		m.textarea.Focus()

	case m.session.Phase() == PhaseSearching:
		m.viewport.SetContent(m.feedContent())
		m.viewport.GotoBottom()
	}
	return m, tea.Batch(cmds...)
}

// enterResults reconciles the map and venue list against the freshly
// arrived result set.
func (m *model) enterResults() tea.Cmd {
	result := m.session.Result()
	items := make([]list.Item, len(result.Venues))
	for i, v := range result.Venues {
		items[i] = venueItem{rank: i, venue: v}
	}
	m.venueList.SetItems(items)
	m.venueList.Select(0)
	m.adapter.Sync(result, m.session.SelectedIndex())
	if m.hasRiskMarkers() {
		return pulseTick()
	}
	return nil
}

func (m *model) hasRiskMarkers() bool {
	result := m.session.Result()
	if result == nil {
		return false
	}
	for _, v := range result.Venues {
		if v.HasHistoricalRisk {
			return true
		}
	}
	return false
}

// overlayCmd re-derives the density overlay for the current inputs and
// returns the fetch to run, if any.
func (m *model) overlayCmd() tea.Cmd {
	fetch := m.overlay.Derive(m.currentFilter(), m.queryCtx, m.mapReady)
	if fetch == nil {
		return nil
	}
	return func() tea.Msg {
		points, err := m.overlay.Fetch(m.ctx, fetch)
		return overlayMsg{generation: fetch.Generation, points: points, err: err}
	}
}

func (m *model) updateChildren(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch m.uiMode() {
	case ui.ModeQuery:
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)

	case ui.ModeSearching:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ui.ModeResults:
		m.venueList, cmd = m.venueList.Update(msg)
		cmds = append(cmds, cmd)
		if idx := m.venueList.Index(); idx != m.session.SelectedIndex() {
			m.session.Select(idx)
			m.adapter.Sync(m.session.Result(), m.session.SelectedIndex())
		}
	}
	return tea.Batch(cmds...)
}
