package src

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pathfinder-labs/pathfinder-tui/src/ui"
)

type venueItem struct {
	rank  int
	venue Venue
}

func (v venueItem) Title() string {
	title := fmt.Sprintf("%d. %s", v.rank+1, v.venue.Name)
	if v.venue.HasHistoricalRisk {
		title += " ⚠"
	}
	return title
}

func (v venueItem) Description() string {
	parts := []string{v.venue.Address}
	if v.venue.VibeScore != nil {
		parts = append(parts, fmt.Sprintf("vibe %.2f", *v.venue.VibeScore))
	}
	if v.venue.Rating != nil {
		parts = append(parts, fmt.Sprintf("rated %.1f", *v.venue.Rating))
	}
	return strings.Join(parts, " · ")
}

func (v venueItem) FilterValue() string { return v.venue.Name }

// transportMsg delivers one transport event into the update loop. The
// handle identifies which transport produced it so events from a
// superseded session are ignored.
type transportMsg struct {
	from TransportHandle
	ev   TransportEvent
	ok   bool
}

// overlayMsg is the completion of one density-overlay fetch.
type overlayMsg struct {
	generation int
	points     []OverlayPoint
	err        error
}

// mapTickMsg drives the pulse cue on risk-flagged markers.
type mapTickMsg struct{}

type model struct {
	ctx     context.Context
	cfg     *Config
	session *Session
	mapView *TermMap
	adapter *MapAdapter
	overlay *OverlayController

	filters   []VibeFilter
	filterIdx int // -1 means no overlay filter selected
	queryCtx  string
	lastError string
	mapReady  bool

	venueList list.Model
	textarea  textarea.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles

	width  int
	height int
	mapW   int
	mapH   int
}

// NewModel wires the session state machine, map adapter, and overlay
// controller into one bubbletea program. All of their mutation happens
// inside Update, which bubbletea runs on a single goroutine — that is
// the client's whole concurrency story.
func NewModel(ctx context.Context, cfg *Config) *model {
	tm := NewTermMap()

	ta := textarea.New()
	ta.Placeholder = "e.g. cozy rooftop bars for six people downtown..."
	ta.Focus()
	ta.SetHeight(3)

	vl := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	vl.Title = "Ranked venues"
	vl.SetShowHelp(false)
	vl.SetShowStatusBar(false)
	vl.SetFilteringEnabled(false)

	vp := viewport.New(0, 0)

	st := ui.NewStyles()
	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = st.Searching

	return &model{
		ctx:       ctx,
		cfg:       cfg,
		session:   NewSession(cfg.StreamURL, cfg.AuthUserID),
		mapView:   tm,
		adapter:   NewMapAdapter(tm),
		overlay:   NewOverlayController(tm, cfg.APIBaseURL),
		filters:   VibeFilters(),
		filterIdx: -1,
		venueList: vl,
		textarea:  ta,
		viewport:  vp,
		spinner:   s,
		styles:    st,
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) uiMode() ui.Mode {
	switch m.session.Phase() {
	case PhaseSearching:
		return ui.ModeSearching
	case PhaseResults:
		return ui.ModeResults
	default:
		return ui.ModeQuery
	}
}

func (m *model) currentFilter() *VibeFilter {
	if m.filterIdx < 0 || m.filterIdx >= len(m.filters) {
		return nil
	}
	return &m.filters[m.filterIdx]
}

func (m *model) currentFilterName() string {
	if f := m.currentFilter(); f != nil {
		return f.Name
	}
	return ""
}

// feedContent renders the session's log feed for the activity viewport.
func (m *model) feedContent() string {
	var b strings.Builder
	for _, line := range m.session.LogFeed() {
		info := AgentDisplay(line.Agent)
		tag := lipgloss.NewStyle().Foreground(lipgloss.Color(info.Color)).Bold(true).Render(info.Display)
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			m.styles.Subtle.Render(line.At.Format("15:04:05")), tag, line.Message))
	}
	return b.String()
}

// actionPrompt pulls a user-facing question out of the result's
// action_request object; the backend is loose about the field name.
func actionPrompt(result *ResultPayload) string {
	for _, key := range []string{"message", "prompt", "question"} {
		if v, ok := result.ActionRequest[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func (m *model) detailContent() string {
	v := m.session.SelectedVenue()
	if v == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render(v.Name) + "\n")
	b.WriteString(m.styles.Subtle.Render(v.Address) + "\n")
	if v.HasHistoricalRisk {
		b.WriteString(m.styles.Risk.Render("⚠ past incidents reported here") + "\n")
	}
	scores := make([]string, 0, 3)
	if v.VibeScore != nil {
		scores = append(scores, fmt.Sprintf("vibe %.2f", *v.VibeScore))
	}
	if v.AccessibilityScore != nil {
		scores = append(scores, fmt.Sprintf("access %.2f", *v.AccessibilityScore))
	}
	if v.Rating != nil {
		scores = append(scores, fmt.Sprintf("rating %.1f", *v.Rating))
	}
	if len(scores) > 0 {
		b.WriteString(strings.Join(scores, " · ") + "\n")
	}
	if cp := v.CostProfile; cp != nil && cp.EstimatedPerPerson > 0 {
		b.WriteString(fmt.Sprintf("≈ $%.0f per person\n", cp.EstimatedPerPerson))
	}
	if v.Why != "" {
		b.WriteString(m.styles.Success.Render("why: ") + v.Why + "\n")
	}
	if v.WatchOut != "" {
		b.WriteString(m.styles.Error.Render("watch out: ") + v.WatchOut + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
