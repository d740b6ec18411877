package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

func TestRenderContainsHeader(t *testing.T) {
	styles := NewStyles()
	ta := textarea.New()
	ta.SetWidth(80)

	state := State{
		Mode:     ModeQuery,
		TextArea: ta,
	}

	output := Render(state, styles)

	if !strings.Contains(output, "Pathfinder") {
		t.Errorf("Expected output to contain the Pathfinder header")
	}
}

func TestRenderQueryModeShowsPromptAndError(t *testing.T) {
	styles := NewStyles()
	ta := textarea.New()
	ta.SetWidth(80)

	state := State{
		Mode:      ModeQuery,
		TextArea:  ta,
		ErrorText: "Could not reach the planner",
	}

	output := Render(state, styles)

	if !strings.Contains(output, "Where does the group want to go?") {
		t.Errorf("Expected query mode to show the prompt subtitle")
	}
	if !strings.Contains(output, "Could not reach the planner") {
		t.Errorf("Expected query mode to surface the error text")
	}
}

func TestRenderSearchingShowsQueryAndAgent(t *testing.T) {
	styles := NewStyles()
	vp := viewport.New(80, 20)
	sp := spinner.New()

	state := State{
		Mode:        ModeSearching,
		Query:       "cozy rooftop bars",
		ActiveAgent: "Scout",
		Viewport:    vp,
		Spinner:     sp,
	}

	output := Render(state, styles)

	if !strings.Contains(output, "cozy rooftop bars") {
		t.Errorf("Expected searching mode to show the in-flight query")
	}
	if !strings.Contains(output, "Scout") {
		t.Errorf("Expected searching mode to show the active agent tag")
	}
}

func TestRenderResultsShowsPanesAndConsensus(t *testing.T) {
	styles := NewStyles()
	venues := list.New([]list.Item{}, list.NewDefaultDelegate(), 40, 10)

	state := State{
		Mode:         ModeResults,
		VenueList:    venues,
		MapPane:      "MAPSURFACE",
		DetailPane:   "The Alcove",
		Consensus:    "Cozy and central won out.",
		ActionPrompt: "Should I book a table for 8pm?",
	}

	output := Render(state, styles)

	if !strings.Contains(output, "MAPSURFACE") {
		t.Errorf("Expected results mode to embed the map pane")
	}
	if !strings.Contains(output, "The Alcove") {
		t.Errorf("Expected results mode to embed the detail pane")
	}
	if !strings.Contains(output, "Cozy and central won out.") {
		t.Errorf("Expected results mode to show the consensus line")
	}
	if !strings.Contains(output, "Should I book a table for 8pm?") {
		t.Errorf("Expected results mode to show the action prompt")
	}
}

func TestRenderFooterPerMode(t *testing.T) {
	styles := NewStyles()
	ta := textarea.New()
	ta.SetWidth(80)

	query := Render(State{Mode: ModeQuery, TextArea: ta}, styles)
	if !strings.Contains(query, "ctrl+c: quit") {
		t.Errorf("Expected footer to contain quit instruction")
	}
	if !strings.Contains(query, "enter: search") {
		t.Errorf("Expected query footer to mention enter")
	}

	results := Render(State{
		Mode:      ModeResults,
		VenueList: list.New([]list.Item{}, list.NewDefaultDelegate(), 40, 10),
	}, styles)
	if !strings.Contains(results, "v: cycle vibe overlay") {
		t.Errorf("Expected results footer to mention the overlay keys")
	}
}

func TestRenderFooterShowsActiveFilter(t *testing.T) {
	styles := NewStyles()

	output := Render(State{
		Mode:       ModeResults,
		VenueList:  list.New([]list.Item{}, list.NewDefaultDelegate(), 40, 10),
		FilterName: "cozy",
	}, styles)

	if !strings.Contains(output, "overlay: cozy") {
		t.Errorf("Expected footer to show the active overlay filter")
	}
}

func TestNewStyles(t *testing.T) {
	styles := NewStyles()

	if styles.Header.GetPaddingLeft() < 0 {
		t.Errorf("Header style should be initialized")
	}
	if styles.Accent.GetForeground() == nil {
		t.Errorf("Accent style should have a foreground color")
	}
}
