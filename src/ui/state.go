package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

// Mode represents the current UI state, mirroring the session phase.
type Mode int

const (
	ModeQuery Mode = iota
	ModeSearching
	ModeResults
)

// State contains all the data required to render the UI. This
// decouples the renderer from the session and map logic: everything
// here is either a bubble model or a pre-rendered string.
type State struct {
	Mode         Mode
	Width        int
	Height       int
	Query        string
	ActiveAgent  string
	ErrorText    string
	FilterName   string
	MapPane      string
	DetailPane   string
	Consensus    string
	ActionPrompt string

	// Bubble Tea models
	VenueList list.Model
	Viewport  viewport.Model
	TextArea  textarea.Model
	Spinner   spinner.Model
}
