package src

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// HistoryEntry is one completed search, appended to the history file
// as a single JSON line.
type HistoryEntry struct {
	At        time.Time `json:"at"`
	Query     string    `json:"query"`
	Venues    []Venue   `json:"venues"`
	Consensus string    `json:"consensus,omitempty"`
}

type historyWrittenMsg struct {
	err error
}

// defaultHistoryPath sits next to the config file.
func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pathfinder", "history.jsonl")
}

// AppendHistory records one completed search. A missing parent
// directory is created; an unwritable path is the caller's problem to
// log, not a reason to fail a search.
func AppendHistory(path string, entry HistoryEntry) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(entry)
}

func (m *model) appendHistoryCmd() tea.Cmd {
	result := m.session.Result()
	if result == nil {
		return nil
	}
	entry := HistoryEntry{
		At:        time.Now(),
		Query:     m.session.Query(),
		Venues:    result.Venues,
		Consensus: result.GlobalConsensus,
	}
	path := m.cfg.HistoryFile
	return func() tea.Msg {
		return historyWrittenMsg{err: AppendHistory(path, entry)}
	}
}
