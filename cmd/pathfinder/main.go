package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	. "github.com/pathfinder-labs/pathfinder-tui/src"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml")
		headless   = flag.Bool("headless", false, "run one search without the TUI")
		prompt     = flag.String("prompt", "", "search prompt (headless mode)")
		noStream   = flag.Bool("no-stream", false, "use the blocking plan endpoint instead of streaming")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if *headless {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		if _, err := RunHeadless(ctx, cfg, *prompt, *noStream); err != nil {
			fmt.Fprintln(os.Stderr, "search failed:", err)
			os.Exit(1)
		}
		return
	}

	// The TUI owns the terminal, so logs go to a file (or nowhere).
	logSink := io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		logSink = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logSink, nil)))

	m := NewModel(ctx, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
