package src

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// HeadlessResult is one completed search: the agent feed that produced
// it and the ranked venues.
type HeadlessResult struct {
	Feed      []LogLine
	Venues    []Venue
	Consensus string
}

// RunHeadless performs a single search without the TUI and prints the
// agent feed and ranked venues to stdout. It streams over the WebSocket
// unless noStream is set; when streaming is unavailable it falls back
// to the blocking HTTP plan endpoint.
func RunHeadless(ctx context.Context, cfg *Config, prompt string, noStream bool) (*HeadlessResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New("prompt cannot be empty")
	}

	if !noStream {
		res, err := runHeadlessStream(ctx, cfg, prompt)
		if err == nil {
			printResult(res)
			recordHistory(cfg, prompt, res)
			return res, nil
		}
		slog.Warn("streaming search failed, falling back to plan endpoint", "error", err)
	}

	client := NewPlanClient(cfg.APIBaseURL)
	resp, err := client.Plan(ctx, PlanRequest{
		Prompt:          prompt,
		MemberLocations: cfg.Members,
	})
	if err != nil {
		if errors.Is(err, ErrPlanTimeout) {
			return nil, fmt.Errorf("the planner took too long to answer: %w", err)
		}
		return nil, fmt.Errorf("plan request failed: %w", err)
	}

	res := &HeadlessResult{Venues: resp.Venues, Consensus: resp.ExecutionSummary}
	printResult(res)
	recordHistory(cfg, prompt, res)
	return res, nil
}

func recordHistory(cfg *Config, prompt string, res *HeadlessResult) {
	err := AppendHistory(cfg.HistoryFile, HistoryEntry{
		At:        time.Now(),
		Query:     prompt,
		Venues:    res.Venues,
		Consensus: res.Consensus,
	})
	if err != nil {
		slog.Warn("history: append failed", "error", err)
	}
}

func runHeadlessStream(ctx context.Context, cfg *Config, prompt string) (*HeadlessResult, error) {
	session := NewSession(cfg.StreamURL, cfg.AuthUserID)
	defer session.Reset()

	if err := session.Submit(ctx, prompt, cfg.Members); err != nil {
		return nil, err
	}

	transport := session.Transport()
	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-transport.Events():
			if !ok {
				return nil, errors.New("stream ended without a result")
			}
			session.HandleTransportEvent(ctx, transport, ev)
			for _, line := range session.LogFeed()[printed:] {
				fmt.Printf("[%s] %s\n", AgentDisplay(line.Agent).Display, line.Message)
				printed++
			}
			switch session.Phase() {
			case PhaseResults:
				result := session.Result()
				return &HeadlessResult{
					Feed:      session.LogFeed(),
					Venues:    result.Venues,
					Consensus: result.GlobalConsensus,
				}, nil
			case PhaseIdle:
				return nil, errors.New("connection dropped before a result arrived")
			}
		}
	}
}

func printResult(res *HeadlessResult) {
	fmt.Println()
	for i, v := range res.Venues {
		marker := " "
		if v.HasHistoricalRisk {
			marker = "⚠"
		}
		fmt.Printf("%2d.%s %s — %s\n", i+1, marker, v.Name, v.Address)
		if v.VibeScore != nil {
			fmt.Printf("      vibe %.2f", *v.VibeScore)
			if v.Rating != nil {
				fmt.Printf(" · rated %.1f", *v.Rating)
			}
			fmt.Println()
		}
		if v.Why != "" {
			fmt.Printf("      %s\n", v.Why)
		}
	}
	if res.Consensus != "" {
		fmt.Printf("\nGroup consensus: %s\n", res.Consensus)
	}
}
