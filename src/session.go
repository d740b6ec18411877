package src

import (
	"context"
	"log/slog"
	"time"
)

// Phase is the lifecycle stage of a search session. Transitions only
// move forward (Idle → Searching → Results) or reset back to Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSearching
	PhaseResults
)

func (p Phase) String() string {
	switch p {
	case PhaseSearching:
		return "searching"
	case PhaseResults:
		return "results"
	default:
		return "idle"
	}
}

// LogLine is one agent progress entry in the session's append-only feed.
type LogLine struct {
	Agent   string
	Message string
	At      time.Time
}

// TransportHandle is the part of Transport the session owns. Split out
// so tests can drive the state machine without a live connection.
type TransportHandle interface {
	Send(ctx context.Context, v any)
	Close()
	Events() <-chan TransportEvent
}

// DialFunc opens a streaming connection to the planner.
type DialFunc func(ctx context.Context, url string) (TransportHandle, error)

// Session is the authoritative search lifecycle state machine. All
// mutation happens through its methods, which are only ever called from
// the single event-processing path (the bubbletea update loop), so no
// locking is needed. It owns at most one live transport handle.
type Session struct {
	wsURL  string
	userID string
	dial   DialFunc

	phase       Phase
	query       string
	activeAgent string
	logFeed     []LogLine
	result      *ResultPayload
	selected    int

	transport TransportHandle
	pending   *SearchRequest
}

// NewSession returns an idle session that dials wsURL on submit.
func NewSession(wsURL, userID string) *Session {
	return &Session{
		wsURL:  wsURL,
		userID: userID,
		dial: func(ctx context.Context, url string) (TransportHandle, error) {
			return OpenTransport(ctx, url)
		},
	}
}

func (s *Session) Phase() Phase           { return s.phase }
func (s *Session) Query() string          { return s.query }
func (s *Session) ActiveAgent() string    { return s.activeAgent }
func (s *Session) LogFeed() []LogLine     { return s.logFeed }
func (s *Session) Result() *ResultPayload { return s.result }
func (s *Session) SelectedIndex() int     { return s.selected }

// Transport exposes the live handle so the owner can pump its events.
// Nil outside the Searching phase.
func (s *Session) Transport() TransportHandle { return s.transport }

// SelectedVenue returns the currently selected venue, or nil outside
// the Results phase.
func (s *Session) SelectedVenue() *Venue {
	if s.result == nil || s.selected >= len(s.result.Venues) {
		return nil
	}
	return &s.result.Venues[s.selected]
}

// Submit starts a new search: any prior session state is released
// first, so at most one transport is ever open. The search frame itself
// is sent once the transport signals ready. On dial failure the session
// stays in Idle so the user can retry.
func (s *Session) Submit(ctx context.Context, query string, locations []MemberLocation) error {
	s.Reset()

	t, err := s.dial(ctx, s.wsURL)
	if err != nil {
		slog.Warn("session: dial failed", "error", err)
		return err
	}
	s.transport = t
	s.query = query
	s.pending = &SearchRequest{
		Prompt:          query,
		MemberLocations: locations,
		AuthUserID:      s.userID,
	}
	s.phase = PhaseSearching
	slog.Info("session: searching", "query", query)
	return nil
}

// HandleTransportEvent feeds one transport event through the state
// machine. Events from a handle the session no longer owns (a reset
// raced a still-draining reader) are ignored outright.
func (s *Session) HandleTransportEvent(ctx context.Context, from TransportHandle, ev TransportEvent) {
	if from != s.transport {
		return
	}
	switch ev.Kind {
	case TransportReady:
		if s.phase == PhaseSearching && s.pending != nil {
			s.transport.Send(ctx, s.pending)
			s.pending = nil
		}
	case TransportFrame:
		s.handleFrame(ev.Raw)
	case TransportClosed:
		s.handleClosed(ev.WasClean)
	}
}

func (s *Session) handleFrame(raw []byte) {
	event, err := DecodeFrame(raw)
	if err != nil {
		// Tolerate a noisy or partially incompatible backend.
		slog.Warn("session: dropping frame", "error", err)
		return
	}
	switch ev := event.(type) {
	case LogEvent:
		if s.phase != PhaseSearching {
			// Protocol violation by the backend; the result already
			// terminated this session.
			return
		}
		s.logFeed = append(s.logFeed, LogLine{Agent: ev.Node, Message: ev.Message, At: time.Now()})
		s.activeAgent = ev.Node
	case ResultEvent:
		if s.phase != PhaseSearching {
			return
		}
		payload := ev.Payload
		s.result = &payload
		s.activeAgent = ""
		s.selected = 0
		s.phase = PhaseResults
		s.transport.Close()
		s.transport = nil
		slog.Info("session: results", "venues", len(payload.Venues))
	}
}

func (s *Session) handleClosed(wasClean bool) {
	// A close that lingers after the result frame does not undo
	// success, and a close with no session in flight has nothing to
	// clean up.
	if s.phase != PhaseSearching {
		return
	}
	s.transport = nil
	s.pending = nil
	if !wasClean {
		slog.Warn("session: search failed, connection dropped")
	} else {
		slog.Warn("session: backend closed before sending a result")
	}
	s.clearTransient()
	s.phase = PhaseIdle
}

// Select picks venue i from the result set. Out-of-range indices and
// calls outside the Results phase are ignored.
func (s *Session) Select(i int) {
	if s.phase != PhaseResults || s.result == nil {
		return
	}
	if i < 0 || i >= len(s.result.Venues) {
		return
	}
	s.selected = i
}

// Reset returns the session to Idle unconditionally, releasing the
// transport handle if one is still open.
func (s *Session) Reset() {
	if s.transport != nil {
		s.transport.Close()
		s.transport = nil
	}
	s.pending = nil
	s.clearTransient()
	s.result = nil
	s.query = ""
	s.phase = PhaseIdle
}

func (s *Session) clearTransient() {
	s.logFeed = nil
	s.activeAgent = ""
	s.result = nil
	s.selected = 0
}
