package src

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// TransportEventKind discriminates the three observable transport events.
type TransportEventKind int

const (
	TransportReady TransportEventKind = iota
	TransportFrame
	TransportClosed
)

// TransportEvent is one event from the streaming channel, consumed in
// arrival order by the session's single event-processing path.
type TransportEvent struct {
	Kind TransportEventKind
	// Raw is the frame payload, set for TransportFrame.
	Raw []byte
	// WasClean reports whether a TransportClosed was a normal closure:
	// either the owner closed the handle or the backend sent a normal
	// close status. Anything else is a dropped connection.
	WasClean bool
}

// Transport wraps one WebSocket connection to the planner backend. A
// handle lives for exactly one search session: opened on submit, closed
// on the terminal result, on error, or on reset. Never reused.
type Transport struct {
	conn       *websocket.Conn
	events     chan TransportEvent
	closed     atomic.Bool
	localClose atomic.Bool
}

// OpenTransport dials the planner's streaming endpoint and starts the
// reader. The Ready event is the first thing emitted on Events.
func OpenTransport(ctx context.Context, url string) (*Transport, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	// Result payloads can be large; frames are read fully into memory.
	conn.SetReadLimit(8 << 20)

	t := &Transport{
		conn:   conn,
		events: make(chan TransportEvent, 64),
	}
	go t.readLoop(ctx)
	return t, nil
}

// Events returns the transport's event stream. The channel is closed
// after the Closed event is delivered.
func (t *Transport) Events() <-chan TransportEvent {
	return t.events
}

// Send writes one JSON message to the backend. Sending on a closed
// handle is a caller error, not a protocol error: it is logged and
// dropped rather than surfaced.
func (t *Transport) Send(ctx context.Context, v any) {
	if t.closed.Load() {
		slog.Warn("ws: send on closed transport dropped")
		return
	}
	if err := wsjson.Write(ctx, t.conn, v); err != nil {
		slog.Warn("ws: send failed", "error", err)
	}
}

// Close shuts the connection down as a normal closure. Idempotent: safe
// to call repeatedly or on an already-dead handle.
func (t *Transport) Close() {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	t.localClose.Store(true)
	_ = t.conn.Close(websocket.StatusNormalClosure, "session done")
}

func (t *Transport) readLoop(ctx context.Context) {
	t.events <- TransportEvent{Kind: TransportReady}
	for {
		_, data, err := t.conn.Read(ctx)
		if err != nil {
			clean := t.localClose.Load() ||
				websocket.CloseStatus(err) == websocket.StatusNormalClosure
			if !clean {
				slog.Warn("ws: connection dropped", "error", err)
			}
			t.closed.Store(true)
			t.events <- TransportEvent{Kind: TransportClosed, WasClean: clean}
			close(t.events)
			return
		}
		t.events <- TransportEvent{Kind: TransportFrame, Raw: data}
	}
}
