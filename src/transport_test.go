package src

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func collectEvents(t *testing.T, tr *Transport) []TransportEvent {
	t.Helper()
	var events []TransportEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-tr.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("timed out waiting for transport events")
		}
	}
}

func TestTransportStreamAndCleanClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)

		ctx := r.Context()
		var req SearchRequest
		require.NoError(t, wsjson.Read(ctx, conn, &req))
		assert.Equal(t, "cozy bars", req.Prompt)

		require.NoError(t, conn.Write(ctx, websocket.MessageText,
			[]byte(`{"type":"log","node":"scout","message":"working"}`)))
		require.NoError(t, conn.Write(ctx, websocket.MessageText,
			[]byte(`{"type":"result","data":{"venues":[]}}`)))
		conn.Close(websocket.StatusNormalClosure, "done")
	}))
	defer srv.Close()

	ctx := context.Background()
	tr, err := OpenTransport(ctx, wsURL(srv))
	require.NoError(t, err)

	// First event is always Ready; the search frame goes out after it.
	ev := <-tr.Events()
	require.Equal(t, TransportReady, ev.Kind)
	tr.Send(ctx, &SearchRequest{Prompt: "cozy bars"})

	events := collectEvents(t, tr)
	require.Len(t, events, 3)
	assert.Equal(t, TransportFrame, events[0].Kind)
	assert.Contains(t, string(events[0].Raw), `"scout"`)
	assert.Equal(t, TransportFrame, events[1].Kind)
	assert.Equal(t, TransportClosed, events[2].Kind)
	assert.True(t, events[2].WasClean)
}

func TestTransportDroppedConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		// Kill the connection without a close handshake.
		conn.CloseNow()
	}))
	defer srv.Close()

	tr, err := OpenTransport(context.Background(), wsURL(srv))
	require.NoError(t, err)

	events := collectEvents(t, tr)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, TransportClosed, last.Kind)
	assert.False(t, last.WasClean)
}

func TestTransportLocalCloseIsClean(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		// Keep reading until the client closes.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	tr, err := OpenTransport(ctx, wsURL(srv))
	require.NoError(t, err)

	ev := <-tr.Events()
	require.Equal(t, TransportReady, ev.Kind)

	tr.Close()
	tr.Close() // idempotent

	events := collectEvents(t, tr)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, TransportClosed, last.Kind)
	assert.True(t, last.WasClean, "owner-initiated close is a normal closure")

	// Sending on a closed handle is dropped, never a panic.
	tr.Send(ctx, &SearchRequest{Prompt: "late"})
}

func TestTransportDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := OpenTransport(ctx, "ws://127.0.0.1:1/ws/plan")
	assert.Error(t, err)
}
