package socket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"rentchat/domain"
	"rentchat/errors"
	"rentchat/projection"
	"rentchat/runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token() (string, error) { return string(s), nil }

// roomServer records every frame the client sends, in order, and lets the test push frames.
type roomServer struct {
	server   *httptest.Server
	received chan Envelope
	closed   chan struct{}
	conns    chan *websocket.Conn
	auth     chan string
}

func newRoomServer(t *testing.T) *roomServer {
	rs := &roomServer{
		received: make(chan Envelope, 16),
		closed:   make(chan struct{}),
		conns:    make(chan *websocket.Conn, 1),
		auth:     make(chan string, 1),
	}
	upgrader := websocket.Upgrader{}
	rs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.auth <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		rs.conns <- conn
		defer close(rs.closed)
		for {
			var envelope Envelope
			if err := conn.ReadJSON(&envelope); err != nil {
				return
			}
			rs.received <- envelope
		}
	}))
	t.Cleanup(rs.server.Close)
	return rs
}

func (rs *roomServer) url() string {
	return "ws" + strings.TrimPrefix(rs.server.URL, "http")
}

func (rs *roomServer) push(t *testing.T, conn *websocket.Conn, message domain.Message) {
	payload, err := json.Marshal(message)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Envelope{Type: EventNewMessage, RoomID: message.ChatRoomID, Payload: payload}))
}

func TestDialer_Join_After_Handshake_Leave_Before_Close(t *testing.T) {
	req := require.New(t)

	// Given a room server and a registered timeline
	rs := newRoomServer(t)
	registry := runtime.NewRegistry()
	dialer := NewDialer(rs.url(), staticTokens("token-abc"), nil, registry, slog.Default(), time.Second, 10*time.Millisecond)

	// When dialing then closing
	conn, err := dialer.Dial(context.Background(), "room-1", nil)
	req.NoError(err)
	req.Equal("Bearer token-abc", <-rs.auth)
	req.Equal(Envelope{Type: EventJoinRoom, RoomID: "room-1"}, <-rs.received)
	req.NoError(conn.Close())

	// Then leave_room is the last frame before the socket is closed
	req.Equal(Envelope{Type: EventLeaveRoom, RoomID: "room-1"}, <-rs.received)
	select {
	case <-rs.closed:
	case <-time.After(2 * time.Second):
		req.Fail("server connection not closed")
	}
	req.Empty(rs.received)

	// Then closing again is harmless
	req.NoError(conn.Close())
	select {
	case <-conn.Done():
	default:
		req.Fail("read loop still running after close")
	}
}

func TestDialer_Dispatches_New_Message_To_Room_Sinks(t *testing.T) {
	req := require.New(t)

	// Given a timeline subscribed to room-1
	rs := newRoomServer(t)
	registry := runtime.NewRegistry()
	timeline := projection.NewTimeline("room-1", slog.Default())
	registry.Subscribe("session-1", "room-1", timeline)
	dialer := NewDialer(rs.url(), staticTokens("token-abc"), nil, registry, slog.Default(), time.Second, 10*time.Millisecond)

	conn, err := dialer.Dial(context.Background(), "room-1", nil)
	req.NoError(err)
	defer conn.Close()
	server := <-rs.conns

	// When the server broadcasts a message twice
	message := domain.Message{ID: "m1", Content: "Hello", ChatRoomID: "room-1", CreatedAt: time.Now()}
	rs.push(t, server, message)
	rs.push(t, server, message)

	// Then the timeline holds it once
	req.Eventually(func() bool { return timeline.Contains("m1") }, time.Second, 10*time.Millisecond)
	req.Never(func() bool { return timeline.Len() > 1 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestDialer_Read_Error_Is_Reported(t *testing.T) {
	req := require.New(t)

	// Given an open connection
	rs := newRoomServer(t)
	dialer := NewDialer(rs.url(), staticTokens("token-abc"), nil, runtime.NewRegistry(), slog.Default(), time.Second, 10*time.Millisecond)
	reported := make(chan error, 1)
	conn, err := dialer.Dial(context.Background(), "room-1", func(err error) { reported <- err })
	req.NoError(err)
	defer conn.Close()

	// When the server drops the socket
	server := <-rs.conns
	req.NoError(server.Close())

	// Then the error reaches the handler and the read loop ends
	select {
	case err := <-reported:
		req.ErrorIs(err, errors.ErrNetwork)
	case <-time.After(2 * time.Second):
		req.Fail("read error not reported")
	}
	req.Eventually(func() bool {
		select {
		case <-conn.Done():
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestDialer_Preconditions(t *testing.T) {
	req := require.New(t)
	dialer := NewDialer("ws://127.0.0.1:0", staticTokens(""), nil, runtime.NewRegistry(), slog.Default(), time.Second, time.Second)

	_, err := dialer.Dial(context.Background(), "", nil)
	req.ErrorIs(err, errors.ErrMissingRoom)

	_, err = dialer.Dial(context.Background(), "room-1", nil)
	req.ErrorIs(err, errors.ErrNotAuthenticated)
}

func TestDialer_Rejected_Handshake_Expires_Session(t *testing.T) {
	req := require.New(t)

	// Given a server refusing the token at handshake
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()
	expired := 0
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	dialer := NewDialer(url, staticTokens("revoked"), func() { expired++ }, runtime.NewRegistry(),
		slog.Default(), time.Second, time.Second)

	// When dialing a room
	_, err := dialer.Dial(context.Background(), "room-1", nil)

	// Then the session is reported expired
	req.ErrorIs(err, errors.ErrSessionExpired)
	req.Equal(1, expired)
}

func TestDialer_Network_Failure_Keeps_Session(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()
	expired := 0
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	dialer := NewDialer(url, staticTokens("token-abc"), func() { expired++ }, runtime.NewRegistry(),
		slog.Default(), time.Second, time.Second)

	_, err := dialer.Dial(context.Background(), "room-1", nil)

	req.ErrorIs(err, errors.ErrNetwork)
	req.Zero(expired)
}
