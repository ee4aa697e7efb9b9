// Package socket keeps one WebSocket per open chat room.
// Messages are never sent on it: it only announces room membership and
// receives the server broadcasts.
package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"rentchat/auth"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/domain/event"
	"rentchat/errors"
	"rentchat/runtime/workers"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type Dialer struct {
	url              string
	tokens           auth.TokenSource
	onUnauthorized   func()
	registry         contract.IRegistry
	log              *slog.Logger
	handshakeTimeout time.Duration
	restartInterval  time.Duration
}

// NewDialer builds the room dialer. onUnauthorized, when set, is called once
// the server refuses the handshake with a 401.
func NewDialer(url string, tokens auth.TokenSource, onUnauthorized func(), registry contract.IRegistry,
	log *slog.Logger, handshakeTimeout, restartInterval time.Duration) *Dialer {
	return &Dialer{
		url:              url,
		tokens:           tokens,
		onUnauthorized:   onUnauthorized,
		registry:         registry,
		log:              log,
		handshakeTimeout: handshakeTimeout,
		restartInterval:  restartInterval,
	}
}

// Dial opens the room socket, then announces join_room once the handshake succeeded.
// onError receives the read failure that ends the connection, if any.
func (d *Dialer) Dial(ctx context.Context, roomID domain.RoomID, onError func(error)) (contract.IRoomConnection, error) {
	if roomID == "" {
		return nil, errors.ErrMissingRoom
	}
	token, err := d.tokens.Token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errors.ErrNotAuthenticated
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.handshakeTimeout,
	}
	header := http.Header{}
	header.Set("Authorization", auth.BearerHeader(token))
	conn, res, err := dialer.DialContext(ctx, d.url, header)
	if err != nil {
		if res != nil && res.StatusCode == http.StatusUnauthorized {
			d.log.Warn("Socket handshake rejected, session expired", "room", roomID)
			if d.onUnauthorized != nil {
				d.onUnauthorized()
			}
			return nil, fmt.Errorf("%w: %v", errors.ErrSessionExpired, err)
		}
		return nil, fmt.Errorf("%w: websocket dial: %v", errors.ErrNetwork, err)
	}

	c := &Connection{
		room:       roomID,
		conn:       conn,
		log:        d.log,
		onError:    onError,
		done:       make(chan struct{}),
		supervisor: workers.NewSupervisor(d.log, d.restartInterval),
	}
	if err := c.write(Envelope{Type: EventJoinRoom, RoomID: roomID}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: join room: %v", errors.ErrNetwork, err)
	}
	d.log.Debug(fmt.Sprintf("Joined room %s", roomID))

	c.supervisor.Add(&reader{conn: c, registry: d.registry})
	go func() {
		defer close(c.done)
		c.supervisor.Run(context.Background())
	}()
	return c, nil
}

type Connection struct {
	room       domain.RoomID
	conn       *websocket.Conn
	log        *slog.Logger
	onError    func(error)
	writeMu    sync.Mutex
	closing    atomic.Bool
	closeOnce  sync.Once
	closeErr   error
	done       chan struct{}
	supervisor *workers.Supervisor
}

func (c *Connection) RoomID() domain.RoomID {
	return c.room
}

// Done is closed once the read loop has ended.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Close announces leave_room, sends a close frame and releases the socket.
// It can be called any number of times.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		if err := c.write(Envelope{Type: EventLeaveRoom, RoomID: c.room}); err != nil {
			c.log.Debug("Leave room not delivered", "room", c.room, "error", err)
		}
		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.writeMu.Unlock()
		c.closeErr = c.conn.Close()
		c.supervisor.Stop()
		<-c.done
		c.log.Debug(fmt.Sprintf("Left room %s", c.room))
	})
	return c.closeErr
}

func (c *Connection) write(envelope Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(envelope)
}

// reader pumps server frames into the registry.
// A read failure ends it without reconnecting.
type reader struct {
	conn     *Connection
	registry contract.IRegistry
}

func (r *reader) Run(ctx context.Context) error {
	c := r.conn
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.closing.Load() || ctx.Err() != nil {
				return nil
			}
			c.log.Warn("Room socket read failed", "room", c.room, "error", err)
			r.dispatch(ctx, event.ConnectionLost{Room: c.room, Err: err})
			if c.onError != nil {
				c.onError(fmt.Errorf("%w: %v", errors.ErrNetwork, err))
			}
			return nil
		}
		if err := r.handle(ctx, data); err != nil {
			c.log.Warn("Dropping socket frame", "room", c.room, "error", err)
		}
	}
}

func (r *reader) handle(ctx context.Context, data []byte) error {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	switch envelope.Type {
	case EventNewMessage:
		var message domain.Message
		if err := json.Unmarshal(envelope.Payload, &message); err != nil {
			return fmt.Errorf("decode message: %w", err)
		}
		if message.ChatRoomID == "" {
			message.ChatRoomID = envelope.RoomID
		}
		r.dispatch(ctx, event.MessageReceived{Message: message})
		return nil
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnknownEvent, envelope.Type)
	}
}

func (r *reader) dispatch(ctx context.Context, e event.DomainEvent) {
	for _, sink := range r.registry.GetSinksForRoom(e.RoomID()) {
		if err := sink.Consume(ctx, e); err != nil {
			r.conn.log.Warn("Sink failed to consume event", "room", e.RoomID(), "error", err)
		}
	}
}
