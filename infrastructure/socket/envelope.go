package socket

import (
	"encoding/json"
	"rentchat/domain"
)

type EventType string

const (
	EventJoinRoom   EventType = "join_room"
	EventLeaveRoom  EventType = "leave_room"
	EventNewMessage EventType = "new_message"
)

// Envelope is the JSON frame exchanged on the room socket.
type Envelope struct {
	Type    EventType       `json:"type"`
	RoomID  domain.RoomID   `json:"roomId"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
