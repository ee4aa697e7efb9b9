package event

import (
	"rentchat/domain"
)

// DomainEvent is anything pushed to the client for a given room.
type DomainEvent interface {
	RoomID() domain.RoomID
}

// MessageReceived is emitted when the server broadcasts a new message.
type MessageReceived struct {
	Message domain.Message
}

func (m MessageReceived) RoomID() domain.RoomID {
	return m.Message.ChatRoomID
}

// ConnectionLost is emitted once when the room socket stops reading.
type ConnectionLost struct {
	Room domain.RoomID
	Err  error
}

func (c ConnectionLost) RoomID() domain.RoomID {
	return c.Room
}
