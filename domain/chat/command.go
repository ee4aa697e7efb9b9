package chat

import (
	"rentchat/domain"
)

type Command interface {
	RoomID() domain.RoomID
}

// JoinRoomCommand announces room membership once the socket handshake is done.
type JoinRoomCommand struct {
	Room domain.RoomID
}

func (j JoinRoomCommand) RoomID() domain.RoomID {
	return j.Room
}

// LeaveRoomCommand announces departure right before the socket is closed.
type LeaveRoomCommand struct {
	Room domain.RoomID
}

func (l LeaveRoomCommand) RoomID() domain.RoomID {
	return l.Room
}

// PostMessageCommand is the REST submission of a composed message.
type PostMessageCommand struct {
	Room     domain.RoomID
	Content  string
	Media    []domain.Media
	Metadata *domain.MessageMetadata
}

func (p PostMessageCommand) RoomID() domain.RoomID {
	return p.Room
}

// GetMessageCommand requests one page of history, pages start at 1.
type GetMessageCommand struct {
	Room  domain.RoomID
	Page  int
	Limit int
}

func (g GetMessageCommand) RoomID() domain.RoomID {
	return g.Room
}
