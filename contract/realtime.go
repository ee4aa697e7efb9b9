//go:generate go run go.uber.org/mock/mockgen -source=realtime.go -destination=../mocks/mock_realtime.go -package=mocks
package contract

import (
	"context"
	"rentchat/domain"
)

// IRoomDialer opens the live channel of one chat room.
// onError receives read failures, the connection does not reconnect.
type IRoomDialer interface {
	Dial(ctx context.Context, roomID domain.RoomID, onError func(error)) (IRoomConnection, error)
}

type IRoomConnection interface {
	RoomID() domain.RoomID
	Done() <-chan struct{}
	Close() error
}
