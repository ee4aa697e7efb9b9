package runtime

import (
	"context"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/domain/event"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Room_One_Subscriber(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	subscriberID := uuid.NewString()
	roomID := domain.RoomID("room-1")
	sink := Sink{name: "timeline"}

	// Given no room is listened
	req.Nil(registry.GetSinksForRoom(roomID))
	req.Zero(registry.Rooms())

	// When a timeline subscribes a room
	registry.Subscribe(subscriberID, roomID, sink)

	// Then
	req.Equal(1, registry.Rooms())
	req.Len(registry.GetSinksForRoom(roomID), 1)
	req.Contains(registry.GetSinksForRoom(roomID), sink)
}

func TestRegistry_Subscribe_One_Room_Multiple_Subscribers(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	roomID := domain.RoomID("room-1")
	sink1 := Sink{name: "timeline"}
	sink2 := Sink{name: "notifier"}

	registry.Subscribe(uuid.NewString(), roomID, sink1)
	registry.Subscribe(uuid.NewString(), roomID, sink2)

	req.Equal(1, registry.Rooms())
	req.Len(registry.GetSinksForRoom(roomID), 2)
	req.Contains(registry.GetSinksForRoom(roomID), sink1)
	req.Contains(registry.GetSinksForRoom(roomID), sink2)
}

func TestRegistry_UnSubscribe_One_Room_One_Subscriber(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	subscriberID := uuid.NewString()
	roomID := domain.RoomID("room-1")

	// Given a timeline subscribes a room
	registry.Subscribe(subscriberID, roomID, Sink{})

	// When it unsubscribes
	registry.Unsubscribe(subscriberID, roomID)

	// Then the room doesn't exist anymore
	req.Zero(registry.Rooms())
	req.Nil(registry.GetSinksForRoom(roomID))
}

func TestRegistry_UnSubscribe_Keeps_Other_Rooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	subscriberID1 := uuid.NewString()
	subscriberID2 := uuid.NewString()
	sink2 := Sink{name: "other"}

	registry.Subscribe(subscriberID1, "room-1", Sink{name: "one"})
	registry.Subscribe(subscriberID2, "room-2", sink2)

	registry.Unsubscribe(subscriberID1, "room-1")

	req.Equal(1, registry.Rooms())
	req.Nil(registry.GetSinksForRoom("room-1"))
	req.Equal([]contract.EventSink{sink2}, registry.GetSinksForRoom("room-2"))
}
