package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoom_Counterpart(t *testing.T) {
	req := require.New(t)
	room := Room{
		ID: "room-1",
		Participants: []Participant{
			{ID: "p1", UserID: "alice", ChatRoomID: "room-1", User: UserSummary{ID: "alice", FirstName: "Alice"}},
			{ID: "p2", UserID: "bob", ChatRoomID: "room-1", User: UserSummary{ID: "bob", FirstName: "Bob"}},
		},
	}

	// When Alice looks for the other member
	other, ok := room.Counterpart("alice")

	// Then Bob is returned
	req.True(ok)
	req.Equal(UserID("bob"), other.UserID)
	req.True(room.HasParticipant("bob"))
	req.False(room.HasParticipant("clara"))
}

func TestRoom_LastMessage(t *testing.T) {
	req := require.New(t)
	at := time.Now().UTC()
	room := Room{Messages: []Message{
		{ID: "m1", Content: "first", CreatedAt: at},
		{ID: "m3", Content: "last", CreatedAt: at.Add(2 * time.Minute)},
		{ID: "m2", Content: "second", CreatedAt: at.Add(time.Minute)},
	}}

	last, ok := room.LastMessage()
	req.True(ok)
	req.Equal(MessageID("m3"), last.ID)

	_, ok = Room{}.LastMessage()
	req.False(ok)
}

func TestItem_Reference(t *testing.T) {
	req := require.New(t)
	item := Item{ID: "item-1", Title: "Camping tent", PricePerDay: 12.5, Images: []string{"https://cdn/tent.jpg"}}

	ref := item.Reference()

	req.Equal(MetadataTypeItem, ref.Type)
	req.Equal(ItemID("item-1"), ref.ItemID)
	req.Equal("https://cdn/tent.jpg", ref.Image)
	req.Equal(12.5, ref.PricePerDay)
}
