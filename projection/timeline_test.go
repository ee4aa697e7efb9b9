package projection

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"rentchat/domain"
	"rentchat/domain/event"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const room = domain.RoomID("room-1")

func message(id string, at time.Time) domain.Message {
	return domain.Message{
		ID:         domain.MessageID(id),
		Content:    "content " + id,
		SenderID:   "alice",
		ChatRoomID: room,
		CreatedAt:  at,
	}
}

func ids(messages []domain.Message) []domain.MessageID {
	return lo.Map(messages, func(m domain.Message, _ int) domain.MessageID { return m.ID })
}

func TestTimeline_Consume_MessageReceived(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(room, logs.GetLoggerFromLevel(slog.LevelDebug))
	ctx := context.Background()
	at := time.Now()

	err := timeline.Consume(ctx, event.MessageReceived{Message: message("m1", at)})
	req.NoError(err)
	err = timeline.Consume(ctx, event.MessageReceived{Message: message("m2", at.Add(time.Second))})
	req.NoError(err)

	// A message for another room is ignored
	other := message("m3", at)
	other.ChatRoomID = "room-2"
	req.NoError(timeline.Consume(ctx, event.MessageReceived{Message: other}))

	req.Equal([]domain.MessageID{"m1", "m2"}, ids(timeline.Messages()))
}

func TestTimeline_MergePage_Prepend_Skips_Known_Ids(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(room, slog.Default())
	at := time.Now()

	// Given a live message arrived first
	req.True(timeline.AppendLive(message("m3", at.Add(3*time.Minute))))

	// When an older page containing it is merged in front
	added := timeline.MergePage([]domain.Message{
		message("m1", at),
		message("m2", at.Add(time.Minute)),
		message("m3", at.Add(3*time.Minute)),
	}, true)

	// Then only unknown messages are added, in page order, before the live one
	req.Equal(2, added)
	req.Equal([]domain.MessageID{"m1", "m2", "m3"}, ids(timeline.Messages()))
}

func TestTimeline_MergePage_Append_And_Inner_Duplicates(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(room, slog.Default())
	at := time.Now()

	timeline.MergePage([]domain.Message{message("m1", at)}, false)
	added := timeline.MergePage([]domain.Message{
		message("m2", at), message("m2", at), message("m1", at),
	}, false)

	req.Equal(1, added)
	req.Equal([]domain.MessageID{"m1", "m2"}, ids(timeline.Messages()))
}

func TestTimeline_AppendLive_Drops_Duplicate(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(room, slog.Default())
	at := time.Now()

	req.True(timeline.AppendLive(message("m1", at)))
	req.False(timeline.AppendLive(message("m1", at)))
	req.Equal(1, timeline.Len())
}

func TestTimeline_No_Duplicate_After_Random_Interleaving(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(room, slog.Default())
	rnd := rand.New(rand.NewSource(42))
	at := time.Now()

	// Given a pool of 40 messages delivered through pages and the socket in any order
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("m%d", rnd.Intn(40))
		if rnd.Intn(2) == 0 {
			timeline.AppendLive(message(id, at))
			continue
		}
		size := rnd.Intn(6)
		page := make([]domain.Message, 0, size)
		for j := 0; j < size; j++ {
			page = append(page, message(fmt.Sprintf("m%d", rnd.Intn(40)), at))
		}
		timeline.MergePage(page, rnd.Intn(2) == 0)
	}

	// Then no id is held twice
	all := ids(timeline.Messages())
	req.Len(lo.Uniq(all), len(all))
}

func TestTimeline_Chronological(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(room, slog.Default())
	at := time.Now()

	timeline.AppendLive(message("late", at.Add(time.Hour)))
	timeline.MergePage([]domain.Message{message("early", at)}, false)

	req.Equal([]domain.MessageID{"late", "early"}, ids(timeline.Messages()))
	req.Equal([]domain.MessageID{"early", "late"}, ids(timeline.Chronological()))
}

func TestTimeline_Await(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(room, slog.Default())

	done := make(chan error, 1)
	go func() {
		done <- timeline.Await(context.Background(), "m1")
	}()

	// When the echo arrives
	time.Sleep(20 * time.Millisecond)
	timeline.AppendLive(message("m1", time.Now()))

	// Then the waiter is released
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Await should have returned")
	}

	// Already held id returns immediately
	req.NoError(timeline.Await(context.Background(), "m1"))
}

func TestTimeline_Await_Timeout(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(room, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := timeline.Await(ctx, "never")
	req.ErrorIs(err, context.DeadlineExceeded)
}

func TestTimeline_OnChange(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(room, slog.Default())
	changes := 0
	timeline.OnChange(func() { changes++ })

	timeline.AppendLive(message("m1", time.Now()))
	timeline.AppendLive(message("m1", time.Now()))
	timeline.MergePage([]domain.Message{message("m1", time.Now())}, true)
	timeline.MergePage([]domain.Message{message("m2", time.Now())}, true)

	req.Equal(2, changes)
}
