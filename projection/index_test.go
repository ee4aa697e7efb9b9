package projection

import (
	"context"
	"log/slog"
	"rentchat/domain"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestIndex_Search(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	timeline := NewTimeline(room, log)
	index, err := NewIndex(timeline, log)
	req.NoError(err)
	defer func() { _ = index.Close() }()
	ctx := context.Background()
	at := time.Now()

	// Given a timeline with a few messages
	hello := message("m1", at)
	hello.Content = "Hello, is the drill still available?"
	timing := message("m2", at.Add(time.Second))
	timing.Content = "Yes, you can pick it up tomorrow"
	timeline.MergePage([]domain.Message{hello, timing}, true)

	// When searching for a word of the first message
	found, err := index.Search(ctx, "drill", 10)

	// Then only that message is returned
	req.NoError(err)
	req.Equal([]domain.MessageID{"m1"}, ids(found))

	// And a message arriving later is searchable too
	late := message("m3", at.Add(2*time.Second))
	late.Content = "Great, I'll bring the drill back on Friday"
	timeline.AppendLive(late)
	found, err = index.Search(ctx, "drill", 10)
	req.NoError(err)
	req.ElementsMatch([]domain.MessageID{"m1", "m3"}, ids(found))
}

func TestIndex_Search_NoMatch(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	timeline := NewTimeline(room, log)
	index, err := NewIndex(timeline, log)
	req.NoError(err)
	defer func() { _ = index.Close() }()

	timeline.AppendLive(message("m1", time.Now()))

	found, err := index.Search(context.Background(), "ladder", 10)
	req.NoError(err)
	req.Empty(found)

	found, err = index.Search(context.Background(), "", 10)
	req.NoError(err)
	req.Empty(found)
}
