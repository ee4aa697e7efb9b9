package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"rentchat/domain"
	"rentchat/domain/chat"
	"rentchat/mocks"
	"rentchat/runtime"
	"rentchat/services"
	"rentchat/store"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func history(from, size int) []domain.Message {
	messages := make([]domain.Message, 0, size)
	for i := from; i < from+size; i++ {
		messages = append(messages, domain.Message{
			ID:         domain.MessageID("m" + string(rune('a'+i))),
			Content:    "older",
			ChatRoomID: "room-1",
			CreatedAt:  time.Unix(int64(i), 0),
		})
	}
	return messages
}

func TestHandleLine_Older_Reports_Loading(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	api := mocks.NewMockIChatAPI(ctrl)
	dialer := mocks.NewMockIRoomDialer(ctrl)
	conn := mocks.NewMockIRoomConnection(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), domain.RoomID("room-1"), gomock.Any()).Return(conn, nil)
	conn.EXPECT().Close().Return(nil).AnyTimes()

	// Given a full first page, then a second short page held by the server
	started := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		api.EXPECT().GetMessages(gomock.Any(), chat.GetMessageCommand{Room: "room-1", Page: 1, Limit: 2}).
			Return(history(10, 2), nil),
		api.EXPECT().GetMessages(gomock.Any(), chat.GetMessageCommand{Room: "room-1", Page: 2, Limit: 2}).
			DoAndReturn(func(ctx context.Context, cmd chat.GetMessageCommand) ([]domain.Message, error) {
				close(started)
				<-release
				return history(9, 1), nil
			}),
	)

	out := &bytes.Buffer{}
	a := &app{
		log:      slog.Default(),
		out:      io.Discard,
		notifier: newConsoleNotifier(out),
		theme:    services.NewThemeService(mocks.NewMockIPreferencesRepository(ctrl), mocks.NewMockIUsersAPI(ctrl), slog.Default()),
	}
	chatService := services.NewChatService(api, dialer, runtime.NewRegistry(), store.New(), a.notifier, slog.Default(), 2, time.Second)
	session, err := chatService.Open(context.Background(), "room-1", nil)
	req.NoError(err)
	defer session.Close()

	// When asking for older messages twice while the first request is pending
	req.False(handleLine(a, session, "me", "/older"))
	<-started
	req.False(handleLine(a, session, "me", "/older"))

	// Then the second request is told to wait
	req.Contains(out.String(), "Loading older messages (page 2)")
	req.Contains(out.String(), "Older messages are still loading")

	// And once the short page is merged there is nothing more to load
	close(release)
	req.Eventually(func() bool {
		return !session.Paginator().Loading() && session.Timeline().Len() == 3
	}, time.Second, 5*time.Millisecond)
	req.False(handleLine(a, session, "me", "/older"))
	req.Contains(out.String(), "No older messages")
}

type endlessInput struct{}

func (endlessInput) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
		if i%2 == 1 {
			p[i] = '\n'
		}
	}
	return len(p), nil
}

func TestReadLines_Stops_When_Done(t *testing.T) {
	req := require.New(t)

	lines := readLines(strings.NewReader("hello\n/quit\n"), make(chan struct{}))
	req.Equal("hello", <-lines)
	req.Equal("/quit", <-lines)
	_, ok := <-lines
	req.False(ok)

	// An input that never ends is abandoned once done is closed
	done := make(chan struct{})
	lines = readLines(endlessInput{}, done)
	req.Equal("x", <-lines)
	close(done)
	req.Eventually(func() bool {
		for {
			if _, ok := <-lines; !ok {
				return true
			}
		}
	}, time.Second, 10*time.Millisecond)
}
