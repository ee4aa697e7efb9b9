package services

import (
	"context"
	"log/slog"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/domain/chat"
	"rentchat/domain/event"
	"rentchat/errors"
	"rentchat/mocks"
	"rentchat/runtime"
	"rentchat/store"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chatFixture struct {
	api      *mocks.MockIChatAPI
	dialer   *mocks.MockIRoomDialer
	conn     *mocks.MockIRoomConnection
	notifier *mocks.MockNotifier
	registry *runtime.Registry
	store    *store.Store
	service  *ChatService
}

func newChatFixture(t *testing.T, pageSize int, echoTimeout time.Duration) *chatFixture {
	ctrl := gomock.NewController(t)
	f := &chatFixture{
		api:      mocks.NewMockIChatAPI(ctrl),
		dialer:   mocks.NewMockIRoomDialer(ctrl),
		conn:     mocks.NewMockIRoomConnection(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		registry: runtime.NewRegistry(),
		store:    store.New(),
	}
	f.service = NewChatService(f.api, f.dialer, f.registry, f.store, f.notifier, slog.Default(), pageSize, echoTimeout)
	return f
}

func (f *chatFixture) expectDial(room domain.RoomID) {
	f.dialer.EXPECT().Dial(gomock.Any(), room, gomock.Any()).Return(f.conn, nil).Times(1)
	f.conn.EXPECT().Close().Return(nil).AnyTimes()
}

// broadcast plays the server: every sink listening on the room receives the message.
func (f *chatFixture) broadcast(message domain.Message) {
	for _, sink := range f.registry.GetSinksForRoom(message.ChatRoomID) {
		_ = sink.Consume(context.Background(), event.MessageReceived{Message: message})
	}
}

func TestChatSession_Empty_Room_Then_Hello(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 50, time.Second)

	// Given an empty room
	f.expectDial("room-1")
	f.api.EXPECT().GetMessages(gomock.Any(), chat.GetMessageCommand{Room: "room-1", Page: 1, Limit: 50}).
		Return([]domain.Message{}, nil)

	session, err := f.service.Open(context.Background(), "room-1", nil)
	req.NoError(err)
	defer session.Close()
	req.False(session.Paginator().HasMore())
	req.False(session.LoadOlder())

	// When sending "Hello" the server broadcasts it back
	hello := domain.Message{ID: "m1", Content: "Hello", ChatRoomID: "room-1", CreatedAt: time.Now()}
	f.api.EXPECT().PostMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cmd chat.PostMessageCommand) (domain.Message, error) {
			go f.broadcast(hello)
			return hello, nil
		})
	session.Composer().SetText("Hello")
	_, err = session.Send()

	// Then the timeline holds one message
	req.NoError(err)
	req.Equal(1, session.Timeline().Len())
	req.Equal("Hello", session.Messages()[0].Content)
}

func TestChatSession_Missing_Echo_Appends_Submitted_Message(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 50, 20*time.Millisecond)
	f.expectDial("room-1")
	f.api.EXPECT().GetMessages(gomock.Any(), gomock.Any()).Return(nil, nil)

	session, err := f.service.Open(context.Background(), "room-1", nil)
	req.NoError(err)
	defer session.Close()

	message := domain.Message{ID: "m1", Content: "Hello", ChatRoomID: "room-1"}
	f.api.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Return(message, nil)
	session.Composer().SetText("Hello")

	_, err = session.Send()
	req.NoError(err)
	req.True(session.Timeline().Contains("m1"))

	// A late broadcast does not duplicate it
	f.broadcast(message)
	req.Equal(1, session.Timeline().Len())
}

func TestChatSession_Close_Discards_Inflight_History(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 2, time.Second)
	f.expectDial("room-1")

	// Given a first full page, then a second page still loading when the session closes
	started := make(chan struct{})
	gomock.InOrder(
		f.api.EXPECT().GetMessages(gomock.Any(), gomock.Any()).Return(page("room-1", 10, 2), nil),
		f.api.EXPECT().GetMessages(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, cmd chat.GetMessageCommand) ([]domain.Message, error) {
				close(started)
				<-ctx.Done()
				return page("room-1", 8, 2), nil
			}),
	)
	session, err := f.service.Open(context.Background(), "room-1", nil)
	req.NoError(err)

	var wg sync.WaitGroup
	var loaded bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		loaded = session.LoadOlder()
	}()
	<-started

	// When closing
	req.NoError(session.Close())
	wg.Wait()
	req.False(loaded)

	// Then the late page is dropped and the session stops listening
	req.Equal(2, session.Timeline().Len())
	req.Zero(f.registry.Rooms())
	_, err = session.Send()
	req.ErrorIs(err, errors.ErrSessionClosed)
	req.NoError(session.Close())
}

func TestChatService_Open_Dial_Failure(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 50, time.Second)
	f.dialer.EXPECT().Dial(gomock.Any(), domain.RoomID("room-1"), gomock.Any()).Return(nil, errors.ErrNotAuthenticated)

	_, err := f.service.Open(context.Background(), "room-1", nil)

	req.ErrorIs(err, errors.ErrNotAuthenticated)
	req.Zero(f.registry.Rooms())

	_, err = f.service.Open(context.Background(), "", nil)
	req.ErrorIs(err, errors.ErrMissingRoom)
}

func TestChatService_Connection_Errors_Are_Notified(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 50, time.Second)
	var onError func(error)
	f.dialer.EXPECT().Dial(gomock.Any(), domain.RoomID("room-1"), gomock.Any()).
		DoAndReturn(func(ctx context.Context, room domain.RoomID, fn func(error)) (contract.IRoomConnection, error) {
			onError = fn
			return f.conn, nil
		})
	f.conn.EXPECT().Close().Return(nil)
	f.api.EXPECT().GetMessages(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.notifier.EXPECT().Error("Connection to the chat lost", errors.ErrNetwork).Times(1)

	session, err := f.service.Open(context.Background(), "room-1", nil)
	req.NoError(err)

	onError(errors.ErrNetwork)
	req.NoError(session.Close())
	// Errors after close stay silent
	onError(errors.ErrNetwork)
}

func TestChatService_ContactOwner(t *testing.T) {
	me := domain.User{ID: "user-1", FirstName: "Ada"}

	t.Run("refuses to contact yourself", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, 50, time.Second)
		f.store.Auth.SetSession(domain.Session{Token: "token", User: me})

		_, err := f.service.ContactOwner(context.Background(), domain.Item{ID: "item-1", OwnerID: "user-1"})

		req.ErrorIs(err, errors.ErrSelfContact)
	})

	t.Run("requires a session", func(t *testing.T) {
		f := newChatFixture(t, 50, time.Second)
		_, err := f.service.ContactOwner(context.Background(), drill)
		require.ErrorIs(t, err, errors.ErrNotAuthenticated)
	})

	t.Run("reuses the shared room and introduces the user once", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, 50, time.Second)
		f.store.Auth.SetSession(domain.Session{Token: "token", User: me})

		f.api.EXPECT().Rooms(gomock.Any()).Return([]domain.Room{
			{ID: "room-other", Participants: []domain.Participant{{UserID: "user-1"}, {UserID: "someone"}}},
			{ID: "room-owner", Participants: []domain.Participant{{UserID: "user-1"}, {UserID: "owner-1"}}},
		}, nil)
		f.expectDial("room-owner")
		f.api.EXPECT().GetMessages(gomock.Any(), gomock.Any()).Return(nil, nil)
		intro := domain.Message{ID: "intro", Content: Introduction(drill), ChatRoomID: "room-owner", Metadata: drill.Reference()}
		f.api.EXPECT().PostMessage(gomock.Any(), chat.PostMessageCommand{
			Room:     "room-owner",
			Content:  Introduction(drill),
			Metadata: drill.Reference(),
		}).DoAndReturn(func(ctx context.Context, cmd chat.PostMessageCommand) (domain.Message, error) {
			go f.broadcast(intro)
			return intro, nil
		}).Times(1)

		session, err := f.service.ContactOwner(context.Background(), drill)
		req.NoError(err)
		defer session.Close()

		req.Equal(domain.RoomID("room-owner"), session.RoomID())
		req.Eventually(func() bool { return session.Timeline().Contains("intro") }, time.Second, 5*time.Millisecond)
		req.Eventually(func() bool { return session.AutoSend().State() == AutoSendSent }, time.Second, 5*time.Millisecond)
		req.False(session.TriggerAutoSend())
	})

	t.Run("creates the room when none is shared", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, 50, 10*time.Millisecond)
		f.store.Auth.SetSession(domain.Session{Token: "token", User: me})

		f.api.EXPECT().Rooms(gomock.Any()).Return(nil, nil)
		f.api.EXPECT().CreateRoom(gomock.Any(), domain.UserID("owner-1")).Return(domain.Room{ID: "room-new"}, nil)
		f.expectDial("room-new")
		f.api.EXPECT().GetMessages(gomock.Any(), gomock.Any()).Return(nil, nil)
		f.api.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Return(domain.Message{ID: "intro", ChatRoomID: "room-new"}, nil)

		session, err := f.service.ContactOwner(context.Background(), drill)
		req.NoError(err)
		req.Eventually(func() bool { return session.AutoSend().State() == AutoSendSent }, time.Second, 5*time.Millisecond)
		req.NoError(session.Close())
	})
}

func TestChatSession_Search_Loaded_Messages(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 50, time.Second)
	f.expectDial("room-1")
	f.api.EXPECT().GetMessages(gomock.Any(), gomock.Any()).Return([]domain.Message{
		{ID: "m1", Content: "Is the ladder free this weekend?", ChatRoomID: "room-1"},
		{ID: "m2", Content: "Sure, Saturday works", ChatRoomID: "room-1"},
	}, nil)

	session, err := f.service.Open(context.Background(), "room-1", nil)
	req.NoError(err)

	found, err := session.Search("ladder", 5)
	req.NoError(err)
	req.Len(found, 1)
	req.Equal(domain.MessageID("m1"), found[0].ID)

	// A closed session refuses to search
	req.NoError(session.Close())
	_, err = session.Search("ladder", 5)
	req.ErrorIs(err, errors.ErrSessionClosed)
}
