package services

import (
	"context"
	"fmt"
	"log/slog"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/errors"
	"rentchat/projection"
	"rentchat/store"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	Rooms(ctx context.Context) ([]domain.Room, error)
	Open(ctx context.Context, roomID domain.RoomID, intro *domain.Item) (*ChatSession, error)
	ContactOwner(ctx context.Context, item domain.Item) (*ChatSession, error)
}

type ChatService struct {
	api         contract.IChatAPI
	dialer      contract.IRoomDialer
	registry    contract.IRegistry
	store       *store.Store
	notifier    contract.Notifier
	log         *slog.Logger
	pageSize    int
	echoTimeout time.Duration
}

func NewChatService(api contract.IChatAPI, dialer contract.IRoomDialer, registry contract.IRegistry,
	store *store.Store, notifier contract.Notifier, log *slog.Logger,
	pageSize int, echoTimeout time.Duration) *ChatService {
	return &ChatService{
		api:         api,
		dialer:      dialer,
		registry:    registry,
		store:       store,
		notifier:    notifier,
		log:         log,
		pageSize:    pageSize,
		echoTimeout: echoTimeout,
	}
}

func (s *ChatService) Rooms(ctx context.Context) ([]domain.Room, error) {
	return s.api.Rooms(ctx)
}

// Open connects to a room and loads its first page of history.
// When intro is set the introduction about that item is posted once connected.
func (s *ChatService) Open(ctx context.Context, roomID domain.RoomID, intro *domain.Item) (*ChatSession, error) {
	if roomID == "" {
		return nil, errors.ErrMissingRoom
	}
	timeline := projection.NewTimeline(roomID, s.log)
	index, err := projection.NewIndex(timeline, s.log)
	if err != nil {
		return nil, err
	}
	sessionCtx, cancel := context.WithCancel(ctx)
	composer := NewComposer(s.api, roomID, s.notifier, s.log)
	session := &ChatSession{
		id:          uuid.NewString(),
		room:        roomID,
		ctx:         sessionCtx,
		cancel:      cancel,
		timeline:    timeline,
		index:       index,
		paginator:   NewPaginator(s.api, timeline, s.pageSize, s.log),
		composer:    composer,
		registry:    s.registry,
		log:         s.log,
		echoTimeout: s.echoTimeout,
	}
	if intro != nil {
		session.autoSend = NewAutoSend(*intro, composer, s.notifier, s.log)
	}

	// 1. Listen before connecting so no broadcast is missed
	s.registry.Subscribe(session.id, roomID, timeline)

	// 2. Connect, read failures are shown to the user
	conn, err := s.dialer.Dial(sessionCtx, roomID, func(err error) {
		if sessionCtx.Err() == nil {
			s.notifier.Error("Connection to the chat lost", err)
		}
	})
	if err != nil {
		s.registry.Unsubscribe(session.id, roomID)
		cancel()
		_ = index.Close()
		return nil, fmt.Errorf("connect to room %s: %w", roomID, err)
	}
	session.conn = conn

	// 3. Seed the timeline
	session.paginator.LoadInitial(sessionCtx)

	// 4. Introduce the user once the room is live
	if session.autoSend != nil {
		session.wg.Add(1)
		go func() {
			defer session.wg.Done()
			session.TriggerAutoSend()
		}()
	}
	return session, nil
}

// ContactOwner reuses the room shared with the owner of item, creating it
// when needed, then opens it with the introduction armed.
func (s *ChatService) ContactOwner(ctx context.Context, item domain.Item) (*ChatSession, error) {
	user, ok := s.store.Auth.Current()
	if !ok {
		return nil, errors.ErrNotAuthenticated
	}
	if item.OwnerID == user.ID {
		return nil, errors.ErrSelfContact
	}

	rooms, err := s.api.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	room, found := lo.Find(rooms, func(r domain.Room) bool {
		return r.HasParticipant(item.OwnerID)
	})
	if !found {
		room, err = s.api.CreateRoom(ctx, item.OwnerID)
		if err != nil {
			s.notifier.Error("Unable to start the conversation", err)
			return nil, err
		}
		s.log.Info(fmt.Sprintf("Room %s created with %s", room.ID, item.Owner.DisplayName()))
	}
	return s.Open(ctx, room.ID, &item)
}
