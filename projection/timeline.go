// Package projection builds the local timeline of a chat room from observed events.
// Handles ordering, deduplication, and projections.
// Does not emit events or interact with UI directly.
package projection

import (
	"context"
	"fmt"
	"log/slog"
	"rentchat/domain"
	"rentchat/domain/event"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Timeline holds the in-memory messages of the active room.
// Insertion order is arrival order: a live message may land before an older
// page is merged in front of it. Use Chronological for a createdAt view.
type Timeline struct {
	mu       sync.RWMutex
	log      *slog.Logger
	room     domain.RoomID
	ids      map[domain.MessageID]struct{}
	messages []domain.Message
	waiters  map[domain.MessageID][]chan struct{}
	onChange func()
}

func NewTimeline(room domain.RoomID, log *slog.Logger) *Timeline {
	return &Timeline{
		log:     log,
		room:    room,
		ids:     make(map[domain.MessageID]struct{}),
		waiters: make(map[domain.MessageID][]chan struct{}),
	}
}

// OnChange registers a callback invoked, outside the lock, after every
// mutation that added at least one message.
func (t *Timeline) OnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Consume receives events pushed by the room socket.
func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageReceived:
		if evt.Message.ChatRoomID != t.room {
			t.log.Debug(fmt.Sprintf("Ignoring message for room %s", evt.Message.ChatRoomID))
			return nil
		}
		t.AppendLive(evt.Message)
		return nil
	default:
		t.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
		return nil
	}
}

// AppendLive adds a socket-delivered message at the end of the list.
// A message whose id is already held is dropped and false is returned.
func (t *Timeline) AppendLive(message domain.Message) bool {
	t.mu.Lock()
	if _, ok := t.ids[message.ID]; ok {
		t.mu.Unlock()
		t.log.Debug("Duplicate live message dropped", "id", message.ID)
		return false
	}
	t.insert(message)
	t.messages = append(t.messages, message)
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return true
}

// MergePage filters out messages already held (and repeated ids inside the page),
// then prepends or appends the remainder while keeping the page's own order.
// It returns how many messages were added.
func (t *Timeline) MergePage(page []domain.Message, prepend bool) int {
	t.mu.Lock()
	fresh := lo.Filter(page, func(m domain.Message, _ int) bool {
		if _, ok := t.ids[m.ID]; ok {
			return false
		}
		t.insert(m)
		return true
	})
	if len(fresh) == 0 {
		t.mu.Unlock()
		return 0
	}
	if prepend {
		t.messages = append(fresh, t.messages...)
	} else {
		t.messages = append(t.messages, fresh...)
	}
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return len(fresh)
}

// insert records the id and wakes up Await callers. Caller holds the lock.
func (t *Timeline) insert(m domain.Message) {
	t.ids[m.ID] = struct{}{}
	for _, w := range t.waiters[m.ID] {
		close(w)
	}
	delete(t.waiters, m.ID)
}

// Await blocks until a message with the given id is held or ctx ends.
func (t *Timeline) Await(ctx context.Context, id domain.MessageID) error {
	t.mu.Lock()
	if _, ok := t.ids[id]; ok {
		t.mu.Unlock()
		return nil
	}
	w := make(chan struct{})
	t.waiters[id] = append(t.waiters[id], w)
	t.mu.Unlock()

	select {
	case <-w:
		return nil
	case <-ctx.Done():
		t.mu.Lock()
		t.waiters[id] = lo.Without(t.waiters[id], w)
		if len(t.waiters[id]) == 0 {
			delete(t.waiters, id)
		}
		t.mu.Unlock()
		return ctx.Err()
	}
}

// Messages returns a copy in insertion order.
func (t *Timeline) Messages() []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	res := make([]domain.Message, len(t.messages))
	copy(res, t.messages)
	return res
}

// Chronological returns a copy ordered by createdAt, ties keep insertion order.
func (t *Timeline) Chronological() []domain.Message {
	res := t.Messages()
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

func (t *Timeline) Contains(id domain.MessageID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[id]
	return ok
}

func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func (t *Timeline) RoomID() domain.RoomID {
	return t.room
}
