package services

import (
	"context"
	"fmt"
	"log/slog"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/errors"
	"rentchat/projection"
	"sync"
	"time"
)

// ChatSession is one open room: its socket, timeline, history pager and draft.
// Every call runs under the session context, cancelled by Close, so nothing
// started by a closed session mutates its state afterward.
type ChatSession struct {
	id          string
	room        domain.RoomID
	ctx         context.Context
	cancel      context.CancelFunc
	timeline    *projection.Timeline
	index       *projection.Index
	paginator   *Paginator
	composer    *Composer
	autoSend    *AutoSend
	conn        contract.IRoomConnection
	registry    contract.IRegistry
	log         *slog.Logger
	echoTimeout time.Duration
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

func (s *ChatSession) RoomID() domain.RoomID {
	return s.room
}

func (s *ChatSession) Timeline() *projection.Timeline {
	return s.timeline
}

func (s *ChatSession) Paginator() *Paginator {
	return s.paginator
}

func (s *ChatSession) Composer() *Composer {
	return s.composer
}

// AutoSend is nil when the session was not opened from an item.
func (s *ChatSession) AutoSend() *AutoSend {
	return s.autoSend
}

// Done is closed when the room socket stopped reading.
func (s *ChatSession) Done() <-chan struct{} {
	return s.conn.Done()
}

func (s *ChatSession) Messages() []domain.Message {
	return s.timeline.Messages()
}

// Search looks up the loaded messages containing the query words.
func (s *ChatSession) Search(query string, limit int) ([]domain.Message, error) {
	if s.ctx.Err() != nil {
		return nil, errors.ErrSessionClosed
	}
	return s.index.Search(s.ctx, query, limit)
}

// LoadOlder requests the next page of history, see Paginator.LoadNextPage.
func (s *ChatSession) LoadOlder() bool {
	if s.ctx.Err() != nil {
		return false
	}
	return s.paginator.LoadNextPage(s.ctx)
}

// Send submits the draft then waits for the server broadcast of the message.
// When the broadcast does not come in time the submitted message is shown anyway.
func (s *ChatSession) Send() (domain.Message, error) {
	if s.ctx.Err() != nil {
		return domain.Message{}, errors.ErrSessionClosed
	}
	message, err := s.composer.Send(s.ctx)
	if err != nil {
		if s.ctx.Err() != nil {
			return domain.Message{}, errors.ErrSessionClosed
		}
		return domain.Message{}, err
	}
	s.awaitEcho(message)
	return message, nil
}

// TriggerAutoSend fires the introduction, a no-op after the first call.
func (s *ChatSession) TriggerAutoSend() bool {
	if s.autoSend == nil || s.ctx.Err() != nil {
		return false
	}
	message, fired := s.autoSend.Trigger(s.ctx)
	if fired && message.ID != "" {
		s.awaitEcho(message)
	}
	return fired
}

func (s *ChatSession) awaitEcho(message domain.Message) {
	ctx, cancel := context.WithTimeout(s.ctx, s.echoTimeout)
	defer cancel()
	if err := s.timeline.Await(ctx, message.ID); err != nil && s.ctx.Err() == nil {
		s.log.Debug(fmt.Sprintf("No echo for message %s after %s, appending it", message.ID, s.echoTimeout))
		s.timeline.AppendLive(message)
	}
}

// Close cancels pending work, stops listening and closes the socket. Idempotent.
func (s *ChatSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		s.registry.Unsubscribe(s.id, s.room)
		err = s.conn.Close()
		s.wg.Wait()
		if indexErr := s.index.Close(); indexErr != nil {
			s.log.Debug("Failed to close search index", "error", indexErr)
		}
		s.log.Debug(fmt.Sprintf("Chat session on room %s closed", s.room))
	})
	return err
}
