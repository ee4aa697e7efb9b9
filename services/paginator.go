package services

import (
	"context"
	"fmt"
	"log/slog"
	"rentchat/contract"
	"rentchat/domain/chat"
	"rentchat/projection"
	"sync"
	"sync/atomic"
)

// Paginator loads older history of one room, one fixed-size page at a time.
// Pages start at 1. A page shorter than the page size means the beginning of
// the room was reached and no further request is made.
type Paginator struct {
	api      contract.IChatAPI
	timeline *projection.Timeline
	pageSize int
	log      *slog.Logger

	mu       sync.RWMutex
	page     int
	hasMore  bool
	inFlight atomic.Bool
}

func NewPaginator(api contract.IChatAPI, timeline *projection.Timeline, pageSize int, log *slog.Logger) *Paginator {
	return &Paginator{
		api:      api,
		timeline: timeline,
		pageSize: pageSize,
		log:      log,
		page:     1,
		hasMore:  true,
	}
}

// LoadInitial always fetches page 1, whatever was loaded before.
func (p *Paginator) LoadInitial(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer p.inFlight.Store(false)

	p.mu.Lock()
	p.page, p.hasMore = 1, true
	p.mu.Unlock()
	return p.load(ctx, 1)
}

// LoadNextPage fetches the next older page and prepends it.
// It returns false without any request when a fetch is already running
// or when the history is exhausted.
func (p *Paginator) LoadNextPage(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer p.inFlight.Store(false)

	p.mu.RLock()
	page, hasMore := p.page, p.hasMore
	p.mu.RUnlock()
	if !hasMore {
		return false
	}
	return p.load(ctx, page)
}

func (p *Paginator) load(ctx context.Context, page int) bool {
	room := p.timeline.RoomID()
	messages, err := p.api.GetMessages(ctx, chat.GetMessageCommand{Room: room, Page: page, Limit: p.pageSize})
	if ctx.Err() != nil {
		p.log.Debug(fmt.Sprintf("Discarding page %d of room %s, session closed", page, room))
		return false
	}
	if err != nil {
		p.log.Warn("Unable to load history", "room", room, "page", page, "error", err)
		return false
	}

	added := p.timeline.MergePage(messages, true)
	p.mu.Lock()
	p.page = page + 1
	p.hasMore = len(messages) >= p.pageSize
	p.mu.Unlock()
	p.log.Debug(fmt.Sprintf("Page %d of room %s: %d fetched, %d new", page, room, len(messages), added))
	return true
}

func (p *Paginator) HasMore() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hasMore
}

// NextPage is the page number the next call to LoadNextPage will request.
func (p *Paginator) NextPage() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.page
}

func (p *Paginator) Loading() bool {
	return p.inFlight.Load()
}
