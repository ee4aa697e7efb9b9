package projection

import (
	"context"
	"fmt"
	"log/slog"
	"rentchat/domain"
	"sync"

	"github.com/blugelabs/bluge"
	"github.com/samber/lo"
)

const (
	fieldID      = "_id"
	fieldContent = "content"
	fieldSender  = "sender"
)

// Index is an in-memory full text index over the messages of a Timeline.
// Messages are indexed lazily: Search first catches up with the timeline.
type Index struct {
	mu       sync.Mutex
	log      *slog.Logger
	timeline *Timeline
	writer   *bluge.Writer
	indexed  map[domain.MessageID]struct{}
}

func NewIndex(timeline *Timeline, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	return &Index{
		log:      log,
		timeline: timeline,
		writer:   writer,
		indexed:  make(map[domain.MessageID]struct{}),
	}, nil
}

// sync adds the timeline messages not indexed yet. Caller holds the lock.
func (i *Index) sync() error {
	fresh := lo.Filter(i.timeline.Messages(), func(m domain.Message, _ int) bool {
		_, ok := i.indexed[m.ID]
		return !ok
	})
	if len(fresh) == 0 {
		return nil
	}
	batch := bluge.NewBatch()
	for _, m := range fresh {
		doc := bluge.NewDocument(string(m.ID)).
			AddField(bluge.NewTextField(fieldContent, m.Content)).
			AddField(bluge.NewKeywordField(fieldSender, string(m.SenderID)))
		batch.Update(doc.ID(), doc)
	}
	if err := i.writer.Batch(batch); err != nil {
		return fmt.Errorf("failed to index %d messages: %w", len(fresh), err)
	}
	for _, m := range fresh {
		i.indexed[m.ID] = struct{}{}
	}
	i.log.Debug(fmt.Sprintf("Indexed %d messages of room %s", len(fresh), i.timeline.RoomID()))
	return nil
}

// Search returns the held messages matching the query, best match first.
// An empty query matches nothing.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]domain.Message, error) {
	if query == "" || limit <= 0 {
		return nil, nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.sync(); err != nil {
		return nil, err
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	request := bluge.NewTopNSearch(limit, bluge.NewMatchQuery(query).SetField(fieldContent))
	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var found []domain.MessageID
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == fieldID {
				found = append(found, domain.MessageID(value))
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	byID := lo.KeyBy(i.timeline.Messages(), func(m domain.Message) domain.MessageID { return m.ID })
	return lo.FilterMap(found, func(id domain.MessageID, _ int) (domain.Message, bool) {
		m, ok := byID[id]
		return m, ok
	}), nil
}

func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.writer.Close()
}
