package store

import (
	"rentchat/domain"
	"sync"

	"github.com/samber/lo"
)

// ItemsSlice caches listings in the order the last query returned them
// and tracks which items the user marked as favorite.
// Favorite flags come only from SetFavorite and SetFavorites: the isFavorite
// field of a listing payload is ignored.
type ItemsSlice struct {
	mu        sync.RWMutex
	order     []domain.ItemID
	items     map[domain.ItemID]domain.Item
	favorites map[domain.ItemID]struct{}
}

func NewItemsSlice() *ItemsSlice {
	return &ItemsSlice{
		items:     make(map[domain.ItemID]domain.Item),
		favorites: make(map[domain.ItemID]struct{}),
	}
}

// SetItems replaces the listing with the result of a query.
func (s *ItemsSlice) SetItems(items []domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.items = make(map[domain.ItemID]domain.Item, len(items))
	for _, item := range items {
		s.upsert(item)
	}
}

func (s *ItemsSlice) Upsert(item domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsert(item)
}

func (s *ItemsSlice) upsert(item domain.Item) {
	if _, ok := s.items[item.ID]; !ok {
		s.order = append(s.order, item.ID)
	}
	item.IsFavorite = false
	s.items[item.ID] = item
}

func (s *ItemsSlice) Remove(id domain.ItemID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	delete(s.favorites, id)
	s.order = lo.Without(s.order, id)
}

func (s *ItemsSlice) Item(id domain.ItemID) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return domain.Item{}, false
	}
	_, item.IsFavorite = s.favorites[id]
	return item, true
}

// Items returns the cached listing with up-to-date favorite flags.
func (s *ItemsSlice) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.order, func(id domain.ItemID, _ int) domain.Item {
		item := s.items[id]
		_, item.IsFavorite = s.favorites[id]
		return item
	})
}

// SetFavorite flips the local flag and returns the previous value.
func (s *ItemsSlice) SetFavorite(id domain.ItemID, favorite bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, previous := s.favorites[id]
	if favorite {
		s.favorites[id] = struct{}{}
	} else {
		delete(s.favorites, id)
	}
	return previous
}

func (s *ItemsSlice) IsFavorite(id domain.ItemID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[id]
	return ok
}

// SetFavorites replaces all favorite flags with the server's list.
func (s *ItemsSlice) SetFavorites(ids []domain.ItemID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = make(map[domain.ItemID]struct{}, len(ids))
	for _, id := range ids {
		s.favorites[id] = struct{}{}
	}
}

func (s *ItemsSlice) Favorites() []domain.ItemID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Keys(s.favorites)
}
