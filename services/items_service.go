package services

import (
	"context"
	"fmt"
	"log/slog"
	"rentchat/auth"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/store"

	"github.com/samber/lo"
)

// ItemsService browses and edits listings, mirroring every result into the items slice.
type ItemsService struct {
	items    contract.IItemsAPI
	users    contract.IUsersAPI
	store    *store.Store
	notifier contract.Notifier
	log      *slog.Logger
}

func NewItemsService(items contract.IItemsAPI, users contract.IUsersAPI, store *store.Store,
	notifier contract.Notifier, log *slog.Logger) *ItemsService {
	return &ItemsService{items: items, users: users, store: store, notifier: notifier, log: log}
}

func (s *ItemsService) List(ctx context.Context) ([]domain.Item, error) {
	return s.listing(s.items.List(ctx))
}

func (s *ItemsService) Search(ctx context.Context, query string) ([]domain.Item, error) {
	return s.listing(s.items.Search(ctx, query))
}

func (s *ItemsService) ByCategory(ctx context.Context, category string) ([]domain.Item, error) {
	return s.listing(s.items.ByCategory(ctx, category))
}

func (s *ItemsService) Nearby(ctx context.Context, query domain.NearbyQuery) ([]domain.Item, error) {
	if err := auth.Validate(query); err != nil {
		return nil, err
	}
	return s.listing(s.items.Nearby(ctx, query))
}

func (s *ItemsService) Mine(ctx context.Context) ([]domain.Item, error) {
	return s.listing(s.items.Mine(ctx))
}

func (s *ItemsService) listing(items []domain.Item, err error) ([]domain.Item, error) {
	if err != nil {
		return nil, err
	}
	s.store.Items.SetItems(items)
	return s.store.Items.Items(), nil
}

func (s *ItemsService) Get(ctx context.Context, id domain.ItemID) (domain.Item, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}
	s.store.Items.Upsert(item)
	item, _ = s.store.Items.Item(id)
	return item, nil
}

func (s *ItemsService) Create(ctx context.Context, draft domain.ItemDraft) (domain.Item, error) {
	if err := auth.Validate(draft); err != nil {
		return domain.Item{}, err
	}
	item, err := s.items.Create(ctx, draft)
	if err != nil {
		s.notifier.Error("Unable to publish the item", err)
		return domain.Item{}, err
	}
	s.store.Items.Upsert(item)
	return item, nil
}

func (s *ItemsService) Update(ctx context.Context, id domain.ItemID, draft domain.ItemDraft) (domain.Item, error) {
	if err := auth.Validate(draft); err != nil {
		return domain.Item{}, err
	}
	item, err := s.items.Update(ctx, id, draft)
	if err != nil {
		s.notifier.Error("Unable to update the item", err)
		return domain.Item{}, err
	}
	s.store.Items.Upsert(item)
	item, _ = s.store.Items.Item(item.ID)
	return item, nil
}

func (s *ItemsService) Delete(ctx context.Context, id domain.ItemID) error {
	if err := s.items.Delete(ctx, id); err != nil {
		s.notifier.Error("Unable to delete the item", err)
		return err
	}
	s.store.Items.Remove(id)
	return nil
}

// ToggleFavorite flips the flag locally first, then asks the server.
// On failure the flag goes back to its previous value and the user is told.
func (s *ItemsService) ToggleFavorite(ctx context.Context, id domain.ItemID) (bool, error) {
	target := !s.store.Items.IsFavorite(id)
	var previous bool

	err := store.Optimistic(ctx,
		func() { previous = s.store.Items.SetFavorite(id, target) },
		func() { s.store.Items.SetFavorite(id, previous) },
		func(ctx context.Context) error {
			if target {
				return s.users.AddFavorite(ctx, id)
			}
			return s.users.RemoveFavorite(ctx, id)
		},
	)
	if err != nil {
		s.log.Debug(fmt.Sprintf("Favorite toggle reverted for item %s", id), "error", err)
		s.notifier.Error("Unable to update favorites", err)
		return previous, err
	}
	return target, nil
}

// Favorites reloads the favorite list and replaces every local flag with it.
func (s *ItemsService) Favorites(ctx context.Context) ([]domain.Item, error) {
	items, err := s.users.Favorites(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Items.SetFavorites(lo.Map(items, func(item domain.Item, _ int) domain.ItemID {
		return item.ID
	}))
	for _, item := range items {
		s.store.Items.Upsert(item)
	}
	return lo.Map(items, func(item domain.Item, _ int) domain.Item {
		item.IsFavorite = true
		return item
	}), nil
}
