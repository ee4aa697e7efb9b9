//go:generate go run go.uber.org/mock/mockgen -source=api.go -destination=../mocks/mock_api.go -package=mocks
package contract

import (
	"context"
	"rentchat/domain"
	"rentchat/domain/chat"
)

type IAuthAPI interface {
	Login(ctx context.Context, credentials domain.Credentials) (domain.Session, error)
	Register(ctx context.Context, registration domain.Registration) (domain.Session, error)
}

type IItemsAPI interface {
	List(ctx context.Context) ([]domain.Item, error)
	Search(ctx context.Context, query string) ([]domain.Item, error)
	ByCategory(ctx context.Context, category string) ([]domain.Item, error)
	Nearby(ctx context.Context, query domain.NearbyQuery) ([]domain.Item, error)
	Get(ctx context.Context, id domain.ItemID) (domain.Item, error)
	Mine(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, draft domain.ItemDraft) (domain.Item, error)
	Update(ctx context.Context, id domain.ItemID, draft domain.ItemDraft) (domain.Item, error)
	Delete(ctx context.Context, id domain.ItemID) error
}

type IUsersAPI interface {
	Profile(ctx context.Context) (domain.User, error)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error)
	Favorites(ctx context.Context) ([]domain.Item, error)
	AddFavorite(ctx context.Context, id domain.ItemID) error
	RemoveFavorite(ctx context.Context, id domain.ItemID) error
	UpdateTheme(ctx context.Context, darkMode bool) error
}

type IChatAPI interface {
	Rooms(ctx context.Context) ([]domain.Room, error)
	CreateRoom(ctx context.Context, participantID domain.UserID) (domain.Room, error)
	GetMessages(ctx context.Context, cmd chat.GetMessageCommand) ([]domain.Message, error)
	PostMessage(ctx context.Context, cmd chat.PostMessageCommand) (domain.Message, error)
	UploadMedia(ctx context.Context, media []domain.Media) ([]domain.Media, error)
}
