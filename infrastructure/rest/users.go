package rest

import (
	"context"
	"net/http"
	"rentchat/domain"
)

type favoriteRequest struct {
	ItemID domain.ItemID `json:"itemId"`
}

type themeRequest struct {
	IsDarkMode bool `json:"isDarkMode"`
}

func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := c.doJSON(ctx, http.MethodGet, "/users/profile", nil, nil, &user)
	return user, err
}

func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	var user domain.User
	err := c.doJSON(ctx, http.MethodPost, "/users/profile", nil, update, &user)
	return user, err
}

func (c *Client) Favorites(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := c.doJSON(ctx, http.MethodGet, "/users/favorites", nil, nil, &items)
	return items, err
}

func (c *Client) AddFavorite(ctx context.Context, id domain.ItemID) error {
	return c.doJSON(ctx, http.MethodPost, "/users/favorites/add", nil, favoriteRequest{ItemID: id}, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, id domain.ItemID) error {
	return c.doJSON(ctx, http.MethodPost, "/users/favorites/remove", nil, favoriteRequest{ItemID: id}, nil)
}

func (c *Client) UpdateTheme(ctx context.Context, darkMode bool) error {
	return c.doJSON(ctx, http.MethodPost, "/users/theme", nil, themeRequest{IsDarkMode: darkMode}, nil)
}
