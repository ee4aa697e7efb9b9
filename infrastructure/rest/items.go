package rest

import (
	"context"
	"net/http"
	"net/url"
	"rentchat/domain"
	"strconv"
)

func (c *Client) List(ctx context.Context) ([]domain.Item, error) {
	return c.items(ctx, "/items", nil)
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.Item, error) {
	return c.items(ctx, "/items/search", url.Values{"query": {query}})
}

func (c *Client) ByCategory(ctx context.Context, category string) ([]domain.Item, error) {
	return c.items(ctx, "/items/category", url.Values{"category": {category}})
}

func (c *Client) Nearby(ctx context.Context, query domain.NearbyQuery) ([]domain.Item, error) {
	return c.items(ctx, "/items/nearby", url.Values{
		"latitude":  {strconv.FormatFloat(query.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(query.Longitude, 'f', -1, 64)},
		"radius":    {strconv.FormatFloat(query.Radius, 'f', -1, 64)},
	})
}

func (c *Client) Mine(ctx context.Context) ([]domain.Item, error) {
	return c.items(ctx, "/items/user", nil)
}

func (c *Client) Get(ctx context.Context, id domain.ItemID) (domain.Item, error) {
	var item domain.Item
	err := c.doJSON(ctx, http.MethodGet, "/items/"+url.PathEscape(string(id)), nil, nil, &item)
	return item, err
}

func (c *Client) Create(ctx context.Context, draft domain.ItemDraft) (domain.Item, error) {
	var item domain.Item
	err := c.doJSON(ctx, http.MethodPost, "/items", nil, draft, &item)
	return item, err
}

func (c *Client) Update(ctx context.Context, id domain.ItemID, draft domain.ItemDraft) (domain.Item, error) {
	var item domain.Item
	err := c.doJSON(ctx, http.MethodPatch, "/items/"+url.PathEscape(string(id)), nil, draft, &item)
	return item, err
}

func (c *Client) Delete(ctx context.Context, id domain.ItemID) error {
	return c.doJSON(ctx, http.MethodDelete, "/items/"+url.PathEscape(string(id)), nil, nil, nil)
}

func (c *Client) items(ctx context.Context, path string, query url.Values) ([]domain.Item, error) {
	var items []domain.Item
	err := c.doJSON(ctx, http.MethodGet, path, query, nil, &items)
	return items, err
}
