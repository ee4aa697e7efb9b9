package rest

import (
	"context"
	"net/http"
	"rentchat/domain"
)

func (c *Client) Login(ctx context.Context, credentials domain.Credentials) (domain.Session, error) {
	var session domain.Session
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, credentials, &session)
	return session, err
}

func (c *Client) Register(ctx context.Context, registration domain.Registration) (domain.Session, error) {
	var session domain.Session
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, registration, &session)
	return session, err
}
