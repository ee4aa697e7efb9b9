package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenSource returns the bearer token of the persisted session, "" when logged out.
type TokenSource interface {
	Token() (string, error)
}

// BearerTransport injects the Authorization header on every outgoing request,
// reading the token from local storage each time so a login or logout is
// picked up without rebuilding the client.
type BearerTransport struct {
	Base           http.RoundTripper
	Tokens         TokenSource
	OnUnauthorized func()
}

func (b *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// 1. Never mutate the caller's request
	out := req.Clone(req.Context())

	// 2. Attach the session token when there is one
	token, err := b.Tokens.Token()
	if err != nil {
		return nil, err
	}
	if token != "" && out.Header.Get("Authorization") == "" {
		out.Header.Set("Authorization", BearerHeader(token))
	}
	if out.Header.Get("X-Request-ID") == "" {
		out.Header.Set("X-Request-ID", uuid.NewString())
	}

	// 3. Forward and watch for an expired session
	res, err := b.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusUnauthorized && token != "" && b.OnUnauthorized != nil {
		b.OnUnauthorized()
	}
	return res, nil
}

func (b *BearerTransport) base() http.RoundTripper {
	if b.Base == nil {
		return http.DefaultTransport
	}
	return b.Base
}

// BearerHeader formats the standard "Bearer <token>" value.
func BearerHeader(token string) string {
	return "Bearer " + token
}

// TokenFromHeader extracts the token from a "Bearer <token>" value.
func TokenFromHeader(header string) string {
	return strings.TrimPrefix(header, "Bearer ")
}
