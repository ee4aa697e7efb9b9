// Package store is the client-side state shared by every screen of the app:
// an auth slice (who is logged in) and an items slice (listing cache and
// favorite flags). Chat timelines are deliberately not held here, they live
// and die with their session.
package store

import (
	"rentchat/domain"
	"sync"
)

type Store struct {
	Auth  *AuthSlice
	Items *ItemsSlice
}

func New() *Store {
	return &Store{
		Auth:  &AuthSlice{},
		Items: NewItemsSlice(),
	}
}

type AuthSlice struct {
	mu    sync.RWMutex
	user  *domain.User
	token string
}

func (a *AuthSlice) SetSession(session domain.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	user := session.User
	a.user = &user
	a.token = session.Token
}

// SetUser replaces the user while keeping the token.
func (a *AuthSlice) SetUser(user domain.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = &user
}

func (a *AuthSlice) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = nil
	a.token = ""
}

// Current returns the logged-in user, ok is false when nobody is.
func (a *AuthSlice) Current() (domain.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return domain.User{}, false
	}
	return *a.user, true
}

func (a *AuthSlice) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user != nil && a.token != ""
}
