package services

import (
	"context"
	"fmt"
	"log/slog"
	"rentchat/auth"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/errors"
	"rentchat/repositories"
	"rentchat/store"
	"time"
)

type IAuthService interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
	Register(ctx context.Context, registration domain.Registration) (domain.User, error)
	Restore() (domain.User, error)
	Logout() error
	Expire()
}

type AuthService struct {
	api      contract.IAuthAPI
	sessions repositories.ISessionRepository
	store    *store.Store
	notifier contract.Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewAuthService(api contract.IAuthAPI, sessions repositories.ISessionRepository, store *store.Store,
	notifier contract.Notifier, log *slog.Logger) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	credentials := domain.Credentials{Email: email, Password: password}

	// 1. Validate the form, nothing reaches the network when it is invalid
	if err := auth.ValidateCredentials(credentials); err != nil {
		return domain.User{}, err
	}

	// 2. Exchange the credentials for a session
	session, err := s.api.Login(ctx, credentials)
	if err != nil {
		s.notifier.Error("Login failed", err)
		return domain.User{}, err
	}

	// 3. Persist and publish it
	return s.open(session)
}

func (s *AuthService) Register(ctx context.Context, registration domain.Registration) (domain.User, error) {
	if err := auth.ValidateRegistration(registration); err != nil {
		return domain.User{}, err
	}
	session, err := s.api.Register(ctx, registration)
	if err != nil {
		s.notifier.Error("Registration failed", err)
		return domain.User{}, err
	}
	return s.open(session)
}

func (s *AuthService) open(session domain.Session) (domain.User, error) {
	if err := s.sessions.SaveSession(session); err != nil {
		return domain.User{}, fmt.Errorf("persist session: %w", err)
	}
	s.store.Auth.SetSession(session)
	s.store.Items.SetFavorites(session.User.Favorites)
	s.log.Info(fmt.Sprintf("Logged in as %s", session.User.Email))
	return session.User, nil
}

// Restore reloads the persisted session at start-up.
// An expired token is cleared locally and reported as ErrSessionExpired.
func (s *AuthService) Restore() (domain.User, error) {
	token, err := s.sessions.Token()
	if err != nil {
		return domain.User{}, err
	}
	if token == "" {
		return domain.User{}, errors.ErrNotAuthenticated
	}
	if auth.IsExpired(token, s.now()) {
		s.Expire()
		return domain.User{}, errors.ErrSessionExpired
	}
	user, found, err := s.sessions.User()
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		s.Expire()
		return domain.User{}, errors.ErrNotAuthenticated
	}
	s.store.Auth.SetSession(domain.Session{Token: token, User: user})
	s.store.Items.SetFavorites(user.Favorites)
	return user, nil
}

func (s *AuthService) Logout() error {
	if err := s.sessions.ClearSession(); err != nil {
		return err
	}
	s.store.Auth.Clear()
	s.store.Items.SetFavorites(nil)
	return nil
}

// Expire drops the session after the server rejected the token.
func (s *AuthService) Expire() {
	if err := s.sessions.ClearSession(); err != nil {
		s.log.Warn("Unable to clear expired session", "error", err)
	}
	s.store.Auth.Clear()
}
