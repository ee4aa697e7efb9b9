package services

import (
	"context"
	"fmt"
	"rentchat/auth"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/repositories"
	"rentchat/store"
)

type ProfileService struct {
	users    contract.IUsersAPI
	sessions repositories.ISessionRepository
	store    *store.Store
}

func NewProfileService(users contract.IUsersAPI, sessions repositories.ISessionRepository, store *store.Store) *ProfileService {
	return &ProfileService{users: users, sessions: sessions, store: store}
}

func (s *ProfileService) Profile(ctx context.Context) (domain.User, error) {
	user, err := s.users.Profile(ctx)
	if err != nil {
		return domain.User{}, err
	}
	return user, s.refresh(user)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	if err := auth.Validate(update); err != nil {
		return domain.User{}, err
	}
	user, err := s.users.UpdateProfile(ctx, update)
	if err != nil {
		return domain.User{}, err
	}
	return user, s.refresh(user)
}

func (s *ProfileService) refresh(user domain.User) error {
	if err := s.sessions.SaveUser(user); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	s.store.Auth.SetUser(user)
	return nil
}
