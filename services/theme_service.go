package services

import (
	"context"
	"log/slog"
	"rentchat/contract"
	"rentchat/domain"
	"rentchat/repositories"
	"sync"
)

// ThemeService owns the current theme. Screens get it injected instead of
// reading a global.
type ThemeService struct {
	mu          sync.RWMutex
	theme       domain.Theme
	prefs       repositories.IPreferencesRepository
	users       contract.IUsersAPI
	log         *slog.Logger
	subscribers []func(domain.Theme)
}

func NewThemeService(prefs repositories.IPreferencesRepository, users contract.IUsersAPI, log *slog.Logger) *ThemeService {
	return &ThemeService{
		theme: domain.NewTheme(false),
		prefs: prefs,
		users: users,
		log:   log,
	}
}

// Load reads the persisted preference, light mode when none was saved.
func (s *ThemeService) Load() (domain.Theme, error) {
	dark, found, err := s.prefs.DarkMode()
	if err != nil {
		return s.Current(), err
	}
	if found {
		s.apply(dark)
	}
	return s.Current(), nil
}

func (s *ThemeService) Current() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetDarkMode persists locally then syncs the account.
// A failed sync is logged only: the local preference wins.
func (s *ThemeService) SetDarkMode(ctx context.Context, dark bool) (domain.Theme, error) {
	if err := s.prefs.SetDarkMode(dark); err != nil {
		return s.Current(), err
	}
	theme := s.apply(dark)
	if s.users != nil {
		if err := s.users.UpdateTheme(ctx, dark); err != nil {
			s.log.Warn("Theme not synced with the account", "error", err)
		}
	}
	return theme, nil
}

func (s *ThemeService) Toggle(ctx context.Context) (domain.Theme, error) {
	return s.SetDarkMode(ctx, !s.Current().DarkMode)
}

// Subscribe registers fn to be called after every theme change.
func (s *ThemeService) Subscribe(fn func(domain.Theme)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *ThemeService) apply(dark bool) domain.Theme {
	s.mu.Lock()
	s.theme = domain.NewTheme(dark)
	theme := s.theme
	subscribers := append([]func(domain.Theme){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(theme)
	}
	return theme
}
