//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../mocks/mock_session_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"rentchat/domain"

	"github.com/dgraph-io/badger/v4"
)

// Fixed storage keys, shared with the preference repository.
const (
	tokenKey    = "userToken"
	userKey     = "userData"
	darkModeKey = "isDarkMode"
)

type ISessionRepository interface {
	SaveSession(session domain.Session) error
	Token() (string, error)
	User() (domain.User, bool, error)
	SaveUser(user domain.User) error
	ClearSession() error
}

type SessionRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSessionRepository(db *badger.DB, log *slog.Logger) *SessionRepository {
	return &SessionRepository{db: db, log: log}
}

// SaveSession persists the bearer token and the serialized user atomically.
func (s *SessionRepository) SaveSession(session domain.Session) error {
	userBytes, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(tokenKey), []byte(session.Token)); err != nil {
			return err
		}
		return txn.Set([]byte(userKey), userBytes)
	})
}

// Token returns the persisted bearer token, "" when no session is stored.
func (s *SessionRepository) Token() (string, error) {
	var token string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tokenKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	return token, err
}

// User returns the persisted user, found is false when logged out.
func (s *SessionRepository) User() (domain.User, bool, error) {
	var user domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return user, true, nil
}

// SaveUser refreshes the stored user after a profile change, keeping the token.
func (s *SessionRepository) SaveUser(user domain.User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(userKey), userBytes)
	})
}

// ClearSession removes token and user. The theme preference survives a logout.
func (s *SessionRepository) ClearSession() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(tokenKey)); err != nil {
			return err
		}
		return txn.Delete([]byte(userKey))
	})
	if err == nil {
		s.log.Debug("Session cleared")
	}
	return err
}
