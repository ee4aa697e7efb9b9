//go:generate go run go.uber.org/mock/mockgen -source=preferences.go -destination=../mocks/mock_preferences_repository.go -package=mocks
package repositories

import (
	"errors"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

type IPreferencesRepository interface {
	DarkMode() (dark bool, found bool, err error)
	SetDarkMode(dark bool) error
}

type PreferencesRepository struct {
	db *badger.DB
}

func NewPreferencesRepository(db *badger.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

func (p *PreferencesRepository) DarkMode() (bool, bool, error) {
	var dark bool
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(darkModeKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			parsed, err := strconv.ParseBool(string(val))
			dark = parsed
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return dark, true, nil
}

func (p *PreferencesRepository) SetDarkMode(dark bool) error {
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(darkModeKey), []byte(strconv.FormatBool(dark)))
	})
}
