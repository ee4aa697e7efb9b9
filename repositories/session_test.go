package repositories

import (
	"log/slog"
	"rentchat/domain"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Session_Save_And_Read(t *testing.T) {
	req := require.New(t)
	repository := NewSessionRepository(openDB(t), slog.Default())
	session := domain.Session{
		Token: "token-abc",
		User: domain.User{
			ID:        "user-1",
			FirstName: "Alice",
			Email:     "alice@example.com",
			Favorites: []domain.ItemID{"item-1"},
		},
	}

	// Given no session is stored
	token, err := repository.Token()
	req.NoError(err)
	req.Empty(token)
	_, found, err := repository.User()
	req.NoError(err)
	req.False(found)

	// When a session is saved
	req.NoError(repository.SaveSession(session))

	// Then token and user are read back
	token, err = repository.Token()
	req.NoError(err)
	req.Equal("token-abc", token)
	user, found, err := repository.User()
	req.NoError(err)
	req.True(found)
	req.Equal(session.User, user)
}

func Test_Session_Clear_Keeps_Preferences(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	sessions := NewSessionRepository(db, slog.Default())
	preferences := NewPreferencesRepository(db)

	req.NoError(sessions.SaveSession(domain.Session{Token: "abc", User: domain.User{ID: "user-1"}}))
	req.NoError(preferences.SetDarkMode(true))

	// When logging out
	req.NoError(sessions.ClearSession())

	// Then the session is gone but the theme stays
	token, err := sessions.Token()
	req.NoError(err)
	req.Empty(token)
	dark, found, err := preferences.DarkMode()
	req.NoError(err)
	req.True(found)
	req.True(dark)
}

func Test_Session_SaveUser_Keeps_Token(t *testing.T) {
	req := require.New(t)
	sessions := NewSessionRepository(openDB(t), slog.Default())
	req.NoError(sessions.SaveSession(domain.Session{Token: "abc", User: domain.User{ID: "user-1", FirstName: "Al"}}))

	req.NoError(sessions.SaveUser(domain.User{ID: "user-1", FirstName: "Alice"}))

	token, err := sessions.Token()
	req.NoError(err)
	req.Equal("abc", token)
	user, _, err := sessions.User()
	req.NoError(err)
	req.Equal("Alice", user.FirstName)
}

func Test_Preferences_Default(t *testing.T) {
	req := require.New(t)
	preferences := NewPreferencesRepository(openDB(t))

	_, found, err := preferences.DarkMode()
	req.NoError(err)
	req.False(found)

	req.NoError(preferences.SetDarkMode(false))
	dark, found, err := preferences.DarkMode()
	req.NoError(err)
	req.True(found)
	req.False(dark)
}
