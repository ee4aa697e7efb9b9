package main

import (
	"io"
	"log/slog"
	"rentchat/infrastructure/rest"
	"rentchat/infrastructure/socket"
	"rentchat/internal"
	"rentchat/repositories"
	"rentchat/runtime"
	"rentchat/services"
	"rentchat/store"

	"github.com/dgraph-io/badger/v4"
)

// app holds the wired client, one instance per process.
type app struct {
	config   internal.Config
	log      *slog.Logger
	db       *badger.DB
	in       io.Reader
	out      io.Writer
	store    *store.Store
	notifier *consoleNotifier
	sessions *repositories.SessionRepository
	auth     *services.AuthService
	items    *services.ItemsService
	chat     *services.ChatService
	theme    *services.ThemeService
	profile  *services.ProfileService
}

func newApp(config internal.Config, db *badger.DB, log *slog.Logger, in io.Reader, out io.Writer) (*app, error) {
	a := &app{
		config:   config,
		log:      log,
		db:       db,
		in:       in,
		out:      out,
		store:    store.New(),
		notifier: newConsoleNotifier(out),
		sessions: repositories.NewSessionRepository(db, log),
	}

	// A rejected token clears the persisted session, whatever endpoint rejected it
	client, err := rest.NewClient(config.APIURL, config.RequestTimeout, a.sessions, func() {
		a.auth.Expire()
	}, log)
	if err != nil {
		return nil, err
	}

	registry := runtime.NewRegistry()
	dialer := socket.NewDialer(config.SocketURL, a.sessions, func() {
		a.auth.Expire()
	}, registry, log, config.HandshakeTimeout, config.RestartInterval)

	a.auth = services.NewAuthService(client, a.sessions, a.store, a.notifier, log)
	a.items = services.NewItemsService(client, client, a.store, a.notifier, log)
	a.chat = services.NewChatService(client, dialer, registry, a.store, a.notifier, log, config.ChatPageSize, config.EchoTimeout)
	a.theme = services.NewThemeService(repositories.NewPreferencesRepository(db), client, log)
	a.profile = services.NewProfileService(client, a.sessions, a.store)

	if _, err := a.theme.Load(); err != nil {
		log.Warn("Theme preference unreadable, using light mode", "error", err)
	}
	a.notifier.setTheme(a.theme.Current())
	a.theme.Subscribe(a.notifier.setTheme)
	return a, nil
}
