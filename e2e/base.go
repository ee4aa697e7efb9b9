package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"rentchat/contract"
	"rentchat/infrastructure/rest"
	"rentchat/infrastructure/socket"
	"rentchat/repositories"
	"rentchat/runtime"
	"rentchat/services"
	"rentchat/store"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

// BaseSuite runs the real client stack against an in-process Backend.
type BaseSuite struct {
	suite.Suite
	Config Config

	Backend  *Backend
	DB       *badger.DB
	Store    *store.Store
	Sessions *repositories.SessionRepository
	Notifier *recordingNotifier
	Auth     *services.AuthService
	Items    *services.ItemsService
	Chat     *services.ChatService
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseSuite) SetupTest() {
	log := logs.GetLoggerFromString(s.Config.LogLevel)
	s.Backend = NewBackend()

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.DB = db

	s.Store = store.New()
	s.Sessions = repositories.NewSessionRepository(db, log)
	s.Notifier = &recordingNotifier{}

	client, err := rest.NewClient(s.Backend.APIURL(), 5*time.Second, s.Sessions, func() {
		s.Auth.Expire()
	}, log)
	s.Require().NoError(err)

	registry := runtime.NewRegistry()
	dialer := socket.NewDialer(s.Backend.SocketURL(), s.Sessions, func() {
		s.Auth.Expire()
	}, registry, log, 5*time.Second, 50*time.Millisecond)
	s.Auth = services.NewAuthService(client, s.Sessions, s.Store, s.Notifier, log)
	s.Items = services.NewItemsService(client, client, s.Store, s.Notifier, log)
	s.Chat = services.NewChatService(client, dialer, registry, s.Store, s.Notifier, log, s.Config.PageSize, s.Config.EchoTimeout)
}

func (s *BaseSuite) TearDownTest() {
	s.Backend.Close()
	s.Require().NoError(s.DB.Close())
}

// Step prints a colorized header then runs fn as a subtest.
func (s *BaseSuite) Step(name string, fn func(ctx context.Context)) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	s.Run(name, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		fn(ctx)
	})
}

func (s *BaseSuite) Login(ctx context.Context) {
	_, err := s.Auth.Login(ctx, "ada@example.com", "ComplexPass123!")
	s.Require().NoError(err)
}

var _ contract.Notifier = (*recordingNotifier)(nil)

type recordingNotifier struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

func (n *recordingNotifier) Info(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, message)
}

func (n *recordingNotifier) Error(message string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	slog.Default().Debug("Notified", "message", message, "error", err)
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}
