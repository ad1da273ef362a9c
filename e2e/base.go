package e2e

import (
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"messenger/auth"
	"messenger/gateway"
	"messenger/moderation"
	"messenger/repositories"
	"messenger/runtime"
	"messenger/services"
	"messenger/sink"
)

// BaseSuite boots the whole engine in-process: BadgerDB in a temp dir,
// presence registry, fan-out, domain services and the boundary handlers.
// Scenarios talk to gateway.Handlers exactly the way a mounted transport
// would, and observe live delivery through timeline sinks.
type BaseSuite struct {
	suite.Suite
	Config   Config
	Registry *runtime.Registry
	Handlers *gateway.Handlers

	db *badger.DB
}

func (s *BaseSuite) SetupTest() {
	cfg, err := LoadConfig()
	s.Require().NoError(err)
	s.Config = cfg

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	s.db, err = badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)

	s.Registry = runtime.NewRegistry()
	fanout := runtime.NewFanout(log, s.Registry, cfg.SinkTimeout)

	conversationRepository := repositories.NewConversationRepository(s.db, log)
	messageRepository := repositories.NewMessageRepository(s.db, log)

	filter, err := moderation.NewFilter(cfg.CensoredWords, '*')
	s.Require().NoError(err)

	conversationService := services.NewConversationService(log, conversationRepository, fanout)
	messageService := services.NewMessageService(log, messageRepository, conversationService, fanout, filter)

	verifier := auth.NewVerifier([]byte(cfg.TokenSecret))
	roleGate := auth.NewRoleGate(conversationService)
	s.Handlers = gateway.NewHandlers(verifier, roleGate, conversationService, messageService)
}

func (s *BaseSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

// TokenFor signs an access token for the given phone number with the
// shared secret, standing in for the external identity system.
func (s *BaseSuite) TokenFor(number string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.CustomClaims{
		Number: number,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(s.Config.TokenSecret))
	s.Require().NoError(err)
	return token
}

// ConnectDevice registers a fresh timeline sink for the user, as if one
// of their devices opened a live connection.
func (s *BaseSuite) ConnectDevice(userID string) *sink.Timeline {
	timeline := sink.NewTimeline(userID)
	s.Registry.Connect(userID, uuid.NewString(), timeline)
	return timeline
}
