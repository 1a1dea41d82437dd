package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"peerchat/presence"
	"peerchat/projection"
	"peerchat/runtime"
	"peerchat/transport"
	"peerchat/typing"
)

const dialTimeout = 10 * time.Second

// BaseSessionSuite connects real clients to a live server. It is opt-in:
// without E2E_SERVER_URL the whole suite skips.
type BaseSessionSuite struct {
	suite.Suite
	Config Config
	Log    *slog.Logger
}

func (s *BaseSessionSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerURL == "" {
		s.T().Skip("E2E_SERVER_URL not set, skipping live session suite")
	}
	s.Log = logs.GetLoggerFromLevel(slog.LevelDebug)
}

// Step prints a colorized header so scenario phases stand out in the logs.
func (s *BaseSessionSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Connect dials the server as username and returns a running coordinator.
// The receive loop stops with the test context.
func (s *BaseSessionSuite) Connect(ctx context.Context, username string) *runtime.Coordinator {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	ws, err := transport.Dial(dialCtx, s.Config.ServerURL, s.Log)
	s.Require().NoError(err, "Failed to connect to chat server at "+s.Config.ServerURL)
	s.T().Cleanup(func() { _ = ws.Close() })

	coordinator := runtime.NewCoordinator(
		s.Log, username, ws, ws,
		presence.NewTracker(username),
		typing.NewIndicator(nil),
		projection.NewTimeline(),
	)
	s.Require().NoError(coordinator.Register(ctx))

	go func() { _ = coordinator.Run(ctx) }()
	return coordinator
}
