package main

import (
	"bufio"
	"context"
	goerrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"

	"peerchat/errors"
	"peerchat/identity"
	"peerchat/internal"
	"peerchat/presence"
	"peerchat/projection"
	"peerchat/runtime"
	"peerchat/runtime/workers"
	"peerchat/sink"
	"peerchat/transport"
	"peerchat/typing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the session lifecycle, and
// centralizes error reporting so deferred cleanups always execute.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Identity store (BadgerDB). Opening failures are not fatal: the
	// registry degrades to an ephemeral identity for this process.
	dbPath := config.IdentityDBPath
	if dbPath == "" {
		dbPath = database.DefaultPath
	}
	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Warn("Identity store unavailable", "path", dbPath, "error", err)
		db = nil
	} else {
		defer func() {
			log.Info("Closing identity store...")
			_ = db.Close()
		}()
	}

	registry := identity.NewRegistry(db, log, promptUsername)
	self := registry.Resolve()
	log.Info("Resolved local identity", "username", self)

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Transport connection, owned here and closed on shutdown
	dialCtx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	ws, err := transport.Dial(dialCtx, config.ServerURL, log)
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", config.ServerURL, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = ws.Close()
	}()

	// 5. Session components & coordinator
	coordinator := runtime.NewCoordinator(
		log, self, ws, ws,
		presence.NewTracker(self),
		typing.NewIndicator(nil),
		projection.NewTimeline(),
	)
	coordinator.AddSinks(sink.NewConsole(os.Stdout, self))

	if err := coordinator.Register(ctx); err != nil {
		return fmt.Errorf("registering identity: %w", err)
	}

	// 6. Supervised workers + input loop
	sup := workers.NewSupervisor(log)
	sup.Add(coordinator, workers.NewHeartbeatWorker(log, config.HeartbeatInterval))

	go readInput(ctx, coordinator, stop)

	color.Gray.Println("Commands: /join <peer>, /bot <text>, /who, /quit")
	sup.Run(ctx)

	log.Info("Program stopped cleanly")
	return nil
}

// readInput translates terminal lines into user intents. A blank send is
// refused silently, matching the send contract.
func readInput(ctx context.Context, coordinator *runtime.Coordinator, stop context.CancelFunc) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()

		var err error
		switch {
		case strings.HasPrefix(line, "/join "):
			err = coordinator.Join(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/join ")))
		case strings.HasPrefix(line, "/bot "):
			err = coordinator.SendToBot(ctx, strings.TrimPrefix(line, "/bot "))
		case strings.TrimSpace(line) == "/who":
			for _, p := range coordinator.Peers() {
				status := "offline"
				if p.Online {
					status = "online"
				}
				fmt.Printf("%s (%s, last seen %s)\n", p.Username, status, p.LastSeen.Format("15:04:05"))
			}
		case strings.TrimSpace(line) == "/quit":
			stop()
			return
		default:
			// Composing a line is the keystroke signal of this surface.
			_ = coordinator.NotifyTyping(ctx)
			err = coordinator.Send(ctx, line)
		}

		if goerrors.Is(err, errors.ErrEmptyMessage) || goerrors.Is(err, errors.ErrInvalidIdentifier) {
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "command failed: %v\n", err)
		}
	}
}

func promptUsername() string {
	fmt.Print("Enter your username: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
