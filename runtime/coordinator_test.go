package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"peerchat/domain"
	"peerchat/domain/event"
	"peerchat/errors"
	"peerchat/mocks"
	"peerchat/presence"
	"peerchat/projection"
	"peerchat/typing"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *mocks.MockPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	coordinator := NewCoordinator(
		slog.Default(), "amy", publisher, nil,
		presence.NewTracker("amy"),
		typing.NewIndicator(nil),
		projection.NewTimeline(),
	)
	return coordinator, publisher
}

func TestCoordinator_Join_EmitsRequestAndMarksJoining(t *testing.T) {
	req := require.New(t)
	coordinator, publisher := newTestCoordinator(t)

	// Then exactly one join request carries both identities
	publisher.EXPECT().
		Publish(gomock.Any(), event.JoinRoom{SelfID: "amy", PeerID: "bob"}).
		Return(nil).
		Times(1)

	// When joining bob
	req.NoError(coordinator.Join(context.Background(), "bob"))

	req.Equal(Joining, coordinator.State())
	req.Equal("amy-bob", coordinator.SessionID())
}

func TestCoordinator_Join_EmptyPeerIsSurfaced(t *testing.T) {
	req := require.New(t)
	coordinator, _ := newTestCoordinator(t)

	// When joining an empty identifier, nothing is published
	err := coordinator.Join(context.Background(), "")

	req.ErrorIs(err, errors.ErrInvalidIdentifier)
	req.Equal(NoSession, coordinator.State())
}

func TestCoordinator_Send_RefusesBlankContent(t *testing.T) {
	req := require.New(t)
	coordinator, _ := newTestCoordinator(t)

	// When sending blank content, no event is emitted and the store is untouched
	req.ErrorIs(coordinator.Send(context.Background(), ""), errors.ErrEmptyMessage)
	req.ErrorIs(coordinator.Send(context.Background(), "   "), errors.ErrEmptyMessage)
	req.Empty(coordinator.Messages())
}

func TestCoordinator_Send_NoOptimisticAppend(t *testing.T) {
	req := require.New(t)
	coordinator, publisher := newTestCoordinator(t)
	joinSession(t, coordinator, publisher, "bob")

	var sent event.SendMessage
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.AssignableToTypeOf(event.SendMessage{})).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			sent = e.(event.SendMessage)
			return nil
		}).
		Times(1)

	// When sending a message
	req.NoError(coordinator.Send(context.Background(), "hi"))

	// Then the emitted event has a fresh id and no local timestamp
	req.NotEmpty(sent.ID)
	req.Equal("amy-bob", sent.SessionID)
	req.Equal("amy", sent.Author)
	req.Equal("hi", sent.Content)
	req.Empty(sent.CreatedAt)

	// And the local view waits for the inbound echo
	req.Empty(coordinator.Messages())
}

func TestCoordinator_EchoedOwnMessageAppendsOnce(t *testing.T) {
	req := require.New(t)
	coordinator, _ := newTestCoordinator(t)
	ctx := context.Background()

	echo := event.MessageReceived{
		ID:        "msg-1",
		Author:    "amy",
		Content:   "hi",
		SessionID: "amy-bob",
		CreatedAt: "2026-08-31T10:00:00Z",
	}

	// When the transport delivers the echo twice (at-least-once delivery)
	coordinator.HandleEvent(ctx, echo)
	coordinator.HandleEvent(ctx, echo)

	// Then the log holds exactly one copy
	messages := coordinator.Messages()
	req.Len(messages, 1)
	req.Equal("2026-08-31T10:00:00Z", messages[0].CreatedAt)
}

func TestCoordinator_SendToBot_AppendsOptimistically(t *testing.T) {
	req := require.New(t)
	coordinator, publisher := newTestCoordinator(t)
	joinSession(t, coordinator, publisher, "bob")

	var prompt event.BotMessage
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.AssignableToTypeOf(event.BotMessage{})).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			prompt = e.(event.BotMessage)
			return nil
		}).
		Times(1)

	// When sending a prompt to the responder
	req.NoError(coordinator.SendToBot(context.Background(), "ping"))

	// Then the local view already shows it, rewritten to the display label,
	// before any transport response
	messages := coordinator.Messages()
	req.Len(messages, 1)
	req.Equal(domain.LocalAuthor, messages[0].Author)
	req.Equal("ping", messages[0].Content)
	req.Equal(prompt.ID, messages[0].ID)

	// And the published prompt still names the real author
	req.Equal("amy", prompt.Author)
}

func TestCoordinator_NotifyTyping_EmitsEveryCall(t *testing.T) {
	req := require.New(t)
	coordinator, publisher := newTestCoordinator(t)

	// Then every keystroke produces a network event, no throttling
	publisher.EXPECT().
		Publish(gomock.Any(), event.Typing{Author: "amy", SessionID: ""}).
		Return(nil).
		Times(3)

	ctx := context.Background()
	req.NoError(coordinator.NotifyTyping(ctx))
	req.NoError(coordinator.NotifyTyping(ctx))
	req.NoError(coordinator.NotifyTyping(ctx))
}

func TestCoordinator_ChatHistory_ActivatesSession(t *testing.T) {
	req := require.New(t)
	coordinator, publisher := newTestCoordinator(t)
	joinSession(t, coordinator, publisher, "bob")

	// Given a message from a previous room
	coordinator.HandleEvent(context.Background(), event.MessageReceived{ID: "stale", Author: "zoe"})

	// When the history answer arrives
	coordinator.HandleEvent(context.Background(), event.ChatHistory{Messages: []event.MessageReceived{
		{ID: "h1", Author: "bob", Content: "hello", SessionID: "amy-bob"},
	}})

	// Then the session is active and the log fully replaced
	req.Equal(Active, coordinator.State())
	messages := coordinator.Messages()
	req.Len(messages, 1)
	req.Equal("h1", messages[0].ID)
}

func TestCoordinator_TypingNotice_IgnoresSelf(t *testing.T) {
	req := require.New(t)
	coordinator, _ := newTestCoordinator(t)
	ctx := context.Background()

	// When the server broadcasts the local author's own typing signal
	coordinator.HandleEvent(ctx, event.TypingNotice{Username: "amy"})
	_, ok := coordinator.TypingAuthor()
	req.False(ok)

	// And a remote signal is reported
	coordinator.HandleEvent(ctx, event.TypingNotice{Username: "bob"})
	author, ok := coordinator.TypingAuthor()
	req.True(ok)
	req.Equal("bob", author)
}

func TestCoordinator_StreamedChunks_AssembleBotMessage(t *testing.T) {
	req := require.New(t)
	coordinator, publisher := newTestCoordinator(t)
	joinSession(t, coordinator, publisher, "bob")
	ctx := context.Background()

	// When chunks arrive for an id never announced by a message event
	coordinator.HandleEvent(ctx, event.StreamedChunk{MessageID: "bot-1", TextFragment: "Hel"})
	coordinator.HandleEvent(ctx, event.StreamedChunk{MessageID: "bot-1", TextFragment: "lo"})

	messages := coordinator.Messages()
	req.Len(messages, 1)
	req.Equal(domain.BotAuthor, messages[0].Author)
	req.Equal("Hello", messages[0].Content)
	req.Equal("amy-bob", messages[0].SessionID)
}

func TestCoordinator_Roster_UpdatesPresence(t *testing.T) {
	req := require.New(t)
	coordinator, _ := newTestCoordinator(t)

	coordinator.HandleEvent(context.Background(), event.Roster{Participants: []event.RosterEntry{
		{Username: "amy", Online: true},
		{Username: "bob", Online: true, LastSeen: time.Now().UTC()},
	}})

	peers := coordinator.Peers()
	req.Len(peers, 1)
	req.Equal("bob", peers[0].Username)
	req.True(peers[0].Online)
}

func TestCoordinator_FansOutAppliedEvents(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockEventSink(ctrl)
	coordinator.AddSinks(sink)

	incoming := event.MessageReceived{ID: "msg-1", Author: "bob", Content: "hi"}

	// Then the sink observes the applied event, and a sink failure only logs
	sink.EXPECT().Consume(gomock.Any(), incoming).Return(nil).Times(1)
	sink.EXPECT().Consume(gomock.Any(), gomock.AssignableToTypeOf(event.TypingNotice{})).
		Return(fmt.Errorf("render failed")).
		Times(1)

	ctx := context.Background()
	coordinator.HandleEvent(ctx, incoming)
	coordinator.HandleEvent(ctx, event.TypingNotice{Username: "bob"})
}

func TestCoordinator_Run_StopsQuietlyOnDisconnect(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	source := mocks.NewMockEventSource(ctrl)
	coordinator := NewCoordinator(
		slog.Default(), "amy", publisher, source,
		presence.NewTracker("amy"),
		typing.NewIndicator(nil),
		projection.NewTimeline(),
	)

	// Given one delivered event followed by a broken connection
	gomock.InOrder(
		source.EXPECT().Receive(gomock.Any()).
			Return(event.MessageReceived{ID: "msg-1", Author: "bob", Content: "hi"}, nil),
		source.EXPECT().Receive(gomock.Any()).
			Return(nil, fmt.Errorf("connection reset")),
	)

	// When the receive loop runs, a disconnect is not an error of this core
	req.NoError(coordinator.Run(context.Background()))
	req.Len(coordinator.Messages(), 1)
}

// joinSession drives the coordinator into an active session.
func joinSession(t *testing.T, coordinator *Coordinator, publisher *mocks.MockPublisher, peer string) {
	t.Helper()
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.AssignableToTypeOf(event.JoinRoom{})).
		Return(nil).
		Times(1)
	require.NoError(t, coordinator.Join(context.Background(), peer))
}
