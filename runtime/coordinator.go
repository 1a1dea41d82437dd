// Package runtime coordinates the session components in response to inbound
// transport events and user intents. It contains the only cross-component
// logic; each component keeps exclusive ownership of its own state.
package runtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"peerchat/contract"
	"peerchat/domain"
	"peerchat/domain/event"
	"peerchat/errors"
	"peerchat/presence"
	"peerchat/projection"
	"peerchat/typing"
)

// SessionState is the lifecycle of the active session.
type SessionState int

const (
	// NoSession means no join has been requested yet.
	NoSession SessionState = iota
	// Joining means a join request was emitted and history is pending.
	Joining
	// Active means the history arrived and the session is live.
	Active
)

func (s SessionState) String() string {
	switch s {
	case Joining:
		return "joining"
	case Active:
		return "active"
	default:
		return "no-session"
	}
}

// Coordinator maps user intents to outbound events and inbound events to
// state mutations. All inbound mutation happens on the single Run goroutine,
// in strict arrival order; user intents only touch their own outbound path
// plus the documented optimistic append for bot prompts.
//
// There is no Left state: calling Join with a different peer silently
// replaces the active session, and the next chat history replaces the log.
type Coordinator struct {
	mu        sync.Mutex
	log       *slog.Logger
	self      string
	publisher contract.Publisher
	source    contract.EventSource
	presence  *presence.Tracker
	typing    *typing.Indicator
	timeline  *projection.Timeline
	sinks     []contract.EventSink

	state   SessionState
	session domain.Session
	newID   func() string
}

func NewCoordinator(
	log *slog.Logger,
	self string,
	publisher contract.Publisher,
	source contract.EventSource,
	tracker *presence.Tracker,
	indicator *typing.Indicator,
	timeline *projection.Timeline,
) *Coordinator {
	return &Coordinator{
		log:       log,
		self:      self,
		publisher: publisher,
		source:    source,
		presence:  tracker,
		typing:    indicator,
		timeline:  timeline,
		newID:     uuid.NewString,
	}
}

// AddSinks registers side-effect consumers notified after each applied
// inbound event.
func (c *Coordinator) AddSinks(sinks ...contract.EventSink) {
	c.sinks = append(c.sinks, sinks...)
}

// Register announces the local identity, to be called once per connection.
func (c *Coordinator) Register(ctx context.Context) error {
	return c.publisher.Publish(ctx, event.Register{Username: c.self})
}

// Join resolves the session for self and peer, marks it pending, and emits a
// join request. The transport answers asynchronously with a chat history.
func (c *Coordinator) Join(ctx context.Context, peer string) error {
	session, err := domain.NewSession(c.self, peer)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.session = session
	c.state = Joining
	c.mu.Unlock()

	c.log.Info("Joining session", "session_id", session.ID, "peer", peer)
	return c.publisher.Publish(ctx, event.JoinRoom{SelfID: c.self, PeerID: peer})
}

// Send emits a user message. The local view is not updated here: the inbound
// echo of one's own message performs the append, keeping the server as the
// single source of truth for order and timestamps.
func (c *Coordinator) Send(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return errors.ErrEmptyMessage
	}

	return c.publisher.Publish(ctx, event.SendMessage{
		ID:        c.newID(),
		SessionID: c.SessionID(),
		Author:    c.self,
		Content:   content,
		CreatedAt: "",
	})
}

// SendToBot emits a prompt to the automated responder and appends a local
// copy immediately, author rewritten to the local display label. Unlike Send
// this is optimistic: the responder never echoes the prompt back.
func (c *Coordinator) SendToBot(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return errors.ErrEmptyMessage
	}

	prompt := event.BotMessage{
		ID:        c.newID(),
		SessionID: c.SessionID(),
		Author:    c.self,
		Content:   content,
		CreatedAt: "",
	}
	if err := c.publisher.Publish(ctx, prompt); err != nil {
		return err
	}

	c.timeline.AppendUnique(domain.Message{
		ID:        prompt.ID,
		SessionID: prompt.SessionID,
		Author:    domain.LocalAuthor,
		Content:   prompt.Content,
	})
	return nil
}

// NotifyTyping emits a typing signal. Invoked on every keystroke; every call
// produces a network event, throttling would change observable traffic.
func (c *Coordinator) NotifyTyping(ctx context.Context) error {
	return c.publisher.Publish(ctx, event.Typing{Author: c.self, SessionID: c.SessionID()})
}

// Run consumes inbound events until the context is cancelled or the
// connection breaks. This is the only goroutine applying inbound mutations.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		evt, err := c.source.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Debug("Stopping coordinator")
				return ctx.Err()
			}
			// Disconnects are the transport's concern, not an error of this
			// core: the session simply stops receiving events.
			c.log.Warn("Transport closed, receive loop stopping", "error", err)
			return nil
		}
		c.HandleEvent(ctx, evt)
	}
}

// HandleEvent applies one inbound event to the owning component, then fans it
// out to the registered sinks. Events must be applied in arrival order; a
// late roster replacing an earlier join notice is accepted behavior.
func (c *Coordinator) HandleEvent(ctx context.Context, e event.Event) {
	switch evt := e.(type) {
	case event.Roster:
		c.presence.ApplyRoster(toParticipants(evt.Participants))
	case event.TypingNotice:
		// The server broadcasts typing to the whole room, including its author.
		if evt.Username != c.self {
			c.typing.Signal(evt.Username)
		}
	case event.MessageReceived:
		c.timeline.AppendUnique(toMessage(evt))
	case event.ChatHistory:
		c.timeline.LoadHistory(lo.Map(evt.Messages, func(m event.MessageReceived, _ int) domain.Message {
			return toMessage(m)
		}))
		c.mu.Lock()
		if c.state == Joining {
			c.state = Active
		}
		c.mu.Unlock()
	case event.ParticipantJoined:
		c.log.Info("Participant joined", "username", evt.Username)
		c.presence.MarkJoined(evt.Username, time.Now().UTC())
	case event.ParticipantLeft:
		c.log.Info("Participant left", "username", evt.Username)
		c.presence.MarkLeft(evt.Username, time.Now().UTC())
	case event.StreamedChunk:
		c.timeline.AppendOrCreateStreamed(evt.MessageID, domain.BotAuthor, evt.TextFragment, c.SessionID())
	default:
		c.log.Debug("Ignoring unhandled event", "event", e.EventName())
		return
	}

	c.fanout(ctx, e)
}

func (c *Coordinator) fanout(ctx context.Context, e event.Event) {
	for _, sink := range c.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			c.log.Warn("Sink failed to consume event", "event", e.EventName(), "error", err)
		}
	}
}

// State reports the session lifecycle phase.
func (c *Coordinator) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the active session, zero-valued before the first join.
func (c *Coordinator) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SessionID returns the active session id, empty before the first join.
func (c *Coordinator) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

// Self returns the local identity.
func (c *Coordinator) Self() string { return c.self }

// Messages returns a snapshot of the session log.
func (c *Coordinator) Messages() []domain.Message { return c.timeline.All() }

// Peers returns a snapshot of the known participants.
func (c *Coordinator) Peers() []domain.Participant { return c.presence.All() }

// TypingAuthor returns the live typing author, if any.
func (c *Coordinator) TypingAuthor() (string, bool) { return c.typing.Current() }

func toParticipants(entries []event.RosterEntry) []domain.Participant {
	return lo.Map(entries, func(e event.RosterEntry, _ int) domain.Participant {
		return domain.Participant{Username: e.Username, Online: e.Online, LastSeen: e.LastSeen}
	})
}

func toMessage(e event.MessageReceived) domain.Message {
	return domain.Message{
		ID:        e.ID,
		SessionID: e.SessionID,
		Author:    e.Author,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}
