// Package transport adapts the publish/subscribe socket channel.
// It guarantees nothing beyond what the channel itself does: per-connection
// ordering, at-least-once delivery. Deduplication belongs to the consumer.
package transport

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"peerchat/domain/event"
	"peerchat/errors"
)

// Envelope is the wire frame: a discriminator plus the event payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Codec translates between envelopes and typed events. Inbound payloads are
// validated before they reach the session core; a malformed event is rejected
// here, never half-applied downstream.
type Codec struct {
	validate *validator.Validate
}

func NewCodec() *Codec {
	return &Codec{validate: validator.New()}
}

// Encode frames an outbound event.
func (c *Codec) Encode(e event.Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: e.EventName(), Data: data})
}

// Decode maps an inbound frame to its typed event. Roster and history arrive
// as bare arrays on the wire and are wrapped here.
func (c *Codec) Decode(raw []byte) (event.Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	switch env.Event {
	case event.Roster{}.EventName():
		var entries []event.RosterEntry
		if err := json.Unmarshal(env.Data, &entries); err != nil {
			return nil, err
		}
		return c.validated(event.Roster{Participants: entries})
	case event.TypingNotice{}.EventName():
		return decodeInto[event.TypingNotice](c, env.Data)
	case event.MessageReceived{}.EventName():
		return decodeInto[event.MessageReceived](c, env.Data)
	case event.ChatHistory{}.EventName():
		var messages []event.MessageReceived
		if err := json.Unmarshal(env.Data, &messages); err != nil {
			return nil, err
		}
		return c.validated(event.ChatHistory{Messages: messages})
	case event.ParticipantJoined{}.EventName():
		return decodeInto[event.ParticipantJoined](c, env.Data)
	case event.ParticipantLeft{}.EventName():
		return decodeInto[event.ParticipantLeft](c, env.Data)
	case event.StreamedChunk{}.EventName():
		return decodeInto[event.StreamedChunk](c, env.Data)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, env.Event)
	}
}

func decodeInto[E event.Event](c *Codec, data json.RawMessage) (event.Event, error) {
	var e E
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return c.validated(e)
}

func (c *Codec) validated(e event.Event) (event.Event, error) {
	if err := c.validate.Struct(e); err != nil {
		return nil, fmt.Errorf("invalid %s event: %w", e.EventName(), err)
	}
	return e, nil
}
