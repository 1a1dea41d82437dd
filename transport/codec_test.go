package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"peerchat/domain/event"
	"peerchat/errors"
)

func TestCodec_Encode_FramesTheEvent(t *testing.T) {
	req := require.New(t)
	codec := NewCodec()

	// When framing an outbound message
	raw, err := codec.Encode(event.SendMessage{
		ID:      "msg-1",
		Author:  "amy",
		Content: "hi",
	})
	req.NoError(err)

	// Then the envelope carries the discriminator and the payload
	var env Envelope
	req.NoError(json.Unmarshal(raw, &env))
	req.Equal("sendMessage", env.Event)

	var payload map[string]any
	req.NoError(json.Unmarshal(env.Data, &payload))
	req.Equal("msg-1", payload["id"])
	req.Equal("", payload["createdAt"])
}

func TestCodec_Decode_TypedInboundEvents(t *testing.T) {
	req := require.New(t)
	codec := NewCodec()

	decoded, err := codec.Decode([]byte(`{"event":"message","data":{"id":"msg-1","author":"bob","content":"hi","sessionId":"amy-bob","createdAt":"2026-08-31T10:00:00Z"}}`))
	req.NoError(err)

	message, ok := decoded.(event.MessageReceived)
	req.True(ok)
	req.Equal("bob", message.Author)
	req.Equal("2026-08-31T10:00:00Z", message.CreatedAt)

	decoded, err = codec.Decode([]byte(`{"event":"streamedChunk","data":{"messageId":"bot-1","textFragment":"Hel"}}`))
	req.NoError(err)
	chunk, ok := decoded.(event.StreamedChunk)
	req.True(ok)
	req.Equal("Hel", chunk.TextFragment)
}

func TestCodec_Decode_WrapsBareArrays(t *testing.T) {
	req := require.New(t)
	codec := NewCodec()

	// Given a roster that is a bare array on the wire
	decoded, err := codec.Decode([]byte(`{"event":"roster","data":[{"username":"bob","online":true}]}`))
	req.NoError(err)
	roster, ok := decoded.(event.Roster)
	req.True(ok)
	req.Len(roster.Participants, 1)
	req.True(roster.Participants[0].Online)

	// And a chat history shaped the same way
	decoded, err = codec.Decode([]byte(`{"event":"chatHistory","data":[{"id":"h1","author":"bob","content":"hello"}]}`))
	req.NoError(err)
	history, ok := decoded.(event.ChatHistory)
	req.True(ok)
	req.Len(history.Messages, 1)
	req.Equal("h1", history.Messages[0].ID)
}

func TestCodec_Decode_RejectsInvalidPayloads(t *testing.T) {
	req := require.New(t)
	codec := NewCodec()

	// A message without an id cannot be deduplicated, it never reaches the core
	_, err := codec.Decode([]byte(`{"event":"message","data":{"author":"bob","content":"hi"}}`))
	req.Error(err)

	_, err = codec.Decode([]byte(`{"event":"typing","data":{}}`))
	req.Error(err)
}

func TestCodec_Decode_UnknownEvent(t *testing.T) {
	req := require.New(t)
	codec := NewCodec()

	_, err := codec.Decode([]byte(`{"event":"presenceDigest","data":{}}`))
	req.ErrorIs(err, errors.ErrUnknownEvent)
}
