// Package event defines the events crossing the transport boundary.
// Field contracts mirror the publish/subscribe channel exactly; renaming a
// JSON tag here is a wire-breaking change.
package event

import "time"

// Event is anything exchanged with the transport. EventName is the envelope
// discriminator on the wire.
type Event interface {
	EventName() string
}

// Outbound events.

// Register announces the local identity right after connecting.
type Register struct {
	Username string `json:"username" validate:"required"`
}

func (Register) EventName() string { return "register" }

// JoinRoom asks the transport to bind both identities into one session.
// The server answers asynchronously with a ChatHistory event.
type JoinRoom struct {
	SelfID string `json:"selfId" validate:"required"`
	PeerID string `json:"peerId" validate:"required"`
}

func (JoinRoom) EventName() string { return "joinRoom" }

// SendMessage carries a user message. CreatedAt is deliberately left empty,
// the server is the timestamp authority.
type SendMessage struct {
	ID        string `json:"id" validate:"required"`
	SessionID string `json:"sessionId"`
	Author    string `json:"author" validate:"required"`
	Content   string `json:"content" validate:"required"`
	CreatedAt string `json:"createdAt"`
}

func (SendMessage) EventName() string { return "sendMessage" }

// BotMessage carries a prompt addressed to the automated responder.
// Same field contract as SendMessage, different routing on the server.
type BotMessage struct {
	ID        string `json:"id" validate:"required"`
	SessionID string `json:"sessionId"`
	Author    string `json:"author" validate:"required"`
	Content   string `json:"content" validate:"required"`
	CreatedAt string `json:"createdAt"`
}

func (BotMessage) EventName() string { return "botMessage" }

// Typing is emitted on every keystroke, without local throttling.
type Typing struct {
	Author    string `json:"author" validate:"required"`
	SessionID string `json:"sessionId"`
}

func (Typing) EventName() string { return "typing" }

// Inbound events.

// RosterEntry is one known participant as reported by the server.
type RosterEntry struct {
	Username string    `json:"username" validate:"required"`
	LastSeen time.Time `json:"lastSeen"`
	Online   bool      `json:"online"`
}

// Roster is the authoritative, full replacement of the known participant set.
type Roster struct {
	Participants []RosterEntry `json:"participants" validate:"dive"`
}

func (Roster) EventName() string { return "roster" }

// TypingNotice reports that a participant is composing a message.
type TypingNotice struct {
	Username string `json:"username" validate:"required"`
}

func (TypingNotice) EventName() string { return "typing" }

// MessageReceived is a delivered message, including the echo of one's own
// sends. Delivery is at-least-once; the id keys deduplication downstream.
type MessageReceived struct {
	ID        string `json:"id" validate:"required"`
	Content   string `json:"content"`
	Author    string `json:"author" validate:"required"`
	SessionID string `json:"sessionId"`
	CreatedAt string `json:"createdAt"`
}

func (MessageReceived) EventName() string { return "message" }

// ChatHistory replaces the whole message log, sent once per room join.
type ChatHistory struct {
	Messages []MessageReceived `json:"messages" validate:"dive"`
}

func (ChatHistory) EventName() string { return "chatHistory" }

// ParticipantJoined is advisory; a later Roster remains authoritative.
type ParticipantJoined struct {
	Username string `json:"username" validate:"required"`
}

func (ParticipantJoined) EventName() string { return "participantJoined" }

// ParticipantLeft is advisory; a later Roster remains authoritative.
type ParticipantLeft struct {
	Username string `json:"username" validate:"required"`
}

func (ParticipantLeft) EventName() string { return "participantLeft" }

// StreamedChunk extends (or creates) the streamed message identified by
// MessageID. Chunks are folded in arrival order.
type StreamedChunk struct {
	MessageID    string `json:"messageId" validate:"required"`
	TextFragment string `json:"textFragment"`
}

func (StreamedChunk) EventName() string { return "streamedChunk" }
