// Package domain contains core concepts of the chat session layer.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

const (
	// BotAuthor is the reserved synthetic participant producing streamed responses.
	BotAuthor = "Bot"
	// LocalAuthor is the display label used when a bot prompt is echoed locally.
	LocalAuthor = "You"
)

// Participant is a peer seen during the session. Participants are created on
// their first presence announcement and are never deleted, only marked offline.
type Participant struct {
	Username string
	Online   bool
	LastSeen time.Time
}
