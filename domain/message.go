// Package domain contains core concepts of the chat session layer.
// This file defines Message events and related rules.
package domain

// Message represents a chat event in the active session.
//
// The ID is the sole deduplication key: content and timestamp play no part
// in message identity. Messages are append-only; the only permitted mutation
// is content extension while a message is still being streamed.
type Message struct {
	ID        string
	SessionID string
	Author    string
	Content   string
	// CreatedAt is filled by the server side. Locally built messages leave it
	// empty so peers with skewed clocks never disagree on ordering metadata.
	CreatedAt string
}
