// Package projection builds the local timeline from observed events.
// Handles ordering, deduplication, and streamed-chunk assembly.
// Does not emit events or interact with UI directly.
package projection

import (
	"sync"

	"peerchat/domain"
)

// Timeline is the ordered, deduplicated message log of the active session.
//
// The message id is the sole identity: the transport may redeliver, and
// duplicates must neither reorder nor duplicate entries. An id→position index
// backs both deduplication and in-place streamed extension, so consumers
// always iterate over snapshots rather than the live slice.
type Timeline struct {
	mu       sync.RWMutex
	messages []domain.Message
	index    map[string]int
}

func NewTimeline() *Timeline {
	return &Timeline{index: make(map[string]int)}
}

// LoadHistory replaces the entire log, used once per room join.
func (t *Timeline) LoadHistory(list []domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = make([]domain.Message, len(list))
	copy(t.messages, list)
	t.index = make(map[string]int, len(list))
	for i, m := range list {
		t.index[m.ID] = i
	}
}

// AppendUnique inserts m at the tail unless its id is already present.
// Reports whether the message was inserted; a duplicate keeps the position
// of the first insertion.
func (t *Timeline) AppendUnique(m domain.Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.index[m.ID]; ok {
		return false
	}
	t.index[m.ID] = len(t.messages)
	t.messages = append(t.messages, m)
	return true
}

// AppendOrCreateStreamed folds a streamed chunk into the message identified
// by id, extending its content by concatenation. When the id is unknown the
// chunk itself constructs the message with the fallback author: chunks may
// arrive before any creation event, absence is not an error.
//
// Chunks are applied in arrival order; intra-message reordering by the
// transport is an accepted risk.
func (t *Timeline) AppendOrCreateStreamed(id, authorFallback, chunk, sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pos, ok := t.index[id]; ok {
		t.messages[pos].Content += chunk
		return
	}
	t.index[id] = len(t.messages)
	t.messages = append(t.messages, domain.Message{
		ID:        id,
		SessionID: sessionID,
		Author:    authorFallback,
		Content:   chunk,
	})
}

// All returns a point-in-time copy, safe to iterate while appends occur.
func (t *Timeline) All() []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make([]domain.Message, len(t.messages))
	copy(snapshot, t.messages)
	return snapshot
}

// Len reports the current number of messages.
func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
