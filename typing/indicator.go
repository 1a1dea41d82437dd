// Package typing tracks the single ephemeral "who is typing" signal.
package typing

import (
	"sync"
	"time"
)

// Window is the fixed lifetime of a typing signal.
const Window = 3 * time.Second

// Indicator holds at most one live signal. A new signal replaces the previous
// one regardless of author; expiry is evaluated lazily at read time, and a
// one-shot timer additionally forces an eager clear so views refresh without
// polling. Superseded timers are never cancelled, they fire as no-ops.
type Indicator struct {
	mu        sync.Mutex
	author    string
	expiresAt time.Time

	window  time.Duration
	now     func() time.Time
	onClear func()
}

// NewIndicator builds an indicator with the fixed window. onClear is invoked
// after an eager expiry and may be nil.
func NewIndicator(onClear func()) *Indicator {
	return &Indicator{window: Window, now: time.Now, onClear: onClear}
}

// Signal records that author is composing a message, resetting the window.
func (i *Indicator) Signal(author string) {
	i.mu.Lock()
	i.author = author
	i.expiresAt = i.now().Add(i.window)
	i.mu.Unlock()

	time.AfterFunc(i.window, i.expire)
}

// Current returns the live author, if any. Once the window elapsed the signal
// reads as absent even if its timer has not fired yet.
func (i *Indicator) Current() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.author == "" || !i.now().Before(i.expiresAt) {
		return "", false
	}
	return i.author, true
}

// expire clears the slot when the deadline passed. A timer superseded by a
// later Signal observes a future deadline and does nothing.
func (i *Indicator) expire() {
	i.mu.Lock()
	expired := i.author != "" && !i.now().Before(i.expiresAt)
	if expired {
		i.author = ""
		i.expiresAt = time.Time{}
	}
	onClear := i.onClear
	i.mu.Unlock()

	if expired && onClear != nil {
		onClear()
	}
}
