// Package presence maintains the set of known remote participants and their
// online state. It applies events strictly in receipt order: each roster is a
// full replace, join/left notices are advisory upserts. A late roster can
// transiently undo a join notice; last event wins.
package presence

import (
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"peerchat/domain"
)

type Tracker struct {
	mu    sync.RWMutex
	self  string
	known map[string]domain.Participant
}

func NewTracker(self string) *Tracker {
	return &Tracker{
		self:  self,
		known: make(map[string]domain.Participant),
	}
}

// ApplyRoster replaces the known remote set wholesale. The local identity is
// never listed as a peer.
func (t *Tracker) ApplyRoster(list []domain.Participant) {
	t.mu.Lock()
	defer t.mu.Unlock()

	peers := lo.Filter(list, func(p domain.Participant, _ int) bool {
		return p.Username != t.self
	})
	t.known = make(map[string]domain.Participant, len(peers))
	for _, p := range peers {
		t.known[p.Username] = p
	}
}

// MarkJoined records an advisory join notice. An unknown participant is
// created on this first announcement.
func (t *Tracker) MarkJoined(username string, at time.Time) {
	t.upsert(username, true, at)
}

// MarkLeft flips a participant offline without removing it: participants seen
// during the session stay in the known set.
func (t *Tracker) MarkLeft(username string, at time.Time) {
	t.upsert(username, false, at)
}

func (t *Tracker) upsert(username string, online bool, at time.Time) {
	if username == t.self || username == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.known[username] = domain.Participant{Username: username, Online: online, LastSeen: at}
}

// All returns a snapshot sorted by username, safe to hold across updates.
func (t *Tracker) All() []domain.Participant {
	t.mu.RLock()
	defer t.mu.RUnlock()

	peers := lo.Values(t.known)
	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Username < peers[j].Username
	})
	return peers
}
