package state

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Entry is one recorded action.
type Entry struct {
	Seq    int
	At     time.Time
	Action Action
}

// MarshalJSON writes the entry as {"seq", "at", "type", "payload"}.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Seq     int       `json:"seq"`
		At      time.Time `json:"at"`
		Type    string    `json:"type"`
		Payload Action    `json:"payload"`
	}{e.Seq, e.At, e.Action.Type(), e.Action})
}

// Log is an append-only record of successful actions. It is safe for
// concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append records a and returns its entry. Sequence numbers start at 1.
func (l *Log) Append(a Action) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := Entry{Seq: len(l.entries) + 1, At: l.now(), Action: a}
	l.entries = append(l.entries, e)
	return e
}

// Entries returns a copy of the recorded entries in order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Replay folds entries over initial with [Reduce]. It stops at the first
// entry that fails and reports its sequence number.
func Replay(initial AppState, entries []Entry) (AppState, error) {
	s := initial
	for _, e := range entries {
		next, err := Reduce(s, e.Action)
		if err != nil {
			return s, fmt.Errorf("replay entry %d (%s): %w", e.Seq, e.Action.Type(), err)
		}
		s = next
	}
	return s, nil
}
