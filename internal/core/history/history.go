// Package history keeps a bounded, in-memory record of notices that have
// left the scheduler, whether they were shown and retired or discarded
// before display.
package history

import (
	"sync"
	"time"

	"github.com/colonyops/noticeq/internal/core/eventbus"
	"github.com/colonyops/noticeq/internal/core/notice"
)

// DefaultLimit is the number of entries kept when New is given a
// non-positive limit.
const DefaultLimit = 100

// Entry records the final outcome of one notice.
type Entry struct {
	ID      uint64        `json:"id"`
	Message string        `json:"message"`
	Kind    notice.Kind   `json:"type"`
	Source  string        `json:"source,omitempty"`
	Outcome notice.State  `json:"outcome"`
	Reason  notice.Reason `json:"reason,omitempty"`
	At      time.Time     `json:"at"`
}

// Shown reports whether the notice was displayed before it ended.
func (e Entry) Shown() bool {
	return e.Outcome == notice.StateRemoved
}

// Log is a fixed-size ring of entries. It is safe for concurrent use so
// that readers outside the scheduler goroutine can take snapshots.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
	now     func() time.Time
}

// New creates a log holding at most limit entries. now stamps entries and
// defaults to time.Now.
func New(limit int, now func() time.Time) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if now == nil {
		now = time.Now
	}
	return &Log{entries: make([]Entry, limit), now: now}
}

// Attach subscribes the log to every terminal lifecycle event on bus.
func (l *Log) Attach(bus *eventbus.EventBus) {
	if bus == nil {
		return
	}
	bus.SubscribeNoticeRemoved(func(p eventbus.NoticeRemovedPayload) {
		l.record(p.Request, notice.StateRemoved, p.Reason)
	})
	bus.SubscribeNoticeEvicted(func(p eventbus.NoticeEvictedPayload) {
		l.record(p.Request, notice.StateEvicted, "")
	})
	bus.SubscribeNoticeRejected(func(p eventbus.NoticeRejectedPayload) {
		l.record(p.Request, notice.StateRejected, "")
	})
	bus.SubscribeNoticeWithdrawn(func(p eventbus.NoticeWithdrawnPayload) {
		l.record(p.Request, notice.StateWithdrawn, "")
	})
}

func (l *Log) record(req notice.Request, outcome notice.State, reason notice.Reason) {
	l.Add(Entry{
		ID:      req.ID,
		Message: req.Message,
		Kind:    req.Kind,
		Source:  req.Source,
		Outcome: outcome,
		Reason:  reason,
	})
}

// Add appends e, overwriting the oldest entry once the log is full. A zero
// At is stamped with the current time.
func (l *Log) Add(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.At.IsZero() {
		e.At = l.now()
	}

	l.entries[l.next] = e
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Len returns the number of stored entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lenLocked()
}

func (l *Log) lenLocked() int {
	if l.full {
		return len(l.entries)
	}
	return l.next
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (l *Log) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	size := l.lenLocked()
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Entry, 0, n)
	for i := range n {
		idx := (l.next - 1 - i + len(l.entries)) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}

// Counts tallies stored entries by outcome.
func (l *Log) Counts() map[notice.State]int {
	counts := make(map[notice.State]int)
	for _, e := range l.Recent(0) {
		counts[e.Outcome]++
	}
	return counts
}

// Clear drops every entry.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(l.entries)
	l.next = 0
	l.full = false
}
