package app

import (
	"sync"
	"time"
)

// eventLogCapacity bounds the in-memory event history.
const eventLogCapacity = 200

// Event is one operator-visible action or background outcome.
type Event struct {
	At     time.Time `json:"at"`
	Kind   string    `json:"kind"`
	Detail any       `json:"detail,omitempty"`
}

// EventLog is a fixed-capacity ring of recent events. Old entries are
// dropped silently once the ring is full.
type EventLog struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

// NewEventLog returns an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{now: time.Now}
}

// Record appends one event, evicting the oldest when at capacity.
func (l *EventLog) Record(kind string, detail any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, Event{At: l.now(), Kind: kind, Detail: detail})
	if len(l.events) > eventLogCapacity {
		l.events = l.events[len(l.events)-eventLogCapacity:]
	}
}

// Tail returns the most recent n events, newest last. n <= 0 returns
// everything retained.
func (l *EventLog) Tail(n int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	out := make([]Event, n)
	copy(out, l.events[len(l.events)-n:])
	return out
}
