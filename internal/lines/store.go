package lines

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// GoodService is the canonical default status text. An empty DisplayText
// is treated as equivalent for colour and semantics.
const GoodService = "Good Service"

// ErrUnknownLine is returned when a line ID is not in the catalogue.
var ErrUnknownLine = errors.New("unknown line")

// IsGoodService reports whether the given status text means "no disruption".
func IsGoodService(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "" || t == "good service"
}

// LineStatus is the current status record for a single line.
type LineStatus struct {
	ID             string    `json:"lineId"`
	DisplayText    string    `json:"displayText"`
	ManualOverride bool      `json:"isManualOverride"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Store holds the last-known status for every catalogue line. It is the
// single shared mutable structure in the server; all access goes through
// one coarse lock. Callers must copy a snapshot out before making any
// network call rather than holding the lock across it.
type Store struct {
	mu       sync.Mutex
	statuses map[string]*LineStatus
	now      func() time.Time
}

// NewStore creates a store with every catalogue line set to Good Service.
func NewStore() *Store {
	s := &Store{
		statuses: make(map[string]*LineStatus, len(Catalogue)),
		now:      time.Now,
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	ts := s.now()
	for _, l := range Catalogue {
		s.statuses[l.ID] = &LineStatus{
			ID:          l.ID,
			DisplayText: GoodService,
			LastUpdated: ts,
		}
	}
}

// Get returns the status for a single line.
func (s *Store) Get(id string) (LineStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[id]
	if !ok {
		return LineStatus{}, ErrUnknownLine
	}
	return *st, nil
}

// SetAuto records a fetched status for a line. Lines under manual override
// are left untouched so an auto-refresh cycle never clobbers a pending
// operator edit; the skip is silent and not an error.
func (s *Store) SetAuto(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[id]
	if !ok {
		return ErrUnknownLine
	}
	if st.ManualOverride {
		return nil
	}
	st.DisplayText = text
	st.LastUpdated = s.now()
	return nil
}

// SetManual records an operator-entered status and marks the line as
// manually overridden.
func (s *Store) SetManual(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[id]
	if !ok {
		return ErrUnknownLine
	}
	st.DisplayText = text
	st.ManualOverride = true
	st.LastUpdated = s.now()
	return nil
}

// ResetAll returns every line to Good Service and clears all overrides.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Snapshot returns a copy of every line's status in catalogue order.
func (s *Store) Snapshot() []LineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make([]LineStatus, 0, len(Catalogue))
	for _, l := range Catalogue {
		snap = append(snap, *s.statuses[l.ID])
	}
	return snap
}
