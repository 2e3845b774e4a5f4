// Package monitor implements the connection state machine used by the
// launcher to watch a server's health endpoint.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/linedeck/linedeck/internal/logging"
)

// State is the monitor's view of the watched server.
type State int

const (
	StateConnected State = iota
	StateChecking
	StateLost
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateChecking:
		return "checking"
	default:
		return "lost"
	}
}

// ProbeFunc performs one health check. A nil error means healthy.
type ProbeFunc func(ctx context.Context) error

// Monitor polls a probe at a fixed interval. Probes never overlap: each
// tick runs one probe to completion before the state settles. After a
// loss, the first successful probe fires the recovery callback exactly
// once and resets the attempt counter.
type Monitor struct {
	probe       ProbeFunc
	interval    time.Duration
	onReconnect func()
	logger      *slog.Logger

	mu       sync.Mutex
	state    State
	attempts int
}

// New builds a monitor. onReconnect may be nil.
func New(probe ProbeFunc, interval time.Duration, onReconnect func(), logger *slog.Logger) *Monitor {
	return &Monitor{
		probe:       probe,
		interval:    interval,
		onReconnect: onReconnect,
		logger:      logger,
		state:       StateConnected,
	}
}

// State returns the current connection state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attempts returns the number of consecutive failed probes since the
// last success.
func (m *Monitor) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Check runs one probe and applies the state transition. It returns the
// resulting state.
func (m *Monitor) Check(ctx context.Context) State {
	m.mu.Lock()
	wasLost := m.state == StateLost
	m.state = StateChecking
	m.mu.Unlock()

	err := m.probe(ctx)

	m.mu.Lock()
	if err != nil {
		m.state = StateLost
		m.attempts++
		attempts := m.attempts
		m.mu.Unlock()

		logging.LogError(m.logger, "health probe failed", err,
			slog.Int("attempts", attempts))
		return StateLost
	}

	m.state = StateConnected
	m.attempts = 0
	m.mu.Unlock()

	if wasLost {
		logging.LogOperation(m.logger, "connection_recovered")
		if m.onReconnect != nil {
			m.onReconnect()
		}
	}
	return StateConnected
}

// Run probes on a ticker until the context is cancelled. Ticks are
// handled synchronously, so a slow probe delays the next one rather
// than stacking up.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// HTTPProbe returns a ProbeFunc that GETs the given URL and treats any
// non-2xx response as a failure.
func HTTPProbe(url string, client *http.Client) ProbeFunc {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("health endpoint returned %d", resp.StatusCode)
		}
		return nil
	}
}
