// Package launcher is a terminal supervisor for the control panel
// server: it spawns the server process, watches its health endpoint,
// and shows live connection state.
package launcher

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linedeck/linedeck/internal/monitor"
)

// Options configures the launcher UI.
type Options struct {
	// ServerCmd is the command line used to spawn the server. Empty
	// means the server is managed externally and only watched.
	ServerCmd []string
	HealthURL string
	PollTick  time.Duration
	Logger    *slog.Logger
}

// stats is shared with the monitor's recovery callback, which runs on
// a probe goroutine.
type stats struct {
	recoveries atomic.Int64
}

// Model is the root launcher state for Bubble Tea.
type Model struct {
	ctx      context.Context
	opts     Options
	monitor  *monitor.Monitor
	stats    *stats
	spinner  spinner.Model
	proc     *exec.Cmd
	procErr  error
	state    monitor.State
	attempts int
	checked  time.Time
	quitting bool
}

// New creates a new launcher model.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.PollTick == 0 {
		opts.PollTick = 3 * time.Second
	}

	st := &stats{}
	mon := monitor.New(
		monitor.HTTPProbe(opts.HealthURL, nil),
		opts.PollTick,
		func() { st.recoveries.Add(1) },
		opts.Logger,
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	return Model{
		ctx:     ctx,
		opts:    opts,
		monitor: mon,
		stats:   st,
		spinner: sp,
		state:   monitor.StateChecking,
	}
}

// Messages

type tickMsg time.Time

type probeMsg struct {
	state    monitor.State
	attempts int
}

type serverStartedMsg struct {
	proc *exec.Cmd
}

type serverExitMsg struct {
	proc *exec.Cmd
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) probeCmd() tea.Cmd {
	return func() tea.Msg {
		state := m.monitor.Check(m.ctx)
		return probeMsg{state: state, attempts: m.monitor.Attempts()}
	}
}

func startServerCmd(args []string) tea.Cmd {
	if len(args) == 0 {
		return nil
	}
	return func() tea.Msg {
		proc := exec.Command(args[0], args[1:]...)
		if err := proc.Start(); err != nil {
			return serverExitMsg{proc: proc, err: err}
		}
		return serverStartedMsg{proc: proc}
	}
}

func (m *Model) stopServer() {
	if m.proc != nil && m.proc.Process != nil {
		_ = m.proc.Process.Kill()
	}
	m.proc = nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.probeCmd(),
	}
	if cmd := startServerCmd(m.opts.ServerCmd); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.stopServer()
			return m, tea.Quit
		case "r":
			m.stopServer()
			if cmd := startServerCmd(m.opts.ServerCmd); cmd != nil {
				return m, cmd
			}
			return m, nil
		}
		return m, nil

	case tickMsg:
		return m, m.probeCmd()

	case probeMsg:
		m.state = msg.state
		m.attempts = msg.attempts
		m.checked = time.Now()
		return m, tickCmd(m.opts.PollTick)

	case serverStartedMsg:
		m.proc = msg.proc
		m.procErr = nil
		proc := msg.proc
		return m, func() tea.Msg {
			return serverExitMsg{proc: proc, err: proc.Wait()}
		}

	case serverExitMsg:
		// Ignore exits from a process we already replaced
		if m.proc != nil && m.proc != msg.proc {
			return m, nil
		}
		m.proc = nil
		m.procErr = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	connectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	checkingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	lostStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	faintStyle     = lipgloss.NewStyle().Faint(true)
)

func (m Model) stateBadge() string {
	switch m.state {
	case monitor.StateConnected:
		return connectedStyle.Render("CONNECTED")
	case monitor.StateChecking:
		return checkingStyle.Render("CHECKING")
	default:
		return lostStyle.Render("LOST")
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Shutting down.\n"
	}

	s := titleStyle.Render("linedeck launcher") + "\n\n"
	s += m.spinner.View() + " " + m.stateBadge() + "\n\n"
	s += faintStyle.Render("health:  ") + m.opts.HealthURL + "\n"
	if m.attempts > 0 {
		s += faintStyle.Render("retries: ") + lostStyle.Render(strconv.Itoa(m.attempts)) + "\n"
	}
	if n := m.stats.recoveries.Load(); n > 0 {
		s += faintStyle.Render("recoveries: ") + strconv.FormatInt(n, 10) + "\n"
	}
	if m.procErr != nil {
		s += lostStyle.Render("server: "+m.procErr.Error()) + "\n"
	} else if m.proc != nil {
		s += faintStyle.Render("server:  ") + "running\n"
	}
	if !m.checked.IsZero() {
		s += faintStyle.Render("checked: ") + m.checked.Format("15:04:05") + "\n"
	}
	s += "\n" + faintStyle.Render("r restart  q quit") + "\n"
	return s
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
