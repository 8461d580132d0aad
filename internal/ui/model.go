// ABOUTME: Bubbletea model for the music box status view
// ABOUTME: Defines display state and update logic
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model represents the TUI state
type Model struct {
	// Service
	product    string
	instanceID string
	backend    string
	sampleRate int
	transport  string
	addr       string
	advertised bool

	// Sequencer
	step         int
	steps        int
	active       bool
	streamActive bool

	// Counters
	triggers int64
	unknown  int64
	advances uint64
	restarts uint64
	finishes uint64
	skips    uint64
	frames   uint64

	lastEvent string
	started   time.Time

	// Debug
	showDebug bool
	quitting  bool

	controls *Controls

	// Dimensions
	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

type tickMsg time.Time

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tickEvery()
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.product))
	b.WriteString("\n\n")

	b.WriteString(m.renderService())
	b.WriteString("\n")
	b.WriteString(m.renderSequencer())
	b.WriteString("\n")
	b.WriteString(m.renderStats())

	if m.showDebug {
		b.WriteString("\n")
		b.WriteString(m.renderDebug())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space:Trigger  d:Debug  q:Quit"))

	return b.String()
}

func field(name, value string) string {
	return headerStyle.Render(name+": ") + valueStyle.Render(value) + "\n"
}

// renderService renders backend and transport
func (m Model) renderService() string {
	transport := m.transport
	if m.addr != "" {
		transport = fmt.Sprintf("%s %s", m.transport, m.addr)
	}
	if m.advertised {
		transport += " (mDNS)"
	}

	s := field("Backend", fmt.Sprintf("%s %dHz mono", m.backend, m.sampleRate))
	s += field("Transport", transport)
	if !m.started.IsZero() {
		s += field("Uptime", time.Since(m.started).Round(time.Second).String())
	}
	return s
}

// renderSequencer renders the step strip and state
func (m Model) renderSequencer() string {
	state := idleStyle.Render("IDLE")
	if m.active {
		state = activeStyle.Render("PLAYING")
	}
	stream := "paused"
	if m.streamActive {
		stream = "running"
	}

	s := headerStyle.Render("State: ") + state + valueStyle.Render(" (stream "+stream+")") + "\n"
	if m.steps > 0 {
		s += headerStyle.Render("Steps: ") + renderSteps(m.step, m.steps, 32) + "\n"
	}
	return s
}

// renderStats renders counters
func (m Model) renderStats() string {
	s := field("Triggers", fmt.Sprintf("%d  Unknown: %d", m.triggers, m.unknown))
	s += field("Played", fmt.Sprintf("starts: %d  advances: %d  finishes: %d", m.restarts, m.advances, m.finishes))
	if m.lastEvent != "" {
		s += field("Last", truncate(m.lastEvent, 60))
	}
	return s
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	s := headerStyle.Render("DEBUG") + "\n"
	s += field("  Instance", m.instanceID)
	s += field("  Frames", fmt.Sprintf("%d", m.frames))
	s += field("  Skipped ticks", fmt.Sprintf("%d", m.skips))
	return s
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.controls != nil {
			select {
			case m.controls.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case " ", "t":
		if m.controls != nil {
			select {
			case m.controls.Triggers <- struct{}{}:
			default:
			}
		}
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Product != "" {
		m.product = msg.Product
	}
	if msg.InstanceID != "" {
		m.instanceID = msg.InstanceID
	}
	if msg.Backend != "" {
		m.backend = msg.Backend
		m.sampleRate = msg.SampleRate
	}
	if msg.Transport != "" {
		m.transport = msg.Transport
		m.addr = msg.Addr
		m.advertised = msg.Advertised
	}
	if !msg.Started.IsZero() {
		m.started = msg.Started
	}
	if msg.LastEvent != "" {
		m.lastEvent = msg.LastEvent
	}

	// sequencer state is always present in a status update
	m.step = msg.Step
	m.steps = msg.Steps
	m.active = msg.Active
	m.streamActive = msg.StreamActive
	m.triggers = msg.Triggers
	m.unknown = msg.Unknown
	m.advances = msg.Advances
	m.restarts = msg.Restarts
	m.finishes = msg.Finishes
	m.skips = msg.Skips
	m.frames = msg.Frames
}

// StatusMsg updates TUI state. Identity fields left empty keep their
// previous value; counters and sequencer state replace the old ones.
type StatusMsg struct {
	Product    string
	InstanceID string
	Backend    string
	SampleRate int
	Transport  string
	Addr       string
	Advertised bool
	Started    time.Time
	LastEvent  string

	Step         int
	Steps        int
	Active       bool
	StreamActive bool

	Triggers int64
	Unknown  int64
	Advances uint64
	Restarts uint64
	Finishes uint64
	Skips    uint64
	Frames   uint64
}

// renderSteps draws one cell per step with the active one highlighted.
// Long tables are windowed around the active step.
func renderSteps(step, steps, width int) string {
	start := 0
	if steps > width && step >= 0 {
		start = step - width/2
		if start < 0 {
			start = 0
		}
		if start > steps-width {
			start = steps - width
		}
	}
	end := steps
	if end-start > width {
		end = start + width
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("…")
	}
	for i := start; i < end; i++ {
		if i == step {
			b.WriteString(stepStyle.Render("●"))
		} else {
			b.WriteString(idleStyle.Render("○"))
		}
	}
	if end < steps {
		b.WriteString("…")
	}
	return b.String()
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
