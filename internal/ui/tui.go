// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and its control channels
package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Resonate-Protocol/musicbox-go/internal/version"
)

// Controls carries user actions from the TUI to the service
type Controls struct {
	Triggers chan struct{}
	Quit     chan struct{}
}

// NewControls creates the control channels
func NewControls() *Controls {
	return &Controls{
		Triggers: make(chan struct{}, 1),
		Quit:     make(chan struct{}, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{
		product:  version.String(),
		step:     -1,
		controls: controls,
	}
}

// TUI runs the status view
type TUI struct {
	program  *tea.Program
	controls *Controls
	updates  chan StatusMsg
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a TUI; options are passed to bubbletea
func New(opts ...tea.ProgramOption) *TUI {
	controls := NewControls()
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &TUI{
		program:  tea.NewProgram(NewModel(controls), opts...),
		controls: controls,
		updates:  make(chan StatusMsg, 10),
		done:     make(chan struct{}),
	}
}

// Run blocks until the user quits or Stop is called
func (t *TUI) Run() error {
	go func() {
		for {
			select {
			case status := <-t.updates:
				t.program.Send(status)
			case <-t.done:
				return
			}
		}
	}()

	_, err := t.program.Run()
	t.stopOnce.Do(func() { close(t.done) })
	return err
}

// Update sends a status update to the TUI without blocking
func (t *TUI) Update(status StatusMsg) {
	select {
	case t.updates <- status:
	default:
	}
}

// Controls returns the channels fed by key presses
func (t *TUI) Controls() *Controls {
	return t.controls
}

// Stop ends the program
func (t *TUI) Stop() {
	t.program.Quit()
}
