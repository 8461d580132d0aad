// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, key handling, and rendering helpers
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewModel(t *testing.T) {
	model := NewModel(nil) // Controls are optional for testing

	if model.active {
		t.Error("expected active to be false initially")
	}

	if model.step != -1 {
		t.Errorf("expected idle step -1, got %d", model.step)
	}

	if model.showDebug {
		t.Error("expected showDebug to be false initially")
	}

	if model.product == "" {
		t.Error("expected product name to be set")
	}
}

func TestStatusMsgIdentity(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{
		Backend:    "OTO",
		SampleRate: 44100,
		Transport:  "UNIXGRAM",
		Addr:       "/tmp/mbas.sock",
		InstanceID: "abc",
	})

	if model.backend != "OTO" || model.sampleRate != 44100 {
		t.Errorf("unexpected backend %s %d", model.backend, model.sampleRate)
	}
	if model.transport != "UNIXGRAM" || model.addr != "/tmp/mbas.sock" {
		t.Errorf("unexpected transport %s %s", model.transport, model.addr)
	}

	// later updates without identity keep the previous values
	model.applyStatus(StatusMsg{Step: 2, Steps: 4, Active: true})

	if model.backend != "OTO" {
		t.Errorf("expected backend to be kept, got %s", model.backend)
	}
	if model.instanceID != "abc" {
		t.Errorf("expected instance id to be kept, got %s", model.instanceID)
	}
}

func TestStatusMsgSequencer(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{
		Step:         1,
		Steps:        8,
		Active:       true,
		StreamActive: true,
		Triggers:     5,
		Unknown:      2,
		Advances:     3,
		Restarts:     1,
		Finishes:     1,
	})

	if !model.active || !model.streamActive {
		t.Error("expected active sequencer and stream")
	}
	if model.step != 1 || model.steps != 8 {
		t.Errorf("expected step 1 of 8, got %d of %d", model.step, model.steps)
	}
	if model.triggers != 5 || model.unknown != 2 {
		t.Errorf("unexpected trigger counts %d/%d", model.triggers, model.unknown)
	}

	// going idle replaces the state rather than merging it
	model.applyStatus(StatusMsg{Step: -1, Steps: 8, Triggers: 5, Unknown: 2})

	if model.active {
		t.Error("expected idle after update")
	}
	if model.step != -1 {
		t.Errorf("expected step -1, got %d", model.step)
	}
}

func TestKeyQuitSignalsControls(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls)

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !updated.(Model).quitting {
		t.Error("expected quitting state")
	}

	select {
	case <-controls.Quit:
	default:
		t.Error("expected quit signal")
	}
}

func TestKeyTriggerSignalsControls(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls)

	model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	// a second press before the service drains the channel does not block
	model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	select {
	case <-controls.Triggers:
	default:
		t.Error("expected trigger signal")
	}
}

func TestKeyDebugToggle(t *testing.T) {
	model := NewModel(nil)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if !updated.(Model).showDebug {
		t.Error("expected debug view on")
	}
	if !strings.Contains(updated.(Model).View(), "DEBUG") {
		t.Error("expected debug section in view")
	}
}

func TestViewShowsState(t *testing.T) {
	model := NewModel(nil)
	model.applyStatus(StatusMsg{Backend: "NULL", SampleRate: 44100, Transport: "UDP", Addr: ":7777", Advertised: true, Steps: 3, Step: -1})

	view := model.View()
	for _, want := range []string{"IDLE", "NULL 44100Hz", "UDP :7777 (mDNS)"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	model.applyStatus(StatusMsg{Steps: 3, Step: 0, Active: true})
	if !strings.Contains(model.View(), "PLAYING") {
		t.Error("expected PLAYING while active")
	}
}

func TestRenderSteps(t *testing.T) {
	tests := []struct {
		step, steps, width int
		cells              int
		leading, trailing  bool
	}{
		{step: -1, steps: 4, width: 32, cells: 4},
		{step: 0, steps: 100, width: 10, cells: 10, trailing: true},
		{step: 50, steps: 100, width: 10, cells: 10, leading: true, trailing: true},
		{step: 99, steps: 100, width: 10, cells: 10, leading: true},
	}

	for _, tt := range tests {
		s := renderSteps(tt.step, tt.steps, tt.width)
		cells := strings.Count(s, "●") + strings.Count(s, "○")
		if cells != tt.cells {
			t.Errorf("renderSteps(%d, %d, %d): expected %d cells, got %d", tt.step, tt.steps, tt.width, tt.cells, cells)
		}
		if strings.HasPrefix(s, "…") != tt.leading {
			t.Errorf("renderSteps(%d, %d, %d): leading ellipsis mismatch", tt.step, tt.steps, tt.width)
		}
		if strings.HasSuffix(s, "…") != tt.trailing {
			t.Errorf("renderSteps(%d, %d, %d): trailing ellipsis mismatch", tt.step, tt.steps, tt.width)
		}
		if tt.step >= 0 && strings.Count(s, "●") != 1 {
			t.Errorf("renderSteps(%d, %d, %d): expected one active cell", tt.step, tt.steps, tt.width)
		}
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a very long string", 10, "this is..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.length)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tt.input, tt.length, result, tt.expected)
		}
	}
}
