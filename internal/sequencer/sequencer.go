// ABOUTME: Step sequencer state machine driven from the render path
// ABOUTME: Each trigger plays one step; a trigger during a step chains into the next
package sequencer

import (
	"sync/atomic"

	"github.com/Resonate-Protocol/musicbox-go/internal/store"
	"github.com/Resonate-Protocol/musicbox-go/internal/trigger"
)

// Sequencer tracks the active step and playback position.
//
// Fill is called only from the render goroutine, which owns cur and pos.
// The trigger flag is the only state written from elsewhere. Everything
// Snapshot reports is published through atomics so the control side can
// read it without locking the render path.
type Sequencer struct {
	samples []float32
	steps   []store.Step
	flag    *trigger.Flag

	// render-owned
	cur int
	pos int

	step     atomic.Int64
	ticks    atomic.Uint64
	frames   atomic.Uint64
	advances atomic.Uint64
	restarts atomic.Uint64
	finishes atomic.Uint64
}

// Snapshot is a point-in-time view of the sequencer for status displays
type Snapshot struct {
	// Step is the active step index, or -1 when idle
	Step     int
	Active   bool
	Steps    int
	Ticks    uint64
	Frames   uint64
	Advances uint64
	Restarts uint64
	Finishes uint64
}

// New creates an idle sequencer over st, consuming triggers from flag
func New(st *store.Store, flag *trigger.Flag) *Sequencer {
	s := &Sequencer{
		samples: st.Samples,
		steps:   st.Steps,
		flag:    flag,
		cur:     len(st.Steps),
	}
	s.step.Store(-1)
	return s
}

// idle reports whether no step is active
func (s *Sequencer) idle() bool {
	return s.cur == len(s.steps)
}

// Fill writes len(out) frames: step audio while a step is active, silence
// otherwise. It reports whether this tick finished the sequence, i.e. the
// sequencer went from Active to Idle. Fill never blocks or allocates.
func (s *Sequencer) Fill(out []float32) (finished bool) {
	s.ticks.Add(1)

	if s.idle() {
		if !s.flag.Take() {
			// Parked for this tick only. The park is not kept at step 0's
			// right bound, since a later trigger would then advance to step 1
			// instead of restarting at step 0.
			clear(out)
			return false
		}
		s.cur = 0
		s.pos = s.steps[0].Left
		s.restarts.Add(1)
	}

	n := 0
	for n < len(out) {
		right := s.steps[s.cur].Right

		if s.pos < right {
			take := copy(out[n:], s.samples[s.pos:right])
			n += take
			s.pos += take
		}

		if s.pos < right {
			// buffer full mid-step
			break
		}

		if !s.flag.Take() {
			s.cur = len(s.steps)
			finished = true
			break
		}

		s.cur++
		if s.cur == len(s.steps) {
			s.cur = 0
		}
		s.pos = s.steps[s.cur].Left
		s.advances.Add(1)
	}

	clear(out[n:])
	s.frames.Add(uint64(n))

	if finished {
		s.finishes.Add(1)
		s.step.Store(-1)
	} else {
		s.step.Store(int64(s.cur))
	}
	return finished
}

// Active reports whether a step was playing at the end of the last tick
func (s *Sequencer) Active() bool {
	return s.step.Load() >= 0
}

// Snapshot returns the counters published by the last tick
func (s *Sequencer) Snapshot() Snapshot {
	step := int(s.step.Load())
	return Snapshot{
		Step:     step,
		Active:   step >= 0,
		Steps:    len(s.steps),
		Ticks:    s.ticks.Load(),
		Frames:   s.frames.Load(),
		Advances: s.advances.Load(),
		Restarts: s.restarts.Load(),
		Finishes: s.finishes.Load(),
	}
}
