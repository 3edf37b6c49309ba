package renderer

import "sync"

// State is one of the renderer's lifecycle phases.
type State int

const (
	Idle State = iota
	Rendering
	Aborted
	Shutdown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case Aborted:
		return "aborted"
	case Shutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// RendererState guards the renderer's lifecycle against concurrent access
// from render threads and the control goroutine that can abort or shut one
// down mid-render. Once aborted, a render never resumes: Abort latches
// until the next Reset (or a Begin from Idle, which starts a fresh
// render with the flag cleared), so a straggling render thread that hasn't
// yet observed the abort can still check IsAborted and bail out instead of
// writing more tiles into a buffer the caller has already discarded.
type RendererState struct {
	mu      sync.Mutex
	state   State
	aborted bool
}

// NewRendererState creates a state machine starting at Idle.
func NewRendererState() *RendererState {
	return &RendererState{state: Idle}
}

// Begin transitions Idle -> Rendering. It reports false if the renderer
// was not Idle (a render is already running, or it has been shut down).
func (s *RendererState) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return false
	}
	s.state = Rendering
	s.aborted = false
	return true
}

// Finish transitions Rendering -> Idle, unless the render was aborted in
// the meantime, in which case the state stays Aborted.
func (s *RendererState) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Rendering {
		s.state = Idle
	}
}

// Abort latches the abort flag and moves to Aborted if a render is active.
func (s *RendererState) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aborted = true
	if s.state == Rendering {
		s.state = Aborted
	}
}

// IsAborted reports whether the current (or most recently active) render
// was aborted. Render threads poll this between tiles.
func (s *RendererState) IsAborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

// IsRendering reports whether a render is currently in progress.
func (s *RendererState) IsRendering() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Rendering
}

// Reset returns an Aborted or Idle state to Idle, clearing the abort
// latch so a new render can begin.
func (s *RendererState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Shutdown {
		s.state = Idle
		s.aborted = false
	}
}

// Shut transitions unconditionally to Shutdown; no further render may
// begin after this.
func (s *RendererState) Shut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Shutdown
}

// State returns the current lifecycle state.
func (s *RendererState) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
