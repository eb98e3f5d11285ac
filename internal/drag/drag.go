// Package drag tracks a reorder gesture over an indexed list.
//
// A [State] is Idle, Dragging a source item, or Dragging over a target item. Only a
// drop with a recorded target produces a move; every other ending is a cancel.
package drag

import "fmt"

// Kind is the phase of a drag gesture.
type Kind int

const (
	Idle Kind = iota
	Dragging
	DraggingOverTarget
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case DraggingOverTarget:
		return "dragging-over-target"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is the tagged drag state. The zero value is Idle.
type State struct {
	kind   Kind
	source int
	target int
}

func (s State) Kind() Kind { return s.kind }

// Source returns the index being dragged.
func (s State) Source() (int, bool) {
	if s.kind == Idle {
		return 0, false
	}
	return s.source, true
}

// Target returns the index currently hovered.
func (s State) Target() (int, bool) {
	if s.kind != DraggingOverTarget {
		return 0, false
	}
	return s.target, true
}

// Start picks up item i. It is ignored unless the state is Idle.
func (s *State) Start(i int) {
	if s.kind != Idle {
		return
	}
	*s = State{kind: Dragging, source: i}
}

// Enter records j as the drop target.
//
// Entering the source item is not a target: while Dragging it is ignored, and while
// over another target it clears that target.
func (s *State) Enter(j int) {
	switch s.kind {
	case Dragging:
		if j != s.source {
			s.kind, s.target = DraggingOverTarget, j
		}
	case DraggingOverTarget:
		if j == s.source {
			s.Leave()
			return
		}
		s.target = j
	}
}

// Leave clears the target and its highlight. The source stays picked up.
func (s *State) Leave() {
	if s.kind == DraggingOverTarget {
		*s = State{kind: Dragging, source: s.source}
	}
}

// End returns to Idle. ok is true only when a target had been recorded.
func (s *State) End() (from, to int, ok bool) {
	if s.kind == DraggingOverTarget {
		from, to, ok = s.source, s.target, true
	}
	*s = State{}
	return from, to, ok
}

// Highlight reports whether item i is the current drop target.
func (s State) Highlight(i int) bool {
	return s.kind == DraggingOverTarget && s.target == i
}

// IsSource reports whether item i is being dragged.
func (s State) IsSource(i int) bool {
	return s.kind != Idle && s.source == i
}

// Commit applies a move and reports whether anything changed.
type Commit func(from, to int) bool

// Gesture couples a [State] with the operation a drop commits.
type Gesture struct {
	State
	commit Commit
}

func NewGesture(commit Commit) *Gesture {
	return &Gesture{commit: commit}
}

// Drop ends the gesture and commits the move when a target was recorded.
func (g *Gesture) Drop() bool {
	from, to, ok := g.End()
	if !ok || g.commit == nil {
		return false
	}
	return g.commit(from, to)
}

// Cancel ends the gesture without committing.
func (g *Gesture) Cancel() {
	g.End()
}
