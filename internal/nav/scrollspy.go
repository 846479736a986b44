package nav

import "sync"

// DefaultClearance is the header-clearance offset applied below the viewport
// top when deciding which section is active.
const DefaultClearance = 100

// HeadingPosition pairs a heading identifier with its vertical position in
// the document, in document order.
type HeadingPosition struct {
	ID     string
	Offset float64
}

// Tracker resolves the active section for a scroll position. The active
// heading is the last one (in document order) whose position is at or above
// the effective scroll offset; when none qualify, no heading is active.
type Tracker struct {
	headings  []HeadingPosition
	clearance float64
}

// NewTracker creates a Tracker over headings in document order. A clearance
// of zero means DefaultClearance.
func NewTracker(headings []HeadingPosition, clearance float64) *Tracker {
	if clearance == 0 {
		clearance = DefaultClearance
	}
	return &Tracker{headings: headings, clearance: clearance}
}

// Active returns the identifier of the active heading for scrollY, or ""
// when no heading qualifies.
func (t *Tracker) Active(scrollY float64) string {
	effective := scrollY + t.clearance
	active := ""
	for _, h := range t.headings {
		if h.Offset <= effective {
			active = h.ID
		}
	}
	return active
}

// Progress returns the progress indicator fill as a percentage of document
// scroll, clamped to [0, 100]. A document no taller than the viewport is
// fully read.
func Progress(scrollY, docHeight, viewportHeight float64) float64 {
	scrollable := docHeight - viewportHeight
	if scrollable <= 0 {
		return 100
	}
	pct := scrollY / scrollable * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// FrameGate throttles scroll-driven recomputation to at most one pending
// update per animation frame: Request reports whether the caller should
// schedule a recomputation; further requests coalesce until Flush runs it.
type FrameGate struct {
	mu      sync.Mutex
	pending bool
}

// Request reports whether a recomputation should be scheduled now.
func (g *FrameGate) Request() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending {
		return false
	}
	g.pending = true
	return true
}

// Flush marks the pending recomputation as run, admitting the next Request.
func (g *FrameGate) Flush() {
	g.mu.Lock()
	g.pending = false
	g.mu.Unlock()
}
