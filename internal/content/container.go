// Package content obtains raw document text for named sources and renders it
// into content containers, with fallback-to-prior-content on failure and a
// bounded retry schedule for containers that never produced a render.
package content

import (
	"strings"
	"unicode/utf8"
)

// snapshotLen bounds the excerpt kept as a liveness signal.
const snapshotLen = 80

// Container identifies a target view region. It is created at page
// initialization, mutated on each retrieval attempt, and never explicitly
// destroyed.
type Container struct {
	// SourceID references the document to retrieve.
	SourceID string
	// Fallback is the container's pre-existing content, shown when
	// retrieval fails.
	Fallback string
	// Snapshot is a short excerpt of the most recent successful render.
	// An empty snapshot marks the container as a retry candidate.
	Snapshot string
	// HTML is the currently displayed content.
	HTML string
	// Nav is the navigation list generated from the rendered headings,
	// empty when the document has no navigable headings.
	Nav string
}

// HasSnapshot reports whether the container has rendered successfully at
// least once.
func (c *Container) HasSnapshot() bool { return c.Snapshot != "" }

// snippet returns the leading excerpt of rendered output recorded as the
// container's snapshot.
func snippet(rendered string) string {
	rendered = strings.TrimSpace(rendered)
	if len(rendered) <= snapshotLen {
		return rendered
	}
	cut := snapshotLen
	for cut > 0 && !utf8.RuneStart(rendered[cut]) {
		cut--
	}
	return rendered[:cut]
}
