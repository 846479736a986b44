package augment

import "fmt"

// Gallery is the paging engine for one image group: a 0-based index that
// wraps modulo the image count.
type Gallery struct {
	count int
	index int
}

// NewGallery creates a gallery over count images. Counts below one are
// treated as a single slot so the engine never divides by zero.
func NewGallery(count int) *Gallery {
	if count < 1 {
		count = 1
	}
	return &Gallery{count: count}
}

// Next advances to the following image, wrapping to the first after the
// last, and returns the new index.
func (g *Gallery) Next() int {
	g.index = (g.index + 1) % g.count
	return g.index
}

// Prev steps back to the preceding image, wrapping to the last before the
// first, and returns the new index.
func (g *Gallery) Prev() int {
	g.index = (g.index - 1 + g.count) % g.count
	return g.index
}

// Index returns the current 0-based position.
func (g *Gallery) Index() int { return g.index }

// Count returns the number of images.
func (g *Gallery) Count() int { return g.count }

// Counter renders the 1-based "i / N" label shown between the controls.
func (g *Gallery) Counter() string {
	return fmt.Sprintf("%d / %d", g.index+1, g.count)
}
