package augment

import "sync"

// Overlay models one zoom-viewer instance. Each instance owns its
// key-listener subscription: the subscription is acquired when the overlay
// opens and released exactly once regardless of which dismissal path runs,
// so repeated open/dismiss cycles never leak listeners.
type Overlay struct {
	mu      sync.Mutex
	once    sync.Once
	release func()
	open    bool
}

// OpenOverlay opens an overlay, acquiring its key subscription through
// acquire. acquire returns the release function the overlay will call on
// dismissal; a nil acquire (or nil release) is allowed.
func OpenOverlay(acquire func() (release func())) *Overlay {
	o := &Overlay{open: true}
	if acquire != nil {
		o.release = acquire()
	}
	return o
}

// IsOpen reports whether the overlay is still showing.
func (o *Overlay) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

// DismissBackdrop dismisses via a click on the backdrop.
func (o *Overlay) DismissBackdrop() { o.dismiss() }

// DismissControl dismisses via the explicit close control.
func (o *Overlay) DismissControl() { o.dismiss() }

// DismissEscape dismisses via the Escape key.
func (o *Overlay) DismissEscape() { o.dismiss() }

func (o *Overlay) dismiss() {
	o.once.Do(func() {
		o.mu.Lock()
		o.open = false
		release := o.release
		o.release = nil
		o.mu.Unlock()
		if release != nil {
			release()
		}
	})
}
