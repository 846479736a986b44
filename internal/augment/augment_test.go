package augment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_GalleryUpgrade(t *testing.T) {
	in := `<div class="gallery"><img src="a.png" alt="a"><img src="b.png" alt="b"><img src="c.png" alt="c"></div>`
	out := Apply(in)

	assert.Contains(t, out, `data-gallery-count="3"`)
	assert.Contains(t, out, `data-gallery-index="0"`)
	assert.Contains(t, out, `data-gallery-index="2"`)
	assert.Contains(t, out, "1 / 3")
	assert.Contains(t, out, "gallery-prev")
	assert.Contains(t, out, "gallery-next")

	// First image visible, the rest hidden.
	first := strings.Index(out, `src="a.png"`)
	require.Greater(t, first, -1)
	assert.NotContains(t, out[:first], "hidden")
	assert.Equal(t, 2, strings.Count(out, `hidden=""`))
}

func TestApply_SingleImageGroupNotUpgraded(t *testing.T) {
	out := Apply(`<div class="gallery"><img src="only.png" alt="x"></div>`)
	assert.NotContains(t, out, "gallery-controls")
	assert.NotContains(t, out, "data-gallery-count")
	assert.Contains(t, out, `data-zoomable="true"`, "lone image is still zoomable")
}

func TestApply_ZoomMarking(t *testing.T) {
	out := Apply(`<img src="a.png" alt="a"><img src="b.png" alt="b" class="no-zoom">`)

	assert.Equal(t, 1, strings.Count(out, `data-zoomable="true"`))
	// The opted-out image keeps its class and gains no mark.
	noZoom := out[strings.Index(out, "b.png"):]
	assert.NotContains(t, noZoom, "data-zoomable")
}

func TestApply_RevealMarkIsOneShot(t *testing.T) {
	once := Apply(`<section class="fade-in"><p>text</p></section>`)
	assert.Contains(t, once, `data-reveal="pending"`)

	twice := Apply(once)
	assert.Equal(t, 1, strings.Count(twice, "data-reveal"), "re-augmentation never re-marks")
}

func TestApply_MalformedInputReturnsSomething(t *testing.T) {
	in := `<div class="gallery"><img src="a.png"`
	out := Apply(in)
	assert.NotEmpty(t, out)
}

func TestApply_Idempotent(t *testing.T) {
	in := `<div class="gallery"><img src="a.png" alt="a"><img src="b.png" alt="b"></div>`
	once := Apply(in)
	twice := Apply(once)

	assert.Equal(t, strings.Count(once, "gallery-controls"), strings.Count(twice, "gallery-controls"),
		"controls are not duplicated on re-augmentation")
}

func TestGallery_NextWraps(t *testing.T) {
	g := NewGallery(3)
	require.Equal(t, 0, g.Index())

	assert.Equal(t, 1, g.Next())
	assert.Equal(t, 2, g.Next())
	assert.Equal(t, 0, g.Next(), "wraps after the last image")
}

func TestGallery_PrevWrapsFromZero(t *testing.T) {
	g := NewGallery(3)
	assert.Equal(t, 2, g.Prev(), "previous from index 0 goes to the last image")
	assert.Equal(t, 1, g.Prev())
	assert.Equal(t, 0, g.Prev())
}

func TestGallery_Counter(t *testing.T) {
	g := NewGallery(3)
	assert.Equal(t, "1 / 3", g.Counter())
	g.Next()
	assert.Equal(t, "2 / 3", g.Counter())
}

func TestGallery_MinimumCount(t *testing.T) {
	g := NewGallery(0)
	assert.Equal(t, 1, g.Count())
	assert.Equal(t, 0, g.Next())
}

func TestOverlay_ReleasesOnEveryDismissalPath(t *testing.T) {
	paths := []struct {
		name    string
		dismiss func(*Overlay)
	}{
		{"backdrop", (*Overlay).DismissBackdrop},
		{"control", (*Overlay).DismissControl},
		{"escape", (*Overlay).DismissEscape},
	}
	for _, p := range paths {
		t.Run(p.name, func(t *testing.T) {
			released := 0
			o := OpenOverlay(func() func() {
				return func() { released++ }
			})
			require.True(t, o.IsOpen())

			p.dismiss(o)
			assert.False(t, o.IsOpen())
			assert.Equal(t, 1, released)
		})
	}
}

func TestOverlay_ReleaseExactlyOnce(t *testing.T) {
	released := 0
	o := OpenOverlay(func() func() { return func() { released++ } })

	o.DismissEscape()
	o.DismissBackdrop()
	o.DismissControl()
	assert.Equal(t, 1, released, "multiple dismissal paths release a single time")
}

func TestOverlay_NoListenerLeakAcrossOpenings(t *testing.T) {
	active := 0
	acquire := func() func() {
		active++
		return func() { active-- }
	}

	for range 5 {
		o := OpenOverlay(acquire)
		require.Equal(t, 1, active, "exactly one live subscription per open overlay")
		o.DismissEscape()
	}
	assert.Equal(t, 0, active)
}

func TestOverlay_NilAcquire(t *testing.T) {
	o := OpenOverlay(nil)
	o.DismissControl()
	assert.False(t, o.IsOpen())
}
