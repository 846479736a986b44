package view

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIncludesContainerAndSource(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	out, err := r.Render(PageData{
		Title:           "Guide",
		ContainerID:     "markdown-content",
		SourceID:        "intro.md",
		NavTarget:       "sidebar-nav",
		Body:            template.HTML("<h2 id=\"intro\">Intro</h2>"),
		Nav:             template.HTML("<ul class=\"doc-nav\"></ul>"),
		HeaderClearance: 100,
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<title>Guide</title>`)
	assert.Contains(t, out, `id="markdown-content"`)
	assert.Contains(t, out, `data-md-src="intro.md"`)
	assert.Contains(t, out, `<h2 id="intro">Intro</h2>`)
	assert.Contains(t, out, `<nav id="sidebar-nav"`)
	assert.Contains(t, out, `id="reading-progress"`)
	assert.Contains(t, out, `data-header-clearance="100"`)
}

func TestRenderOmitsNavRegionWhenUnset(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	out, err := r.Render(PageData{ContainerID: "markdown-content", SourceID: "a.md"})
	require.NoError(t, err)

	assert.NotContains(t, out, "<nav")
	assert.Contains(t, out, `<title>docview</title>`)
}

func TestRenderEscapesSourceAttribute(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	out, err := r.Render(PageData{ContainerID: "c", SourceID: `a"onload="x`})
	require.NoError(t, err)
	assert.NotContains(t, out, `onload="x"`)
}
