// Package view renders the HTML page shell that hosts rendered document
// containers, the navigation region, and the reading-progress bar.
package view

import (
	"bytes"
	"fmt"
	"html/template"
)

// PageData carries everything the page shell needs.
type PageData struct {
	// Title is the page title.
	Title string
	// ContainerID identifies the document container element.
	ContainerID string
	// SourceID is the document source identifier carried on the container.
	SourceID string
	// NavTarget identifies the navigation target region; empty disables it.
	NavTarget string
	// Body is the rendered document markup. Empty means the fallback inside
	// the container is left to the retrieval coordinator.
	Body template.HTML
	// Nav is the rendered navigation list.
	Nav template.HTML
	// HeaderClearance is the scroll offset used for active-section tracking.
	HeaderClearance float64
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/static/docview.css">
</head>
<body data-header-clearance="{{.HeaderClearance}}">
<div class="progress-track"><div class="progress-bar" id="reading-progress"></div></div>
{{- if .NavTarget}}
<nav id="{{.NavTarget}}" class="doc-nav-region">{{.Nav}}</nav>
{{- end}}
<main>
<div id="{{.ContainerID}}" class="markdown-container" data-md-src="{{.SourceID}}">{{.Body}}</div>
</main>
</body>
</html>
`

// Renderer renders page shells from the built-in template.
type Renderer struct {
	tpl *template.Template
}

// NewRenderer parses the page template.
func NewRenderer() (*Renderer, error) {
	tpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render produces the page shell for the given data.
func (r *Renderer) Render(data PageData) (string, error) {
	if data.Title == "" {
		data.Title = "docview"
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}
