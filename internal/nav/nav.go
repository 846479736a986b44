// Package nav builds the navigation list for a rendered document and tracks
// scroll position against it (active-section highlight, progress indicator).
package nav

import (
	"fmt"
	"html"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/mlind/docview/internal/slug"
)

// Entry is one navigation item, derived 1:1 from a heading at levels 2-5.
type Entry struct {
	Level int
	Text  string
	ID    string
}

// Build scans rendered container HTML for headings at levels 2 through 5
// (level 1 and 6 are excluded from navigation) and emits a flat ordered list
// mirroring document order, with a level-derived class for visual indent.
// ok is false when the document has no navigable headings; callers skip the
// navigation region entirely in that case.
func Build(rendered string) (navHTML string, ok bool) {
	entries := Scan(rendered)
	if len(entries) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(`<ul class="doc-nav">` + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, `<li class="nav-level-%d"><a href="#%s">%s</a></li>`+"\n",
			e.Level, e.ID, html.EscapeString(e.Text))
	}
	b.WriteString("</ul>")
	return b.String(), true
}

// Scan extracts navigation entries from rendered HTML in document order.
// A heading that already carries an identifier keeps it, so repeated renders
// address the same anchor; headings without one get a slug of their text.
func Scan(rendered string) []Entry {
	doc, err := xhtml.Parse(strings.NewReader(rendered))
	if err != nil {
		return nil
	}

	var entries []Entry
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode {
			if level := headingLevel(n.Data); level >= 2 && level <= 5 {
				text := strings.TrimSpace(textContent(n))
				id := attrValue(n, "id")
				if id == "" {
					id = slug.Make(text)
				}
				entries = append(entries, Entry{Level: level, Text: text, ID: id})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return entries
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attrValue(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *xhtml.Node) string {
	if n.Type == xhtml.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
