// Package markup renders lightweight-markup documents to HTML through a
// fixed, order-sensitive pipeline of whole-buffer passes. Each pass's output
// is the next pass's input; pass order is a precedence contract (block
// markers before emphasis before images before paragraph wrapping).
package markup

import (
	"regexp"
	"strings"
)

// Heading is a heading recognized during transformation, in document order.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Result is the output of a full document transformation.
type Result struct {
	HTML     string
	Headings []Heading
}

// Options configures a Transformer.
type Options struct {
	// ImageBase is prefixed to relative image paths. Absolute, network and
	// data: paths pass through unchanged.
	ImageBase string
}

// DefaultImageBase is used when Options.ImageBase is empty.
const DefaultImageBase = "../assets/"

// Transformer converts raw markup text to HTML. It is stateless between
// calls; the same input always produces the same output.
type Transformer struct {
	imageBase string
}

// New creates a Transformer.
func New(opts Options) *Transformer {
	base := opts.ImageBase
	if base == "" {
		base = DefaultImageBase
	}
	return &Transformer{imageBase: base}
}

// Transform renders raw markup text to HTML.
func (t *Transformer) Transform(raw string) string {
	return t.TransformDoc(raw).HTML
}

// TransformDoc renders raw markup text to HTML and reports the headings it
// produced, so callers can build navigation without re-parsing.
func (t *Transformer) TransformDoc(raw string) Result {
	p := &pipeline{src: normalizeLineEndings(raw), imageBase: t.imageBase}

	p.liftFencedBlocks()
	p.escapeLiterals()
	p.callouts()
	p.headings()
	p.emphasis()
	p.images()
	p.links()
	p.inlineCode()
	p.quotes()
	p.rules()
	p.lists()
	p.paragraphs()
	p.restoreProtected()

	return Result{HTML: p.src, Headings: collectHeadings(p.src)}
}

var (
	crlfOrCR   = regexp.MustCompile(`\r\n?`)
	headingTag = regexp.MustCompile(`<h([1-6]) id="([^"]*)">(.*?)</h[1-6]>`)
	anyTag     = regexp.MustCompile(`<[^>]*>`)
)

func normalizeLineEndings(s string) string {
	return crlfOrCR.ReplaceAllString(s, "\n")
}

// collectHeadings scans rendered output for heading elements in document
// order. Inline tags inside the heading are stripped from the text.
func collectHeadings(html string) []Heading {
	matches := headingTag.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return nil
	}
	headings := make([]Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, Heading{
			Level: int(m[1][0] - '0'),
			Text:  strings.TrimSpace(anyTag.ReplaceAllString(m[3], "")),
			ID:    m[2],
		})
	}
	return headings
}
