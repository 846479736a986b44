package markup

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/mlind/docview/internal/slug"
)

// calloutKinds are matched case-insensitively on the kind keyword.
var calloutKinds = []string{"note", "warning", "tip", "info", "important"}

// Precompiled patterns, one per pass.
var (
	escapedChar = regexp.MustCompile("\\\\([\\\\`*_{}\\[\\]()#+\\-.!>])")

	fencedBlock = regexp.MustCompile("(?ms)^```([\\w+-]*)[ \t]*\\n(.*?)\\n```[ \t]*$")
	inlineSpan  = regexp.MustCompile("`([^`\n]+)`")

	// Heading patterns, longest marker first, so "##" never partially
	// matches a "######" line.
	headingLine = [6]*regexp.Regexp{
		regexp.MustCompile(`(?m)^###### (.+)$`),
		regexp.MustCompile(`(?m)^##### (.+)$`),
		regexp.MustCompile(`(?m)^#### (.+)$`),
		regexp.MustCompile(`(?m)^### (.+)$`),
		regexp.MustCompile(`(?m)^## (.+)$`),
		regexp.MustCompile(`(?m)^# (.+)$`),
	}

	// Emphasis, triple before double before single so shared marker
	// characters are never counted twice. Content excludes the marker
	// character, which also keeps "***" rule lines intact for the rule pass.
	boldItalicStar  = regexp.MustCompile(`\*\*\*([^*\n]+)\*\*\*`)
	boldItalicUnder = regexp.MustCompile(`___([^_\n]+)___`)
	boldStar        = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	boldUnder       = regexp.MustCompile(`__([^_\n]+)__`)
	italicStar      = regexp.MustCompile(`\*([^*\n]+)\*`)
	italicUnder     = regexp.MustCompile(`_([^_\n]+)_`)

	// Image forms in strict priority order: captioned, classed, plain.
	imageCaptioned = regexp.MustCompile(`!\[([^\]]*)\]\(([^)"\s]+)[ \t]+"([^"]*)"\)`)
	imageClassed   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)\{\.([A-Za-z0-9_-]+)\}`)
	imagePlain     = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

	linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	quoteLine      = regexp.MustCompile(`(?m)^> ?(.*)$`)
	adjacentQuotes = regexp.MustCompile(`</blockquote>\n<blockquote>`)

	ruleDashes = regexp.MustCompile(`(?m)^-{3,}$`)
	ruleStars  = regexp.MustCompile(`(?m)^\*{3,}$`)

	unorderedItem = regexp.MustCompile(`^[-*] (.*)$`)
	orderedItem   = regexp.MustCompile(`^\d+\. (.*)$`)

	blankLines = regexp.MustCompile(`\n{2,}`)
	blockStart = regexp.MustCompile(`^<(?:h[1-6]|ul|ol|li|blockquote|pre|div|hr|figure|p)\b`)
)

// pipeline carries the buffer through the ordered passes of one render.
type pipeline struct {
	src       string
	imageBase string
	protected []string
}

// protect lifts rendered HTML out of the buffer so later passes cannot
// disturb it; restoreProtected puts it back after the final pass.
func (p *pipeline) protect(rendered string) string {
	p.protected = append(p.protected, rendered)
	return fmt.Sprintf("\x00%d\x00", len(p.protected)-1)
}

func (p *pipeline) restoreProtected() {
	for i, rendered := range p.protected {
		p.src = strings.Replace(p.src, fmt.Sprintf("\x00%d\x00", i), rendered, 1)
	}
}

// escapeLiterals converts backslash-escaped markup characters to numeric
// entities before any inline syntax is recognized, so they render literally.
// Fenced blocks are already lifted out at this point and keep their escapes.
func (p *pipeline) escapeLiterals() {
	p.src = escapedChar.ReplaceAllStringFunc(p.src, func(m string) string {
		return fmt.Sprintf("&#%d;", m[1])
	})
}

// callouts extracts :::kind ... ::: blocks for each of the five kinds. The
// kind keyword matches case-insensitively; the nearest end marker closes the
// block (nested callouts are undefined behavior).
func (p *pipeline) callouts() {
	for _, kind := range calloutKinds {
		re := regexp.MustCompile(`(?ims)^:::` + kind + `[ \t]*\n(.*?)\n:::[ \t]*$`)
		title := strings.ToUpper(kind[:1]) + kind[1:]
		p.src = re.ReplaceAllStringFunc(p.src, func(m string) string {
			content := re.FindStringSubmatch(m)[1]
			return `<div class="callout callout-` + kind + `"><p class="callout-title">` + title + `</p>` + content + `</div>`
		})
	}
}

// liftFencedBlocks matches each fenced code block as an atomic multi-line
// unit and protects it from every later pass; the optional language tag is
// used only for a class name. This runs before every other pass so fence
// contents (backslash escapes included) stay byte-for-byte raw.
func (p *pipeline) liftFencedBlocks() {
	p.src = fencedBlock.ReplaceAllStringFunc(p.src, func(m string) string {
		sub := fencedBlock.FindStringSubmatch(m)
		lang, code := sub[1], sub[2]
		open := "<pre><code>"
		if lang != "" {
			open = `<pre><code class="language-` + lang + `">`
		}
		return p.protect(open + html.EscapeString(code) + "</code></pre>")
	})
}

func (p *pipeline) headings() {
	for i, re := range headingLine {
		level := 6 - i
		tag := fmt.Sprintf("h%d", level)
		p.src = re.ReplaceAllStringFunc(p.src, func(m string) string {
			text := re.FindStringSubmatch(m)[1]
			return `<` + tag + ` id="` + slug.Make(text) + `">` + text + `</` + tag + `>`
		})
	}
}

func (p *pipeline) emphasis() {
	p.src = boldItalicStar.ReplaceAllString(p.src, "<strong><em>$1</em></strong>")
	p.src = boldItalicUnder.ReplaceAllString(p.src, "<strong><em>$1</em></strong>")
	p.src = boldStar.ReplaceAllString(p.src, "<strong>$1</strong>")
	p.src = boldUnder.ReplaceAllString(p.src, "<strong>$1</strong>")
	p.src = italicStar.ReplaceAllString(p.src, "<em>$1</em>")
	p.src = italicUnder.ReplaceAllString(p.src, "<em>$1</em>")
}

// resolveImagePath passes absolute, network and inline-data paths through
// unchanged; every other path gets the configured image base prefix.
func (p *pipeline) resolveImagePath(path string) string {
	if strings.HasPrefix(path, "/") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "data:") {
		return path
	}
	return p.imageBase + path
}

// images recognizes the three image forms in strict priority order. The
// captioned pattern carries no closing-paren-only constraint, so on input
// like ![a](p.png "c"){.x} it matches first and the caption wins; the
// trailing class marker is left as literal text.
func (p *pipeline) images() {
	p.src = imageCaptioned.ReplaceAllStringFunc(p.src, func(m string) string {
		sub := imageCaptioned.FindStringSubmatch(m)
		src := html.EscapeString(p.resolveImagePath(sub[2]))
		return `<figure><img src="` + src + `" alt="` + html.EscapeString(sub[1]) + `"><figcaption>` + html.EscapeString(sub[3]) + `</figcaption></figure>`
	})
	p.src = imageClassed.ReplaceAllStringFunc(p.src, func(m string) string {
		sub := imageClassed.FindStringSubmatch(m)
		src := html.EscapeString(p.resolveImagePath(sub[2]))
		return `<img src="` + src + `" alt="` + html.EscapeString(sub[1]) + `" class="` + sub[3] + `">`
	})
	p.src = imagePlain.ReplaceAllStringFunc(p.src, func(m string) string {
		sub := imagePlain.FindStringSubmatch(m)
		src := html.EscapeString(p.resolveImagePath(sub[2]))
		return `<img src="` + src + `" alt="` + html.EscapeString(sub[1]) + `">`
	})
}

func (p *pipeline) links() {
	p.src = linkPattern.ReplaceAllString(p.src, `<a href="$2">$1</a>`)
}

func (p *pipeline) inlineCode() {
	p.src = inlineSpan.ReplaceAllStringFunc(p.src, func(m string) string {
		content := inlineSpan.FindStringSubmatch(m)[1]
		return p.protect("<code>" + html.EscapeString(content) + "</code>")
	})
}

// quotes converts each quote line, then merges adjacent quote blocks into a
// single element rather than one block per line.
func (p *pipeline) quotes() {
	p.src = quoteLine.ReplaceAllString(p.src, "<blockquote>$1</blockquote>")
	p.src = adjacentQuotes.ReplaceAllString(p.src, "\n")
}

func (p *pipeline) rules() {
	p.src = ruleDashes.ReplaceAllString(p.src, "<hr>")
	p.src = ruleStars.ReplaceAllString(p.src, "<hr>")
}

// lists is a single forward scan over lines: open/close tags depend on the
// transition between consecutive lines, so this cannot be a per-line regex
// substitution. A change in list type or a non-list line closes the open
// list before continuing.
func (p *pipeline) lists() {
	lines := strings.Split(p.src, "\n")
	out := make([]string, 0, len(lines)+2)
	open := ""
	closeOpen := func() {
		if open != "" {
			out = append(out, "</"+open+">")
			open = ""
		}
	}
	for _, line := range lines {
		if m := unorderedItem.FindStringSubmatch(line); m != nil {
			if open != "ul" {
				closeOpen()
				out = append(out, "<ul>")
				open = "ul"
			}
			out = append(out, "<li>"+m[1]+"</li>")
			continue
		}
		if m := orderedItem.FindStringSubmatch(line); m != nil {
			if open != "ol" {
				closeOpen()
				out = append(out, "<ol>")
				open = "ol"
			}
			out = append(out, "<li>"+m[1]+"</li>")
			continue
		}
		closeOpen()
		out = append(out, line)
	}
	closeOpen()
	p.src = strings.Join(out, "\n")
}

// paragraphs splits the remaining text on blank-line boundaries and wraps
// any block that does not already start with a block-level element (or a
// protected block) in a paragraph, converting single newlines inside the
// block to line breaks. Empty blocks are dropped. Re-running the transform
// never double-wraps existing block elements.
func (p *pipeline) paragraphs() {
	blocks := blankLines.Split(p.src, -1)
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		if blockStart.MatchString(block) || strings.HasPrefix(block, "\x00") {
			out = append(out, block)
			continue
		}
		out = append(out, "<p>"+strings.ReplaceAll(block, "\n", "<br>\n")+"</p>")
	}
	p.src = strings.Join(out, "\n")
}
