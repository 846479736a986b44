// Package augment applies post-render interactive upgrades to container
// HTML: multi-image groups become paged galleries and images are wired for
// click-to-enlarge viewing. It also provides the paging and overlay state
// engines those upgrades rely on.
package augment

import (
	"bytes"
	"fmt"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Marker classes recognized on rendered elements.
const (
	// GalleryClass groups images that share one display slot.
	GalleryClass = "gallery"
	// NoZoomClass opts an image out of click-to-enlarge.
	NoZoomClass = "no-zoom"
	// FadeClass marks an element as eligible for the one-shot entrance
	// animation.
	FadeClass = "fade-in"
)

// Apply upgrades rendered container HTML: every gallery group with more than
// one image is paged (first image visible, rest hidden, prev/next controls
// and an "1 / N" counter), every image without the opt-out class is marked
// zoomable, and fade-eligible elements receive their one-shot reveal mark.
// Augmentation is best-effort: if the HTML cannot be parsed, the input is
// returned unchanged.
func Apply(rendered string) string {
	nodes, err := parseFragment(rendered)
	if err != nil {
		return rendered
	}

	for _, n := range nodes {
		walk(n, func(el *xhtml.Node) {
			switch {
			case hasClass(el, GalleryClass):
				upgradeGallery(el)
			case el.DataAtom == atom.Img:
				markZoomable(el)
			}
			if hasClass(el, FadeClass) {
				markReveal(el)
			}
		})
	}
	out, err := renderFragment(nodes)
	if err != nil {
		return rendered
	}
	return out
}

// upgradeGallery pages a multi-image group: index 0 stays visible, the rest
// are hidden, and the controls row is appended. Single-image groups are left
// alone.
func upgradeGallery(group *xhtml.Node) {
	if attrValue(group, "data-gallery-count") != "" {
		// Already upgraded; re-augmentation must not duplicate controls.
		return
	}
	images := childImages(group)
	if len(images) < 2 {
		for _, img := range images {
			markZoomable(img)
		}
		return
	}

	for i, img := range images {
		markZoomable(img)
		setAttr(img, "data-gallery-index", fmt.Sprintf("%d", i))
		if i > 0 {
			setAttr(img, "hidden", "")
		}
	}

	setAttr(group, "data-gallery-count", fmt.Sprintf("%d", len(images)))
	group.AppendChild(galleryControls(len(images)))
}

// galleryControls builds the prev/counter/next row for an n-image gallery.
func galleryControls(n int) *xhtml.Node {
	controls := &xhtml.Node{
		Type:     xhtml.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr:     []xhtml.Attribute{{Key: "class", Val: "gallery-controls"}},
	}

	prev := button("gallery-prev", "data-gallery-prev", "←")
	counter := &xhtml.Node{
		Type:     xhtml.ElementNode,
		DataAtom: atom.Span,
		Data:     "span",
		Attr:     []xhtml.Attribute{{Key: "class", Val: "gallery-counter"}},
	}
	counter.AppendChild(&xhtml.Node{Type: xhtml.TextNode, Data: fmt.Sprintf("1 / %d", n)})
	next := button("gallery-next", "data-gallery-next", "→")

	controls.AppendChild(prev)
	controls.AppendChild(counter)
	controls.AppendChild(next)
	return controls
}

func button(class, marker, label string) *xhtml.Node {
	b := &xhtml.Node{
		Type:     xhtml.ElementNode,
		DataAtom: atom.Button,
		Data:     "button",
		Attr: []xhtml.Attribute{
			{Key: "class", Val: class},
			{Key: marker, Val: ""},
			{Key: "type", Val: "button"},
		},
	}
	b.AppendChild(&xhtml.Node{Type: xhtml.TextNode, Data: label})
	return b
}

// markZoomable wires an image for click-to-enlarge unless it opted out.
func markZoomable(img *xhtml.Node) {
	if hasClass(img, NoZoomClass) || attrValue(img, "data-zoomable") != "" {
		return
	}
	setAttr(img, "data-zoomable", "true")
}

// markReveal marks a fade-eligible element for its entrance animation,
// exactly once per element: a mark already present is never re-applied, so
// the reveal stays one-shot across repeated augmentation.
func markReveal(el *xhtml.Node) {
	if attrValue(el, "data-reveal") != "" {
		return
	}
	setAttr(el, "data-reveal", "pending")
}

func childImages(group *xhtml.Node) []*xhtml.Node {
	var images []*xhtml.Node
	var walkImgs func(*xhtml.Node)
	walkImgs = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.DataAtom == atom.Img {
			images = append(images, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkImgs(c)
		}
	}
	for c := group.FirstChild; c != nil; c = c.NextSibling {
		walkImgs(c)
	}
	return images
}

func walk(n *xhtml.Node, visit func(el *xhtml.Node)) {
	if n.Type == xhtml.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func hasClass(n *xhtml.Node, class string) bool {
	for _, f := range strings.Fields(attrValue(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attrValue(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *xhtml.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, xhtml.Attribute{Key: key, Val: val})
}

func parseFragment(rendered string) ([]*xhtml.Node, error) {
	body := &xhtml.Node{Type: xhtml.ElementNode, DataAtom: atom.Body, Data: "body"}
	return xhtml.ParseFragment(strings.NewReader(rendered), body)
}

func renderFragment(nodes []*xhtml.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := xhtml.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
