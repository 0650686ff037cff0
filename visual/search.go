package visual

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/log"
)

// Match is one search hit: where it starts and the marker drawn over it.
type Match struct {
	Node   *dom.Node
	Offset int
	Marker *dom.Node
}

// Start returns the boundary point the hit starts at.
func (m Match) Start() dom.Point {
	return dom.Point{Node: m.Node, Offset: m.Offset}
}

// skipTags never contribute searchable text.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"mark":     true,
}

// CompilePattern compiles query with JavaScript regular expression
// semantics. A query that is not a valid pattern is searched literally.
func CompilePattern(query string, caseSensitive bool) (*regexp2.Regexp, error) {
	if query == "" || query == "." {
		return nil, ErrEmptyPattern
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if !caseSensitive {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(query, opts)
	if err != nil {
		log.Debug("query is not a pattern, searching literally", "query", query, "err", err)
		re, err = regexp2.Compile(regexp2.Escape(query), opts)
	}
	return re, err
}

// textFilter accepts rendered, non-blank text nodes whose data passes test.
// Elements that never paint text are rejected with their subtree.
func textFilter(doc *dom.Document, test func(string) bool) dom.NodeFilter {
	return func(n *dom.Node) dom.FilterResult {
		if n.Type == dom.ElementNode {
			if skipTags[n.Tag] || !doc.IsRendered(n) {
				return dom.FilterReject
			}
			return dom.FilterSkip
		}
		if strings.TrimSpace(n.Data) == "" || n.Parent == nil || !doc.IsRendered(n.Parent) {
			return dom.FilterReject
		}
		if r := doc.BoundingClientRect(n.Parent); r.Width < 1 || r.Height < 1 {
			return dom.FilterReject
		}
		if test != nil && !test(n.Data) {
			return dom.FilterReject
		}
		return dom.FilterAccept
	}
}

// Highlighter finds every occurrence of a pattern and keeps a marker over
// each one.
type Highlighter struct {
	doc       *dom.Document
	holder    *dom.Node
	markStyle string

	matches []Match
	current int

	scrollNodes []*dom.Node
}

// NewHighlighter returns a highlighter for doc.
func NewHighlighter(doc *dom.Document) *Highlighter {
	holder := dom.NewElement("div", "class", "visual-marks")
	holder.SetOverlay(dom.Absolute, dom.Rect{})
	return &Highlighter{doc: doc, holder: holder}
}

// Matches returns the current hits.
func (h *Highlighter) Matches() []Match {
	return h.matches
}

// Current returns the index of the current occurrence.
func (h *Highlighter) Current() int {
	return h.current
}

// SetCurrent moves the current occurrence, wrapping around.
func (h *Highlighter) SetCurrent(i int) {
	if len(h.matches) == 0 {
		h.current = 0
		return
	}
	h.current = ((i % len(h.matches)) + len(h.matches)) % len(h.matches)
}

// SetMarkStyle sets the style attribute of markers created from now on and
// of the existing ones.
func (h *Highlighter) SetMarkStyle(style string) {
	h.markStyle = style
	for _, m := range h.matches {
		m.Marker.SetAttr("style", style)
	}
}

// Highlight marks every occurrence of query and returns the number of
// hits. Hits are searched per text node first; when no single node holds
// one, the document is searched as rendered text so hits may span inline
// markup.
func (h *Highlighter) Highlight(query string, caseSensitive bool) (int, error) {
	re, err := CompilePattern(query, caseSensitive)
	if err != nil {
		return 0, err
	}

	test := func(s string) bool {
		ok, err := re.MatchString(s)
		return err == nil && ok
	}
	for _, n := range dom.TextNodes(h.doc.Body(), textFilter(h.doc, test)) {
		m, err := re.FindStringMatch(n.Data)
		for m != nil && err == nil {
			if m.Length == 0 {
				break
			}
			h.mark(dom.Point{Node: n, Offset: m.Index}, dom.Point{Node: n, Offset: m.Index + m.Length})
			m, err = re.FindNextMatch(m)
		}
		if err != nil {
			log.Warn("pattern match failed", "query", query, "err", err)
		}
	}

	if len(h.matches) == 0 {
		h.highlightAcrossNodes(query, caseSensitive)
	}
	h.current = h.firstVisible()
	return len(h.matches), nil
}

// highlightAcrossNodes walks the document with Find and marks hits whose
// ends lie in different nodes. It stops at the end of the document or when
// Find returns to the first hit.
func (h *Highlighter) highlightAcrossNodes(query string, caseSensitive bool) {
	sel := h.doc.Selection()
	sel.Empty()
	var first dom.Point
	for h.doc.Find(query, dom.FindOptions{CaseSensitive: caseSensitive}) {
		anchor, focus := sel.Anchor(), sel.Focus()
		if first.Node == nil {
			first = anchor
		} else if anchor == first {
			break
		}
		if anchor.Node != focus.Node {
			h.mark(anchor, focus)
		}
	}
}

func (h *Highlighter) mark(start, end dom.Point) {
	r := h.doc.RangeRect(start, end)
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	root := h.doc.RootScroller()
	marker := dom.NewElement("mark")
	if h.markStyle != "" {
		marker.SetAttr("style", h.markStyle)
	}
	marker.SetOverlay(dom.Absolute, r.Offset(root.Left(), root.Top()))
	h.holder.AppendChild(marker)
	if !h.doc.Contains(h.holder) {
		h.doc.DocumentElement().PrependChild(h.holder)
	}
	h.matches = append(h.matches, Match{Node: start.Node, Offset: start.Offset, Marker: marker})
}

// firstVisible returns the first match whose marker is not above the
// viewport, or 0.
func (h *Highlighter) firstVisible() int {
	for i, m := range h.matches {
		if h.doc.BoundingClientRect(m.Marker).Top >= 0 {
			return i
		}
	}
	return 0
}

// Reposition moves every marker to the current position of its hit.
func (h *Highlighter) Reposition() {
	root := h.doc.RootScroller()
	for _, m := range h.matches {
		r := h.doc.CaretRect(m.Node, m.Offset)
		_, old := m.Marker.Overlay()
		m.Marker.SetOverlay(dom.Absolute, dom.Rect{
			Left:   root.Left() + r.Left,
			Top:    root.Top() + r.Top,
			Width:  old.Width,
			Height: old.Height,
		})
	}
}

// BindScroll keeps markers in place while any scroll container other than
// the viewport scrolls.
func (h *Highlighter) BindScroll() {
	root := h.doc.ScrollingElement()
	for _, n := range h.doc.ScrollableElements() {
		if n == root {
			continue
		}
		n.OnScroll = h.Reposition
		h.scrollNodes = append(h.scrollNodes, n)
	}
}

// Clear removes every marker and scroll handler. It is safe to call
// repeatedly.
func (h *Highlighter) Clear() {
	h.matches = nil
	h.current = 0
	for _, n := range h.scrollNodes {
		n.OnScroll = nil
	}
	h.scrollNodes = nil
	for c := h.holder.FirstChild; c != nil; c = h.holder.FirstChild {
		h.holder.RemoveChild(c)
	}
	h.holder.Remove()
}
