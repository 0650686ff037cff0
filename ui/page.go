package ui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/syntax"
)

// PageRenderer draws the visible part of a laid-out document: text,
// list markers and rules, the selection, search markers, the caret
// overlay, hint labels and the inline bubble.
type PageRenderer struct {
	styles Styles
	syntax *syntax.Highlighter

	current *dom.Node
	bubble  *bubble
	hints   []Hint
	typed   string
}

type bubble struct {
	at      dom.Rect
	content string
}

// codeBlock caches the highlighting of one <pre> block for a frame.
type codeBlock struct {
	spans   []syntax.ColorSpan
	offsets map[*dom.Node]int
}

// NewPageRenderer creates a renderer. hl may be nil to skip highlighting.
func NewPageRenderer(styles Styles, hl *syntax.Highlighter) *PageRenderer {
	return &PageRenderer{styles: styles, syntax: hl}
}

// SetStyles updates the styles for runtime theme changes.
func (p *PageRenderer) SetStyles(styles Styles) {
	p.styles = styles
}

// SetCurrentMarker picks the marker drawn as the current occurrence.
func (p *PageRenderer) SetCurrentMarker(n *dom.Node) {
	p.current = n
}

// ShowBubble shows content in a box next to at (viewport coordinates).
func (p *PageRenderer) ShowBubble(at dom.Rect, content string) {
	p.bubble = &bubble{at: at, content: content}
}

// HideBubble removes the bubble.
func (p *PageRenderer) HideBubble() {
	p.bubble = nil
}

// BubbleVisible reports whether a bubble is shown.
func (p *PageRenderer) BubbleVisible() bool {
	return p.bubble != nil
}

// SetHints shows hint labels. Only labels starting with typed are drawn.
func (p *PageRenderer) SetHints(hints []Hint, typed string) {
	p.hints, p.typed = hints, typed
}

// Render draws doc into one ANSI string per viewport row.
func (p *PageRenderer) Render(doc *dom.Document) []string {
	return p.paint(doc).rows()
}

func (p *PageRenderer) paint(doc *dom.Document) *canvas {
	width, height := doc.Viewport()
	cv := newCanvas(width, height, p.styles.page())
	ui := p.styles.Theme.UI

	// Rows past the end of the page
	top := 0
	if root := doc.RootScroller(); root != nil {
		top = root.Top()
	}
	end := doc.ContentHeight()
	for y := 0; y < height; y++ {
		if top+y >= end {
			cv.set(0, y, '~', cellStyle{fg: ui.DisabledFg, bg: ui.PageBg})
		}
	}

	for _, dec := range doc.Decorations() {
		if !doc.ClipRect(dec.Owner).Contains(dec.Rect.Left, dec.Rect.Top) {
			continue
		}
		style := cellStyle{fg: ui.DisabledFg, bg: ui.PageBg}
		if dec.Owner.Tag == "li" {
			style = p.styles.page()
		}
		cv.text(dec.Rect.Left, dec.Rect.Top, dec.Text, style)
	}

	p.paintText(doc, cv)

	dom.Walk(doc.Root(), func(n *dom.Node) bool {
		if n.Type != dom.ElementNode {
			return true
		}
		if pos, _ := n.Overlay(); pos == dom.Static {
			return true
		}
		switch {
		case n.Tag == "mark":
			p.paintMark(doc, cv, n)
		case n.FirstChild == nil:
			p.paintCaret(doc, cv, n)
		default:
			return true
		}
		return false
	})

	p.paintHints(cv)
	p.paintBubble(cv)
	return cv
}

func (p *PageRenderer) paintText(doc *dom.Document, cv *canvas) {
	ui := p.styles.Theme.UI
	sel := doc.Selection()
	var selStart, selEnd dom.Point
	hasRange := sel.Type() == dom.SelectionRange
	if hasRange {
		selStart, selEnd = sel.Range()
	}

	styles := make(map[*dom.Node]cellStyle)
	clips := make(map[*dom.Node]dom.Rect)
	blocks := make(map[*dom.Node]*codeBlock)

	for _, n := range dom.TextNodes(doc.Root(), nil) {
		glyphs, collapsed := doc.TextGlyphs(n)
		if glyphs == nil {
			continue
		}
		parent := n.Parent
		style, ok := styles[parent]
		if !ok {
			style = p.textStyle(n)
			styles[parent] = style
		}
		clip, ok := clips[parent]
		if !ok {
			clip = doc.ClipRect(n)
			clips[parent] = clip
		}

		var spans []syntax.ColorSpan
		base := 0
		if pre := n.Ancestor("pre"); pre != nil && p.syntax != nil {
			cb, ok := blocks[pre]
			if !ok {
				cb = p.highlight(pre)
				blocks[pre] = cb
			}
			spans, base = cb.spans, cb.offsets[n]
		}

		from, to := 0, 0
		if hasRange {
			from, to = selectedRunes(n, selStart, selEnd)
		}

		runes := []rune(n.Data)
		for i, g := range glyphs {
			if collapsed[i] || g.Width <= 0 || !clip.Contains(g.Left, g.Top) {
				continue
			}
			st := style
			if color := syntax.ColorAt(spans, base+i); color != "" {
				st.fg = color
			}
			if i >= from && i < to {
				st.fg, st.bg = ui.SelectionFg, ui.SelectionBg
			}
			r := runes[i]
			if r == '\t' || unicode.IsSpace(r) {
				for k := 0; k < g.Width; k++ {
					cv.set(g.Left+k, g.Top, ' ', st)
				}
				continue
			}
			cv.set(g.Left, g.Top, r, st)
		}
	}
}

// selectedRunes returns the rune range of n inside [start, end).
func selectedRunes(n *dom.Node, start, end dom.Point) (int, int) {
	if dom.Compare(dom.Point{Node: n, Offset: n.Len()}, start) <= 0 ||
		dom.Compare(dom.Point{Node: n, Offset: 0}, end) >= 0 {
		return 0, 0
	}
	from, to := 0, n.Len()
	if start.Node == n {
		from = start.Offset
	}
	if end.Node == n {
		to = end.Offset
	}
	return from, to
}

// textStyle derives the look of a text node from its ancestors.
func (p *PageRenderer) textStyle(n *dom.Node) cellStyle {
	ui := p.styles.Theme.UI
	st := p.styles.page()
	for e := n.Parent; e != nil; e = e.Parent {
		if e.Type != dom.ElementNode {
			continue
		}
		switch e.Tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			st.bold = true
			if st.fg == ui.PageFg {
				st.fg = ui.HeadingFg
			}
		case "a":
			st.underline = true
			if st.fg == ui.PageFg {
				st.fg = ui.LinkFg
			}
		case "code", "pre", "kbd", "samp":
			st.bg = ui.CodeBg
		case "strong", "b", "th":
			st.bold = true
		case "em", "i":
			st.italic = true
		case "u", "ins":
			st.underline = true
		}
	}
	return st
}

// highlight colours a <pre> block as one piece of code.
func (p *PageRenderer) highlight(pre *dom.Node) *codeBlock {
	cb := &codeBlock{offsets: make(map[*dom.Node]int)}
	class := pre.Attr["class"]
	dom.Walk(pre, func(n *dom.Node) bool {
		if n.Type == dom.ElementNode && n.Tag == "code" && class == "" {
			class = n.Attr["class"]
		}
		return class == ""
	})
	lang := syntax.LanguageOf(class)
	if lang == "" {
		return cb
	}

	var sb strings.Builder
	pos := 0
	for _, t := range dom.TextNodes(pre, nil) {
		cb.offsets[t] = pos
		pos += t.Len()
		sb.WriteString(t.Data)
	}
	cb.spans = p.syntax.Spans(lang, sb.String())
	return cb
}

// styleColor reads a color set through Controller.Style: either a bare
// color or a CSS background declaration.
func styleColor(n *dom.Node) (bg, fg string) {
	raw := strings.TrimSpace(n.Attr["style"])
	if raw == "" {
		return "", ""
	}
	if !strings.Contains(raw, ":") {
		return raw, ""
	}
	decls := n.Style()
	bg = decls["background-color"]
	if bg == "" {
		bg = decls["background"]
	}
	return bg, decls["color"]
}

func (p *PageRenderer) paintMark(doc *dom.Document, cv *canvas, n *dom.Node) {
	ui := p.styles.Theme.UI
	r := doc.BoundingClientRect(n)
	bg, fg := styleColor(n)
	if bg == "" {
		bg = ui.MarkBg
	}
	if fg == "" {
		fg = ui.MarkFg
	}
	current := n == p.current
	cv.restyle(r.Left, r.Top, r.Width, max(r.Height, 1), func(st *cellStyle) {
		st.fg, st.bg = fg, bg
		if current {
			st.bold, st.underline = true, true
		}
	})
}

func (p *PageRenderer) paintCaret(doc *dom.Document, cv *canvas, n *dom.Node) {
	ui := p.styles.Theme.UI
	r := doc.BoundingClientRect(n)
	if r.Height <= 0 {
		return
	}
	bg, fg := styleColor(n)
	if bg == "" {
		bg = ui.CursorBg
	}
	if fg == "" {
		fg = ui.CursorFg
	}
	cv.restyle(r.Left, r.Top, max(r.Width, 1), r.Height, func(st *cellStyle) {
		st.fg, st.bg = fg, bg
		st.reverse = false
	})
}

func (p *PageRenderer) paintHints(cv *canvas) {
	ui := p.styles.Theme.UI
	style := cellStyle{fg: ui.SelectionFg, bg: ui.StatusAccent, bold: true}
	for _, h := range p.hints {
		if !strings.HasPrefix(h.Label, p.typed) {
			continue
		}
		cv.text(h.Rect.Left, h.Rect.Top, h.Label[len(p.typed):], style)
	}
}

func (p *PageRenderer) paintBubble(cv *canvas) {
	if p.bubble == nil || cv.width < 5 || cv.height < 3 {
		return
	}
	ui := p.styles.Theme.UI
	border := cellStyle{fg: ui.BubbleBorder, bg: ui.BubbleBg}
	body := cellStyle{fg: ui.BubbleFg, bg: ui.BubbleBg}

	lines := strings.Split(p.bubble.content, "\n")
	inner := 0
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, cv.width-4, "…")
		inner = max(inner, runewidth.StringWidth(lines[i]))
	}
	boxW, boxH := inner+4, len(lines)+2
	if boxH > cv.height {
		lines = lines[:cv.height-2]
		boxH = cv.height
	}

	at := p.bubble.at
	x := min(max(at.Left, 0), cv.width-boxW)
	y := at.Top + max(at.Height, 1)
	if y+boxH > cv.height {
		y = at.Top - boxH
	}
	y = min(max(y, 0), cv.height-boxH)

	b := p.styles.border()
	edge := func(s string) rune {
		for _, r := range s {
			return r
		}
		return ' '
	}
	cv.set(x, y, edge(b.TopLeft), border)
	cv.set(x+boxW-1, y, edge(b.TopRight), border)
	cv.set(x, y+boxH-1, edge(b.BottomLeft), border)
	cv.set(x+boxW-1, y+boxH-1, edge(b.BottomRight), border)
	for i := 1; i < boxW-1; i++ {
		cv.set(x+i, y, edge(b.Top), border)
		cv.set(x+i, y+boxH-1, edge(b.Bottom), border)
	}
	for row, line := range lines {
		yy := y + 1 + row
		cv.set(x, yy, edge(b.Left), border)
		cv.set(x+boxW-1, yy, edge(b.Right), border)
		for i := 1; i < boxW-1; i++ {
			cv.set(x+i, yy, ' ', body)
		}
		cv.text(x+2, yy, line, body)
	}
}
