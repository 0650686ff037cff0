package dom

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

var blockTags = map[string]bool{
	"html": true, "body": true, "div": true, "p": true, "section": true,
	"article": true, "header": true, "footer": true, "nav": true, "main": true,
	"aside": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "ul": true, "ol": true, "li": true, "pre": true,
	"blockquote": true, "table": true, "thead": true, "tbody": true,
	"tfoot": true, "tr": true, "dl": true, "dt": true, "dd": true,
	"figure": true, "figcaption": true, "form": true, "fieldset": true,
	"details": true, "summary": true, "address": true, "hr": true,
}

// Blocks followed (and preceded) by a blank line.
var spacedTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "pre": true, "ul": true, "ol": true, "blockquote": true,
	"table": true, "dl": true, "figure": true, "hr": true,
}

var hiddenTags = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"title": true, "template": true, "meta": true, "link": true,
}

const tabWidth = 4

// Decoration is text drawn by the renderer that has no node of its own, such
// as list bullets and rules.
type Decoration struct {
	Owner *Node
	Rect  Rect
	Text  string
}

type layout struct {
	width  int
	height int
	maxX   int

	glyphs    map[*Node][]Rect
	collapsed map[*Node][]bool
	boxes     map[*Node]Rect
	hidden    map[*Node]bool

	decorations []Decoration
}

func (d *Document) ensureLayout() *layout {
	if d.layout == nil {
		d.layout = buildLayout(d)
		d.flow = nil
	}
	return d.layout
}

// Relayout forces the next geometry query to rebuild the layout.
func (d *Document) Relayout() {
	d.layout = nil
}

type flowState struct {
	l   *layout
	doc *Document

	left, right int
	x, y        int

	lastWasSpace bool
	needBlank    bool
	placed       bool
	pre          int
}

func buildLayout(d *Document) *layout {
	l := &layout{
		width:     d.viewWidth,
		glyphs:    make(map[*Node][]Rect),
		collapsed: make(map[*Node][]bool),
		boxes:     make(map[*Node]Rect),
		hidden:    make(map[*Node]bool),
	}
	f := &flowState{l: l, doc: d, right: d.viewWidth, lastWasSpace: true}
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		f.visit(c)
	}
	f.breakLine()
	l.height = f.y
	l.sizeRoot(d)
	return l
}

// sizeRoot makes the document element the viewport scroller.
func (l *layout) sizeRoot(d *Document) {
	html := d.DocumentElement()
	if html == nil {
		return
	}
	if html.scroll == nil {
		html.scroll = &Scroller{node: html, doc: d}
	}
	s := html.scroll
	s.box = Rect{Width: d.viewWidth, Height: d.viewHeight}
	s.clientWidth, s.clientHeight = d.viewWidth, d.viewHeight
	s.scrollWidth = max(l.maxX, d.viewWidth)
	s.scrollHeight = max(l.height, d.viewHeight)
	s.clamp()
}

type display int

const (
	displayInline display = iota
	displayBlock
	displayNone
)

func displayOf(n *Node) display {
	if hiddenTags[n.Tag] {
		return displayNone
	}
	if _, ok := n.Attr["hidden"]; ok {
		return displayNone
	}
	switch n.Style()["display"] {
	case "none":
		return displayNone
	case "block", "flex", "grid", "list-item", "table":
		return displayBlock
	case "inline", "inline-block":
		return displayInline
	}
	if blockTags[n.Tag] {
		return displayBlock
	}
	return displayInline
}

// scrollHeightOf returns the fixed height of a scroll container, or 0 when n
// does not clip its content.
func scrollHeightOf(n *Node) int {
	style := n.Style()
	overflow := style["overflow-y"]
	if overflow == "" {
		overflow = style["overflow"]
	}
	if overflow != "auto" && overflow != "scroll" {
		return 0
	}
	h := style["height"]
	end := 0
	for end < len(h) && h[end] >= '0' && h[end] <= '9' {
		end++
	}
	v, err := strconv.Atoi(h[:end])
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

func (f *flowState) visit(n *Node) {
	switch n.Type {
	case TextNode:
		f.text(n)
		return
	case DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f.visit(c)
		}
		return
	}
	if n.position != Static {
		return
	}
	switch displayOf(n) {
	case displayNone:
		f.hide(n)
	case displayBlock:
		f.block(n)
	default:
		f.inline(n)
	}
}

func (f *flowState) hide(n *Node) {
	Walk(n, func(c *Node) bool {
		f.l.hidden[c] = true
		return true
	})
}

func (f *flowState) breakLine() {
	if f.x > f.left {
		f.y++
		f.x = f.left
	}
	f.lastWasSpace = true
}

func (f *flowState) applyBlank() {
	if f.needBlank && f.placed {
		f.y++
	}
	f.needBlank = false
}

func (f *flowState) block(n *Node) {
	spaced := spacedTags[n.Tag]
	if spaced {
		f.needBlank = true
	}
	f.breakLine()
	f.applyBlank()

	oldLeft := f.left
	top := f.y

	switch n.Tag {
	case "hr":
		f.l.boxes[n] = Rect{Left: f.left, Top: f.y, Width: f.right - f.left, Height: 1}
		f.l.decorations = append(f.l.decorations, Decoration{
			Owner: n,
			Rect:  Rect{Left: f.left, Top: f.y, Width: f.right - f.left, Height: 1},
			Text:  strings.Repeat("─", max(f.right-f.left, 0)),
		})
		f.y++
		f.placed = true
		f.needBlank = true
		return
	case "li":
		marker := "• "
		if p := n.ParentElement(); p != nil && p.Tag == "ol" {
			marker = strconv.Itoa(listIndex(n)) + ". "
		}
		w := runewidth.StringWidth(marker)
		f.l.decorations = append(f.l.decorations, Decoration{
			Owner: n,
			Rect:  Rect{Left: f.left, Top: f.y, Width: w, Height: 1},
			Text:  marker,
		})
		f.left += w
		f.x = f.left
	case "blockquote", "dd":
		f.left += 2
		f.x = f.left
	}
	if f.left >= f.right {
		f.left = max(f.right-1, 0)
		f.x = f.left
	}

	height := scrollHeightOf(n)
	if n.Tag == "pre" || n.Style()["white-space"] == "pre" {
		f.pre++
		defer func() { f.pre-- }()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.visit(c)
	}
	f.breakLine()

	if n.Tag == "blockquote" {
		for y := top; y < f.y; y++ {
			f.l.decorations = append(f.l.decorations, Decoration{
				Owner: n,
				Rect:  Rect{Left: oldLeft, Top: y, Width: 1, Height: 1},
				Text:  "│",
			})
		}
	}

	f.left = oldLeft
	f.x = f.left
	box := Rect{Left: oldLeft, Top: top, Width: f.right - oldLeft, Height: f.y - top}
	if height > 0 {
		if n.scroll == nil {
			n.scroll = &Scroller{node: n, doc: f.doc}
		}
		s := n.scroll
		box.Height = height
		s.box = box
		s.clientWidth, s.clientHeight = box.Width, height
		s.scrollWidth = box.Width
		s.scrollHeight = max(f.y-top, height)
		s.clamp()
		f.y = top + height
	} else if n.scroll != nil && n.Tag != "html" {
		n.scroll = nil
	}
	f.l.boxes[n] = box
	if spaced {
		f.needBlank = true
	}
}

func listIndex(li *Node) int {
	i := 1
	for c := li.PrevSibling; c != nil; c = c.PrevSibling {
		if c.Type == ElementNode && c.Tag == "li" {
			i++
		}
	}
	return i
}

func (f *flowState) inline(n *Node) {
	if n.Tag == "br" {
		f.l.boxes[n] = Rect{Left: f.x, Top: f.y}
		f.y++
		f.x = f.left
		f.lastWasSpace = true
		return
	}
	startX, startY := f.x, f.y
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.visit(c)
	}
	var box Rect
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == TextNode {
			for _, g := range f.l.glyphs[c] {
				box = box.Union(g)
			}
		} else if !f.l.hidden[c] {
			box = box.Union(f.l.boxes[c])
		}
	}
	if box.Empty() {
		box = Rect{Left: startX, Top: startY}
	}
	f.l.boxes[n] = box
	switch n.Tag {
	case "td", "th":
		if !f.lastWasSpace {
			f.x += 2
			f.lastWasSpace = true
		}
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func (f *flowState) glyph(w int) Rect {
	f.applyBlank()
	f.placed = true
	g := Rect{Left: f.x, Top: f.y, Width: w, Height: 1}
	f.x += w
	f.l.maxX = max(f.l.maxX, f.x)
	return g
}

func (f *flowState) newline() {
	f.y++
	f.x = f.left
}

func (f *flowState) text(n *Node) {
	runes := []rune(n.Data)
	glyphs := make([]Rect, len(runes))
	collapsed := make([]bool, len(runes))
	if f.pre > 0 {
		for i, r := range runes {
			switch r {
			case '\n':
				glyphs[i] = Rect{Left: f.x, Top: f.y, Height: 1}
				f.newline()
			case '\r':
				collapsed[i] = true
				glyphs[i] = Rect{Left: f.x, Top: f.y, Height: 1}
			default:
				w := runewidth.RuneWidth(r)
				if r == '\t' {
					w = tabWidth - (f.x-f.left)%tabWidth
				}
				if f.x+w > f.right && f.x > f.left {
					f.newline()
				}
				glyphs[i] = f.glyph(w)
			}
		}
		f.lastWasSpace = false
		f.l.glyphs[n] = glyphs
		f.l.collapsed[n] = collapsed
		return
	}

	for i := 0; i < len(runes); {
		if isSpace(runes[i]) {
			if f.lastWasSpace || f.x+1 > f.right {
				collapsed[i] = true
				glyphs[i] = Rect{Left: f.x, Top: f.y, Height: 1}
				if !f.lastWasSpace {
					f.newline()
					f.lastWasSpace = true
				}
			} else {
				glyphs[i] = Rect{Left: f.x, Top: f.y, Width: 1, Height: 1}
				f.x++
				f.lastWasSpace = true
			}
			i++
			for i < len(runes) && isSpace(runes[i]) {
				collapsed[i] = true
				glyphs[i] = Rect{Left: f.x, Top: f.y, Height: 1}
				i++
			}
			continue
		}
		end := i
		width := 0
		for end < len(runes) && !isSpace(runes[end]) {
			width += runewidth.RuneWidth(runes[end])
			end++
		}
		if f.x > f.left && f.x+width > f.right {
			f.newline()
		}
		for ; i < end; i++ {
			w := runewidth.RuneWidth(runes[i])
			if f.x+w > f.right && f.x > f.left {
				f.newline()
			}
			glyphs[i] = f.glyph(w)
		}
		f.lastWasSpace = false
	}
	f.l.glyphs[n] = glyphs
	f.l.collapsed[n] = collapsed
}
