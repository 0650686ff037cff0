package dom

// scrollOffset sums the scroll offsets of every scroller enclosing n.
func scrollOffset(n *Node) (dx, dy int) {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.scroll != nil {
			dx += p.scroll.left
			dy += p.scroll.top
		}
	}
	return dx, dy
}

func toClient(n *Node, r Rect) Rect {
	dx, dy := scrollOffset(n)
	return r.Offset(-dx, -dy)
}

// overlayRect resolves an out-of-flow node to viewport coordinates.
func (d *Document) overlayRect(n *Node) Rect {
	pos, r := n.Overlay()
	if pos == Absolute {
		if root := d.RootScroller(); root != nil {
			r = r.Offset(-root.left, -root.top)
		}
	}
	return r
}

// BoundingClientRect returns the viewport rect of n. Detached, hidden and
// unrendered nodes yield an empty rect.
func (d *Document) BoundingClientRect(n *Node) Rect {
	if n == nil || !d.Contains(n) {
		return Rect{}
	}
	l := d.ensureLayout()
	if n.position != Static {
		return d.overlayRect(n)
	}
	if l.hidden[n] || n.inOverlay() {
		return Rect{}
	}
	if n.Type == TextNode {
		var r Rect
		for i, g := range l.glyphs[n] {
			if !l.collapsed[n][i] {
				r = r.Union(g)
			}
		}
		return toClient(n, r)
	}
	box, ok := l.boxes[n]
	if !ok {
		return Rect{}
	}
	return toClient(n, box)
}

// CaretRect returns a zero-width rect at the boundary point (n, offset).
func (d *Document) CaretRect(n *Node, offset int) Rect {
	if n == nil || !d.Contains(n) {
		return Rect{}
	}
	l := d.ensureLayout()
	if l.hidden[n] || n.inOverlay() {
		return Rect{}
	}
	if n.Type == TextNode {
		glyphs := l.glyphs[n]
		if len(glyphs) == 0 {
			return Rect{}
		}
		var r Rect
		if offset < len(glyphs) {
			g := glyphs[max(offset, 0)]
			r = Rect{Left: g.Left, Top: g.Top, Height: 1}
		} else {
			g := glyphs[len(glyphs)-1]
			r = Rect{Left: g.Right(), Top: g.Top, Height: 1}
		}
		return toClient(n, r)
	}
	if c := n.ChildAt(offset); c != nil {
		if t := firstText(c); t != nil && len(l.glyphs[t]) > 0 {
			return d.CaretRect(t, 0)
		}
		r := d.BoundingClientRect(c)
		return Rect{Left: r.Left, Top: r.Top}
	}
	r := d.BoundingClientRect(n)
	return Rect{Left: r.Left, Top: r.Top}
}

func firstText(n *Node) *Node {
	var found *Node
	Walk(n, func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Type == TextNode {
			found = c
		}
		return c.position == Static
	})
	return found
}

// RangeRect returns the union of the viewport rects of every rendered glyph
// between a and b. A collapsed range yields its caret rect.
func (d *Document) RangeRect(a, b Point) Rect {
	if Compare(a, b) > 0 {
		a, b = b, a
	}
	f := d.textFlow()
	i0, i1 := f.index(a), f.index(b)
	if i0 >= i1 {
		return d.CaretRect(a.Node, a.Offset)
	}
	l := d.layout
	var r Rect
	for i := i0; i < i1; i++ {
		p := f.before[i]
		if f.sep[i] || p.Node == nil {
			continue
		}
		g := l.glyphs[p.Node][p.Offset]
		r = r.Union(toClient(p.Node, g))
	}
	return r
}

// TextGlyphs returns the viewport rect of every rune of a text node and
// whether the rune was collapsed away. Hidden text yields nil.
func (d *Document) TextGlyphs(n *Node) ([]Rect, []bool) {
	l := d.ensureLayout()
	glyphs := l.glyphs[n]
	if glyphs == nil || l.hidden[n] {
		return nil, nil
	}
	dx, dy := scrollOffset(n)
	out := make([]Rect, len(glyphs))
	for i, g := range glyphs {
		out[i] = g.Offset(-dx, -dy)
	}
	return out, l.collapsed[n]
}

// Decorations returns list markers, rules and quote bars in viewport
// coordinates.
func (d *Document) Decorations() []Decoration {
	l := d.ensureLayout()
	out := make([]Decoration, len(l.decorations))
	for i, dec := range l.decorations {
		dec.Rect = toClient(dec.Owner, dec.Rect)
		out[i] = dec
	}
	return out
}

// ClipRect returns the part of the viewport where n may paint: the viewport
// intersected with every enclosing scroll container.
func (d *Document) ClipRect(n *Node) Rect {
	clip := Rect{Width: d.viewWidth, Height: d.viewHeight}
	if n == nil {
		return clip
	}
	d.ensureLayout()
	for _, c := range d.scrollAncestors(n) {
		clip = clip.Intersect(d.BoundingClientRect(c))
	}
	return clip
}

// IsRendered reports whether n takes part in layout.
func (d *Document) IsRendered(n *Node) bool {
	if n == nil || !d.Contains(n) {
		return false
	}
	l := d.ensureLayout()
	return !l.hidden[n] && !n.inOverlay()
}

// OffsetHeight is the laid-out height of n in cells.
func (d *Document) OffsetHeight(n *Node) int {
	return d.BoundingClientRect(n).Height
}

// ContentHeight is the height of the whole laid-out page.
func (d *Document) ContentHeight() int {
	return d.ensureLayout().height
}

// VisibleElements returns rendered elements with a positive height that
// intersect the viewport and pass filter.
func (d *Document) VisibleElements(filter func(*Node) bool) []*Node {
	l := d.ensureLayout()
	var out []*Node
	Walk(d.root, func(n *Node) bool {
		if n.position != Static || l.hidden[n] {
			return false
		}
		if n.Type != ElementNode {
			return true
		}
		r := d.BoundingClientRect(n)
		if r.Height > 0 && r.Top <= d.viewHeight && r.Bottom() >= 0 &&
			r.Left <= d.viewWidth && r.Right() >= 0 {
			if filter == nil || filter(n) {
				out = append(out, n)
			}
		}
		return true
	})
	return out
}

// HitTest returns the boundary point under the viewport cell (x, y), or a
// zero Point when no text is there.
func (d *Document) HitTest(x, y int) Point {
	f := d.textFlow()
	l := d.layout
	best := Point{}
	clips := make(map[*Node]Rect)
	for i := range f.runes {
		if f.sep[i] {
			continue
		}
		p := f.before[i]
		clip, ok := clips[p.Node]
		if !ok {
			clip = d.ClipRect(p.Node)
			clips[p.Node] = clip
		}
		if !clip.Contains(x, y) {
			continue
		}
		g := toClient(p.Node, l.glyphs[p.Node][p.Offset])
		if g.Top != y {
			continue
		}
		if x >= g.Left && x < g.Right() {
			return p
		}
		if g.Left <= x {
			best = f.after[i]
		}
	}
	return best
}
