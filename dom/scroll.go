package dom

// Scroller holds the scroll state of the viewport or of a scroll container.
type Scroller struct {
	node *Node
	doc  *Document

	top, left int

	box                       Rect
	clientWidth, clientHeight int
	scrollWidth, scrollHeight int
}

// Node returns the element that scrolls.
func (s *Scroller) Node() *Node { return s.node }

func (s *Scroller) Top() int  { return s.top }
func (s *Scroller) Left() int { return s.left }

func (s *Scroller) ClientHeight() int { return s.clientHeight }
func (s *Scroller) ClientWidth() int  { return s.clientWidth }
func (s *Scroller) ScrollHeight() int { return s.scrollHeight }
func (s *Scroller) ScrollWidth() int  { return s.scrollWidth }

// CanScroll reports whether the content overflows the client area.
func (s *Scroller) CanScroll() bool {
	return s.scrollHeight > s.clientHeight || s.scrollWidth > s.clientWidth
}

func (s *Scroller) clamp() {
	s.top = max(0, min(s.top, s.scrollHeight-s.clientHeight))
	s.left = max(0, min(s.left, s.scrollWidth-s.clientWidth))
}

// ScrollTo moves to (left, top), clamped to the scrollable range, and fires
// the node's OnScroll handler when the offset changed.
func (s *Scroller) ScrollTo(left, top int) {
	if s.doc != nil {
		s.doc.ensureLayout()
	}
	oldTop, oldLeft := s.top, s.left
	s.top, s.left = top, left
	s.clamp()
	if (s.top != oldTop || s.left != oldLeft) && s.node.OnScroll != nil {
		s.node.OnScroll()
	}
}

// ScrollBy moves relative to the current offset.
func (s *Scroller) ScrollBy(dx, dy int) {
	s.ScrollTo(s.left+dx, s.top+dy)
}

// SetTop scrolls vertically.
func (s *Scroller) SetTop(top int) {
	s.ScrollTo(s.left, top)
}

// ScrollingElement returns the element that scrolls the viewport.
func (d *Document) ScrollingElement() *Node {
	return d.DocumentElement()
}

// Scroller returns the scroll state of n, or nil when n does not scroll.
func (d *Document) Scroller(n *Node) *Scroller {
	d.ensureLayout()
	if n == nil {
		return nil
	}
	return n.scroll
}

// RootScroller returns the viewport scroller.
func (d *Document) RootScroller() *Scroller {
	return d.Scroller(d.ScrollingElement())
}

// ScrollableElements returns, in document order, every element whose
// content overflows its box, the scrolling element included.
func (d *Document) ScrollableElements() []*Node {
	l := d.ensureLayout()
	var out []*Node
	Walk(d.root, func(n *Node) bool {
		if l.hidden[n] || n.position != Static {
			return false
		}
		if n.scroll != nil && n.scroll.CanScroll() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// NearestScrollable returns the closest ancestor of n that can scroll,
// falling back to the scrolling element.
func (d *Document) NearestScrollable(n *Node) *Node {
	d.ensureLayout()
	for p := n; p != nil; p = p.Parent {
		if p.scroll != nil && p.scroll.CanScroll() && p != d.ScrollingElement() {
			return p
		}
	}
	return d.ScrollingElement()
}

// scrollAncestors returns the scroll containers enclosing n, innermost
// first, excluding the scrolling element.
func (d *Document) scrollAncestors(n *Node) []*Node {
	var out []*Node
	root := d.ScrollingElement()
	for p := n.Parent; p != nil; p = p.Parent {
		if p.scroll != nil && p != root {
			out = append(out, p)
		}
	}
	return out
}

// ScrollIntoViewIfNeeded scrolls every enclosing container, then the
// viewport, until n is at least partly visible. Each scroll centres n.
func (d *Document) ScrollIntoViewIfNeeded(n *Node) {
	if n == nil || !d.Contains(n) {
		return
	}
	d.ensureLayout()
	for _, c := range d.scrollAncestors(n) {
		r := d.BoundingClientRect(n)
		box := d.BoundingClientRect(c)
		if overlapsRows(r, box.Top, box.Bottom()) {
			continue
		}
		s := c.scroll
		s.SetTop(s.top + r.Top - box.Top - box.Height/2)
	}
	r := d.BoundingClientRect(n)
	if overlapsRows(r, 0, d.viewHeight) {
		return
	}
	root := d.RootScroller()
	root.SetTop(root.top + r.Top - d.viewHeight/2)
}

// overlapsRows reports whether r shares a row with [top, bottom). Zero-height
// rects count as one row.
func overlapsRows(r Rect, top, bottom int) bool {
	return r.Top < bottom && max(r.Bottom(), r.Top+1) > top
}
