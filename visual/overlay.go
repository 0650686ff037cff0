package visual

import "github.com/cornish/visualnav/dom"

// Overlay is the visible caret: a fixed node over the focus position. It
// never takes part in layout.
type Overlay struct {
	doc  *dom.Document
	node *dom.Node

	// OnHidden is called whenever a shown cursor is removed.
	OnHidden func()
}

// NewOverlay returns a hidden cursor for doc.
func NewOverlay(doc *dom.Document) *Overlay {
	node := dom.NewElement("div", "class", "visual-cursor")
	node.SetOverlay(dom.Fixed, dom.Rect{})
	return &Overlay{doc: doc, node: node}
}

// Visible reports whether the cursor is on the page.
func (o *Overlay) Visible() bool {
	return o.doc.Contains(o.node)
}

// Rect returns the cursor rect in viewport coordinates.
func (o *Overlay) Rect() dom.Rect {
	_, r := o.node.Overlay()
	return r
}

// SetStyle sets the style attribute of the cursor node.
func (o *Overlay) SetStyle(style string) {
	o.node.SetAttr("style", style)
}

// Show places the cursor at p. The focus is scrolled into view first; if the
// caret still lies outside the viewport the page is scrolled so it lands in
// the centre, where the cursor is pinned. Nodes with no height are ignored.
func (o *Overlay) Show(p dom.Point) bool {
	n := p.Node
	if n == nil || !o.doc.Contains(n) {
		return false
	}
	if o.doc.OffsetHeight(n) <= 0 && (n.Parent == nil || o.doc.OffsetHeight(n.Parent) <= 0) {
		return false
	}
	o.doc.ScrollIntoViewIfNeeded(n.ParentElement())

	r := o.doc.CaretRect(n, p.Offset)
	vw, vh := o.doc.Viewport()
	root := o.doc.RootScroller()
	left, top := r.Left, r.Top
	if left < 0 || left >= vw {
		root.ScrollTo(root.Left()+r.Left-vw/2, root.Top())
		left = vw / 2
	}
	if top < 0 || top >= vh {
		root.SetTop(root.Top() + r.Top - vh/2)
		top = vh / 2
	}
	o.node.SetOverlay(dom.Fixed, dom.Rect{Left: left, Top: top, Width: r.Width, Height: r.Height})
	if !o.Visible() {
		o.doc.Body().AppendChild(o.node)
	}
	return true
}

// Hide removes the cursor and fires OnHidden when it was shown.
func (o *Overlay) Hide() {
	if !o.Visible() {
		return
	}
	o.node.Remove()
	if o.OnHidden != nil {
		o.OnHidden()
	}
}
