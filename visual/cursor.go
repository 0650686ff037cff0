package visual

import "github.com/cornish/visualnav/dom"

// Cursor is the caret or range the user moves around. It is a thin layer
// over the document selection: every call updates the selection directly.
type Cursor struct {
	sel *dom.Selection
}

// NewCursor returns a cursor backed by sel.
func NewCursor(sel *dom.Selection) *Cursor {
	return &Cursor{sel: sel}
}

// State reports None, Caret or Range.
func (c *Cursor) State() dom.SelectionType {
	return c.sel.Type()
}

func (c *Cursor) Anchor() dom.Point { return c.sel.Anchor() }
func (c *Cursor) Focus() dom.Point  { return c.sel.Focus() }

// Text returns the selected text.
func (c *Cursor) Text() string {
	return c.sel.String()
}

// SetPosition collapses the cursor to a caret at (n, offset). A nil node is
// ignored.
func (c *Cursor) SetPosition(n *dom.Node, offset int) error {
	if n == nil {
		return nil
	}
	return c.sel.SetPosition(n, offset)
}

// SetPoint is SetPosition for a boundary point.
func (c *Cursor) SetPoint(p dom.Point) error {
	return c.SetPosition(p.Node, p.Offset)
}

// Extend moves the focus to (n, offset). A caret becomes a range anchored at
// its old position.
func (c *Cursor) Extend(n *dom.Node, offset int) error {
	if n == nil {
		return nil
	}
	return c.sel.Extend(n, offset)
}

// ExtendTo is Extend for a boundary point.
func (c *Cursor) ExtendTo(p dom.Point) error {
	return c.Extend(p.Node, p.Offset)
}

// Select sets anchor and focus at once.
func (c *Cursor) Select(anchor, focus dom.Point) error {
	if anchor.Node == nil {
		return nil
	}
	return c.sel.SetBaseAndExtent(anchor, focus)
}

// CollapseToStart reduces a range to a caret at its earlier end.
func (c *Cursor) CollapseToStart() error {
	if c.sel.Type() == dom.SelectionNone {
		return nil
	}
	return c.sel.CollapseToStart()
}

// CollapseToFocus reduces a range to a caret at its focus.
func (c *Cursor) CollapseToFocus() error {
	return c.SetPoint(c.sel.Focus())
}

// CollapseToAnchor reduces a range to a caret at its anchor.
func (c *Cursor) CollapseToAnchor() error {
	return c.SetPoint(c.sel.Anchor())
}

// SwapEnds exchanges anchor and focus so the other end moves.
func (c *Cursor) SwapEnds() error {
	if c.sel.Type() == dom.SelectionNone {
		return nil
	}
	return c.sel.SetBaseAndExtent(c.sel.Focus(), c.sel.Anchor())
}

// Clear removes the cursor.
func (c *Cursor) Clear() {
	c.sel.Empty()
}
