package visual

import (
	"github.com/cornish/visualnav/dom"
)

// modifySelection moves the caret in Caret state and the focus in Range
// state.
func (c *Controller) modifySelection(dir dom.Direction, g dom.Granularity) error {
	alter := dom.Move
	if c.state == StateRange {
		alter = dom.Extend
	}
	c.hideCursor()
	defer c.showCursor()
	return c.nav.Modify(alter, dir, g)
}

func (c *Controller) documentEnd(string) error {
	if err := c.modifySelection(dom.Forward, dom.DocumentBoundary); err != nil {
		return err
	}
	if n := len(c.hl.Matches()); n > 0 {
		c.hl.SetCurrent(n - 1)
		c.showCounter()
	}
	return nil
}

func (c *Controller) documentStart(string) error {
	c.hl.SetCurrent(0)
	c.showCounter()
	return c.modifySelection(dom.Backward, dom.DocumentBoundary)
}

func (c *Controller) otherEnd(string) error {
	c.hideCursor()
	defer c.showCursor()
	return c.cursor.SwapEnds()
}

func (c *Controller) starAction(string) error {
	c.Star()
	return nil
}

func (c *Controller) click(shift bool) error {
	f := c.cursor.Focus().Node
	if f == nil || f.Parent == nil || c.opts.Clicker == nil {
		return nil
	}
	c.opts.Clicker.Click(f.Parent, shift)
	return nil
}

// center scrolls the page so the cursor sits in the middle row.
func (c *Controller) center(string) error {
	r, ok := c.CursorRect()
	if !ok {
		return nil
	}
	_, vh := c.doc.Viewport()
	c.hideCursor()
	root := c.doc.RootScroller()
	root.SetTop(root.Top() + r.Top - vh/2)
	c.showCursor()
	return nil
}

func (c *Controller) seekForward(string) error {
	c.seekDir = 1
	c.onStateChange()
	return nil
}

func (c *Controller) seekBackward(string) error {
	c.seekDir = -1
	c.onStateChange()
	return nil
}

func (c *Controller) repeatSeek(string) error {
	if c.lastSeek == nil {
		return nil
	}
	return c.seek(c.lastSeek.dir, c.lastSeek.chr)
}

func (c *Controller) repeatSeekReverse(string) error {
	if c.lastSeek == nil {
		return nil
	}
	return c.seek(-c.lastSeek.dir, c.lastSeek.chr)
}

// seek moves onto the next occurrence of chr in direction dir. In Range
// state the range is extended from its anchor. When chr does not occur the
// selection collapses back to the anchor.
func (c *Controller) seek(dir int, chr string) error {
	c.hideCursor()
	defer c.showCursor()

	prev := c.cursor.Anchor()
	f := c.cursor.Focus()
	if dir == 1 && f.Node != nil && f.Node.IsText() {
		runes := []rune(f.Node.Data)
		if f.Offset < len(runes) && string(runes[f.Offset]) == chr {
			if err := c.cursor.SetPosition(f.Node, f.Offset+1); err != nil {
				return err
			}
		}
	}

	if !c.doc.Find(chr, dom.FindOptions{CaseSensitive: true, Backwards: dir == -1}) {
		return c.cursor.SetPoint(prev)
	}
	hit := c.cursor.Focus()
	found := dom.Point{Node: hit.Node, Offset: max(0, hit.Offset-1)}
	if c.state == StateCaret {
		return c.cursor.SetPoint(found)
	}
	if err := c.cursor.SetPoint(prev); err != nil {
		return err
	}
	return c.cursor.ExtendTo(found)
}

// expandParent selects the text of the closest ancestor that reaches beyond
// the current selection.
func (c *Controller) expandParent(string) error {
	f := c.cursor.Focus().Node
	if f == nil {
		return nil
	}
	body := c.doc.Body()
	start, end := c.doc.Selection().Range()
	for p := f; p != nil && p != body; {
		p = p.ParentElement()
		if p == nil {
			break
		}
		nodes := dom.TextNodes(p, textFilter(c.doc, nil))
		if len(nodes) == 0 {
			continue
		}
		first, last := nodes[0], nodes[len(nodes)-1]
		from := dom.Point{Node: first, Offset: 0}
		to := dom.Point{Node: last, Offset: last.Len()}
		if dom.Compare(from, start) < 0 || dom.Compare(to, end) > 0 {
			c.hideCursor()
			c.state = StateRange
			c.onStateChange()
			err := c.cursor.Select(from, to)
			c.showCursor()
			return err
		}
	}
	return nil
}

// inlineQuery shows a bubble for the word under the cursor next to it.
func (c *Controller) inlineQuery(string) error {
	w := c.GetWordUnderCursor()
	if w == "" {
		return nil
	}
	r, _ := c.CursorRect()
	c.opts.Status.ShowBubble(r, c.queryText(w))
	return nil
}

func (c *Controller) selectUnit(unit string) error {
	c.hideCursor()
	c.state = StateRange
	c.onStateChange()
	defer c.showCursor()
	return c.nav.SelectUnit(unit)
}

// yankUnit copies the unit around the caret and leaves the caret in place.
func (c *Controller) yankUnit(unit string) error {
	pos := c.cursor.Focus()
	c.hideCursor()
	defer c.showCursor()
	if err := c.nav.SelectUnit(unit); err != nil {
		return err
	}
	if err := c.copy(c.cursor.Text()); err != nil {
		return err
	}
	if err := c.cursor.CollapseToStart(); err != nil {
		return err
	}
	return c.cursor.SetPoint(pos)
}

// yankSelection copies the range, then follows ModeAfterYank.
func (c *Controller) yankSelection(string) error {
	pos := c.cursor.Focus()
	if err := c.copy(c.cursor.Text()); err != nil {
		return err
	}
	switch c.opts.ModeAfterYank {
	case "Caret":
		if err := c.cursor.SetPoint(pos); err != nil {
			return err
		}
		c.showCursor()
		c.state = StateCaret
		c.onStateChange()
	case "Normal":
		c.state = StateRange
		c.Toggle("")
	}
	return nil
}
