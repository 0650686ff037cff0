package visual

import (
	"errors"

	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/log"
)

// Navigator moves or extends the selection by semantic units.
type Navigator struct {
	doc  *dom.Document
	caps Capabilities
}

// NewNavigator returns a navigator for doc limited to caps.
func NewNavigator(doc *dom.Document, caps Capabilities) *Navigator {
	return &Navigator{doc: doc, caps: caps}
}

// Move moves the caret by one unit.
func (n *Navigator) Move(g dom.Granularity, dir dom.Direction) error {
	return n.modify(dom.Move, dir, g)
}

// Extend moves only the focus by one unit.
func (n *Navigator) Extend(g dom.Granularity, dir dom.Direction) error {
	return n.modify(dom.Extend, dir, g)
}

// Modify applies alter to the selection. When the focus does not move, the
// move is retried once by word so repeated keys always make progress.
func (n *Navigator) Modify(alter dom.Alter, dir dom.Direction, g dom.Granularity) error {
	return n.modify(alter, dir, g)
}

func (n *Navigator) modify(alter dom.Alter, dir dom.Direction, g dom.Granularity) error {
	if !n.caps.Supports(g) {
		log.Debug("skipping unsupported unit", "unit", g.String(), "engine", n.caps.Engine)
		return nil
	}
	sel := n.doc.Selection()
	if sel.Type() == dom.SelectionNone {
		return nil
	}
	if g == dom.DocumentBoundary {
		root := n.doc.RootScroller()
		if dir == dom.Forward {
			root.SetTop(root.ScrollHeight())
		} else {
			root.SetTop(0)
		}
	}

	before := sel.Focus()
	if err := n.apply(sel, alter, dir, g); err != nil {
		return err
	}
	if sel.Focus() == before {
		return n.apply(sel, alter, dir, dom.Word)
	}
	return nil
}

func (n *Navigator) apply(sel *dom.Selection, alter dom.Alter, dir dom.Direction, g dom.Granularity) error {
	err := sel.Modify(alter, dir, g)
	if errors.Is(err, dom.ErrNotSupported) {
		log.Debug("engine refused unit", "unit", g.String(), "err", err)
		return nil
	}
	return err
}

// unitNames maps the V and y suffix keys to granularities.
var unitNames = map[string]dom.Granularity{
	"w": dom.Word,
	"l": dom.LineBoundary,
	"s": dom.Sentence,
	"p": dom.ParagraphBoundary,
}

// SelectUnit selects the unit around the focus: it moves back to the start
// of the unit and extends forward to its end. Unknown names and units the
// engine lacks leave the selection alone.
func (n *Navigator) SelectUnit(name string) error {
	g, ok := unitNames[name]
	if !ok || !n.caps.Supports(g) {
		return nil
	}
	sel := n.doc.Selection()
	if sel.Type() == dom.SelectionNone {
		return nil
	}
	if err := n.apply(sel, dom.Move, dom.Backward, g); err != nil {
		return err
	}
	return n.apply(sel, dom.Extend, dom.Forward, g)
}
