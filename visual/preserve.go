package visual

import (
	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/log"
)

// Snapshot is a saved selection and viewport scroll offset.
type Snapshot struct {
	typ           dom.SelectionType
	anchor, focus dom.Point
	scrollTop     int
}

// TakeSnapshot records the selection of doc and its scroll offset.
func TakeSnapshot(doc *dom.Document) Snapshot {
	sel := doc.Selection()
	return Snapshot{
		typ:       sel.Type(),
		anchor:    sel.Anchor(),
		focus:     sel.Focus(),
		scrollTop: doc.RootScroller().Top(),
	}
}

// Restore puts the recorded state back. Endpoints that left the document
// meanwhile leave the selection empty.
func (s Snapshot) Restore(doc *dom.Document) {
	doc.RootScroller().SetTop(s.scrollTop)
	sel := doc.Selection()
	var err error
	switch s.typ {
	case dom.SelectionNone:
		sel.Empty()
	case dom.SelectionCaret:
		err = sel.SetPosition(s.focus.Node, s.focus.Offset)
	case dom.SelectionRange:
		err = sel.SetBaseAndExtent(s.anchor, s.focus)
	}
	if err != nil {
		log.Warn("selection restore failed", "err", err)
		sel.Empty()
	}
}

// WithSelectionPreserved runs fn on the document selection and restores the
// previous selection and scroll offset afterwards, also when fn panics.
func WithSelectionPreserved(doc *dom.Document, fn func(sel *dom.Selection)) {
	snap := TakeSnapshot(doc)
	defer snap.Restore(doc)
	fn(doc.Selection())
}
