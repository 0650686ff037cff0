package dom

import "fmt"

// SelectionType mirrors Selection.type.
type SelectionType int

const (
	SelectionNone SelectionType = iota
	SelectionCaret
	SelectionRange
)

func (t SelectionType) String() string {
	switch t {
	case SelectionCaret:
		return "Caret"
	case SelectionRange:
		return "Range"
	}
	return "None"
}

// Selection is the document's single selection: an anchor and a focus.
type Selection struct {
	doc    *Document
	anchor Point
	focus  Point
}

func (s *Selection) Type() SelectionType {
	switch {
	case s.anchor.Node == nil:
		return SelectionNone
	case s.anchor == s.focus:
		return SelectionCaret
	}
	return SelectionRange
}

func (s *Selection) Anchor() Point     { return s.anchor }
func (s *Selection) Focus() Point      { return s.focus }
func (s *Selection) AnchorNode() *Node { return s.anchor.Node }
func (s *Selection) AnchorOffset() int { return s.anchor.Offset }
func (s *Selection) FocusNode() *Node  { return s.focus.Node }
func (s *Selection) FocusOffset() int  { return s.focus.Offset }

// IsCollapsed reports whether anchor and focus coincide.
func (s *Selection) IsCollapsed() bool {
	return s.anchor == s.focus
}

// Range returns the selection endpoints in document order.
func (s *Selection) Range() (start, end Point) {
	if Compare(s.anchor, s.focus) <= 0 {
		return s.anchor, s.focus
	}
	return s.focus, s.anchor
}

func (s *Selection) check(n *Node, offset int) error {
	if !s.doc.Contains(n) {
		return ErrNotInDocument
	}
	if offset < 0 || offset > n.Len() {
		return fmt.Errorf("offset %d in node of length %d: %w", offset, n.Len(), ErrIndexSize)
	}
	return nil
}

// SetPosition collapses the selection to (n, offset). A nil node empties it.
func (s *Selection) SetPosition(n *Node, offset int) error {
	if n == nil {
		s.Empty()
		return nil
	}
	if err := s.check(n, offset); err != nil {
		return err
	}
	s.anchor = Point{n, offset}
	s.focus = s.anchor
	return nil
}

// Collapse is an alias of SetPosition.
func (s *Selection) Collapse(n *Node, offset int) error {
	return s.SetPosition(n, offset)
}

// Extend moves the focus to (n, offset) and keeps the anchor.
func (s *Selection) Extend(n *Node, offset int) error {
	if s.anchor.Node == nil {
		return ErrInvalidState
	}
	if n == nil {
		return ErrNotInDocument
	}
	if err := s.check(n, offset); err != nil {
		return err
	}
	s.focus = Point{n, offset}
	return nil
}

// SetBaseAndExtent sets anchor and focus in one step.
func (s *Selection) SetBaseAndExtent(anchor, focus Point) error {
	if err := s.SetPosition(anchor.Node, anchor.Offset); err != nil {
		return err
	}
	if focus.Node == nil {
		return nil
	}
	return s.Extend(focus.Node, focus.Offset)
}

// CollapseToStart collapses to the earlier endpoint.
func (s *Selection) CollapseToStart() error {
	if s.anchor.Node == nil {
		return ErrInvalidState
	}
	start, _ := s.Range()
	s.anchor, s.focus = start, start
	return nil
}

// CollapseToEnd collapses to the later endpoint.
func (s *Selection) CollapseToEnd() error {
	if s.anchor.Node == nil {
		return ErrInvalidState
	}
	_, end := s.Range()
	s.anchor, s.focus = end, end
	return nil
}

// Empty removes the selection.
func (s *Selection) Empty() {
	s.anchor, s.focus = Point{}, Point{}
}

// String returns the rendered text between the endpoints. Block boundaries
// appear as newlines.
func (s *Selection) String() string {
	if s.anchor.Node == nil {
		return ""
	}
	start, end := s.Range()
	f := s.doc.textFlow()
	i, j := f.index(start), f.index(end)
	if i >= j {
		return ""
	}
	return f.text(i, j)
}

// Rect returns the viewport rect covered by the selection.
func (s *Selection) Rect() Rect {
	if s.anchor.Node == nil {
		return Rect{}
	}
	return s.doc.RangeRect(s.anchor, s.focus)
}
