package dom

// WhatToShow selects the node types a TreeWalker returns.
type WhatToShow int

const (
	ShowElement WhatToShow = 1 << iota
	ShowText

	ShowAll = ShowElement | ShowText
)

// FilterResult is returned by a NodeFilter.
type FilterResult int

const (
	FilterAccept FilterResult = iota + 1
	// FilterReject skips an element and its whole subtree.
	FilterReject
	// FilterSkip skips a node but still visits its children.
	FilterSkip
)

// NodeFilter decides whether a node is returned by a TreeWalker.
type NodeFilter func(*Node) FilterResult

// TreeWalker walks a subtree in document order.
type TreeWalker struct {
	root    *Node
	current *Node
	show    WhatToShow
	filter  NodeFilter
}

// NewTreeWalker returns a walker positioned at root.
func NewTreeWalker(root *Node, show WhatToShow, filter NodeFilter) *TreeWalker {
	return &TreeWalker{root: root, current: root, show: show, filter: filter}
}

// Current returns the node the walker is positioned at.
func (w *TreeWalker) Current() *Node {
	return w.current
}

func (w *TreeWalker) accept(n *Node) FilterResult {
	var bit WhatToShow
	switch n.Type {
	case ElementNode:
		bit = ShowElement
	case TextNode:
		bit = ShowText
	}
	if w.show&bit == 0 {
		return FilterSkip
	}
	if w.filter == nil {
		return FilterAccept
	}
	return w.filter(n)
}

// NextNode advances to the next accepted node, or returns nil at the end.
func (w *TreeWalker) NextNode() *Node {
	n := w.current
	result := FilterAccept
	for {
		if result != FilterReject && n.FirstChild != nil {
			n = n.FirstChild
		} else {
			for n != w.root && n.NextSibling == nil {
				n = n.Parent
			}
			if n == w.root {
				return nil
			}
			n = n.NextSibling
		}
		result = w.accept(n)
		if result == FilterAccept {
			w.current = n
			return n
		}
	}
}

// TextNodes returns every text node under root that filter accepts.
func TextNodes(root *Node, filter NodeFilter) []*Node {
	w := NewTreeWalker(root, ShowText|ShowElement, func(n *Node) FilterResult {
		if n.Type == ElementNode {
			if filter != nil && filter(n) == FilterReject {
				return FilterReject
			}
			return FilterSkip
		}
		if filter == nil {
			return FilterAccept
		}
		return filter(n)
	})
	var out []*Node
	for n := w.NextNode(); n != nil; n = w.NextNode() {
		out = append(out, n)
	}
	return out
}
