package dom

import (
	"strings"
	"unicode/utf8"
)

// NodeType distinguishes the kinds of node in a document tree.
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
)

// Position controls how a node takes part in layout.
type Position int

const (
	// Static nodes are laid out in normal flow.
	Static Position = iota
	// Absolute nodes are positioned in page coordinates and scroll with the
	// document.
	Absolute
	// Fixed nodes are positioned in viewport coordinates.
	Fixed
)

// Node is an element or text node. Text offsets count runes; element offsets
// count children.
type Node struct {
	Type NodeType
	Tag  string
	Data string
	Attr map[string]string

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node

	// OnScroll is invoked after the node's scroll offset changes.
	OnScroll func()

	position Position
	overlay  Rect

	doc    *Document
	scroll *Scroller
}

// NewElement returns a detached element. attrs are name/value pairs.
func NewElement(tag string, attrs ...string) *Node {
	n := &Node{Type: ElementNode, Tag: strings.ToLower(tag)}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.SetAttr(attrs[i], attrs[i+1])
	}
	return n
}

// NewText returns a detached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TextNode
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// Len is the rune count of a text node, or the child count otherwise.
func (n *Node) Len() int {
	if n.Type == TextNode {
		return utf8.RuneCountInString(n.Data)
	}
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// ChildAt returns the i-th child or nil.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// Index returns the position of n among its siblings.
func (n *Node) Index() int {
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}

// ParentElement returns the parent when it is an element.
func (n *Node) ParentElement() *Node {
	if n.Parent != nil && n.Parent.Type == ElementNode {
		return n.Parent
	}
	return nil
}

// Contains reports whether o is n or one of its descendants.
func (n *Node) Contains(o *Node) bool {
	for ; o != nil; o = o.Parent {
		if o == n {
			return true
		}
	}
	return false
}

// GetAttr returns the named attribute.
func (n *Node) GetAttr(name string) (string, bool) {
	v, ok := n.Attr[name]
	return v, ok
}

func (n *Node) SetAttr(name, value string) {
	if n.Attr == nil {
		n.Attr = make(map[string]string)
	}
	n.Attr[strings.ToLower(name)] = value
	n.invalidate()
}

// TextContent concatenates the data of every descendant text node.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*Node)
	walk = func(c *Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type == TextNode {
				sb.WriteString(c.Data)
			} else {
				walk(c.FirstChild)
			}
		}
	}
	walk(n.FirstChild)
	return sb.String()
}

// SetData replaces the text of a text node.
func (n *Node) SetData(s string) {
	n.Data = s
	n.invalidate()
}

// SetOverlay takes n out of normal flow and places it at r. Absolute rects
// are in page coordinates, Fixed rects in viewport coordinates.
func (n *Node) SetOverlay(pos Position, r Rect) {
	if n.position != pos {
		if d := n.Document(); d != nil {
			d.layout = nil
		}
	}
	n.position = pos
	n.overlay = r
}

// Overlay returns the overlay position and rect of n.
func (n *Node) Overlay() (Position, Rect) {
	return n.position, n.overlay
}

// AppendChild adds c as the last child of n, detaching it first.
func (n *Node) AppendChild(c *Node) {
	n.InsertBefore(c, nil)
}

// InsertBefore adds c before ref, or at the end when ref is nil.
func (n *Node) InsertBefore(c, ref *Node) {
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	c.Parent = n
	if ref == nil {
		c.PrevSibling = n.LastChild
		if n.LastChild != nil {
			n.LastChild.NextSibling = c
		} else {
			n.FirstChild = c
		}
		n.LastChild = c
	} else {
		c.NextSibling = ref
		c.PrevSibling = ref.PrevSibling
		if ref.PrevSibling != nil {
			ref.PrevSibling.NextSibling = c
		} else {
			n.FirstChild = c
		}
		ref.PrevSibling = c
	}
	c.invalidate()
}

// RemoveChild detaches c from n.
func (n *Node) RemoveChild(c *Node) {
	if c.Parent != n {
		return
	}
	c.invalidate()
	if c.PrevSibling != nil {
		c.PrevSibling.NextSibling = c.NextSibling
	} else {
		n.FirstChild = c.NextSibling
	}
	if c.NextSibling != nil {
		c.NextSibling.PrevSibling = c.PrevSibling
	} else {
		n.LastChild = c.PrevSibling
	}
	c.Parent, c.PrevSibling, c.NextSibling = nil, nil, nil
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Document returns the document n belongs to, or nil when detached.
func (n *Node) Document() *Document {
	top := n
	for top.Parent != nil {
		top = top.Parent
	}
	return top.doc
}

// inOverlay reports whether n or an ancestor is out of normal flow.
func (n *Node) inOverlay() bool {
	for p := n; p != nil; p = p.Parent {
		if p.position != Static {
			return true
		}
	}
	return false
}

// invalidate drops the cached layout when an in-flow node changes.
// Overlay subtrees never affect layout.
func (n *Node) invalidate() {
	if n.inOverlay() {
		return
	}
	if d := n.Document(); d != nil {
		d.layout = nil
	}
}

// Style returns the parsed inline style attribute.
func (n *Node) Style() map[string]string {
	raw, ok := n.Attr["style"]
	if !ok {
		return nil
	}
	style := make(map[string]string)
	for _, decl := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		style[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(strings.TrimSpace(value))
	}
	return style
}

// Ancestor returns the nearest inclusive ancestor element with the given tag.
func (n *Node) Ancestor(tag string) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == ElementNode && p.Tag == tag {
			return p
		}
	}
	return nil
}

// PrependChild adds c as the first child of n.
func (n *Node) PrependChild(c *Node) {
	n.InsertBefore(c, n.FirstChild)
}
