package dom

import "strings"

// Default viewport size used until the host reports its terminal size.
const (
	DefaultViewWidth  = 80
	DefaultViewHeight = 24
)

// Document owns a node tree, its layout, its scroll state and the single
// selection.
type Document struct {
	root   *Node
	sel    *Selection
	engine Engine

	viewWidth  int
	viewHeight int

	layout *layout
	flow   *textFlow
}

// NewDocument returns an empty html/head/body document.
func NewDocument() *Document {
	root := &Node{Type: DocumentNode}
	html := NewElement("html")
	html.AppendChild(NewElement("head"))
	html.AppendChild(NewElement("body"))
	root.AppendChild(html)
	return newDocument(root)
}

func newDocument(root *Node) *Document {
	d := &Document{
		root:       root,
		engine:     Blink,
		viewWidth:  DefaultViewWidth,
		viewHeight: DefaultViewHeight,
	}
	root.doc = d
	d.sel = &Selection{doc: d}
	return d
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// DocumentElement returns the root element, normally <html>.
func (d *Document) DocumentElement() *Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// Body returns the <body> element, falling back to the document element.
func (d *Document) Body() *Node {
	html := d.DocumentElement()
	if html == nil {
		return nil
	}
	for c := html.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == ElementNode && c.Tag == "body" {
			return c
		}
	}
	return html
}

// Title returns the text of the first <title> element.
func (d *Document) Title() string {
	var title string
	Walk(d.root, func(n *Node) bool {
		if n.Type == ElementNode && n.Tag == "title" {
			title = strings.TrimSpace(n.TextContent())
			return false
		}
		return title == ""
	})
	return title
}

// Selection returns the document's selection.
func (d *Document) Selection() *Selection {
	return d.sel
}

// Engine returns the active engine profile.
func (d *Document) Engine() Engine {
	return d.engine
}

// SetEngine switches the engine profile.
func (d *Document) SetEngine(e Engine) {
	d.engine = e
}

// SetViewport resizes the viewport and relayouts on the next query.
func (d *Document) SetViewport(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width != d.viewWidth {
		d.layout = nil
	}
	d.viewWidth = width
	d.viewHeight = height
	if d.layout != nil {
		d.layout.sizeRoot(d)
	}
}

// Viewport returns the viewport size in cells.
func (d *Document) Viewport() (width, height int) {
	return d.viewWidth, d.viewHeight
}

// Contains reports whether n is attached to d.
func (d *Document) Contains(n *Node) bool {
	return n != nil && n.Document() == d
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// GetElementByID returns the first element whose id attribute equals id.
func (d *Document) GetElementByID(id string) *Node {
	var found *Node
	Walk(d.root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if v, ok := n.Attr["id"]; ok && n.Type == ElementNode && v == id {
			found = n
			return false
		}
		return true
	})
	return found
}
