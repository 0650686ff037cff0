package dom

import "cmp"

// Point is a boundary point: a rune offset in a text node or a child index
// in an element.
type Point struct {
	Node   *Node
	Offset int
}

// IsZero reports whether p has no node.
func (p Point) IsZero() bool {
	return p.Node == nil
}

// Compare orders two boundary points in document order.
func Compare(a, b Point) int {
	switch {
	case a.Node == b.Node:
		return cmp.Compare(a.Offset, b.Offset)
	case a.Node == nil:
		return -1
	case b.Node == nil:
		return 1
	case a.Node.Contains(b.Node):
		if a.Offset <= childContaining(a.Node, b.Node).Index() {
			return -1
		}
		return 1
	case b.Node.Contains(a.Node):
		return -Compare(b, a)
	case nodeBefore(a.Node, b.Node):
		return -1
	default:
		return 1
	}
}

func childContaining(ancestor, n *Node) *Node {
	for n.Parent != ancestor {
		n = n.Parent
	}
	return n
}

func ancestors(n *Node) []*Node {
	var chain []*Node
	for ; n != nil; n = n.Parent {
		chain = append(chain, n)
	}
	return chain
}

// nodeBefore reports whether a precedes b when neither contains the other.
func nodeBefore(a, b *Node) bool {
	ca, cb := ancestors(a), ancestors(b)
	i, j := len(ca)-1, len(cb)-1
	for i > 0 && j > 0 && ca[i-1] == cb[j-1] {
		i--
		j--
	}
	if i == 0 || j == 0 {
		return i == 0
	}
	return ca[i-1].Index() < cb[j-1].Index()
}
