package dom

import (
	"sort"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// textFlow is the rendered text of a document as one rune sequence. Block
// boundaries and line breaks appear as '\n' separators and collapsed
// whitespace is dropped.
type textFlow struct {
	layout *layout

	runes  []rune
	before []Point
	after  []Point
	sep    []bool

	nodes   []*Node
	offsets map[*Node][]int

	words     [][2]int
	sentences []int
	segmented bool
}

func (d *Document) textFlow() *textFlow {
	l := d.ensureLayout()
	if d.flow == nil || d.flow.layout != l {
		d.flow = buildFlow(d, l)
	}
	return d.flow
}

func buildFlow(d *Document, l *layout) *textFlow {
	f := &textFlow{layout: l, offsets: make(map[*Node][]int)}
	var pending rune
	var prev *Node
	pre := 0

	var walk func(n *Node)
	walk = func(n *Node) {
		if l.hidden[n] || n.position != Static {
			return
		}
		if n.Type == TextNode {
			collapsed := l.collapsed[n]
			runes := []rune(n.Data)
			offs := make([]int, len(runes)+1)
			for k, r := range runes {
				if k < len(collapsed) && collapsed[k] {
					offs[k] = len(f.runes)
					continue
				}
				if pending != 0 && len(f.runes) > 0 {
					f.runes = append(f.runes, pending)
					f.before = append(f.before, Point{prev, prev.Len()})
					f.after = append(f.after, Point{n, k})
					f.sep = append(f.sep, true)
				}
				pending = 0
				if pre == 0 && isSpace(r) {
					r = ' '
				}
				offs[k] = len(f.runes)
				f.runes = append(f.runes, r)
				f.before = append(f.before, Point{n, k})
				f.after = append(f.after, Point{n, k + 1})
				f.sep = append(f.sep, false)
			}
			offs[len(runes)] = len(f.runes)
			f.offsets[n] = offs
			f.nodes = append(f.nodes, n)
			if len(runes) > 0 {
				prev = n
			}
			return
		}
		block := n.Type == ElementNode && displayOf(n) == displayBlock
		if n.Tag == "br" {
			pending = '\n'
			return
		}
		isPre := n.Tag == "pre" || n.Style()["white-space"] == "pre"
		if isPre {
			pre++
		}
		if block {
			pending = '\n'
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			pending = '\n'
		} else if (n.Tag == "td" || n.Tag == "th") && pending == 0 {
			pending = ' '
		}
		if isPre {
			pre--
		}
	}
	walk(d.root)
	return f
}

// index maps a boundary point to a flow index.
func (f *textFlow) index(p Point) int {
	if p.Node == nil {
		return 0
	}
	if offs, ok := f.offsets[p.Node]; ok {
		return offs[max(0, min(p.Offset, len(offs)-1))]
	}
	i := sort.Search(len(f.nodes), func(i int) bool {
		return Compare(Point{f.nodes[i], 0}, p) >= 0
	})
	if i == len(f.nodes) {
		return len(f.runes)
	}
	return f.offsets[f.nodes[i]][0]
}

// pointBefore is the boundary point just before rune i, used when arriving
// from the right.
func (f *textFlow) pointBefore(i int) Point {
	if i < len(f.runes) {
		return f.before[max(i, 0)]
	}
	return f.pointAfter(i)
}

// pointAfter is the boundary point just after rune i-1, used when arriving
// from the left.
func (f *textFlow) pointAfter(i int) Point {
	if len(f.runes) == 0 {
		return Point{}
	}
	if i <= 0 {
		return f.before[0]
	}
	return f.after[min(i, len(f.runes))-1]
}

func (f *textFlow) text(i, j int) string {
	return string(f.runes[i:j])
}

// segment computes word spans and sentence starts with UAX #29 rules.
func (f *textFlow) segment() {
	if f.segmented {
		return
	}
	f.segmented = true
	s := string(f.runes)

	pos := 0
	state := -1
	rest := s
	var word string
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		n := utf8.RuneCountInString(word)
		if hasWordRune(word) {
			f.words = append(f.words, [2]int{pos, pos + n})
		}
		pos += n
	}

	pos = 0
	state = -1
	rest = s
	var sentence string
	for len(rest) > 0 {
		f.sentences = append(f.sentences, pos)
		sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
		pos += utf8.RuneCountInString(sentence)
	}
	f.sentences = append(f.sentences, pos)
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if isWordRune(r) {
			return true
		}
	}
	return false
}
