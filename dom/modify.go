package dom

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// graphemeWindow bounds the runes scanned for one grapheme cluster.
const graphemeWindow = 32

// Modify moves the focus by one unit, collapsing the anchor onto it for
// Move. An empty selection is left alone. The focus is not touched when the
// move would not change the flow position.
func (s *Selection) Modify(alter Alter, dir Direction, g Granularity) error {
	if s.anchor.Node == nil {
		return nil
	}
	d := s.doc
	if !d.engine.Supports(g) {
		return fmt.Errorf("modify %s %s %s: %w", alter, dir, g, ErrNotSupported)
	}
	f := d.textFlow()
	if len(f.runes) == 0 {
		return nil
	}
	idx := f.index(s.focus)
	target := d.move(f, idx, dir, g)
	if target == idx {
		return nil
	}
	var p Point
	if dir == Forward {
		p = f.pointAfter(target)
	} else {
		p = f.pointBefore(target)
	}
	s.focus = p
	if alter == Move {
		s.anchor = p
	}
	return nil
}

func (d *Document) move(f *textFlow, idx int, dir Direction, g Granularity) int {
	n := len(f.runes)
	fwd := dir == Forward
	switch g {
	case Character:
		if fwd {
			return nextGrapheme(f.runes, idx)
		}
		return prevGrapheme(f.runes, idx)
	case Word:
		f.segment()
		if fwd {
			for _, w := range f.words {
				if w[1] > idx {
					return w[1]
				}
			}
			return n
		}
		for i := len(f.words) - 1; i >= 0; i-- {
			if f.words[i][0] < idx {
				return f.words[i][0]
			}
		}
		return 0
	case Sentence, SentenceBoundary:
		f.segment()
		if fwd {
			for _, b := range f.sentences {
				if b <= idx {
					continue
				}
				e := b
				for e > idx && isSpace(f.runes[e-1]) {
					e--
				}
				if e > idx {
					return e
				}
			}
			return n
		}
		for i := len(f.sentences) - 1; i >= 0; i-- {
			if f.sentences[i] < idx {
				return f.sentences[i]
			}
		}
		return 0
	case Paragraph:
		if fwd {
			for i := idx; i < n; i++ {
				if f.sep[i] && f.runes[i] == '\n' && i+1 > idx {
					return i + 1
				}
			}
			return n
		}
		return paragraphStart(f, idx)
	case ParagraphBoundary:
		if fwd {
			for i := idx; i < n; i++ {
				if f.sep[i] && f.runes[i] == '\n' {
					if i > idx {
						return i
					}
				}
			}
			return n
		}
		return paragraphStart(f, idx)
	case Line:
		if fwd {
			return d.lineDown(f, idx)
		}
		return d.lineUp(f, idx)
	case LineBoundary:
		return d.lineBoundary(f, idx, fwd)
	case DocumentBoundary:
		if d.engine.viewportDocument {
			return d.visibleBoundary(f, fwd)
		}
		if fwd {
			return n
		}
		return 0
	}
	return idx
}

func paragraphStart(f *textFlow, idx int) int {
	for i := idx - 2; i >= 0; i-- {
		if f.sep[i] && f.runes[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func nextGrapheme(runes []rune, idx int) int {
	if idx >= len(runes) {
		return len(runes)
	}
	end := min(idx+graphemeWindow, len(runes))
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(string(runes[idx:end]), -1)
	return idx + max(utf8.RuneCountInString(cluster), 1)
}

func prevGrapheme(runes []rune, idx int) int {
	if idx <= 0 {
		return 0
	}
	pos := max(idx-graphemeWindow, 0)
	last := pos
	rest := string(runes[pos:idx])
	state := -1
	var cluster string
	for len(rest) > 0 {
		last = pos
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		pos += utf8.RuneCountInString(cluster)
	}
	return last
}

// glyph returns the page rect of rune i, or false for separators.
func (f *textFlow) glyph(i int) (Rect, bool) {
	if i < 0 || i >= len(f.runes) || f.sep[i] {
		return Rect{}, false
	}
	p := f.before[i]
	return f.layout.glyphs[p.Node][p.Offset], true
}

// caret returns the page cell of the caret at flow index idx.
func (f *textFlow) caret(idx int) (x, y int) {
	if g, ok := f.glyph(idx); ok {
		return g.Left, g.Top
	}
	for i := idx - 1; i >= 0; i-- {
		if g, ok := f.glyph(i); ok {
			return g.Right(), g.Top
		}
	}
	return 0, 0
}

// pickOnLine returns the index on the line starting at start whose glyph is
// closest to column x.
func (f *textFlow) pickOnLine(start, x int) int {
	first, _ := f.glyph(start)
	y := first.Top
	last := start
	for i := start; i < len(f.runes); i++ {
		g, ok := f.glyph(i)
		if !ok || g.Top != y {
			break
		}
		if g.Right() > x {
			return i
		}
		last = i
	}
	return last + 1
}

func (d *Document) lineDown(f *textFlow, idx int) int {
	x, y := f.caret(idx)
	for i := idx; i < len(f.runes); i++ {
		if g, ok := f.glyph(i); ok && g.Top > y {
			return f.pickOnLine(i, x)
		}
	}
	return d.lineBoundary(f, idx, true)
}

func (d *Document) lineUp(f *textFlow, idx int) int {
	x, y := f.caret(idx)
	for i := idx - 1; i >= 0; i-- {
		g, ok := f.glyph(i)
		if !ok || g.Top >= y {
			continue
		}
		start := i
		for start > 0 {
			p, ok := f.glyph(start - 1)
			if !ok || p.Top != g.Top {
				break
			}
			start--
		}
		return f.pickOnLine(start, x)
	}
	return d.lineBoundary(f, idx, false)
}

func (d *Document) lineBoundary(f *textFlow, idx int, fwd bool) int {
	_, y := f.caret(idx)
	if fwd {
		i := idx
		for i < len(f.runes) {
			g, ok := f.glyph(i)
			if !ok || g.Top != y {
				break
			}
			i++
		}
		if i > idx && i < len(f.runes) && !f.sep[i] && f.runes[i-1] == ' ' {
			i--
		}
		return i
	}
	i := idx
	for i > 0 {
		g, ok := f.glyph(i - 1)
		if !ok || g.Top != y {
			break
		}
		i--
	}
	return i
}

// visibleBoundary returns the first or last flow index inside the viewport.
func (d *Document) visibleBoundary(f *textFlow, fwd bool) int {
	visible := func(i int) bool {
		g, ok := f.glyph(i)
		if !ok {
			return false
		}
		c := toClient(f.before[i].Node, g)
		return c.Top >= 0 && c.Top < d.viewHeight
	}
	if fwd {
		for i := len(f.runes) - 1; i >= 0; i-- {
			if visible(i) {
				return i + 1
			}
		}
		return len(f.runes)
	}
	for i := range f.runes {
		if visible(i) {
			return i
		}
	}
	return 0
}
