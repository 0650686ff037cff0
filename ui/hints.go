package ui

import (
	"strings"

	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/visual"
)

// HintAlphabet is the default set of label characters, home row first.
const HintAlphabet = "asdfghjklqwertyuiopzxcvbnm"

// Hint is a labelled word on screen the user can pick by typing its label.
type Hint struct {
	Label  string
	Node   *dom.Node
	Offset int
	Text   string
	Rect   dom.Rect
}

// CollectHints labels every word that starts inside the viewport.
func CollectHints(doc *dom.Document, alphabet string) []Hint {
	if alphabet == "" {
		alphabet = HintAlphabet
	}
	width, height := doc.Viewport()
	view := dom.Rect{Width: width, Height: height}

	var hints []Hint
	for _, n := range dom.TextNodes(doc.Body(), skipOverlays) {
		if !doc.IsRendered(n) {
			continue
		}
		runes := []rune(n.Data)
		for i := 0; i < len(runes); {
			if !visual.IsWordChar(runes[i]) {
				i++
				continue
			}
			j := visual.NextBoundary(n.Data, 1, i)
			r := doc.CaretRect(n, i)
			if view.Contains(r.Left, r.Top) && doc.ClipRect(n).Contains(r.Left, r.Top) {
				hints = append(hints, Hint{
					Node:   n,
					Offset: i,
					Text:   string(runes[i:j]),
					Rect:   r,
				})
			}
			i = j
		}
	}

	labels := HintLabels(len(hints), alphabet)
	for i := range hints {
		hints[i].Label = labels[i]
	}
	return hints
}

func skipOverlays(n *dom.Node) dom.FilterResult {
	if n.Type == dom.ElementNode {
		if pos, _ := n.Overlay(); pos != dom.Static {
			return dom.FilterReject
		}
	}
	return dom.FilterAccept
}

// HintLabels returns count labels of equal length over alphabet, so no
// label is a prefix of another.
func HintLabels(count int, alphabet string) []string {
	if count <= 0 {
		return nil
	}
	chars := []rune(alphabet)
	if len(chars) < 2 {
		chars = []rune(HintAlphabet)
	}
	size, total := 1, len(chars)
	for total < count {
		size++
		total *= len(chars)
	}

	labels := make([]string, count)
	idx := make([]int, size)
	var sb strings.Builder
	for i := range labels {
		sb.Reset()
		for _, k := range idx {
			sb.WriteRune(chars[k])
		}
		labels[i] = sb.String()
		// Increment the last digit first
		for d := size - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < len(chars) {
				break
			}
			idx[d] = 0
		}
	}
	return labels
}

// FilterHints returns the hints whose label starts with typed.
func FilterHints(hints []Hint, typed string) []Hint {
	var out []Hint
	for _, h := range hints {
		if strings.HasPrefix(h.Label, typed) {
			out = append(out, h)
		}
	}
	return out
}
