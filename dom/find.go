package dom

import "unicode"

// FindOptions mirrors the flags of window.find.
type FindOptions struct {
	CaseSensitive bool
	Backwards     bool
	WrapAround    bool
	WholeWord     bool
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Find searches the rendered text for query starting at the selection and
// selects the next hit. It reports whether a hit was found.
func (d *Document) Find(query string, opts FindOptions) bool {
	q := []rune(query)
	if len(q) == 0 {
		return false
	}
	f := d.textFlow()
	n := len(f.runes)
	if len(q) > n {
		return false
	}
	fold := func(r rune) rune {
		if opts.CaseSensitive {
			return r
		}
		return unicode.ToLower(r)
	}
	for i := range q {
		q[i] = fold(q[i])
	}
	match := func(i int) bool {
		for k, r := range q {
			if fold(f.runes[i+k]) != r {
				return false
			}
		}
		if opts.WholeWord {
			if i > 0 && isWordRune(f.runes[i-1]) {
				return false
			}
			if end := i + len(q); end < n && isWordRune(f.runes[end]) {
				return false
			}
		}
		return true
	}

	sel := d.sel
	var from int
	switch {
	case sel.Type() == SelectionNone:
		if opts.Backwards {
			from = n
		}
	case opts.Backwards:
		start, _ := sel.Range()
		from = f.index(start)
	default:
		_, end := sel.Range()
		from = f.index(end)
	}

	last := n - len(q)
	hit := -1
	if opts.Backwards {
		for i := min(from-len(q), last); i >= 0; i-- {
			if match(i) {
				hit = i
				break
			}
		}
		if hit < 0 && opts.WrapAround {
			for i := last; i > from-len(q) && i >= 0; i-- {
				if match(i) {
					hit = i
					break
				}
			}
		}
	} else {
		for i := from; i <= last; i++ {
			if match(i) {
				hit = i
				break
			}
		}
		if hit < 0 && opts.WrapAround {
			for i := 0; i < min(from, last+1); i++ {
				if match(i) {
					hit = i
					break
				}
			}
		}
	}
	if hit < 0 {
		return false
	}
	sel.anchor = f.before[hit]
	sel.focus = f.after[hit+len(q)-1]
	return true
}
