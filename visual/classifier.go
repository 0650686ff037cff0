package visual

import "unicode"

// IsWordChar reports whether r belongs to a word. Only letters count: digits
// and punctuation separate words, for every script. Letters outside the BMP
// are word characters too.
func IsWordChar(r rune) bool {
	return unicode.IsLetter(r)
}

// NextBoundary scans text from pos in direction dir (+1 or -1) and returns
// the index of the first non-word rune, clamped to [0, len]. Scanning
// backwards starts at the rune before pos. Positions are rune indices.
func NextBoundary(text string, dir, pos int) int {
	runes := []rune(text)
	cur := pos
	if dir < 0 {
		cur = pos - 1
		dir = -1
	} else {
		dir = 1
	}
	for {
		switch {
		case cur < 0:
			return 0
		case cur >= len(runes):
			return len(runes)
		case !IsWordChar(runes[cur]):
			return cur
		}
		cur += dir
	}
}

// NearestWord returns the rune span of the word at offset. When offset is
// not on a word, the closest word rune is used instead, preferring the left
// one on ties. Text without any word rune yields its whole span.
func NearestWord(text string, offset int) (start, length int) {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return 0, 0
	}
	offset = max(0, min(offset, n-1))
	isWord := func(i int) bool {
		return i >= 0 && i < n && IsWordChar(runes[i])
	}

	if !isWord(offset) {
		found := false
		delta := 0
		for !found && (offset > delta || offset+delta < n) {
			delta++
			found = isWord(offset-delta) || isWord(offset+delta)
		}
		if !found {
			return 0, n
		}
		if isWord(offset - delta) {
			offset -= delta
		} else {
			offset += delta
		}
	}

	start, end := offset, offset
	for isWord(start - 1) {
		start--
	}
	for isWord(end) {
		end++
	}
	return start, end - start
}
