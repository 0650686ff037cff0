package visual

import "errors"

var (
	// ErrNoSelection is returned when an operation needs a focus node and
	// the document has none.
	ErrNoSelection = errors.New("visual: no selection")

	// ErrNoMatches is returned when a search produced no occurrence.
	ErrNoMatches = errors.New("visual: no matches")

	// ErrEmptyPattern is returned for queries that cannot be searched: the
	// empty string and ".".
	ErrEmptyPattern = errors.New("visual: empty pattern")
)
