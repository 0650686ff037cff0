package dom

import "errors"

var (
	// ErrNotSupported is returned when the active engine cannot perform an
	// operation, e.g. sentence movement on the gecko profile.
	ErrNotSupported = errors.New("dom: operation not supported by engine")

	// ErrIndexSize is returned for offsets outside [0, node.Len()].
	ErrIndexSize = errors.New("dom: offset out of range")

	// ErrInvalidState is returned when a selection operation needs an anchor
	// and the selection is empty.
	ErrInvalidState = errors.New("dom: selection is empty")

	// ErrNotInDocument is returned when a node is detached from the document.
	ErrNotInDocument = errors.New("dom: node is not in the document")
)
