package dom

import (
	"fmt"
	"strings"
)

// Granularity is the unit of a selection movement.
type Granularity int

const (
	Character Granularity = iota
	Word
	Sentence
	Line
	Paragraph
	LineBoundary
	SentenceBoundary
	ParagraphBoundary
	DocumentBoundary
)

var granularityNames = [...]string{
	Character:         "character",
	Word:              "word",
	Sentence:          "sentence",
	Line:              "line",
	Paragraph:         "paragraph",
	LineBoundary:      "lineboundary",
	SentenceBoundary:  "sentenceboundary",
	ParagraphBoundary: "paragraphboundary",
	DocumentBoundary:  "documentboundary",
}

func (g Granularity) String() string {
	if g < 0 || int(g) >= len(granularityNames) {
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
	return granularityNames[g]
}

// ParseGranularity accepts the names used by Selection.modify.
func ParseGranularity(s string) (Granularity, error) {
	s = strings.ToLower(s)
	for g, name := range granularityNames {
		if name == s {
			return Granularity(g), nil
		}
	}
	return 0, fmt.Errorf("unknown granularity %q", s)
}

// Direction of a selection movement.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// ParseDirection accepts forward/backward and right/left.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "forward", "right":
		return Forward, nil
	case "backward", "left":
		return Backward, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Alter selects whether a movement collapses or extends the selection.
type Alter int

const (
	Move Alter = iota
	Extend
)

func (a Alter) String() string {
	if a == Extend {
		return "extend"
	}
	return "move"
}

// ParseAlter accepts move/extend.
func ParseAlter(s string) (Alter, error) {
	switch strings.ToLower(s) {
	case "move":
		return Move, nil
	case "extend":
		return Extend, nil
	}
	return 0, fmt.Errorf("unknown alter %q", s)
}

// Engine describes the selection capabilities of a rendering engine.
type Engine struct {
	Name string

	unsupported map[Granularity]bool
	// viewportDocument limits documentboundary moves to the visible part
	// of the page.
	viewportDocument bool
}

var (
	Blink = Engine{Name: "blink"}
	Gecko = Engine{
		Name: "gecko",
		unsupported: map[Granularity]bool{
			Sentence:          true,
			SentenceBoundary:  true,
			Paragraph:         true,
			ParagraphBoundary: true,
		},
		viewportDocument: true,
	}
)

// EngineByName returns the named engine profile.
func EngineByName(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "", "blink", "chrome", "chromium":
		return Blink, nil
	case "gecko", "firefox":
		return Gecko, nil
	}
	return Engine{}, fmt.Errorf("unknown engine %q", name)
}

// Supports reports whether Modify accepts g.
func (e Engine) Supports(g Granularity) bool {
	return !e.unsupported[g]
}
