package visual

import "github.com/cornish/visualnav/dom"

// Special key names used in key sequences.
const (
	KeyEnter      = "<Enter>"
	KeyShiftEnter = "<Shift-Enter>"
	KeyEscape     = "<Esc>"
)

// FeatureGroup tags every Visual-mode action in help listings.
const FeatureGroup = 9

// Action is one entry of a key table.
type Action struct {
	ID           string
	Annotation   string
	FeatureGroup int
	// TakesArg actions consume the next key as their argument, like the
	// unit after V.
	TakesArg bool
	Code     func(c *Controller, arg string) error
}

// Keymap maps key sequences to action IDs.
type Keymap map[string]string

// DefaultKeymap returns the Visual-mode bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		"l":           "forward_character",
		"h":           "backward_character",
		"j":           "forward_line",
		"k":           "backward_line",
		"w":           "forward_word",
		"e":           "forward_word",
		"b":           "backward_word",
		")":           "forward_sentence",
		"(":           "backward_sentence",
		"}":           "forward_paragraph",
		"{":           "backward_paragraph",
		"0":           "line_start",
		"$":           "line_end",
		"G":           "document_end",
		"gg":          "document_start",
		"o":           "other_end",
		"y":           "yank",
		"*":           "star",
		KeyEnter:      "click",
		KeyShiftEnter: "click_shift",
		"zz":          "center",
		"f":           "seek_forward",
		"F":           "seek_backward",
		";":           "repeat_seek",
		",":           "repeat_seek_reverse",
		"p":           "expand_parent",
		"q":           "inline_query",
		"V":           "select_unit",
	}
}

func move(dir dom.Direction, g dom.Granularity) func(*Controller, string) error {
	return func(c *Controller, _ string) error {
		return c.modifySelection(dir, g)
	}
}

// actions lists every action that behaves the same in Caret and Range.
var actions = map[string]Action{
	"forward_character":  {Annotation: "forward character", Code: move(dom.Forward, dom.Character)},
	"backward_character": {Annotation: "backward character", Code: move(dom.Backward, dom.Character)},
	"forward_line":       {Annotation: "forward line", Code: move(dom.Forward, dom.Line)},
	"backward_line":      {Annotation: "backward line", Code: move(dom.Backward, dom.Line)},
	"forward_word":       {Annotation: "forward word", Code: move(dom.Forward, dom.Word)},
	"backward_word":      {Annotation: "backward word", Code: move(dom.Backward, dom.Word)},
	"forward_sentence":   {Annotation: "forward sentence", Code: move(dom.Forward, dom.Sentence)},
	"backward_sentence":  {Annotation: "backward sentence", Code: move(dom.Backward, dom.Sentence)},
	"forward_paragraph":  {Annotation: "forward paragraphboundary", Code: move(dom.Forward, dom.ParagraphBoundary)},
	"backward_paragraph": {Annotation: "backward paragraphboundary", Code: move(dom.Backward, dom.ParagraphBoundary)},
	"line_start":         {Annotation: "backward lineboundary", Code: move(dom.Backward, dom.LineBoundary)},
	"line_end":           {Annotation: "forward lineboundary", Code: move(dom.Forward, dom.LineBoundary)},
	"document_end":       {Annotation: "forward documentboundary", Code: (*Controller).documentEnd},
	"document_start":     {Annotation: "backward documentboundary", Code: (*Controller).documentStart},
	"other_end":          {Annotation: "Go to Other end of highlighted text", Code: (*Controller).otherEnd},
	"star":               {Annotation: "Search word under the cursor", Code: (*Controller).starAction},
	"click": {
		Annotation: "Click on node under cursor.",
		Code:       func(c *Controller, _ string) error { return c.click(false) },
	},
	"click_shift": {
		Annotation: "Click on node under cursor.",
		Code:       func(c *Controller, _ string) error { return c.click(true) },
	},
	"center":        {Annotation: "make cursor at center of window.", Code: (*Controller).center},
	"seek_forward":  {Annotation: "Forward to next char.", Code: (*Controller).seekForward},
	"seek_backward": {Annotation: "Backward to next char.", Code: (*Controller).seekBackward},
	"repeat_seek":   {Annotation: "Repeat latest f, F", Code: (*Controller).repeatSeek},
	"repeat_seek_reverse": {
		Annotation: "Repeat latest f, F in opposite direction",
		Code:       (*Controller).repeatSeekReverse,
	},
	"expand_parent": {Annotation: "Expand selection to parent element", Code: (*Controller).expandParent},
	"inline_query":  {Annotation: "Translate word under cursor", Code: (*Controller).inlineQuery},
	"select_unit": {
		Annotation: "Select a word(w) or line(l) or sentence(s) or paragraph(p)",
		TakesArg:   true,
		Code:       (*Controller).selectUnit,
	},
}

// yankActions holds the per-state behaviour of the yank action.
var yankActions = [...]Action{
	StateCaret: {
		Annotation: "Yank a word(w) or line(l) or sentence(s) or paragraph(p)",
		TakesArg:   true,
		Code:       (*Controller).yankUnit,
	},
	StateRange: {
		Annotation: "Copy selected text",
		Code:       (*Controller).yankSelection,
	},
}

// lookup resolves an action ID for state.
func lookup(id string, state State) (Action, bool) {
	var a Action
	if id == "yank" {
		if int(state) >= len(yankActions) || yankActions[state].Code == nil {
			return Action{}, false
		}
		a = yankActions[state]
	} else {
		var ok bool
		if a, ok = actions[id]; !ok {
			return Action{}, false
		}
	}
	a.ID = id
	a.FeatureGroup = FeatureGroup
	return a, true
}

// table is the key table of one state.
type table map[string]Action

// buildTables resolves km once per state. Idle has no Visual-mode keys.
func buildTables(km Keymap) [stateCount]table {
	var tables [stateCount]table
	for s := StateIdle; s < stateCount; s++ {
		tables[s] = make(table)
		if s == StateIdle {
			continue
		}
		for key, id := range km {
			if a, ok := lookup(id, s); ok {
				tables[s][key] = a
			}
		}
	}
	return tables
}

// hasPrefix reports whether some sequence in t starts with, and is longer
// than, seq.
func (t table) hasPrefix(seq string) bool {
	for k := range t {
		if len(k) > len(seq) && k[:len(seq)] == seq {
			return true
		}
	}
	return false
}
