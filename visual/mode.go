package visual

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/log"
)

// State is the Visual-mode state. Entering cycles Idle, Caret, Range.
type State int

const (
	StateIdle State = iota
	StateCaret
	StateRange

	stateCount
)

var stateNames = [...]string{"", "Caret", "Range"}

func (s State) String() string {
	if s < 0 || s >= stateCount {
		return ""
	}
	return stateNames[s]
}

// Status line slots.
const (
	SlotMode  = 0
	SlotMatch = 2
)

// ModeName prefixes the mode status line.
const ModeName = "Visual"

// StatusReporter receives fire-and-forget UI notifications.
type StatusReporter interface {
	ShowStatus(slot int, msg string)
	ShowBubble(at dom.Rect, content string)
	HideBubble()
}

// ClipboardWriter receives yanked text.
type ClipboardWriter interface {
	Copy(text string) error
}

// Clicker activates the element under the cursor.
type Clicker interface {
	Click(n *dom.Node, shift bool)
}

// Hinter lets the user pick a piece of text on the page. pick may be called
// several times for multi-hit hints.
type Hinter interface {
	Hint(ex string, pick func(n *dom.Node, offset int, text string))
}

// Options configures a Controller. Nil collaborators are replaced by no-ops.
type Options struct {
	// ModeAfterYank is "", "Caret" or "Normal".
	ModeAfterYank string
	CaseSensitive bool
	SmartCase     bool
	HistorySize   int

	Keymap    Keymap
	Status    StatusReporter
	Clipboard ClipboardWriter
	Clicker   Clicker
	Hinter    Hinter

	// InlineQuery returns the bubble content for a word. The word itself
	// is shown when nil.
	InlineQuery func(word string) string
}

// DefaultHistorySize bounds the remembered queries when Options leaves it 0.
const DefaultHistorySize = 50

type seek struct {
	dir int
	chr string
}

// Controller is the Visual-mode state machine for one document. All calls
// must come from the goroutine that owns the document.
type Controller struct {
	doc     *dom.Document
	opts    Options
	cursor  *Cursor
	nav     *Navigator
	hl      *Highlighter
	overlay *Overlay

	state  State
	tables [stateCount]table

	pending    string
	pendingArg *Action
	seekDir    int
	lastSeek   *seek

	lastQuery string
	history   []string
}

// NewController wires a Controller for doc. caps usually comes from
// ProbeCapabilities(doc.Engine()).
func NewController(doc *dom.Document, caps Capabilities, opts Options) *Controller {
	if opts.Keymap == nil {
		opts.Keymap = DefaultKeymap()
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}
	if opts.Status == nil {
		opts.Status = nopStatus{}
	}
	c := &Controller{
		doc:     doc,
		opts:    opts,
		cursor:  NewCursor(doc.Selection()),
		nav:     NewNavigator(doc, caps),
		hl:      NewHighlighter(doc),
		overlay: NewOverlay(doc),
		tables:  buildTables(opts.Keymap),
	}
	return c
}

type nopStatus struct{}

func (nopStatus) ShowStatus(int, string)      {}
func (nopStatus) ShowBubble(dom.Rect, string) {}
func (nopStatus) HideBubble()                 {}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Active reports whether Visual mode is on.
func (c *Controller) Active() bool { return c.state != StateIdle }

// Cursor returns the cursor the controller drives.
func (c *Controller) Cursor() *Cursor { return c.cursor }

// Matches returns the current search hits.
func (c *Controller) Matches() []Match { return c.hl.Matches() }

// CurrentMatch returns the index of the current occurrence.
func (c *Controller) CurrentMatch() int { return c.hl.Current() }

// CursorRect returns the overlay cursor rect and whether it is shown.
func (c *Controller) CursorRect() (dom.Rect, bool) {
	return c.overlay.Rect(), c.overlay.Visible()
}

// History returns remembered queries, most recent first.
func (c *Controller) History() []string { return c.history }

// LastQuery returns the query Next falls back to.
func (c *Controller) LastQuery() string { return c.lastQuery }

// SetLastQuery sets the query Next falls back to when nothing is marked.
func (c *Controller) SetLastQuery(q string) { c.lastQuery = q }

// StatusLine returns the mode status text, such as "Visual - Caret".
func (c *Controller) StatusLine() string {
	if c.state == StateIdle {
		return ""
	}
	line := ModeName + " - " + c.state.String()
	switch c.seekDir {
	case 1:
		line += " - forward"
	case -1:
		line += " - backward"
	}
	return line
}

func (c *Controller) onStateChange() {
	c.opts.Status.ShowStatus(SlotMode, c.StatusLine())
}

func (c *Controller) showCounter() {
	if n := len(c.hl.Matches()); n > 0 {
		c.opts.Status.ShowStatus(SlotMatch, fmt.Sprintf("%d / %d", c.hl.Current()+1, n))
	}
}

func (c *Controller) caseSensitive(q string) bool {
	if c.opts.CaseSensitive {
		return true
	}
	if c.opts.SmartCase {
		for _, r := range q {
			if unicode.IsUpper(r) {
				return true
			}
		}
	}
	return false
}

func (c *Controller) remember(q string) {
	c.lastQuery = q
	h := []string{q}
	for _, old := range c.history {
		if old != q && len(h) < c.opts.HistorySize {
			h = append(h, old)
		}
	}
	c.history = h
}

func (c *Controller) hideCursor() { c.overlay.Hide() }

func (c *Controller) showCursor() { c.overlay.Show(c.cursor.Focus()) }

// guard runs fn and restores the selection when fn fails or panics.
func (c *Controller) guard(name string, fn func() error) {
	snap := TakeSnapshot(c.doc)
	defer func() {
		if r := recover(); r != nil {
			log.Error("visual action panicked", "action", name, "panic", r)
			snap.Restore(c.doc)
		}
	}()
	if err := fn(); err != nil {
		log.Warn("visual action failed", "action", name, "err", err)
		snap.Restore(c.doc)
	}
}

// Enter turns Visual mode on. With a target the caret moves to its first
// text unless keepCursor is set and the selection already lies inside it.
// Without a target an existing selection is kept, otherwise the caret goes
// to the first visible text.
func (c *Controller) Enter(target *dom.Node, keepCursor bool) {
	c.guard("enter", func() error {
		sel := c.doc.Selection()
		switch {
		case target != nil:
			inside := sel.Type() != dom.SelectionNone && target.Contains(sel.FocusNode())
			if !keepCursor || !inside {
				start := target
				if t := firstTextIn(c.doc, target); t != nil {
					start = t
				}
				if err := c.cursor.SetPosition(start, 0); err != nil {
					return err
				}
			}
		case sel.Type() == dom.SelectionNone:
			if t := c.firstVisibleText(); t != nil {
				if err := c.cursor.SetPosition(t, 0); err != nil {
					return err
				}
			}
		}
		if c.state == StateIdle {
			c.overlay.OnHidden = c.opts.Status.HideBubble
			c.state = StateCaret
			c.onStateChange()
		}
		c.showCursor()
		return nil
	})
}

// Exit turns Visual mode off. The selection is left as it is.
func (c *Controller) Exit() {
	c.hideCursor()
	c.overlay.OnHidden = nil
	c.state = StateIdle
	c.pending, c.pendingArg, c.seekDir = "", nil, 0
	c.onStateChange()
}

// Restore collapses the selection to its anchor and re-enters the mode.
func (c *Controller) Restore() {
	a := c.cursor.Anchor()
	if a.Node == nil {
		return
	}
	c.guard("restore", func() error {
		if err := c.cursor.SetPoint(a); err != nil {
			return err
		}
		c.showCursor()
		c.Enter(nil, true)
		return nil
	})
}

// Toggle advances the state machine: Caret becomes Range, Range collapses
// to its focus and leaves the mode, and Idle lets the user pick a starting
// point. ex selects what the pick does: "y" yanks the picked text, "ym"
// yanks several, "q" runs an inline query, "z" selects the picked text and
// anything else enters at it.
func (c *Controller) Toggle(ex string) {
	switch c.state {
	case StateCaret:
		c.guard("toggle", func() error {
			if err := c.cursor.Extend(c.cursor.Anchor().Node, c.cursor.Anchor().Offset); err != nil {
				return err
			}
			c.state = StateRange
			c.onStateChange()
			return nil
		})
	case StateRange:
		c.hideCursor()
		c.guard("toggle", c.cursor.CollapseToFocus)
		c.Exit()
	default:
		c.pick(ex)
	}
}

func (c *Controller) pick(ex string) {
	var yanked []string
	picked := func(n *dom.Node, offset int, text string) {
		c.guard("hint "+ex, func() error {
			return c.hintPicked(ex, n, offset, text, &yanked)
		})
	}
	if c.opts.Hinter != nil {
		c.opts.Hinter.Hint(ex, picked)
		return
	}
	t := c.firstVisibleText()
	if t == nil {
		return
	}
	start, length := NearestWord(t.Data, 0)
	picked(t, start, string([]rune(t.Data)[start:start+length]))
}

func (c *Controller) hintPicked(ex string, n *dom.Node, offset int, text string, yanked *[]string) error {
	switch ex {
	case "ym":
		*yanked = append(*yanked, strings.TrimSpace(text))
		return c.copy(strings.Join(*yanked, "\n"))
	case "y":
		if offset == 0 {
			return c.copy(strings.TrimSpace(n.Data))
		}
		return c.copy(strings.TrimSpace(text))
	case "q":
		word := leadingWord(strings.TrimSpace(text))
		r := c.doc.RangeRect(dom.Point{Node: n, Offset: offset},
			dom.Point{Node: n, Offset: min(n.Len(), offset+utf8.RuneCountInString(text))})
		c.opts.Status.ShowBubble(r, c.queryText(word))
		return nil
	}
	if err := c.cursor.SetPosition(n, offset); err != nil {
		return err
	}
	c.Enter(nil, true)
	if ex == "z" {
		if err := c.cursor.Extend(n, min(n.Len(), offset+utf8.RuneCountInString(text))); err != nil {
			return err
		}
		c.state = StateRange
		c.onStateChange()
	}
	c.showCursor()
	return nil
}

// leadingWord cuts s at its first non-word rune.
func leadingWord(s string) string {
	for i, r := range s {
		if !IsWordChar(r) {
			return s[:i]
		}
	}
	return s
}

func (c *Controller) queryText(word string) string {
	if c.opts.InlineQuery != nil {
		return c.opts.InlineQuery(word)
	}
	return word
}

func (c *Controller) copy(text string) error {
	if c.opts.Clipboard == nil {
		return nil
	}
	return c.opts.Clipboard.Copy(text)
}

// firstVisibleText returns the first searchable text node not above the
// viewport.
func (c *Controller) firstVisibleText() *dom.Node {
	for _, n := range dom.TextNodes(c.doc.Body(), textFilter(c.doc, nil)) {
		if c.doc.BoundingClientRect(n).Bottom() > 0 {
			return n
		}
	}
	return nil
}

func firstTextIn(doc *dom.Document, root *dom.Node) *dom.Node {
	if root.IsText() {
		return root
	}
	if nodes := dom.TextNodes(root, textFilter(doc, nil)); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// GetWordUnderCursor returns the selected text, or for a caret the word
// nearest to it.
func (c *Controller) GetWordUnderCursor() string {
	if word := c.cursor.Text(); word != "" {
		return word
	}
	f := c.cursor.Focus()
	if f.Node == nil {
		return ""
	}
	runes := []rune(f.Node.TextContent())
	start, length := NearestWord(string(runes), f.Offset)
	return string(runes[start : start+length])
}

// Star searches for the word under the cursor and leaves the cursor where
// it was.
func (c *Controller) Star() {
	f := c.cursor.Focus()
	if f.Node == nil || !f.Node.IsText() || f.Node.Data == "" {
		return
	}
	q := c.GetWordUnderCursor()
	if q == "" || q == "." {
		return
	}
	c.guard("star", func() error {
		c.hideCursor()
		c.remember(q)
		c.VisualClear()
		if _, err := c.hl.Highlight(q, c.caseSensitive(q)); err != nil {
			return err
		}
		c.showCounter()
		if err := c.cursor.SetPoint(f); err != nil {
			return err
		}
		c.showCursor()
		return nil
	})
}

// VisualEnter highlights query, enters the mode and selects the current
// occurrence. Markers follow scroll containers until VisualClear.
func (c *Controller) VisualEnter(query string) {
	if query == "" || query == "." {
		return
	}
	c.VisualClear()
	c.remember(query)
	n, err := c.hl.Highlight(query, c.caseSensitive(query))
	if err != nil {
		log.Warn("highlight failed", "query", query, "err", err)
	}
	if n > 0 {
		c.showCounter()
		c.Enter(nil, true)
		c.selectMatch(c.hl.Current())
	} else {
		c.opts.Status.ShowStatus(SlotMatch, "Pattern not found: "+query)
	}
	c.hl.BindScroll()
}

// VisualUpdate highlights query without entering the mode.
func (c *Controller) VisualUpdate(query string) {
	if query == "" || query == "." {
		return
	}
	c.VisualClear()
	if _, err := c.hl.Highlight(query, c.caseSensitive(query)); err != nil {
		log.Warn("highlight failed", "query", query, "err", err)
		return
	}
	c.showCounter()
}

// VisualClear removes every marker and scroll handler and clears the match
// counter.
func (c *Controller) VisualClear() {
	c.hideCursor()
	c.hl.Clear()
	c.opts.Status.ShowStatus(SlotMatch, "")
}

// Next moves to the next occurrence, or the previous one when backward is
// set. With nothing marked the last query is searched again.
func (c *Controller) Next(backward bool) {
	n := len(c.hl.Matches())
	if n == 0 {
		if c.lastQuery != "" {
			c.VisualEnter(c.lastQuery)
		}
		return
	}
	if c.state == StateIdle {
		c.Enter(nil, true)
	}
	if backward {
		c.hl.SetCurrent(c.hl.Current() - 1)
	} else {
		c.hl.SetCurrent(c.hl.Current() + 1)
	}
	c.selectMatch(c.hl.Current())
	c.showCounter()
}

func (c *Controller) selectMatch(i int) {
	matches := c.hl.Matches()
	if i < 0 || i >= len(matches) {
		return
	}
	m := matches[i]
	c.guard("select", func() error {
		c.hideCursor()
		var err error
		if c.cursor.Anchor().Node != nil && c.state == StateRange {
			err = c.cursor.ExtendTo(m.Start())
		} else {
			err = c.cursor.SetPoint(m.Start())
		}
		c.showCursor()
		return err
	})
}

// FindSentenceOf returns the sentence around the first visible whole-word
// occurrence of word. The selection is left untouched.
func (c *Controller) FindSentenceOf(word string) string {
	if word == "" {
		return ""
	}
	re, err := regexp2.Compile(`\b`+word+`\b`, regexp2.ECMAScript)
	if err != nil {
		re = regexp2.MustCompile(`\b`+regexp2.Escape(word)+`\b`, regexp2.ECMAScript)
	}
	elements := filterAncestors(c.doc.VisibleElements(func(n *dom.Node) bool {
		ok, err := re.MatchString(n.TextContent())
		return err == nil && ok
	}))
	if len(elements) == 0 {
		return ""
	}

	var sentence string
	WithSelectionPreserved(c.doc, func(sel *dom.Selection) {
		if err := sel.SetPosition(elements[0], 0); err != nil {
			log.Warn("findSentenceOf: position failed", "err", err)
			return
		}
		opts := dom.FindOptions{WrapAround: true, WholeWord: true}
		if c.doc.Find(word, opts) {
			if err := c.nav.SelectUnit("s"); err != nil {
				log.Warn("findSentenceOf: select failed", "err", err)
			}
			sentence = sel.String()
		}
	})
	return sentence
}

// filterAncestors keeps the innermost of every chain of nested elements.
// elements must be in document order.
func filterAncestors(elements []*dom.Node) []*dom.Node {
	var out []*dom.Node
next:
	for _, e := range elements {
		for j, kept := range out {
			if kept.Contains(e) {
				out[j] = e
				continue next
			}
			if e.Contains(kept) {
				continue next
			}
		}
		out = append(out, e)
	}
	return out
}

// Click re-synchronises the state with the selection after a mouse click.
func (c *Controller) Click() {
	switch c.cursor.State() {
	case dom.SelectionNone:
		c.hideCursor()
		c.state = StateIdle
	case dom.SelectionCaret:
		if c.state != StateIdle {
			c.hideCursor()
			c.showCursor()
		}
	case dom.SelectionRange:
		if c.state != StateIdle {
			c.hideCursor()
			c.state = StateRange
			c.showCursor()
		}
	}
	c.onStateChange()
}

// Style sets the style of "cursor" or "marks".
func (c *Controller) Style(element, style string) {
	switch element {
	case "cursor":
		c.overlay.SetStyle(style)
	case "marks":
		c.hl.SetMarkStyle(style)
	}
}

// HandleKey feeds one key to the mode and reports whether it was consumed.
// Multi-key sequences such as gg are buffered.
func (c *Controller) HandleKey(key string) bool {
	if c.state == StateIdle {
		return false
	}
	if c.seekDir != 0 {
		switch {
		case key == KeyEscape:
		case utf8.RuneCountInString(key) == 1:
			s := seek{dir: c.seekDir, chr: key}
			c.guard("seek", func() error { return c.seek(s.dir, s.chr) })
			c.lastSeek = &s
		default:
			return true
		}
		c.seekDir = 0
		c.onStateChange()
		return true
	}
	if c.pendingArg != nil {
		a := *c.pendingArg
		c.pendingArg = nil
		if key != KeyEscape {
			c.run(a, key)
		}
		return true
	}
	if key == KeyEscape {
		c.pending = ""
		c.escape()
		return true
	}

	seq := c.pending + key
	t := c.tables[c.state]
	if a, ok := t[seq]; ok {
		c.pending = ""
		if a.TakesArg {
			c.pendingArg = &a
			return true
		}
		c.run(a, "")
		return true
	}
	if t.hasPrefix(seq) {
		c.pending = seq
		return true
	}
	c.pending = ""
	return false
}

// Action returns the action bound to key in the current state.
func (c *Controller) Action(key string) (Action, bool) {
	a, ok := c.tables[c.state][key]
	return a, ok
}

func (c *Controller) run(a Action, arg string) {
	c.guard(a.ID, func() error {
		return a.Code(c, arg)
	})
}

func (c *Controller) escape() {
	if c.state > StateCaret {
		c.hideCursor()
		c.guard("escape", c.cursor.CollapseToAnchor)
		c.showCursor()
		c.state--
		c.onStateChange()
		return
	}
	c.VisualClear()
	c.Exit()
}
