package visual

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cornish/visualnav/dom"
)

func TestToggleCycles(t *testing.T) {
	h := newHarness(t, "<p>hello world</p>", Options{})
	require.Equal(t, StateIdle, h.c.State())

	want := []State{StateCaret, StateRange, StateIdle}
	lines := []string{"Visual - Caret", "Visual - Range", ""}
	for i, w := range want {
		h.c.Toggle("")
		assert.Equal(t, w, h.c.State(), "toggle %d", i+1)
		assert.Equal(t, lines[i], h.status.slots[SlotMode])
	}
	assert.Equal(t, dom.SelectionCaret, h.doc.Selection().Type())
}

func TestGetWordUnderCursor(t *testing.T) {
	h := newHarness(t, "<p>hello world</p>", Options{})
	n := textOf(t, h.doc, "hello world")
	sel := h.doc.Selection()

	assert.Equal(t, "", h.c.GetWordUnderCursor())

	require.NoError(t, sel.SetPosition(n, 2))
	assert.Equal(t, "hello", h.c.GetWordUnderCursor())

	require.NoError(t, sel.SetPosition(n, 6))
	require.NoError(t, sel.Extend(n, 9))
	assert.Equal(t, "wor", h.c.GetWordUnderCursor())
}

func TestVisualEnterAndNext(t *testing.T) {
	h := newHarness(t, "<p>foo bar foo</p><p>a foo</p>", Options{})
	first := textOf(t, h.doc, "foo bar foo")

	h.c.VisualEnter("foo")
	require.Len(t, h.c.Matches(), 3)
	assert.Equal(t, StateCaret, h.c.State())
	assert.Equal(t, "1 / 3", h.status.slots[SlotMatch])
	assert.Equal(t, dom.Point{Node: first, Offset: 0}, h.doc.Selection().Focus())

	start := h.c.CurrentMatch()
	for i := 0; i < 3; i++ {
		h.c.Next(false)
	}
	assert.Equal(t, start, h.c.CurrentMatch())
	assert.Equal(t, "1 / 3", h.status.slots[SlotMatch])

	h.c.Next(true)
	assert.Equal(t, "3 / 3", h.status.slots[SlotMatch])
	assert.Equal(t, dom.Point{Node: textOf(t, h.doc, "a foo"), Offset: 2}, h.doc.Selection().Focus())

	_, visible := h.c.CursorRect()
	assert.True(t, visible)
	assert.Equal(t, []string{"foo"}, h.c.History())
}

func TestVisualEnterNotFound(t *testing.T) {
	h := newHarness(t, "<p>foo</p>", Options{})
	h.c.VisualEnter("zzz")
	assert.Empty(t, h.c.Matches())
	assert.Equal(t, StateIdle, h.c.State())
	assert.Equal(t, "Pattern not found: zzz", h.status.slots[SlotMatch])

	h.c.VisualEnter(".")
	h.c.VisualEnter("")
	assert.Equal(t, "zzz", h.c.LastQuery())
}

func TestNextRerunsLastQuery(t *testing.T) {
	h := newHarness(t, "<p>foo bar foo</p>", Options{})
	h.c.VisualEnter("foo")
	h.c.VisualClear()
	h.c.Exit()
	require.Empty(t, h.c.Matches())

	h.c.Next(false)
	assert.Len(t, h.c.Matches(), 2)
	assert.Equal(t, StateCaret, h.c.State())
}

func TestNextReentersAfterExit(t *testing.T) {
	h := newHarness(t, "<p>foo bar foo</p>", Options{})
	h.c.VisualEnter("foo")
	h.c.Exit()
	require.Len(t, h.c.Matches(), 2)

	h.c.Next(false)
	assert.Equal(t, StateCaret, h.c.State())
	assert.Equal(t, 8, h.doc.Selection().FocusOffset())
}

func TestVisualClearTwice(t *testing.T) {
	h := newHarness(t, "<p>foo foo</p>", Options{})
	h.c.VisualEnter("foo")
	require.NotEmpty(t, h.c.Matches())

	h.c.VisualClear()
	h.c.VisualClear()
	assert.Empty(t, h.c.Matches())
	assert.Equal(t, "", h.status.slots[SlotMatch])
	_, visible := h.c.CursorRect()
	assert.False(t, visible)
}

func TestVisualUpdateDoesNotEnter(t *testing.T) {
	h := newHarness(t, "<p>foo foo</p>", Options{})
	h.c.VisualUpdate("foo")
	assert.Len(t, h.c.Matches(), 2)
	assert.Equal(t, StateIdle, h.c.State())
	assert.Equal(t, "1 / 2", h.status.slots[SlotMatch])
}

func TestMovementKeys(t *testing.T) {
	h := newHarness(t, "<p>hello world</p>", Options{})
	n := textOf(t, h.doc, "hello world")
	h.c.Enter(nil, false)
	sel := h.doc.Selection()
	require.Equal(t, dom.Point{Node: n, Offset: 0}, sel.Focus())

	tests := []struct {
		key  string
		want int
	}{
		{"l", 1},
		{"w", 5},
		{"b", 0},
		{"$", 11},
		{"0", 0},
		{"e", 5},
		{"h", 4},
	}
	for _, tt := range tests {
		h.keys(t, tt.key)
		if got := sel.FocusOffset(); got != tt.want {
			t.Errorf("after %q focus = %d, want %d", tt.key, got, tt.want)
		}
	}
	assert.Equal(t, dom.SelectionCaret, sel.Type())
}

func TestSelectUnitAndEscape(t *testing.T) {
	h := newHarness(t, "<p>hello world</p>", Options{})
	h.c.Enter(nil, false)
	sel := h.doc.Selection()

	h.keys(t, "V", "w")
	assert.Equal(t, StateRange, h.c.State())
	assert.Equal(t, "hello", sel.String())

	h.keys(t, "l")
	assert.Equal(t, "hello ", sel.String(), "range state extends")

	h.keys(t, KeyEscape)
	assert.Equal(t, StateCaret, h.c.State())
	assert.Equal(t, 0, sel.FocusOffset())

	h.keys(t, KeyEscape)
	assert.Equal(t, StateIdle, h.c.State())
	assert.False(t, h.c.HandleKey("l"))
}

func TestDocumentKeysUpdateCounter(t *testing.T) {
	h := newHarness(t, "<p>foo bar foo</p><p>a foo</p>", Options{})
	h.c.VisualEnter("foo")

	h.keys(t, "G")
	assert.Equal(t, 2, h.c.CurrentMatch())
	assert.Equal(t, "3 / 3", h.status.slots[SlotMatch])
	assert.Equal(t, dom.Point{Node: textOf(t, h.doc, "a foo"), Offset: 5}, h.doc.Selection().Focus())

	h.keys(t, "g", "g")
	assert.Equal(t, 0, h.c.CurrentMatch())
	assert.Equal(t, "1 / 3", h.status.slots[SlotMatch])
	assert.Equal(t, 0, h.doc.Selection().FocusOffset())
}

func TestYankInCaret(t *testing.T) {
	h := newHarness(t, "<p>hello world</p>", Options{})
	n := textOf(t, h.doc, "hello world")
	h.c.Enter(nil, false)
	require.NoError(t, h.doc.Selection().SetPosition(n, 8))

	h.keys(t, "y", "w")
	assert.Equal(t, "world", h.clip.text)
	assert.Equal(t, dom.SelectionCaret, h.doc.Selection().Type())
	assert.Equal(t, 8, h.doc.Selection().FocusOffset())
	assert.Equal(t, StateCaret, h.c.State())
}

func TestYankInRange(t *testing.T) {
	tests := []struct {
		modeAfterYank string
		wantState     State
		wantType      dom.SelectionType
	}{
		{"", StateRange, dom.SelectionRange},
		{"Caret", StateCaret, dom.SelectionCaret},
		{"Normal", StateIdle, dom.SelectionCaret},
	}
	for _, tt := range tests {
		t.Run(tt.modeAfterYank, func(t *testing.T) {
			h := newHarness(t, "<p>hello world</p>", Options{ModeAfterYank: tt.modeAfterYank})
			h.c.Enter(nil, false)
			h.keys(t, "V", "w", "y")
			assert.Equal(t, "hello", h.clip.text)
			assert.Equal(t, tt.wantState, h.c.State())
			assert.Equal(t, tt.wantType, h.doc.Selection().Type())
			if tt.wantType == dom.SelectionCaret {
				assert.Equal(t, 5, h.doc.Selection().FocusOffset())
			}
		})
	}
}

func TestKeyTablesPerState(t *testing.T) {
	h := newHarness(t, "<p>hello</p>", Options{})
	_, ok := h.c.Action("y")
	assert.False(t, ok, "idle has no visual keys")

	h.c.Enter(nil, false)
	caret, ok := h.c.Action("y")
	require.True(t, ok)
	assert.True(t, caret.TakesArg)
	assert.Equal(t, FeatureGroup, caret.FeatureGroup)

	h.c.Toggle("")
	rng, ok := h.c.Action("y")
	require.True(t, ok)
	assert.False(t, rng.TakesArg)
	assert.Equal(t, "Copy selected text", rng.Annotation)

	assert.True(t, h.c.HandleKey("g"), "prefix of gg")
	assert.False(t, h.c.HandleKey("x"))
	assert.False(t, h.c.HandleKey("x"))
}

func TestCustomKeymap(t *testing.T) {
	h := newHarness(t, "<p>hello world</p>", Options{Keymap: Keymap{"n": "forward_word", "y": "yank"}})
	h.c.Enter(nil, false)
	assert.False(t, h.c.HandleKey("w"))
	h.keys(t, "n")
	assert.Equal(t, 5, h.doc.Selection().FocusOffset())
}

func TestSeek(t *testing.T) {
	h := newHarness(t, "<p>abcabc</p>", Options{})
	h.c.Enter(nil, false)
	sel := h.doc.Selection()

	h.keys(t, "f")
	assert.Equal(t, "Visual - Caret - forward", h.status.slots[SlotMode])
	h.keys(t, "c")
	assert.Equal(t, "Visual - Caret", h.status.slots[SlotMode])
	assert.Equal(t, 2, sel.FocusOffset())

	h.keys(t, ";")
	assert.Equal(t, 5, sel.FocusOffset())
	h.keys(t, ",")
	assert.Equal(t, 2, sel.FocusOffset())

	h.keys(t, "F", KeyEscape)
	assert.Equal(t, 2, sel.FocusOffset())
	assert.Equal(t, StateCaret, h.c.State())

	h.keys(t, "f", "z")
	assert.Equal(t, 2, sel.FocusOffset(), "missing char leaves the caret")
}

func TestSeekExtendsRange(t *testing.T) {
	h := newHarness(t, "<p>abcabc</p>", Options{})
	h.c.Enter(nil, false)
	h.c.Toggle("")
	require.Equal(t, StateRange, h.c.State())

	h.keys(t, "f", "c")
	assert.Equal(t, "ab", h.doc.Selection().String())
}

func TestStar(t *testing.T) {
	h := newHarness(t, "<p>foo bar foo</p>", Options{})
	n := textOf(t, h.doc, "foo bar foo")
	require.NoError(t, h.doc.Selection().SetPosition(n, 1))

	h.c.Star()
	assert.Len(t, h.c.Matches(), 2)
	assert.Equal(t, dom.Point{Node: n, Offset: 1}, h.doc.Selection().Focus())
	assert.Equal(t, []string{"foo"}, h.c.History())
	assert.Equal(t, "1 / 2", h.status.slots[SlotMatch])

	require.NoError(t, h.doc.Selection().SetPosition(n, 3))
	h.c.Star()
	assert.Equal(t, []string{"foo"}, h.c.History(), "nearest word is still foo")
}

func TestHistoryIsBounded(t *testing.T) {
	h := newHarness(t, "<p>a b c</p>", Options{HistorySize: 2})
	h.c.VisualEnter("a")
	h.c.VisualEnter("b")
	h.c.VisualEnter("c")
	h.c.VisualEnter("b")
	assert.Equal(t, []string{"b", "c"}, h.c.History())
}

func TestSmartCase(t *testing.T) {
	h := newHarness(t, "<p>Foo foo</p>", Options{SmartCase: true})
	h.c.VisualUpdate("foo")
	assert.Len(t, h.c.Matches(), 2)
	h.c.VisualUpdate("Foo")
	assert.Len(t, h.c.Matches(), 1)

	h = newHarness(t, "<p>Foo foo</p>", Options{CaseSensitive: true})
	h.c.VisualUpdate("foo")
	assert.Len(t, h.c.Matches(), 1)
}

func TestFindSentenceOf(t *testing.T) {
	h := newHarness(t, "<p>One two. Three four.</p><p>Five six.</p>", Options{})
	n := textOf(t, h.doc, "Five six.")
	require.NoError(t, h.doc.Selection().SetPosition(n, 2))

	assert.Equal(t, "Three four.", h.c.FindSentenceOf("Three"))
	assert.Equal(t, dom.Point{Node: n, Offset: 2}, h.doc.Selection().Focus())
	assert.Equal(t, dom.SelectionCaret, h.doc.Selection().Type())

	assert.Equal(t, "", h.c.FindSentenceOf("Thr"))
	assert.Equal(t, "", h.c.FindSentenceOf(""))
}

func TestClickResync(t *testing.T) {
	h := newHarness(t, "<p>hello</p>", Options{})
	n := textOf(t, h.doc, "hello")
	sel := h.doc.Selection()
	h.c.Enter(nil, false)

	require.NoError(t, sel.Extend(n, 3))
	h.c.Click()
	assert.Equal(t, StateRange, h.c.State())

	sel.Empty()
	h.c.Click()
	assert.Equal(t, StateIdle, h.c.State())
}

func TestExpandParent(t *testing.T) {
	h := newHarness(t, "<div><p>one <b>two</b></p><p>three</p></div>", Options{})
	h.c.Enter(nil, false)
	require.NoError(t, h.doc.Selection().SetPosition(textOf(t, h.doc, "two"), 1))

	h.keys(t, "p")
	assert.Equal(t, StateRange, h.c.State())
	assert.Equal(t, "two", h.doc.Selection().String())

	h.keys(t, "p")
	assert.Equal(t, "one two", h.doc.Selection().String())

	h.keys(t, "p")
	assert.Equal(t, "one two\nthree", h.doc.Selection().String())
}

func TestClickKeys(t *testing.T) {
	h := newHarness(t, "<div>Hello <b>world</b></div>", Options{})
	h.c.Enter(nil, false)
	world := textOf(t, h.doc, "world")
	require.NoError(t, h.doc.Selection().SetPosition(world, 2))

	h.keys(t, KeyEnter)
	assert.Same(t, world.Parent, h.click.node)
	assert.False(t, h.click.shift)

	h.keys(t, KeyShiftEnter)
	assert.True(t, h.click.shift)
}

func TestInlineQueryBubble(t *testing.T) {
	h := newHarness(t, "<p>hello world</p>", Options{
		InlineQuery: func(w string) string { return "def:" + w },
	})
	h.c.Enter(nil, false)

	h.keys(t, "q")
	assert.Equal(t, "def:hello", h.status.bubble)

	hidden := h.status.hidden
	h.keys(t, "l")
	assert.Greater(t, h.status.hidden, hidden, "moving the cursor closes the bubble")
}

func TestToggleWithHinter(t *testing.T) {
	d := mustParse(t, "<p>hello world</p>")
	n := textOf(t, d, "hello world")
	status, clip := newFakeStatus(), &fakeClipboard{}
	hinter := &fakeHinter{picks: []hintPick{{n, 6, "world"}}}
	c := NewController(d, ProbeCapabilities(d.Engine()), Options{
		Status: status, Clipboard: clip, Hinter: hinter,
	})

	c.Toggle("y")
	assert.Equal(t, "world", clip.text)
	assert.Equal(t, StateIdle, c.State())

	hinter.picks = []hintPick{{n, 0, "hello"}, {n, 6, "world"}}
	c.Toggle("ym")
	assert.Equal(t, "hello\nworld", clip.text)

	hinter.picks = []hintPick{{n, 6, "world"}}
	c.Toggle("q")
	assert.Equal(t, "world", status.bubble)

	c.Toggle("z")
	assert.Equal(t, StateRange, c.State())
	assert.Equal(t, "world", d.Selection().String())
}

func TestCenterKey(t *testing.T) {
	h := newHarness(t, longPage(30), Options{})
	h.doc.SetViewport(40, 10)
	root := h.doc.RootScroller()

	h.c.Enter(h.doc.GetElementByID("target"), false)
	assert.Equal(t, 25, root.Top())
	r, ok := h.c.CursorRect()
	require.True(t, ok)
	assert.Equal(t, 5, r.Top)

	root.SetTop(28)
	h.keys(t, "l")
	r, _ = h.c.CursorRect()
	require.Equal(t, 2, r.Top)

	h.keys(t, "z", "z")
	assert.Equal(t, 25, root.Top())
	r, _ = h.c.CursorRect()
	assert.Equal(t, 5, r.Top)
}

func TestEnterScrollsCaretIntoView(t *testing.T) {
	h := newHarness(t, longPage(30), Options{})
	h.doc.SetViewport(40, 10)
	target := textOf(t, h.doc, "target")

	require.NoError(t, h.doc.Selection().SetPosition(target, 0))
	h.c.Enter(nil, true)
	r, ok := h.c.CursorRect()
	require.True(t, ok)
	assert.Equal(t, 5, r.Top)
	assert.Equal(t, 0, h.doc.BoundingClientRect(target).Top-r.Top)
}

func TestRestore(t *testing.T) {
	h := newHarness(t, "<p>hello world</p>", Options{})
	h.c.Enter(nil, false)
	h.keys(t, "w")
	h.c.Toggle("")
	h.keys(t, "w")
	h.c.Exit()

	h.c.Restore()
	assert.Equal(t, StateCaret, h.c.State())
	assert.Equal(t, dom.SelectionCaret, h.doc.Selection().Type())
	assert.Equal(t, 5, h.doc.Selection().FocusOffset())
}

func TestStyle(t *testing.T) {
	h := newHarness(t, "<p>foo</p>", Options{})
	h.c.VisualEnter("foo")
	h.c.Style("marks", "background: yellow")
	h.c.Style("cursor", "background: red")

	marker := h.c.Matches()[0].Marker
	assert.Equal(t, "background: yellow", marker.Attr["style"])
	assert.Equal(t, "background: red", h.c.overlay.node.Attr["style"])
}

func TestFailedActionRestoresSelection(t *testing.T) {
	h := newHarness(t, "<p>hello world</p>", Options{})
	n := textOf(t, h.doc, "hello world")
	h.c.Enter(nil, false)
	require.NoError(t, h.doc.Selection().SetPosition(n, 2))

	h.c.run(Action{ID: "fail", Code: func(c *Controller, _ string) error {
		_ = c.cursor.SetPosition(n, 9)
		return errors.New("boom")
	}}, "")
	assert.Equal(t, 2, h.doc.Selection().FocusOffset())

	h.c.run(Action{ID: "panic", Code: func(c *Controller, _ string) error {
		_ = c.cursor.SetPosition(n, 7)
		panic("boom")
	}}, "")
	assert.Equal(t, 2, h.doc.Selection().FocusOffset())
}

func TestWithSelectionPreserved(t *testing.T) {
	d := mustParse(t, "<p>hello world</p>")
	n := textOf(t, d, "hello world")
	sel := d.Selection()
	require.NoError(t, sel.SetPosition(n, 1))
	require.NoError(t, sel.Extend(n, 4))

	assert.Panics(t, func() {
		WithSelectionPreserved(d, func(s *dom.Selection) {
			_ = s.SetPosition(n, 8)
			panic("platform failure")
		})
	})
	assert.Equal(t, dom.Point{Node: n, Offset: 1}, sel.Anchor())
	assert.Equal(t, dom.Point{Node: n, Offset: 4}, sel.Focus())

	sel.Empty()
	WithSelectionPreserved(d, func(s *dom.Selection) { _ = s.SetPosition(n, 3) })
	assert.Equal(t, dom.SelectionNone, sel.Type())
}

func TestCursorNilNodeIsNoOp(t *testing.T) {
	d := mustParse(t, "<p>abc</p>")
	c := NewCursor(d.Selection())
	assert.NoError(t, c.SetPosition(nil, 3))
	assert.NoError(t, c.Extend(nil, 1))
	assert.NoError(t, c.SwapEnds())
	assert.NoError(t, c.CollapseToStart())
	assert.Equal(t, dom.SelectionNone, c.State())

	n := textOf(t, d, "abc")
	require.NoError(t, c.SetPosition(n, 0))
	require.NoError(t, c.Extend(n, 2))
	assert.Equal(t, dom.SelectionRange, c.State())
	require.NoError(t, c.SwapEnds())
	assert.Equal(t, dom.Point{Node: n, Offset: 2}, c.Anchor())
	assert.Equal(t, "ab", c.Text())
	require.NoError(t, c.CollapseToFocus())
	assert.Equal(t, dom.Point{Node: n, Offset: 0}, c.Focus())
	assert.Equal(t, dom.SelectionCaret, c.State())
}

func TestExitHidesCursorAndBubble(t *testing.T) {
	h := newHarness(t, "<p>hello</p>", Options{})
	h.c.Enter(nil, false)
	_, visible := h.c.CursorRect()
	require.True(t, visible)

	h.c.Exit()
	_, visible = h.c.CursorRect()
	assert.False(t, visible)
	assert.Equal(t, 1, h.status.hidden)
	assert.Equal(t, StateIdle, h.c.State())

	h.c.Exit()
	assert.Equal(t, 1, h.status.hidden)
}
