package ui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/syntax"
	"github.com/cornish/visualnav/visual"
)

func mustParse(t *testing.T, src string, width, height int) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString(%q) error = %v", src, err)
	}
	doc.SetViewport(width, height)
	return doc
}

func textOf(t *testing.T, doc *dom.Document, s string) *dom.Node {
	t.Helper()
	var found *dom.Node
	dom.Walk(doc.Root(), func(n *dom.Node) bool {
		if found == nil && n.IsText() && n.Data == s {
			found = n
		}
		return found == nil
	})
	if found == nil {
		t.Fatalf("no text node %q", s)
	}
	return found
}

func newRenderer() *PageRenderer {
	return NewPageRenderer(DefaultStyles(), syntax.New())
}

func TestRenderText(t *testing.T) {
	doc := mustParse(t, "<h1>Title</h1><p>hello world</p>", 20, 6)
	cv := newRenderer().paint(doc)

	if got := cv.plain(0); !strings.HasPrefix(got, "Title") {
		t.Errorf("row 0 = %q, want it to start with the heading", got)
	}
	if got := cv.plain(2); !strings.HasPrefix(got, "hello world") {
		t.Errorf("row 2 = %q, want the paragraph", got)
	}
	if got := cv.plain(5); !strings.HasPrefix(got, "~") {
		t.Errorf("row 5 = %q, want the end-of-page marker", got)
	}
	if len([]rune(cv.plain(2))) != 20 {
		t.Errorf("rows should be padded to the viewport width")
	}

	ui := DefaultStyles().Theme.UI
	if st := cv.at(0, 0).style; !st.bold || st.fg != ui.HeadingFg {
		t.Errorf("heading style = %+v, want bold %q", st, ui.HeadingFg)
	}
	if st := cv.at(0, 2).style; st.bold {
		t.Error("paragraph text should not be bold")
	}
}

func TestRenderRows(t *testing.T) {
	doc := mustParse(t, "<p>hi</p>", 10, 3)
	rows := newRenderer().Render(doc)
	if len(rows) != 3 {
		t.Fatalf("Render() returned %d rows, want 3", len(rows))
	}
	if !strings.Contains(rows[0], "hi") || !strings.HasSuffix(rows[0], resetCode) {
		t.Errorf("row 0 = %q", rows[0])
	}
}

func TestRenderSelection(t *testing.T) {
	doc := mustParse(t, "<p>hello world</p>", 20, 3)
	text := textOf(t, doc, "hello world")
	if err := doc.Selection().SetBaseAndExtent(dom.Point{Node: text, Offset: 6}, dom.Point{Node: text, Offset: 11}); err != nil {
		t.Fatal(err)
	}
	cv := newRenderer().paint(doc)

	ui := DefaultStyles().Theme.UI
	for x := 0; x < 11; x++ {
		selected := cv.at(x, 0).style.bg == ui.SelectionBg
		if want := x >= 6; selected != want {
			t.Errorf("cell %d selected = %v, want %v", x, selected, want)
		}
	}
}

func TestRenderMarksAndCaret(t *testing.T) {
	doc := mustParse(t, "<p>one two one</p>", 20, 3)
	hl := visual.NewHighlighter(doc)
	if n, err := hl.Highlight("one", false); err != nil || n != 2 {
		t.Fatalf("Highlight() = %d, %v", n, err)
	}
	ov := visual.NewOverlay(doc)
	if !ov.Show(dom.Point{Node: textOf(t, doc, "one two one"), Offset: 4}) {
		t.Fatal("overlay not shown")
	}

	r := newRenderer()
	r.SetCurrentMarker(hl.Matches()[1].Marker)
	cv := r.paint(doc)

	ui := DefaultStyles().Theme.UI
	if st := cv.at(0, 0).style; st.bg != ui.MarkBg || st.underline {
		t.Errorf("first mark style = %+v", st)
	}
	if st := cv.at(8, 0).style; st.bg != ui.MarkBg || !st.underline {
		t.Errorf("current mark style = %+v, want underlined", st)
	}
	if st := cv.at(4, 0).style; st.bg != ui.CursorBg {
		t.Errorf("caret cell bg = %q, want %q", st.bg, ui.CursorBg)
	}
	if cv.plain(0)[:11] != "one two one" {
		t.Errorf("overlays must not change the text, got %q", cv.plain(0))
	}

	ov.SetStyle("201")
	hl.SetMarkStyle("background-color: 22")
	cv = r.paint(doc)
	if got := cv.at(4, 0).style.bg; got != "201" {
		t.Errorf("styled caret bg = %q, want '201'", got)
	}
	if got := cv.at(0, 0).style.bg; got != "22" {
		t.Errorf("styled mark bg = %q, want '22'", got)
	}
}

func TestRenderSyntax(t *testing.T) {
	doc := mustParse(t, `<pre><code class="language-go">func main() {}</code></pre>`, 30, 3)
	cv := newRenderer().paint(doc)

	colors := syntax.DefaultSyntaxColors()
	if got := cv.at(0, 0).style.fg; got != colors.Keyword {
		t.Errorf("'func' fg = %q, want %q", got, colors.Keyword)
	}
	if got := cv.at(5, 0).style.fg; got != colors.Function {
		t.Errorf("'main' fg = %q, want %q", got, colors.Function)
	}
	if got := cv.at(0, 0).style.bg; got != DefaultStyles().Theme.UI.CodeBg {
		t.Errorf("code bg = %q", got)
	}

	plain := NewPageRenderer(DefaultStyles(), nil).paint(doc)
	if got := plain.at(0, 0).style.fg; got == colors.Keyword {
		t.Error("a renderer without a highlighter should not color code")
	}
}

func TestRenderBubble(t *testing.T) {
	doc := mustParse(t, "<p>word</p>", 20, 6)
	r := newRenderer()
	r.ShowBubble(dom.Rect{Left: 0, Top: 0, Width: 4, Height: 1}, "hi")
	if !r.BubbleVisible() {
		t.Fatal("BubbleVisible() = false")
	}
	cv := r.paint(doc)

	tests := []struct {
		row  int
		want string
	}{
		{0, "word"},
		{1, "╭────╮"},
		{2, "│ hi │"},
		{3, "╰────╯"},
	}
	for _, tt := range tests {
		if got := cv.plain(tt.row); !strings.HasPrefix(got, tt.want) {
			t.Errorf("row %d = %q, want prefix %q", tt.row, got, tt.want)
		}
	}

	r.HideBubble()
	if got := r.paint(doc).plain(1); strings.HasPrefix(got, "╭") {
		t.Errorf("row 1 after HideBubble() = %q", got)
	}
}

func TestRenderBubbleAboveNearBottom(t *testing.T) {
	doc := mustParse(t, "<p>word</p>", 20, 5)
	styles := DefaultStyles()
	styles.ASCII = true
	r := NewPageRenderer(styles, nil)
	r.ShowBubble(dom.Rect{Left: 0, Top: 4, Width: 4, Height: 1}, "hi")
	cv := r.paint(doc)

	if got := cv.plain(1); !strings.HasPrefix(got, "+----+") {
		t.Errorf("row 1 = %q, want the box above the word", got)
	}
	if got := cv.plain(2); !strings.HasPrefix(got, "| hi |") {
		t.Errorf("row 2 = %q", got)
	}
}

func TestRenderHints(t *testing.T) {
	doc := mustParse(t, "<p>hello world</p>", 20, 3)
	hints := CollectHints(doc, "ab")
	if len(hints) != 2 {
		t.Fatalf("CollectHints() = %d hints, want 2", len(hints))
	}

	r := newRenderer()
	r.SetHints(hints, "")
	if got := r.paint(doc).plain(0); !strings.HasPrefix(got, "aello borld") {
		t.Errorf("row 0 = %q, want labels over the word starts", got)
	}

	r.SetHints(hints, "b")
	if got := r.paint(doc).plain(0); !strings.HasPrefix(got, "hello world") {
		t.Errorf("row 0 = %q, fully typed labels should vanish", got)
	}
}

func TestCanvasWideRunes(t *testing.T) {
	cv := newCanvas(4, 1, cellStyle{})
	if w := cv.set(0, 0, '世', cellStyle{}); w != 2 {
		t.Errorf("set() width = %d, want 2", w)
	}
	if !cv.at(1, 0).cont {
		t.Error("the cell after a wide rune should be a continuation")
	}
	// No room for the second half
	cv.set(3, 0, '界', cellStyle{})
	if got := cv.plain(0); got != "世  " {
		t.Errorf("plain() = %q, want '世  '", got)
	}

	cv.set(1, 0, 'x', cellStyle{})
	if got := cv.plain(0); got != " x  " {
		t.Errorf("plain() after splitting a wide rune = %q", got)
	}
}

func TestCollectHintsWordBoundaries(t *testing.T) {
	doc := mustParse(t, "<p>it's a9b</p>", 20, 3)
	hints := CollectHints(doc, "ab")

	var words []string
	for _, h := range hints {
		words = append(words, h.Text)
	}
	want := []string{"it", "s", "a", "b"}
	if !reflect.DeepEqual(words, want) {
		t.Fatalf("CollectHints() words = %v, want %v", words, want)
	}
	if hints[3].Offset != 7 {
		t.Errorf("last hint offset = %d, want 7", hints[3].Offset)
	}
}
