package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scrollPage = `<div id="box" style="overflow: auto; height: 2">` +
	`<div>a</div><div>b</div><div>c</div><div id="d">d</div></div>` +
	`<div>after</div>`

func TestScrollContainer(t *testing.T) {
	d := mustParse(t, scrollPage)
	box := d.GetElementByID("box")
	require.NotNil(t, box)

	assert.Equal(t, []*Node{box}, d.ScrollableElements())
	assert.Equal(t, 2, d.BoundingClientRect(textOf(t, d, "after")).Top)

	s := d.Scroller(box)
	require.NotNil(t, s)
	assert.Equal(t, 4, s.ScrollHeight())
	assert.Equal(t, 2, s.ClientHeight())

	fired := 0
	box.OnScroll = func() { fired++ }
	s.SetTop(1)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 1, d.BoundingClientRect(textOf(t, d, "c")).Top)

	s.SetTop(10)
	assert.Equal(t, 2, s.Top(), "clamped to scrollHeight - clientHeight")
	s.SetTop(2)
	assert.Equal(t, 2, fired, "no event without movement")

	assert.Equal(t, Rect{Width: 80, Height: 2}, d.ClipRect(textOf(t, d, "a")))
	assert.Equal(t, box, d.NearestScrollable(textOf(t, d, "a")))
	assert.Equal(t, d.ScrollingElement(), d.NearestScrollable(textOf(t, d, "after")))
}

func TestScrollIntoViewIfNeeded(t *testing.T) {
	d := mustParse(t, scrollPage)
	box := d.GetElementByID("box")
	target := d.GetElementByID("d")

	d.ScrollIntoViewIfNeeded(target)
	assert.Equal(t, 2, d.Scroller(box).Top())
	assert.Equal(t, 1, d.BoundingClientRect(target).Top)
}

func TestRootScroll(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("<div>line</div>")
	}
	sb.WriteString(`<div id="target">target</div>`)
	for i := 0; i < 30; i++ {
		sb.WriteString("<div>line</div>")
	}
	d := mustParse(t, sb.String())
	d.SetViewport(40, 10)

	root := d.RootScroller()
	assert.Equal(t, 61, root.ScrollHeight())
	assert.Contains(t, d.ScrollableElements(), d.ScrollingElement())

	target := d.GetElementByID("target")
	d.ScrollIntoViewIfNeeded(target)
	r := d.BoundingClientRect(target)
	assert.Equal(t, 5, r.Top, "centred in the viewport")

	root.ScrollTo(0, 1000)
	assert.Equal(t, 51, root.Top())
}

func TestVisibleElements(t *testing.T) {
	d := mustParse(t, `<p id="a">one</p><p id="b" hidden>two</p>`)
	got := d.VisibleElements(func(n *Node) bool { return n.Tag == "p" })
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Attr["id"])
}
