package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	d := mustParse(t, "<p>foo bar Foo</p><p>food</p>")
	first := textOf(t, d, "foo bar Foo")
	food := textOf(t, d, "food")
	s := d.Selection()

	require.True(t, d.Find("foo", FindOptions{}))
	assert.Equal(t, Point{first, 0}, s.Anchor())
	assert.Equal(t, Point{first, 3}, s.Focus())

	require.True(t, d.Find("foo", FindOptions{}))
	assert.Equal(t, Point{first, 8}, s.Anchor())

	require.True(t, d.Find("foo", FindOptions{}))
	assert.Equal(t, Point{food, 0}, s.Anchor())

	assert.False(t, d.Find("foo", FindOptions{}))
	require.True(t, d.Find("foo", FindOptions{WrapAround: true}))
	assert.Equal(t, Point{first, 0}, s.Anchor())
}

func TestFindOptions(t *testing.T) {
	d := mustParse(t, "<p>foo bar Foo</p><p>food</p>")
	first := textOf(t, d, "foo bar Foo")
	s := d.Selection()

	require.True(t, d.Find("Foo", FindOptions{CaseSensitive: true}))
	assert.Equal(t, Point{first, 8}, s.Anchor())

	s.Empty()
	require.True(t, d.Find("foo", FindOptions{Backwards: true}))
	assert.Equal(t, "food", s.Anchor().Node.Data)

	s.Empty()
	require.NoError(t, s.SetPosition(first, 4))
	require.True(t, d.Find("foo", FindOptions{WholeWord: true, WrapAround: true}))
	assert.Equal(t, Point{first, 8}, s.Anchor())
	require.True(t, d.Find("foo", FindOptions{WholeWord: true, WrapAround: true}))
	assert.Equal(t, Point{first, 0}, s.Anchor())

	assert.False(t, d.Find("", FindOptions{}))
	assert.False(t, d.Find("missing", FindOptions{WrapAround: true}))
}

func TestFindAcrossNodes(t *testing.T) {
	d := mustParse(t, "<p>ab<i>cd</i>ef</p>")
	s := d.Selection()
	require.True(t, d.Find("bcde", FindOptions{}))
	assert.Equal(t, Point{textOf(t, d, "ab"), 1}, s.Anchor())
	assert.Equal(t, Point{textOf(t, d, "ef"), 1}, s.Focus())
	assert.Equal(t, "bcde", s.String())
}

func TestFindSkipsHiddenText(t *testing.T) {
	d := mustParse(t, `<p>shown<span style="display:none">needle</span></p>`)
	assert.False(t, d.Find("needle", FindOptions{WrapAround: true}))
}

func TestRangeRect(t *testing.T) {
	d := mustParse(t, "<div>Hello <b>world</b> foo</div>")
	hello := textOf(t, d, "Hello ")
	foo := textOf(t, d, " foo")
	assert.Equal(t, Rect{Left: 1, Top: 0, Width: 12, Height: 1}, d.RangeRect(Point{hello, 1}, Point{foo, 2}))
	assert.Equal(t, d.CaretRect(hello, 2), d.RangeRect(Point{hello, 2}, Point{hello, 2}))
}

func TestHitTest(t *testing.T) {
	d := mustParse(t, "<div>Hello <b>world</b> foo</div>")
	assert.Equal(t, Point{textOf(t, d, "world"), 1}, d.HitTest(7, 0))
	assert.Equal(t, Point{textOf(t, d, " foo"), 4}, d.HitTest(40, 0))
	assert.True(t, d.HitTest(3, 5).IsZero())
}
