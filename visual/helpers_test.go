package visual

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cornish/visualnav/dom"
)

func mustParse(t *testing.T, src string) *dom.Document {
	t.Helper()
	d, err := dom.ParseString(src)
	require.NoError(t, err)
	return d
}

// textOf returns the first text node whose data equals s.
func textOf(t *testing.T, d *dom.Document, s string) *dom.Node {
	t.Helper()
	var found *dom.Node
	dom.Walk(d.Root(), func(n *dom.Node) bool {
		if found == nil && n.Type == dom.TextNode && n.Data == s {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "text node %q", s)
	return found
}

// longPage returns n "line" rows around a "target" row in the middle.
func longPage(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString("<div>line</div>")
	}
	sb.WriteString(`<div id="target">target</div>`)
	for i := 0; i < n; i++ {
		sb.WriteString("<div>line</div>")
	}
	return sb.String()
}

type fakeStatus struct {
	slots   map[int]string
	bubble  string
	bubbles int
	hidden  int
}

func newFakeStatus() *fakeStatus {
	return &fakeStatus{slots: make(map[int]string)}
}

func (s *fakeStatus) ShowStatus(slot int, msg string) { s.slots[slot] = msg }

func (s *fakeStatus) ShowBubble(_ dom.Rect, content string) {
	s.bubble = content
	s.bubbles++
}

func (s *fakeStatus) HideBubble() { s.hidden++ }

type fakeClipboard struct {
	text   string
	copies int
}

func (c *fakeClipboard) Copy(text string) error {
	c.text = text
	c.copies++
	return nil
}

type fakeClicker struct {
	node  *dom.Node
	shift bool
}

func (c *fakeClicker) Click(n *dom.Node, shift bool) {
	c.node, c.shift = n, shift
}

type fakeHinter struct {
	picks []hintPick
}

type hintPick struct {
	node   *dom.Node
	offset int
	text   string
}

func (h *fakeHinter) Hint(_ string, pick func(*dom.Node, int, string)) {
	for _, p := range h.picks {
		pick(p.node, p.offset, p.text)
	}
}

type harness struct {
	doc    *dom.Document
	c      *Controller
	status *fakeStatus
	clip   *fakeClipboard
	click  *fakeClicker
}

func newHarness(t *testing.T, src string, opts Options) *harness {
	t.Helper()
	d := mustParse(t, src)
	h := &harness{
		doc:    d,
		status: newFakeStatus(),
		clip:   &fakeClipboard{},
		click:  &fakeClicker{},
	}
	opts.Status = h.status
	opts.Clipboard = h.clip
	opts.Clicker = h.click
	h.c = NewController(d, ProbeCapabilities(d.Engine()), opts)
	return h
}

func (h *harness) keys(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.True(t, h.c.HandleKey(k), "key %q not handled", k)
	}
}
