package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// cell is one terminal cell. A wide rune occupies its cell and marks the
// next one as a continuation.
type cell struct {
	r     rune
	cont  bool
	style cellStyle
}

// canvas is a grid of cells the page is painted into before it is turned
// into ANSI rows.
type canvas struct {
	width  int
	height int
	cells  []cell
}

func newCanvas(width, height int, base cellStyle) *canvas {
	width, height = max(width, 0), max(height, 0)
	c := &canvas{width: width, height: height, cells: make([]cell, width*height)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', style: base}
	}
	return c
}

func (c *canvas) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

func (c *canvas) at(x, y int) *cell {
	if !c.in(x, y) {
		return nil
	}
	return &c.cells[y*c.width+x]
}

// set writes r at (x, y) and returns its width. Runes that would hang off
// the right edge are dropped.
func (c *canvas) set(x, y int, r rune, style cellStyle) int {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return 0
	}
	if !c.in(x, y) || x+w > c.width {
		return w
	}
	// Overwriting half of a wide rune blanks the other half
	if cur := c.at(x, y); cur.cont && x > 0 {
		*c.at(x-1, y) = cell{r: ' ', style: c.at(x-1, y).style}
	}
	if x+w < c.width && c.at(x+w, y).cont {
		*c.at(x+w, y) = cell{r: ' ', style: c.at(x+w, y).style}
	}
	*c.at(x, y) = cell{r: r, style: style}
	for i := 1; i < w; i++ {
		*c.at(x+i, y) = cell{cont: true, style: style}
	}
	return w
}

// text writes s from (x, y) and returns the column after it.
func (c *canvas) text(x, y int, s string, style cellStyle) int {
	for _, r := range s {
		x += c.set(x, y, r, style)
	}
	return x
}

// restyle applies fn to every cell of the rect, clipped to the canvas.
func (c *canvas) restyle(x, y, w, h int, fn func(*cellStyle)) {
	for row := max(y, 0); row < min(y+h, c.height); row++ {
		for col := max(x, 0); col < min(x+w, c.width); col++ {
			fn(&c.at(col, row).style)
		}
	}
}

// rows serialises the canvas, switching styles only where they change.
func (c *canvas) rows() []string {
	out := make([]string, c.height)
	var sb strings.Builder
	for y := 0; y < c.height; y++ {
		sb.Reset()
		var cur cellStyle
		for x := 0; x < c.width; x++ {
			cl := c.at(x, y)
			if cl.cont {
				continue
			}
			if x == 0 || cl.style != cur {
				sb.WriteString(resetCode)
				sb.WriteString(cl.style.sgr())
				cur = cl.style
			}
			sb.WriteRune(cl.r)
		}
		sb.WriteString(resetCode)
		out[y] = sb.String()
	}
	return out
}

// plain returns row y without escapes.
func (c *canvas) plain(y int) string {
	if y < 0 || y >= c.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < c.width; x++ {
		if cl := c.at(x, y); !cl.cont {
			sb.WriteRune(cl.r)
		}
	}
	return sb.String()
}
