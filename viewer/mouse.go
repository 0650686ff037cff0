package viewer

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/log"
)

// wheelStep is the number of rows one wheel notch scrolls
const wheelStep = 3

// handleMouse handles mouse input. A press puts the caret under the
// pointer, a drag extends it into a range and a click that did not move
// follows the link under it.
func (v *Viewer) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pageWidth, pageHeight := v.doc.Viewport()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		v.scrollBy(-wheelStep)
		return v, nil
	case tea.MouseButtonWheelDown:
		v.scrollBy(wheelStep)
		return v, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y >= pageHeight {
			return v, nil
		}
		if v.scrollbar.IsEnabled() && msg.X == v.width-v.scrollbar.Width() {
			v.scrollTo(v.scrollbar.RowToTop(msg.Y, pageHeight, v.doc.ContentHeight()))
			return v, nil
		}
		if msg.X >= pageWidth || v.mode == ModeFind {
			return v, nil
		}
		if v.mode == ModeHint {
			v.exitHints()
		}
		p := v.doc.HitTest(msg.X, msg.Y)
		if p.IsZero() {
			return v, nil
		}
		if err := v.doc.Selection().SetPosition(p.Node, p.Offset); err != nil {
			log.Warn("mouse press", "err", err)
			return v, nil
		}
		v.mouseDown = true
		v.mouseMoved = false
		v.pressPoint = p
		v.ctrl.Click()

	case tea.MouseActionMotion:
		if !v.mouseDown || msg.Y >= pageHeight || msg.X >= pageWidth {
			return v, nil
		}
		p := v.doc.HitTest(msg.X, msg.Y)
		if p.IsZero() || p == v.doc.Selection().Focus() {
			return v, nil
		}
		if err := v.doc.Selection().Extend(p.Node, p.Offset); err != nil {
			log.Warn("mouse drag", "err", err)
			return v, nil
		}
		v.mouseMoved = true
		v.ctrl.Click()

	case tea.MouseActionRelease:
		if !v.mouseDown {
			return v, nil
		}
		v.mouseDown = false
		if !v.mouseMoved && v.pressPoint.Node != nil {
			if a := v.pressPoint.Node.Ancestor("a"); a != nil {
				v.Click(a, msg.Shift)
			}
		}
		v.pressPoint = dom.Point{}
	}

	return v, nil
}
