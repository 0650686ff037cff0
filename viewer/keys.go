package viewer

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/visualnav/log"
	"github.com/cornish/visualnav/ui"
	"github.com/cornish/visualnav/visual"
)

// visualKey translates a bubbletea key to the names Visual-mode keymaps use.
// Terminals do not report shift with enter, so alt+enter stands in for it.
func visualKey(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyEnter:
		if msg.Alt {
			return visual.KeyShiftEnter
		}
		return visual.KeyEnter
	case tea.KeyEsc:
		return visual.KeyEscape
	case tea.KeySpace:
		return " "
	}
	return msg.String()
}

// handleKey handles keyboard input
func (v *Viewer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusbar.ClearMessage()

	switch v.mode {
	case ModeFind:
		return v.handleFindKey(msg)
	case ModeHint:
		return v.handleHintKey(msg)
	}

	if v.ctrl.Active() && v.ctrl.HandleKey(visualKey(msg)) {
		log.Debug("visual key", "key", msg.String(), "state", v.ctrl.State().String())
		return v, nil
	}

	action := v.keys.Action(msg.String())
	if action == "" {
		return v, nil
	}
	log.Debug("action", "key", msg.String(), "action", action)
	return v, v.runAction(action)
}

// runAction executes a normal-mode action
func (v *Viewer) runAction(action string) tea.Cmd {
	_, pageHeight := v.doc.Viewport()
	half := max(pageHeight/2, 1)

	switch action {
	case "scroll_down":
		v.scrollBy(1)
	case "scroll_up":
		v.scrollBy(-1)
	case "half_page_down":
		v.scrollBy(half)
	case "half_page_up":
		v.scrollBy(-half)
	case "top":
		v.scrollTo(0)
	case "bottom":
		v.scrollTo(v.doc.ContentHeight())

	case "find":
		v.openFind()
	case "find_next":
		v.ctrl.Next(false)
	case "find_prev":
		v.ctrl.Next(true)
	case "clear_find":
		v.ctrl.VisualClear()
		v.page.HideBubble()

	case "toggle_visual":
		if v.ctrl.Active() {
			v.ctrl.Toggle("")
		} else {
			v.ctrl.Enter(nil, false)
		}
	case "caret_at_hint":
		v.hintFromIdle("")
	case "yank_hint":
		v.hintFromIdle("y")

	case "quit":
		return tea.Quit
	}
	return nil
}

// hintFromIdle leaves Visual mode if needed and lets the user pick a word.
func (v *Viewer) hintFromIdle(ex string) {
	if v.ctrl.Active() {
		v.ctrl.Exit()
	}
	v.ctrl.Toggle(ex)
}

func (v *Viewer) openFind() {
	v.mode = ModeFind
	v.findQuery = ""
	v.historyIdx = -1
	v.statusbar.OpenPrompt("/", "")
}

func (v *Viewer) closeFind() {
	v.mode = ModeNormal
	v.statusbar.ClosePrompt()
}

// handleFindKey handles keyboard input in find mode. Matches are marked as
// the query is typed; enter moves the cursor to the current one.
func (v *Viewer) handleFindKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.closeFind()
		v.ctrl.VisualClear()
		return v, nil

	case tea.KeyEnter:
		v.closeFind()
		query := v.findQuery
		if query == "" {
			query = v.ctrl.LastQuery()
		}
		if query != "" {
			v.ctrl.VisualEnter(query)
		}
		return v, nil

	case tea.KeyUp:
		v.recall(1)
		return v, nil

	case tea.KeyDown:
		v.recall(-1)
		return v, nil

	case tea.KeyBackspace:
		if q := []rune(v.findQuery); len(q) > 0 {
			v.findQuery = string(q[:len(q)-1])
		}

	case tea.KeyRunes:
		v.findQuery += string(msg.Runes)

	case tea.KeySpace:
		v.findQuery += " "

	default:
		return v, nil
	}

	v.statusbar.SetPromptInput(v.findQuery)
	v.updateFind()
	return v, nil
}

// updateFind re-marks the page for the query being typed
func (v *Viewer) updateFind() {
	if v.findQuery == "" {
		v.ctrl.VisualClear()
		return
	}
	v.ctrl.VisualUpdate(v.findQuery)
}

// recall steps through the query history, older for step 1
func (v *Viewer) recall(step int) {
	history := v.ctrl.History()
	if len(history) == 0 {
		return
	}
	idx := v.historyIdx + step
	if idx < -1 || idx >= len(history) {
		return
	}
	v.historyIdx = idx
	if idx == -1 {
		v.findQuery = ""
	} else {
		v.findQuery = history[idx]
	}
	v.statusbar.SetPromptInput(v.findQuery)
	v.updateFind()
}

// handleHintKey handles keyboard input while hint labels are shown. Keys
// that match no label are ignored.
func (v *Viewer) handleHintKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.exitHints()
		return v, nil

	case tea.KeyBackspace:
		if t := []rune(v.hintTyped); len(t) > 0 {
			v.hintTyped = string(t[:len(t)-1])
			v.page.SetHints(v.hints, v.hintTyped)
		}
		return v, nil

	case tea.KeyRunes:
	default:
		return v, nil
	}

	typed := v.hintTyped + string(msg.Runes)
	matches := ui.FilterHints(v.hints, typed)
	if len(matches) == 0 {
		return v, nil
	}
	if len(matches) > 1 || matches[0].Label != typed {
		v.hintTyped = typed
		v.page.SetHints(v.hints, typed)
		return v, nil
	}

	h := matches[0]
	pick, ex := v.hintPick, v.hintEx
	if ex == "ym" {
		// Stay for more picks until esc
		v.hintTyped = ""
		v.page.SetHints(v.hints, "")
	} else {
		v.exitHints()
	}
	log.Debug("hint picked", "label", h.Label, "text", h.Text, "ex", ex)
	if pick != nil {
		pick(h.Node, h.Offset, h.Text)
	}
	return v, nil
}
