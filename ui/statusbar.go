package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// StatusSlots is the number of status areas the Visual mode can write to.
const StatusSlots = 3

// StatusBar represents the bottom status bar
type StatusBar struct {
	title       string
	filename    string
	slots       [StatusSlots]string
	message     string // Temporary message to display
	messageType string // "info", "error", "success"
	position    string
	width       int
	styles      Styles

	prompt       string
	promptInput  string
	promptActive bool
}

// NewStatusBar creates a new status bar
func NewStatusBar(styles Styles) *StatusBar {
	return &StatusBar{styles: styles, position: "All"}
}

// SetTitle sets the page title shown on the left
func (s *StatusBar) SetTitle(title string) {
	s.title = title
}

// SetFilename sets the file the page was loaded from
func (s *StatusBar) SetFilename(filename string) {
	s.filename = filename
}

// SetSlot writes msg to one status area. Out of range slots are ignored.
func (s *StatusBar) SetSlot(slot int, msg string) {
	if slot >= 0 && slot < StatusSlots {
		s.slots[slot] = msg
	}
}

// Slot returns the text of a status area
func (s *StatusBar) Slot(slot int) string {
	if slot >= 0 && slot < StatusSlots {
		return s.slots[slot]
	}
	return ""
}

// SetMessage sets a temporary message to display
func (s *StatusBar) SetMessage(message, msgType string) {
	s.message = message
	s.messageType = msgType
}

// Message returns the temporary message
func (s *StatusBar) Message() string {
	return s.message
}

// ClearMessage clears the temporary message
func (s *StatusBar) ClearMessage() {
	s.message = ""
	s.messageType = ""
}

// SetScroll updates the scroll position indicator
func (s *StatusBar) SetScroll(top, viewHeight, contentHeight int) {
	s.position = ScrollLabel(top, viewHeight, contentHeight)
}

// ScrollLabel describes a scroll offset the way pagers do: All, Top, Bot
// or a percentage.
func ScrollLabel(top, viewHeight, contentHeight int) string {
	maxTop := contentHeight - viewHeight
	switch {
	case maxTop <= 0:
		return "All"
	case top <= 0:
		return "Top"
	case top >= maxTop:
		return "Bot"
	}
	return fmt.Sprintf("%d%%", top*100/maxTop)
}

// OpenPrompt turns the bar into an input line starting with prefix
func (s *StatusBar) OpenPrompt(prefix, input string) {
	s.prompt, s.promptInput, s.promptActive = prefix, input, true
}

// SetPromptInput replaces the text typed into the prompt
func (s *StatusBar) SetPromptInput(input string) {
	s.promptInput = input
}

// ClosePrompt returns the bar to status display
func (s *StatusBar) ClosePrompt() {
	s.promptActive = false
}

// PromptActive reports whether the input line is shown
func (s *StatusBar) PromptActive() bool {
	return s.promptActive
}

// SetWidth sets the width of the status bar
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetStyles updates the styles for runtime theme changes
func (s *StatusBar) SetStyles(styles Styles) {
	s.styles = styles
}

// View renders the status bar
func (s *StatusBar) View() string {
	if s.promptActive {
		return s.promptView()
	}

	// Left side: mode + page name
	name := s.title
	if name == "" && s.filename != "" {
		name = filepath.Base(s.filename)
	}
	if name == "" {
		name = "[No Name]"
	}
	mode := s.slots[0]
	left := name
	if mode != "" {
		left = mode + " " + name
	}

	// Right side: pending keys, match counter, position
	var right []string
	for _, slot := range s.slots[1:] {
		if slot != "" {
			right = append(right, slot)
		}
	}
	right = append(right, s.position)
	rightText := " " + strings.Join(right, " | ") + " "

	avail := s.width - runewidth.StringWidth(rightText)
	if avail < 1 {
		return s.styles.StatusBar.Render(runewidth.Truncate(rightText, max(s.width, 0), ""))
	}
	left = runewidth.Truncate(left, avail, "…")
	leftW := runewidth.StringWidth(left)

	var sb strings.Builder
	if mode != "" && leftW > runewidth.StringWidth(mode) {
		sb.WriteString(s.styles.StatusMode.Render(mode))
		sb.WriteString(s.styles.StatusBar.Render(left[len(mode):]))
	} else {
		sb.WriteString(s.styles.StatusBar.Render(left))
	}

	// Center message if any
	space := avail - leftW
	msgW := runewidth.StringWidth(s.message)
	if s.message != "" && msgW+4 <= space {
		leftPad := (space - msgW) / 2
		sb.WriteString(s.styles.StatusBar.Render(strings.Repeat(" ", leftPad)))
		if s.messageType == "error" {
			sb.WriteString(s.styles.StatusError.Render(s.message))
		} else {
			sb.WriteString(s.styles.StatusBar.Render(s.message))
		}
		sb.WriteString(s.styles.StatusBar.Render(strings.Repeat(" ", space-msgW-leftPad)))
	} else if space > 0 {
		sb.WriteString(s.styles.StatusBar.Render(strings.Repeat(" ", space)))
	}

	sb.WriteString(s.styles.StatusBar.Render(rightText))
	return sb.String()
}

// promptView renders the input line: prefix, typed text and a block cursor.
func (s *StatusBar) promptView() string {
	input := s.promptInput
	room := s.width - runewidth.StringWidth(s.prompt) - 1
	if room < 0 {
		room = 0
	}
	// Keep the end of long input visible
	for runewidth.StringWidth(input) > room {
		_, size := utf8.DecodeRuneInString(input)
		input = input[size:]
	}
	used := runewidth.StringWidth(s.prompt) + runewidth.StringWidth(input) + 1

	var sb strings.Builder
	sb.WriteString(s.styles.Prompt.Render(s.prompt))
	sb.WriteString(input)
	sb.WriteString(s.styles.PromptCursor.Render(" "))
	if used < s.width {
		sb.WriteString(strings.Repeat(" ", s.width-used))
	}
	return sb.String()
}
