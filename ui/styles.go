package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cornish/visualnav/config"

	"github.com/charmbracelet/lipgloss"
)

// UseTrueColor controls whether hex colors use true color (24-bit) or
// fall back to the nearest 256-color. Set to false for older terminals.
var UseTrueColor = true

const resetCode = "\033[0m"

// ColorToANSIFg converts a theme color string to an ANSI foreground escape sequence
// Supports: "0"-"255" for indexed colors, "#RGB" or "#RRGGBB" for hex colors
func ColorToANSIFg(color string) string {
	return colorCode(color, 30, 90, 38)
}

// ColorToANSIBg converts a theme color string to an ANSI background escape sequence
func ColorToANSIBg(color string) string {
	return colorCode(color, 40, 100, 48)
}

// ColorToANSI returns combined fg+bg ANSI sequence. Empty colors are left
// to the terminal.
func ColorToANSI(fg, bg string) string {
	var sb strings.Builder
	if bg != "" {
		sb.WriteString(ColorToANSIBg(bg))
	}
	if fg != "" {
		sb.WriteString(ColorToANSIFg(fg))
	}
	return sb.String()
}

// colorCode builds the escape for color. base and bright are the SGR bases
// of the 16 standard colors, ext the extended color selector.
func colorCode(color string, base, bright, ext int) string {
	if strings.HasPrefix(color, "#") {
		r, g, b, ok := parseHexColor(color)
		if !ok {
			return fmt.Sprintf("\033[%dm", base+9)
		}
		if UseTrueColor {
			return fmt.Sprintf("\033[%d;2;%d;%d;%dm", ext, r, g, b)
		}
		return fmt.Sprintf("\033[%d;5;%dm", ext, rgbTo256Color(r, g, b))
	}
	n, err := strconv.Atoi(color)
	if err != nil || n < 0 || n > 255 {
		// Terminal default
		return fmt.Sprintf("\033[%dm", base+9)
	}
	switch {
	case n < 8:
		return fmt.Sprintf("\033[%dm", base+n)
	case n < 16:
		return fmt.Sprintf("\033[%dm", bright+n-8)
	}
	return fmt.Sprintf("\033[%d;5;%dm", ext, n)
}

// rgbTo256Color converts RGB values to the nearest 256-color palette index
func rgbTo256Color(r, g, b int) int {
	hi, lo := max(r, g, b), min(r, g, b)
	if hi-lo < 20 {
		gray := (r + g + b) / 3
		switch {
		case gray < 4:
			return 16
		case gray > 243:
			return 231
		}
		return 232 + (gray-8)/10
	}
	// 6x6x6 cube, levels 0, 95, 135, 175, 215, 255
	return 16 + 36*cubeLevel(r) + 6*cubeLevel(g) + cubeLevel(b)
}

func cubeLevel(v int) int {
	for i, limit := range [...]int{48, 115, 155, 195, 235} {
		if v < limit {
			return i
		}
	}
	return 5
}

// parseHexColor parses #RGB or #RRGGBB.
func parseHexColor(hex string) (r, g, b int, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

// cellStyle is the look of one terminal cell.
type cellStyle struct {
	fg, bg    string
	bold      bool
	italic    bool
	underline bool
	reverse   bool
}

// sgr returns the escape that switches the terminal to s from a reset state.
func (s cellStyle) sgr() string {
	var sb strings.Builder
	sb.WriteString(ColorToANSI(s.fg, s.bg))
	if s.bold {
		sb.WriteString("\033[1m")
	}
	if s.italic {
		sb.WriteString("\033[3m")
	}
	if s.underline {
		sb.WriteString("\033[4m")
	}
	if s.reverse {
		sb.WriteString("\033[7m")
	}
	return sb.String()
}

// Styles contains all the styles used by the viewer
type Styles struct {
	// The theme these styles were generated from
	Theme config.Theme

	// ASCII swaps box drawing for plain characters
	ASCII bool

	StatusBar    lipgloss.Style
	StatusMode   lipgloss.Style
	StatusError  lipgloss.Style
	Prompt       lipgloss.Style
	PromptCursor lipgloss.Style
}

// NewStyles creates a Styles configuration from a theme
func NewStyles(theme config.Theme) Styles {
	ui := theme.UI

	return Styles{
		Theme: theme,

		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color(ui.StatusBg)).
			Foreground(lipgloss.Color(ui.StatusFg)),

		StatusMode: lipgloss.NewStyle().
			Background(lipgloss.Color(ui.StatusBg)).
			Foreground(lipgloss.Color(ui.StatusAccent)).
			Bold(true),

		StatusError: lipgloss.NewStyle().
			Background(lipgloss.Color(ui.StatusBg)).
			Foreground(lipgloss.Color(ui.ErrorFg)).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ui.PromptFg)).
			Bold(true),

		PromptCursor: lipgloss.NewStyle().
			Reverse(true),
	}
}

// DefaultStyles returns the styles of the default theme
func DefaultStyles() Styles {
	return NewStyles(config.DefaultTheme())
}

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

// border returns the frame characters for boxes drawn on the page.
func (s Styles) border() lipgloss.Border {
	if s.ASCII {
		return asciiBorder
	}
	return lipgloss.RoundedBorder()
}

// page is the base cell style of the document body.
func (s Styles) page() cellStyle {
	return cellStyle{fg: s.Theme.UI.PageFg, bg: s.Theme.UI.PageBg}
}
