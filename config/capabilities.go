package config

import (
	"os"
	"strings"
)

// ColorMode represents the terminal color capability
type ColorMode int

const (
	Color16        ColorMode = iota // Basic 16 colors
	Color256                        // 256 color palette
	ColorTrueColor                  // 24-bit true color
)

// TermCapabilities holds detected terminal capabilities
type TermCapabilities struct {
	UTF8Support bool      // Terminal supports UTF-8
	ColorMode   ColorMode // Color capability level
	Remote      bool      // Running over SSH, so the system clipboard is not the user's
}

// String returns a human-readable description of the color mode
func (c ColorMode) String() string {
	switch c {
	case Color16:
		return "16 colors"
	case Color256:
		return "256 colors"
	case ColorTrueColor:
		return "TrueColor (24-bit)"
	default:
		return "unknown"
	}
}

// DetectCapabilities detects terminal capabilities from the process environment
func DetectCapabilities() *TermCapabilities {
	return DetectCapabilitiesFrom(os.Getenv)
}

// DetectCapabilitiesFrom detects terminal capabilities from the variables
// getenv returns
func DetectCapabilitiesFrom(getenv func(string) string) *TermCapabilities {
	return &TermCapabilities{
		UTF8Support: localeIsUTF8(getenv),
		ColorMode:   colorModeOf(strings.ToLower(getenv("COLORTERM")), strings.ToLower(getenv("TERM"))),
		Remote:      anySet(getenv, "SSH_TTY", "SSH_CLIENT", "SSH_CONNECTION"),
	}
}

// localeIsUTF8 applies the POSIX precedence: the first of LC_ALL, LC_CTYPE
// and LANG that is set decides.
func localeIsUTF8(getenv func(string) string) bool {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if val := strings.ToUpper(getenv(name)); val != "" {
			return strings.Contains(val, "UTF-8") || strings.Contains(val, "UTF8")
		}
	}
	return false
}

// trueColorTerms are TERM values of terminals known to take 24-bit colors
var trueColorTerms = []string{"truecolor", "24bit", "direct", "iterm2", "vte"}

func colorModeOf(colorterm, term string) ColorMode {
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorTrueColor
	}
	for _, t := range trueColorTerms {
		if strings.Contains(term, t) {
			return ColorTrueColor
		}
	}
	if strings.Contains(term, "256color") || strings.Contains(term, "256-color") {
		return Color256
	}
	return Color16
}

func anySet(getenv func(string) string, names ...string) bool {
	for _, name := range names {
		if getenv(name) != "" {
			return true
		}
	}
	return false
}

// ShouldUseASCII returns true if ASCII mode should be used based on capabilities
// Takes into account both auto-detection and user override
func (c *TermCapabilities) ShouldUseASCII(override *bool) bool {
	if override != nil {
		return *override
	}
	return !c.UTF8Support
}

// ShouldUseTrueColor returns true if TrueColor should be used based on capabilities
// Takes into account both auto-detection and user override
func (c *TermCapabilities) ShouldUseTrueColor(override *bool) bool {
	if override != nil {
		return *override
	}
	return c.ColorMode == ColorTrueColor
}

// GlobalCapabilities holds the detected capabilities (set at startup)
var GlobalCapabilities *TermCapabilities

// InitCapabilities detects and stores terminal capabilities
// Should be called once at startup
func InitCapabilities() {
	GlobalCapabilities = DetectCapabilities()
}

// GetCapabilities returns the global capabilities, detecting if needed
func GetCapabilities() *TermCapabilities {
	if GlobalCapabilities == nil {
		InitCapabilities()
	}
	return GlobalCapabilities
}
