package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// KeyBinding represents a single action's key bindings
type KeyBinding struct {
	Primary   string `toml:"primary"`
	Alternate string `toml:"alternate,omitempty"`
}

// KeybindingsConfig holds all configurable keybindings. Normal-mode keys are
// bubbletea key names ("ctrl+c", "pgdown"). Visual-mode keys are sequences
// such as "gg", "zz" or "<Enter>", keyed by action name.
type KeybindingsConfig struct {
	// Page navigation
	ScrollDown   KeyBinding `toml:"scroll_down"`
	ScrollUp     KeyBinding `toml:"scroll_up"`
	HalfPageDown KeyBinding `toml:"half_page_down"`
	HalfPageUp   KeyBinding `toml:"half_page_up"`
	Top          KeyBinding `toml:"top"`
	Bottom       KeyBinding `toml:"bottom"`

	// Search
	Find      KeyBinding `toml:"find"`
	FindNext  KeyBinding `toml:"find_next"`
	FindPrev  KeyBinding `toml:"find_prev"`
	ClearFind KeyBinding `toml:"clear_find"`

	// Modes
	ToggleVisual KeyBinding `toml:"toggle_visual"`
	CaretAtHint  KeyBinding `toml:"caret_at_hint"`
	YankHint     KeyBinding `toml:"yank_hint"`
	Quit         KeyBinding `toml:"quit"`

	Visual map[string]KeyBinding `toml:"visual"`
}

// DefaultKeybindings returns the default keybinding configuration
func DefaultKeybindings() *KeybindingsConfig {
	return &KeybindingsConfig{
		ScrollDown:   KeyBinding{Primary: "j", Alternate: "down"},
		ScrollUp:     KeyBinding{Primary: "k", Alternate: "up"},
		HalfPageDown: KeyBinding{Primary: "d", Alternate: "pgdown"},
		HalfPageUp:   KeyBinding{Primary: "u", Alternate: "pgup"},
		Top:          KeyBinding{Primary: "home"},
		Bottom:       KeyBinding{Primary: "end"},

		Find:      KeyBinding{Primary: "/"},
		FindNext:  KeyBinding{Primary: "n"},
		FindPrev:  KeyBinding{Primary: "N"},
		ClearFind: KeyBinding{Primary: "esc"},

		ToggleVisual: KeyBinding{Primary: "v"},
		CaretAtHint:  KeyBinding{Primary: "V"},
		YankHint:     KeyBinding{Primary: "Y"},
		Quit:         KeyBinding{Primary: "q", Alternate: "ctrl+c"},

		Visual: DefaultVisualBindings(),
	}
}

// DefaultVisualBindings returns the Visual-mode map, by action name.
func DefaultVisualBindings() map[string]KeyBinding {
	return map[string]KeyBinding{
		"forward_character":   {Primary: "l"},
		"backward_character":  {Primary: "h"},
		"forward_line":        {Primary: "j"},
		"backward_line":       {Primary: "k"},
		"forward_word":        {Primary: "w", Alternate: "e"},
		"backward_word":       {Primary: "b"},
		"forward_sentence":    {Primary: ")"},
		"backward_sentence":   {Primary: "("},
		"forward_paragraph":   {Primary: "}"},
		"backward_paragraph":  {Primary: "{"},
		"line_start":          {Primary: "0"},
		"line_end":            {Primary: "$"},
		"document_end":        {Primary: "G"},
		"document_start":      {Primary: "gg"},
		"other_end":           {Primary: "o"},
		"yank":                {Primary: "y"},
		"star":                {Primary: "*"},
		"click":               {Primary: "<Enter>"},
		"click_shift":         {Primary: "<Shift-Enter>"},
		"center":              {Primary: "zz"},
		"seek_forward":        {Primary: "f"},
		"seek_backward":       {Primary: "F"},
		"repeat_seek":         {Primary: ";"},
		"repeat_seek_reverse": {Primary: ","},
		"expand_parent":       {Primary: "p"},
		"inline_query":        {Primary: "q"},
		"select_unit":         {Primary: "V"},
	}
}

// ActionNames maps action names for display
var ActionNames = map[string]string{
	"scroll_down":    "Scroll Down",
	"scroll_up":      "Scroll Up",
	"half_page_down": "Half Page Down",
	"half_page_up":   "Half Page Up",
	"top":            "Top of Page",
	"bottom":         "Bottom of Page",
	"find":           "Find",
	"find_next":      "Find Next",
	"find_prev":      "Find Previous",
	"clear_find":     "Clear Find",
	"toggle_visual":  "Toggle Visual Mode",
	"caret_at_hint":  "Caret at Hint",
	"yank_hint":      "Yank Hint",
	"quit":           "Quit",
}

// KeybindingsPath returns the path to the keybindings file
func KeybindingsPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "keybindings.toml"), nil
}

// LoadKeybindings loads keybindings from disk, returning defaults if not found
func LoadKeybindings() *KeybindingsConfig {
	path, err := KeybindingsPath()
	if err != nil {
		return DefaultKeybindings()
	}
	return LoadKeybindingsFrom(path)
}

// LoadKeybindingsFrom loads keybindings from path. Visual actions missing
// from the file keep their default keys.
func LoadKeybindingsFrom(path string) *KeybindingsConfig {
	kb := DefaultKeybindings()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return kb
	}

	if _, err := toml.DecodeFile(path, kb); err != nil {
		return DefaultKeybindings()
	}

	for action, b := range DefaultVisualBindings() {
		if _, ok := kb.Visual[action]; !ok {
			kb.Visual[action] = b
		}
	}
	return kb
}

// Save writes keybindings to disk
func (kb *KeybindingsConfig) Save() error {
	path, err := KeybindingsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	f.WriteString("# visualnav keybindings\n")
	f.WriteString("# Format: primary = \"key\", alternate = \"key\" (optional)\n")
	f.WriteString("# Visual keys are sequences: \"gg\", \"zz\", \"<Enter>\"\n\n")

	encoder := toml.NewEncoder(f)
	return encoder.Encode(kb)
}

// GetBinding returns the KeyBinding for a given normal-mode action name
func (kb *KeybindingsConfig) GetBinding(action string) KeyBinding {
	switch action {
	case "scroll_down":
		return kb.ScrollDown
	case "scroll_up":
		return kb.ScrollUp
	case "half_page_down":
		return kb.HalfPageDown
	case "half_page_up":
		return kb.HalfPageUp
	case "top":
		return kb.Top
	case "bottom":
		return kb.Bottom
	case "find":
		return kb.Find
	case "find_next":
		return kb.FindNext
	case "find_prev":
		return kb.FindPrev
	case "clear_find":
		return kb.ClearFind
	case "toggle_visual":
		return kb.ToggleVisual
	case "caret_at_hint":
		return kb.CaretAtHint
	case "yank_hint":
		return kb.YankHint
	case "quit":
		return kb.Quit
	}
	return KeyBinding{}
}

// AllActions returns a list of all normal-mode action names in display order
func AllActions() []string {
	return []string{
		"scroll_down", "scroll_up", "half_page_down", "half_page_up", "top", "bottom",
		"find", "find_next", "find_prev", "clear_find",
		"toggle_visual", "caret_at_hint", "yank_hint", "quit",
	}
}

// Action returns the normal-mode action bound to key, or "".
func (kb *KeybindingsConfig) Action(key string) string {
	for _, action := range AllActions() {
		if kb.GetBinding(action).Matches(key) {
			return action
		}
	}
	return ""
}

// VisualKeymap flattens the Visual bindings into key sequence -> action.
func (kb *KeybindingsConfig) VisualKeymap() map[string]string {
	km := make(map[string]string, len(kb.Visual)+1)
	for action, b := range kb.Visual {
		if b.Primary != "" {
			km[b.Primary] = action
		}
		if b.Alternate != "" {
			km[b.Alternate] = action
		}
	}
	return km
}

// Matches checks if a key string matches this binding (primary or alternate).
// Single characters compare case-sensitively so "n" and "N" stay distinct.
func (b KeyBinding) Matches(key string) bool {
	return keyEqual(b.Primary, key) || keyEqual(b.Alternate, key)
}

func keyEqual(bound, key string) bool {
	if bound == "" {
		return false
	}
	if len([]rune(bound)) == 1 {
		return bound == key
	}
	return strings.EqualFold(bound, key)
}

// DisplayString returns a human-readable string for the binding
func (b KeyBinding) DisplayString() string {
	if b.Primary == "" && b.Alternate == "" {
		return "(none)"
	}
	if b.Alternate == "" {
		return FormatKeyForDisplay(b.Primary)
	}
	return FormatKeyForDisplay(b.Primary) + " / " + FormatKeyForDisplay(b.Alternate)
}

// FormatKeyForDisplay converts a key string to a more readable format
func FormatKeyForDisplay(key string) string {
	if len([]rune(key)) <= 1 {
		return key
	}
	// Capitalize modifiers
	key = strings.ReplaceAll(key, "ctrl+", "Ctrl+")
	key = strings.ReplaceAll(key, "alt+", "Alt+")
	key = strings.ReplaceAll(key, "shift+", "Shift+")
	key = strings.ReplaceAll(key, "pgdown", "PgDn")
	key = strings.ReplaceAll(key, "pgup", "PgUp")
	// Capitalize special keys
	for _, name := range []string{"home", "end", "up", "down", "esc", "tab"} {
		if strings.HasSuffix(key, name) {
			key = key[:len(key)-len(name)] + strings.ToUpper(name[:1]) + name[1:]
		}
	}
	return key
}

// FindConflicts checks for key conflicts and returns a map of conflicting
// actions. Normal and Visual keys are checked separately since only one
// mode reads keys at a time.
func (kb *KeybindingsConfig) FindConflicts() map[string][]string {
	conflicts := make(map[string][]string)

	normal := make(map[string][]string)
	for _, action := range AllActions() {
		b := kb.GetBinding(action)
		for _, key := range []string{b.Primary, b.Alternate} {
			if key != "" {
				normal[key] = append(normal[key], action)
			}
		}
	}

	visual := make(map[string][]string)
	for action, b := range kb.Visual {
		for _, key := range []string{b.Primary, b.Alternate} {
			if key != "" {
				visual[key] = append(visual[key], action)
			}
		}
	}

	for _, m := range []map[string][]string{normal, visual} {
		for key, actions := range m {
			if len(actions) > 1 {
				conflicts[key] = append(conflicts[key], actions...)
			}
		}
	}
	return conflicts
}
