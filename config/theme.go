package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Theme holds complete color theme settings
// This is the format for theme TOML files in ~/.config/visualnav/themes/
type Theme struct {
	// Metadata
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Author      string `toml:"author"`

	// UI Colors
	UI UIColors `toml:"ui"`

	// Syntax highlighting colors
	Syntax SyntaxColors `toml:"syntax"`
}

// UIColors holds UI color settings
type UIColors struct {
	PageBg       string `toml:"page_bg"`
	PageFg       string `toml:"page_fg"`
	HeadingFg    string `toml:"heading_fg"`
	LinkFg       string `toml:"link_fg"`
	CodeBg       string `toml:"code_bg"`
	StatusBg     string `toml:"status_bg"`
	StatusFg     string `toml:"status_fg"`
	StatusAccent string `toml:"status_accent"`
	SelectionBg  string `toml:"selection_bg"`
	SelectionFg  string `toml:"selection_fg"`
	CursorBg     string `toml:"cursor_bg"`
	CursorFg     string `toml:"cursor_fg"`
	MarkBg       string `toml:"mark_bg"`
	MarkFg       string `toml:"mark_fg"`
	ErrorFg      string `toml:"error_fg"`
	DisabledFg   string `toml:"disabled_fg"`
	ScrollbarFg  string `toml:"scrollbar_fg"`
	BubbleBg     string `toml:"bubble_bg"`
	BubbleFg     string `toml:"bubble_fg"`
	BubbleBorder string `toml:"bubble_border"`
	PromptFg     string `toml:"prompt_fg"`
}

// SyntaxColors holds syntax highlighting color settings
type SyntaxColors struct {
	Keyword  string `toml:"keyword"`
	String   string `toml:"string"`
	Comment  string `toml:"comment"`
	Number   string `toml:"number"`
	Operator string `toml:"operator"`
	Function string `toml:"function"`
	Type     string `toml:"type"`
}

// Built-in themes
var builtinThemes = map[string]Theme{
	"default": {
		Name:        "default",
		Description: "Plain terminal colors with a cyan cursor",
		Author:      "visualnav",
		UI: UIColors{
			PageBg:       "",   // Terminal background
			PageFg:       "",   // Terminal foreground
			HeadingFg:    "15", // Bright white
			LinkFg:       "12", // Bright blue
			CodeBg:       "236",
			StatusBg:     "4",  // Dark blue
			StatusFg:     "15", // Bright white
			StatusAccent: "14", // Bright cyan
			SelectionBg:  "6",  // Cyan
			SelectionFg:  "0",  // Black
			CursorBg:     "14", // Bright cyan
			CursorFg:     "16", // True black
			MarkBg:       "11", // Bright yellow
			MarkFg:       "0",  // Black
			ErrorFg:      "9",  // Bright red
			DisabledFg:   "8",  // Gray
			ScrollbarFg:  "8",
			BubbleBg:     "7", // Light gray
			BubbleFg:     "0",
			BubbleBorder: "4",
			PromptFg:     "14",
		},
		Syntax: SyntaxColors{
			Keyword:  "14", // Bright cyan
			String:   "10", // Bright green
			Comment:  "8",  // Gray
			Number:   "11", // Bright yellow
			Operator: "13", // Bright magenta
			Function: "12", // Bright blue
			Type:     "11", // Bright yellow
		},
	},
	"dark": {
		Name:        "dark",
		Description: "Muted dark theme",
		Author:      "visualnav",
		UI: UIColors{
			PageBg:       "234",
			PageFg:       "252", // Light gray
			HeadingFg:    "43",  // Teal
			LinkFg:       "75",  // Light blue
			CodeBg:       "236",
			StatusBg:     "236", // Dark gray
			StatusFg:     "252",
			StatusAccent: "43",
			SelectionBg:  "24", // Dark cyan
			SelectionFg:  "15",
			CursorBg:     "43",
			CursorFg:     "16",
			MarkBg:       "58", // Olive
			MarkFg:       "230",
			ErrorFg:      "203", // Soft red
			DisabledFg:   "240",
			ScrollbarFg:  "240",
			BubbleBg:     "238",
			BubbleFg:     "252",
			BubbleBorder: "245",
			PromptFg:     "43",
		},
		Syntax: SyntaxColors{
			Keyword:  "176", // Purple
			String:   "114", // Green
			Comment:  "245", // Gray
			Number:   "215", // Orange
			Operator: "80",  // Cyan
			Function: "75",  // Light blue
			Type:     "222", // Yellow
		},
	},
	"light": {
		Name:        "light",
		Description: "Light theme for bright environments",
		Author:      "visualnav",
		UI: UIColors{
			PageBg:       "255", // White
			PageFg:       "235", // Dark gray
			HeadingFg:    "26",  // Blue
			LinkFg:       "32",
			CodeBg:       "254",
			StatusBg:     "254",
			StatusFg:     "235",
			StatusAccent: "26",
			SelectionBg:  "153", // Light blue
			SelectionFg:  "0",
			CursorBg:     "32",
			CursorFg:     "15",
			MarkBg:       "229", // Pale yellow
			MarkFg:       "0",
			ErrorFg:      "160", // Red
			DisabledFg:   "249",
			ScrollbarFg:  "249",
			BubbleBg:     "254",
			BubbleFg:     "235",
			BubbleBorder: "240",
			PromptFg:     "26",
		},
		Syntax: SyntaxColors{
			Keyword:  "26",  // Blue
			String:   "28",  // Green
			Comment:  "245", // Gray
			Number:   "166", // Orange
			Operator: "90",  // Magenta
			Function: "26",  // Blue
			Type:     "30",  // Teal
		},
	},
	"monokai": {
		Name:        "monokai",
		Description: "Monokai-inspired dark theme",
		Author:      "visualnav",
		UI: UIColors{
			PageBg:       "235",
			PageFg:       "231",
			HeadingFg:    "208", // Orange
			LinkFg:       "81",  // Light blue
			CodeBg:       "237",
			StatusBg:     "235",
			StatusFg:     "231",
			StatusAccent: "208",
			SelectionBg:  "59", // Gray
			SelectionFg:  "231",
			CursorBg:     "208",
			CursorFg:     "16",
			MarkBg:       "186", // Yellow
			MarkFg:       "16",
			ErrorFg:      "197", // Pink-red
			DisabledFg:   "59",
			ScrollbarFg:  "59",
			BubbleBg:     "237",
			BubbleFg:     "231",
			BubbleBorder: "208",
			PromptFg:     "208",
		},
		Syntax: SyntaxColors{
			Keyword:  "197", // Pink-red
			String:   "186", // Yellow
			Comment:  "59",  // Gray
			Number:   "141", // Purple
			Operator: "197", // Pink-red
			Function: "81",  // Light blue
			Type:     "81",  // Light blue
		},
	},
}

// DefaultTheme returns the default theme
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// LoadTheme loads a theme by name
// Checks user themes directory first, then falls back to built-in themes
func LoadTheme(name string) Theme {
	if name == "" {
		return DefaultTheme()
	}

	// Try loading from user themes directory
	themesDir, err := ThemesDir()
	if err == nil {
		if theme, err := LoadThemeFile(filepath.Join(themesDir, name+".toml")); err == nil {
			return theme
		}
	}

	// Fall back to built-in theme
	if builtin, ok := builtinThemes[name]; ok {
		return builtin
	}

	// Default if not found
	return DefaultTheme()
}

// LoadThemeFile reads a theme file, filling colors it leaves out from the
// default theme.
func LoadThemeFile(path string) (Theme, error) {
	var theme Theme
	if _, err := toml.DecodeFile(path, &theme); err != nil {
		return Theme{}, err
	}
	return mergeWithDefault(theme), nil
}

func fill(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// mergeWithDefault fills in any missing theme values with defaults.
// Page colors may stay empty to use the terminal's own.
func mergeWithDefault(theme Theme) Theme {
	def := DefaultTheme()
	ui, d := &theme.UI, def.UI

	fill(&theme.Name, def.Name)

	fill(&ui.HeadingFg, d.HeadingFg)
	fill(&ui.LinkFg, d.LinkFg)
	fill(&ui.CodeBg, d.CodeBg)
	fill(&ui.StatusBg, d.StatusBg)
	fill(&ui.StatusFg, d.StatusFg)
	fill(&ui.StatusAccent, d.StatusAccent)
	fill(&ui.SelectionBg, d.SelectionBg)
	fill(&ui.SelectionFg, d.SelectionFg)
	fill(&ui.CursorBg, d.CursorBg)
	fill(&ui.CursorFg, d.CursorFg)
	fill(&ui.MarkBg, d.MarkBg)
	fill(&ui.MarkFg, d.MarkFg)
	fill(&ui.ErrorFg, d.ErrorFg)
	fill(&ui.DisabledFg, d.DisabledFg)
	fill(&ui.ScrollbarFg, d.ScrollbarFg)
	fill(&ui.BubbleBg, d.BubbleBg)
	fill(&ui.BubbleFg, d.BubbleFg)
	fill(&ui.BubbleBorder, d.BubbleBorder)
	fill(&ui.PromptFg, d.PromptFg)

	syn, ds := &theme.Syntax, def.Syntax
	fill(&syn.Keyword, ds.Keyword)
	fill(&syn.String, ds.String)
	fill(&syn.Comment, ds.Comment)
	fill(&syn.Number, ds.Number)
	fill(&syn.Operator, ds.Operator)
	fill(&syn.Function, ds.Function)
	fill(&syn.Type, ds.Type)

	return theme
}

// ThemeNames returns the list of built-in theme names
func ThemeNames() []string {
	return []string{"default", "dark", "light", "monokai"}
}

// ListUserThemes returns a list of user-defined theme names
func ListUserThemes() []string {
	themesDir, err := ThemesDir()
	if err != nil {
		return nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		return nil
	}

	var themes []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".toml" {
			themes = append(themes, name[:len(name)-5]) // Remove .toml extension
		}
	}
	return themes
}
