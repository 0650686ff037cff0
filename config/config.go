package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configDirName is the directory under the user config dir that holds
// config.toml, keybindings.toml and themes/.
const configDirName = "visualnav"

// Config holds the viewer configuration
type Config struct {
	Visual      VisualConfig `toml:"visual"`
	Viewer      ViewerConfig `toml:"viewer"`
	Theme       ThemeConfig  `toml:"theme"`
	Log         LogConfig    `toml:"log"`
	RecentFiles []string     `toml:"recent_files,omitempty"` // Recently opened pages (max 10)
}

// MaxRecentFiles is the maximum number of recent pages to track
const MaxRecentFiles = 10

// AddRecentFile adds a page to the recent files list
func (c *Config) AddRecentFile(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	// Remove if already in list (will re-add at top)
	newList := make([]string, 0, MaxRecentFiles)
	for _, f := range c.RecentFiles {
		if f != absPath {
			newList = append(newList, f)
		}
	}

	c.RecentFiles = append([]string{absPath}, newList...)
	if len(c.RecentFiles) > MaxRecentFiles {
		c.RecentFiles = c.RecentFiles[:MaxRecentFiles]
	}
}

// VisualConfig holds the Visual-mode settings
type VisualConfig struct {
	ModeAfterYank string `toml:"mode_after_yank"` // "", "Caret" or "Normal"
	CaseSensitive bool   `toml:"case_sensitive"`
	SmartCase     bool   `toml:"smart_case"`   // Uppercase in a query forces case sensitivity
	Engine        string `toml:"engine"`       // "blink" or "gecko"
	CursorStyle   string `toml:"cursor_style"` // Color for the overlay cursor, empty = theme
	MarksStyle    string `toml:"marks_style"`  // Color for match markers, empty = theme
	HistorySize   int    `toml:"history_size"` // Remembered find queries
}

// ViewerConfig holds page rendering settings
type ViewerConfig struct {
	Width           int   `toml:"width"` // Layout width, 0 = terminal width
	SyntaxHighlight bool  `toml:"syntax_highlight"`
	Scrollbar       bool  `toml:"scrollbar"`
	TrueColor       *bool `toml:"true_color"` // nil = auto, false = force 256-color
	AsciiMode       *bool `toml:"ascii_mode"` // nil = auto-detect, true/false = override
}

// ThemeConfig holds the theme reference in the main config
// Just references a theme by name - the actual colors come from theme files
type ThemeConfig struct {
	Name string `toml:"name"` // Theme name (built-in or from themes/ directory)
}

// LogConfig controls the log file. Logging is off when File is empty.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Visual: VisualConfig{
			SmartCase:   true,
			Engine:      "blink",
			HistorySize: 50,
		},
		Viewer: ViewerConfig{
			SyntaxHighlight: true,
			Scrollbar:       true,
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate reports settings that have no meaning.
func (c *Config) Validate() error {
	switch c.Visual.ModeAfterYank {
	case "", "Caret", "Normal":
	default:
		return fmt.Errorf("visual.mode_after_yank: unknown mode %q", c.Visual.ModeAfterYank)
	}
	switch c.Visual.Engine {
	case "", "blink", "gecko":
	default:
		return fmt.Errorf("visual.engine: unknown engine %q", c.Visual.Engine)
	}
	if c.Visual.HistorySize < 0 {
		return fmt.Errorf("visual.history_size: must not be negative, got %d", c.Visual.HistorySize)
	}
	return nil
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ThemesDir returns the path to the user themes directory
func ThemesDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "themes"), nil
}

// ConfigLoadError holds details about a config loading error
type ConfigLoadError struct {
	FilePath string
	Err      error
}

func (e *ConfigLoadError) Error() string {
	return e.FilePath + ": " + e.Err.Error()
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// Load reads the configuration from the default location.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil // Return defaults on error
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path.
// Returns the defaults if the file doesn't exist, and the defaults plus a
// ConfigLoadError if it exists but cannot be used.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return DefaultConfig(), &ConfigLoadError{FilePath: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), &ConfigLoadError{FilePath: path, Err: err}
	}

	return cfg, nil
}

// Save writes the configuration to the default location.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString("# visualnav configuration\n\n"); err != nil {
		return err
	}

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// GetResolved loads and returns the complete theme
func (t *ThemeConfig) GetResolved() Theme {
	return LoadTheme(t.Name)
}
