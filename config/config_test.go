package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Visual.ModeAfterYank != "" {
		t.Errorf("DefaultConfig().Visual.ModeAfterYank = %q, want empty", cfg.Visual.ModeAfterYank)
	}
	if !cfg.Visual.SmartCase {
		t.Error("DefaultConfig().Visual.SmartCase should be true")
	}
	if cfg.Visual.CaseSensitive {
		t.Error("DefaultConfig().Visual.CaseSensitive should be false")
	}
	if cfg.Visual.Engine != "blink" {
		t.Errorf("DefaultConfig().Visual.Engine = %q, want 'blink'", cfg.Visual.Engine)
	}
	if cfg.Visual.HistorySize != 50 {
		t.Errorf("DefaultConfig().Visual.HistorySize = %d, want 50", cfg.Visual.HistorySize)
	}
	if !cfg.Viewer.SyntaxHighlight {
		t.Error("DefaultConfig().Viewer.SyntaxHighlight should be true")
	}
	if cfg.Theme.Name != "default" {
		t.Errorf("DefaultConfig().Theme.Name = %q, want 'default'", cfg.Theme.Name)
	}
	if cfg.Log.File != "" {
		t.Errorf("DefaultConfig().Log.File = %q, want logging off", cfg.Log.File)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestAddRecentFile(t *testing.T) {
	cfg := DefaultConfig()

	cfg.AddRecentFile("/path/to/page1.html")
	cfg.AddRecentFile("/path/to/page2.html")
	if len(cfg.RecentFiles) != 2 {
		t.Fatalf("RecentFiles length = %d, want 2", len(cfg.RecentFiles))
	}

	// Most recent should be first
	if !filepath.IsAbs(cfg.RecentFiles[0]) || filepath.Base(cfg.RecentFiles[0]) != "page2.html" {
		t.Errorf("RecentFiles[0] = %q, want page2.html to be first", cfg.RecentFiles[0])
	}

	// Re-add page1 - should move to front
	cfg.AddRecentFile("/path/to/page1.html")
	if len(cfg.RecentFiles) != 2 {
		t.Fatalf("RecentFiles length after re-add = %d, want 2", len(cfg.RecentFiles))
	}
	if filepath.Base(cfg.RecentFiles[0]) != "page1.html" {
		t.Errorf("RecentFiles[0] after re-add = %q, want page1.html first", cfg.RecentFiles[0])
	}
}

func TestAddRecentFileMaxLimit(t *testing.T) {
	cfg := DefaultConfig()

	for i := 0; i < MaxRecentFiles+5; i++ {
		cfg.AddRecentFile("/path/to/page" + string(rune('a'+i)) + ".html")
	}

	if len(cfg.RecentFiles) != MaxRecentFiles {
		t.Errorf("RecentFiles length = %d, want %d (max)", len(cfg.RecentFiles), MaxRecentFiles)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"caret after yank", func(c *Config) { c.Visual.ModeAfterYank = "Caret" }, false},
		{"normal after yank", func(c *Config) { c.Visual.ModeAfterYank = "Normal" }, false},
		{"unknown after yank", func(c *Config) { c.Visual.ModeAfterYank = "Insert" }, true},
		{"gecko", func(c *Config) { c.Visual.Engine = "gecko" }, false},
		{"unknown engine", func(c *Config) { c.Visual.Engine = "webkit" }, true},
		{"negative history", func(c *Config) { c.Visual.HistorySize = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v, want nil", err)
	}
	if cfg.Visual.Engine != "blink" {
		t.Errorf("LoadFrom() Engine = %q, want defaults", cfg.Visual.Engine)
	}
}

func TestLoadFrom(t *testing.T) {
	path := writeFile(t, "config.toml", `
[visual]
mode_after_yank = "Caret"
smart_case = false
engine = "gecko"

[log]
level = "debug"
file = "/tmp/visualnav.log"
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Visual.ModeAfterYank != "Caret" {
		t.Errorf("ModeAfterYank = %q, want 'Caret'", cfg.Visual.ModeAfterYank)
	}
	if cfg.Visual.SmartCase {
		t.Error("SmartCase should be false")
	}
	if cfg.Visual.Engine != "gecko" {
		t.Errorf("Engine = %q, want 'gecko'", cfg.Visual.Engine)
	}
	if cfg.Visual.HistorySize != 50 {
		t.Errorf("HistorySize = %d, want default 50 for an unset key", cfg.Visual.HistorySize)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/visualnav.log" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadFromErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", "[visual\nengine = "},
		{"invalid value", "[visual]\nengine = \"webkit\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.toml", tt.content)
			cfg, err := LoadFrom(path)

			var loadErr *ConfigLoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("LoadFrom() error = %v, want *ConfigLoadError", err)
			}
			if loadErr.FilePath != path {
				t.Errorf("FilePath = %q, want %q", loadErr.FilePath, path)
			}
			if cfg == nil || cfg.Visual.Engine != "blink" {
				t.Error("LoadFrom() should return the defaults alongside the error")
			}
		})
	}
}

func TestSaveToLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Visual.ModeAfterYank = "Normal"
	cfg.Visual.MarksStyle = "11"
	cfg.Theme.Name = "monokai"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "# visualnav configuration") {
		t.Errorf("saved file should start with the header comment, got %q", string(data[:20]))
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.Visual.ModeAfterYank != "Normal" || got.Visual.MarksStyle != "11" || got.Theme.Name != "monokai" {
		t.Errorf("LoadFrom() after SaveTo() = %+v", got)
	}
}

func TestConfigLoadError(t *testing.T) {
	err := &ConfigLoadError{
		FilePath: "/path/to/config.toml",
		Err:      os.ErrNotExist,
	}

	if !strings.HasPrefix(err.Error(), "/path/to/config.toml: ") {
		t.Errorf("ConfigLoadError.Error() = %q, want the path first", err.Error())
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("ConfigLoadError should unwrap to its cause")
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("ConfigPath() = %q, want absolute path", path)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("ConfigPath() base = %q, want 'config.toml'", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != "visualnav" {
		t.Errorf("ConfigPath() = %q, should live under 'visualnav'", path)
	}

	dir, err := ThemesDir()
	if err != nil {
		t.Fatalf("ThemesDir() error: %v", err)
	}
	if filepath.Base(dir) != "themes" {
		t.Errorf("ThemesDir() base = %q, want 'themes'", filepath.Base(dir))
	}
}
