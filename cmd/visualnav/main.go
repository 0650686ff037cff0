package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"

	"github.com/cornish/visualnav/clipboard"
	"github.com/cornish/visualnav/config"
	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/log"
	"github.com/cornish/visualnav/ui"
	"github.com/cornish/visualnav/viewer"
)

const version = "0.1.0"

// Options are the command line flags
type Options struct {
	Engine   string `long:"engine" choice:"blink" choice:"gecko" description:"Selection engine profile"`
	Theme    string `long:"theme" description:"Color theme (built-in or from the themes directory)"`
	ASCII    bool   `long:"ascii" description:"Use ASCII characters for borders and the scrollbar"`
	Format   string `long:"format" choice:"html" choice:"markdown" choice:"text" description:"Page format, guessed from the extension by default"`
	Charset  string `long:"charset" description:"Page charset, detected by default"`
	LogFile  string `long:"log-file" description:"Write logs to this file"`
	LogLevel string `long:"log-level" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	Version  bool   `short:"v" long:"version" description:"Show version information"`

	Args struct {
		File string `positional-arg-name:"FILE" description:"Page to open, read from stdin when omitted"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [FILE]"

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if opts.Version {
		fmt.Printf("visualnav %s\n", version)
		os.Exit(0)
	}

	// Detect terminal capabilities early
	config.InitCapabilities()
	caps := config.GetCapabilities()

	// Load configuration
	cfg, configErr := config.Load()

	if err := setupLogging(cfg.Log, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}

	doc, fromStdin, err := loadPage(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading page: %v\n", err)
		os.Exit(1)
	}

	// Remember the page before command line overrides touch cfg
	if opts.Args.File != "" && configErr == nil {
		cfg.AddRecentFile(opts.Args.File)
		if err := cfg.Save(); err != nil {
			log.Warn("could not save recent files", "err", err)
		}
	}

	// Command line overrides config
	if opts.Engine != "" {
		cfg.Visual.Engine = opts.Engine
	}
	if opts.Theme != "" {
		cfg.Theme.Name = opts.Theme
	}
	if opts.ASCII {
		t := true
		cfg.Viewer.AsciiMode = &t
	}
	ui.UseTrueColor = caps.ShouldUseTrueColor(cfg.Viewer.TrueColor)

	v := viewer.NewWithConfig(doc, cfg, config.LoadKeybindings(), clipboard.New(os.Stdout, caps.Remote))
	v.SetFilename(opts.Args.File)

	// If config had parse errors, show them on startup
	var loadErr *config.ConfigLoadError
	if errors.As(configErr, &loadErr) {
		v.SetConfigError(loadErr.FilePath, loadErr.Err.Error())
	}

	log.Info("starting", "version", version, "file", opts.Args.File, "engine", cfg.Visual.Engine, "remote", caps.Remote)

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()}
	if fromStdin {
		// Stdin holds the page, keys come from the terminal
		programOpts = append(programOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(v, programOpts...)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging points the logger at a file. The terminal belongs to the
// viewer, so without a file nothing is logged.
func setupLogging(cfg config.LogConfig, opts Options) error {
	file, level := cfg.File, cfg.Level
	if opts.LogFile != "" {
		file = opts.LogFile
	}
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if file == "" {
		return nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	log.SetOutput(f, log.ParseLevel(level))
	return nil
}

// loadPage reads the page named on the command line, or stdin when it is
// not a terminal.
func loadPage(opts Options) (*dom.Document, bool, error) {
	var format *dom.Format
	if opts.Format != "" {
		f := parseFormat(opts.Format)
		format = &f
	}

	if opts.Args.File != "" {
		doc, err := dom.Load(opts.Args.File, dom.LoadOptions{Charset: opts.Charset, Format: format})
		return doc, false, err
	}

	info, err := os.Stdin.Stat()
	if err != nil {
		return nil, false, err
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return nil, false, errors.New("no page given, pass a FILE or pipe one in")
	}
	f := dom.FormatHTML
	if format != nil {
		f = *format
	}
	doc, err := dom.LoadReader(os.Stdin, f, opts.Charset)
	return doc, true, err
}

func parseFormat(s string) dom.Format {
	switch s {
	case "markdown":
		return dom.FormatMarkdown
	case "text":
		return dom.FormatText
	}
	return dom.FormatHTML
}
