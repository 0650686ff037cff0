package viewer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/visualnav/config"
	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/log"
	"github.com/cornish/visualnav/syntax"
	"github.com/cornish/visualnav/ui"
	"github.com/cornish/visualnav/visual"
)

// Mode represents what the keyboard currently drives
type Mode int

const (
	ModeNormal Mode = iota
	ModeFind
	ModeHint
)

// Viewer is the main Bubbletea model: one page, its Visual-mode controller
// and the terminal chrome around them.
type Viewer struct {
	// Core components
	doc  *dom.Document
	ctrl *visual.Controller
	clip visual.ClipboardWriter

	// UI components
	page      *ui.PageRenderer
	statusbar *ui.StatusBar
	scrollbar *ui.Scrollbar
	syntax    *syntax.Highlighter
	styles    ui.Styles

	// State
	mode     Mode
	filename string
	width    int
	height   int

	// Find mode state
	findQuery  string
	historyIdx int

	// Hint mode state
	hints     []ui.Hint
	hintTyped string
	hintEx    string
	hintPick  func(n *dom.Node, offset int, text string)

	// Mouse state
	mouseDown  bool
	mouseMoved bool
	pressPoint dom.Point

	lastClicked *dom.Node

	// Configuration
	config *config.Config
	keys   *config.KeybindingsConfig
}

// New creates a viewer for doc with the default configuration
func New(doc *dom.Document) *Viewer {
	return NewWithConfig(doc, config.DefaultConfig(), config.DefaultKeybindings(), nil)
}

// NewWithConfig creates a viewer for doc. clip receives yanked text and may
// be nil.
func NewWithConfig(doc *dom.Document, cfg *config.Config, keys *config.KeybindingsConfig, clip visual.ClipboardWriter) *Viewer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if keys == nil {
		keys = config.DefaultKeybindings()
	}

	theme := cfg.Theme.GetResolved()
	styles := ui.NewStyles(theme)
	styles.ASCII = config.GetCapabilities().ShouldUseASCII(cfg.Viewer.AsciiMode)

	hl := syntax.New()
	hl.SetEnabled(cfg.Viewer.SyntaxHighlight)
	hl.SetColors(syntaxColors(theme))

	v := &Viewer{
		doc:        doc,
		clip:       clip,
		page:       ui.NewPageRenderer(styles, hl),
		statusbar:  ui.NewStatusBar(styles),
		scrollbar:  ui.NewScrollbar(styles),
		syntax:     hl,
		styles:     styles,
		mode:       ModeNormal,
		width:      80,
		height:     24,
		historyIdx: -1,
		config:     cfg,
		keys:       keys,
	}
	v.scrollbar.SetEnabled(cfg.Viewer.Scrollbar)
	v.statusbar.SetTitle(doc.Title())

	engine, err := dom.EngineByName(cfg.Visual.Engine)
	if err != nil {
		log.Warn("unknown engine, using blink", "engine", cfg.Visual.Engine)
		engine = dom.Blink
	}
	doc.SetEngine(engine)

	v.ctrl = visual.NewController(doc, visual.ProbeCapabilities(engine), visual.Options{
		ModeAfterYank: cfg.Visual.ModeAfterYank,
		CaseSensitive: cfg.Visual.CaseSensitive,
		SmartCase:     cfg.Visual.SmartCase,
		HistorySize:   cfg.Visual.HistorySize,
		Keymap:        visual.Keymap(keys.VisualKeymap()),
		Status:        v,
		Clipboard:     yankNotifier{v: v},
		Clicker:       v,
		Hinter:        v,
		InlineQuery:   v.inlineQuery,
	})
	if cfg.Visual.CursorStyle != "" {
		v.ctrl.Style("cursor", cfg.Visual.CursorStyle)
	}
	if cfg.Visual.MarksStyle != "" {
		v.ctrl.Style("marks", cfg.Visual.MarksStyle)
	}

	v.updateViewportSize()
	return v
}

func syntaxColors(theme config.Theme) syntax.SyntaxColors {
	s := theme.Syntax
	return syntax.SyntaxColors{
		Keyword:  s.Keyword,
		String:   s.String,
		Comment:  s.Comment,
		Number:   s.Number,
		Operator: s.Operator,
		Function: s.Function,
		Type:     s.Type,
		Error:    theme.UI.ErrorFg,
	}
}

// Controller returns the Visual-mode controller driving the page
func (v *Viewer) Controller() *visual.Controller {
	return v.ctrl
}

// Mode returns the current input mode
func (v *Viewer) Mode() Mode {
	return v.mode
}

// SetFilename sets the file the page was loaded from
func (v *Viewer) SetFilename(filename string) {
	v.filename = filename
	v.statusbar.SetFilename(filename)
}

// SetMessage shows a temporary message in the status bar
func (v *Viewer) SetMessage(message, msgType string) {
	v.statusbar.SetMessage(message, msgType)
}

// SetConfigError reports a config file that could not be parsed
func (v *Viewer) SetConfigError(path, errMsg string) {
	v.statusbar.SetMessage(fmt.Sprintf("Config error in %s: %s", path, errMsg), "error")
}

// Init implements tea.Model
func (v *Viewer) Init() tea.Cmd {
	title := v.doc.Title()
	if title == "" {
		title = v.filename
	}
	return tea.Batch(
		tea.EnterAltScreen,
		tea.EnableMouseAllMotion,
		tea.SetWindowTitle(title),
	)
}

// Update implements tea.Model
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.statusbar.SetWidth(msg.Width)
		v.updateViewportSize()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case tea.MouseMsg:
		return v.handleMouse(msg)
	}

	return v, nil
}

// updateViewportSize lays the page out for the space left by the status bar
// and scrollbar
func (v *Viewer) updateViewportSize() {
	pageHeight := max(v.height-1, 1)
	pageWidth := max(v.width-v.scrollbar.Width(), 1)
	if w := v.config.Viewer.Width; w > 0 && w < pageWidth {
		pageWidth = w
	}
	v.doc.SetViewport(pageWidth, pageHeight)
	v.scrollbar.SetHeight(pageHeight)
	v.statusbar.SetWidth(v.width)

	// The cursor is pinned in viewport coordinates
	if v.ctrl != nil && v.ctrl.Active() {
		v.ctrl.Click()
	}
}

// View implements tea.Model
func (v *Viewer) View() string {
	var sb strings.Builder

	pageWidth, pageHeight := v.doc.Viewport()
	top, content := v.scrollTop(), v.doc.ContentHeight()

	v.page.SetCurrentMarker(v.currentMarker())
	rows := v.page.Render(v.doc)
	bar := v.scrollbar.Render(top, pageHeight, content)
	pad := strings.Repeat(" ", max(v.width-v.scrollbar.Width()-pageWidth, 0))

	for i, row := range rows {
		sb.WriteString(row)
		sb.WriteString(pad)
		if i < len(bar) {
			sb.WriteString(bar[i])
		}
		sb.WriteString("\n")
	}

	v.statusbar.SetScroll(top, pageHeight, content)
	sb.WriteString(v.statusbar.View())

	return sb.String()
}

// currentMarker returns the marker of the current occurrence, if any
func (v *Viewer) currentMarker() *dom.Node {
	matches := v.ctrl.Matches()
	i := v.ctrl.CurrentMatch()
	if i < 0 || i >= len(matches) {
		return nil
	}
	return matches[i].Marker
}

func (v *Viewer) scrollTop() int {
	if root := v.doc.RootScroller(); root != nil {
		return root.Top()
	}
	return 0
}

// scrollTo moves the page and keeps the Visual cursor on screen
func (v *Viewer) scrollTo(top int) {
	root := v.doc.RootScroller()
	if root == nil {
		return
	}
	root.SetTop(top)
	if v.ctrl.Active() {
		v.ctrl.Click()
	}
}

func (v *Viewer) scrollBy(dy int) {
	v.scrollTo(v.scrollTop() + dy)
}

// ShowStatus implements visual.StatusReporter
func (v *Viewer) ShowStatus(slot int, msg string) {
	v.statusbar.SetSlot(slot, msg)
}

// ShowBubble implements visual.StatusReporter
func (v *Viewer) ShowBubble(at dom.Rect, content string) {
	v.page.ShowBubble(at, content)
}

// HideBubble implements visual.StatusReporter
func (v *Viewer) HideBubble() {
	v.page.HideBubble()
}

// inlineQuery shows the word with the sentence it first appears in
func (v *Viewer) inlineQuery(word string) string {
	sentence := strings.Join(strings.Fields(v.ctrl.FindSentenceOf(word)), " ")
	if sentence == "" || sentence == word {
		return word
	}
	return word + ": " + sentence
}

// Click implements visual.Clicker. Links to an id on the page are followed,
// other links are reported, and shift copies the target.
func (v *Viewer) Click(n *dom.Node, shift bool) {
	v.lastClicked = n
	a := n.Ancestor("a")
	if a == nil {
		if n.IsElement() {
			v.statusbar.SetMessage("Clicked <"+n.Tag+">", "info")
		}
		return
	}
	href, _ := a.GetAttr("href")
	switch {
	case href == "":
		v.statusbar.SetMessage("Link has no target", "info")

	case strings.HasPrefix(href, "#") && !shift:
		target := v.doc.GetElementByID(href[1:])
		if target == nil {
			v.statusbar.SetMessage("No anchor "+href, "error")
			return
		}
		if v.ctrl.Active() {
			v.ctrl.Enter(target, false)
		} else {
			v.doc.ScrollIntoViewIfNeeded(target)
		}
		v.statusbar.SetMessage("Jumped to "+href, "info")

	case shift:
		if v.clip != nil {
			if err := v.clip.Copy(href); err != nil {
				v.statusbar.SetMessage("Copy failed: "+err.Error(), "error")
				return
			}
		}
		v.statusbar.SetMessage("Copied link: "+href, "success")

	default:
		v.statusbar.SetMessage("Link: "+href, "info")
	}
}

// LastClicked returns the element the last click landed on
func (v *Viewer) LastClicked() *dom.Node {
	return v.lastClicked
}

// Hint implements visual.Hinter: the visible words get labels and the
// keyboard switches to picking one.
func (v *Viewer) Hint(ex string, pick func(n *dom.Node, offset int, text string)) {
	hints := ui.CollectHints(v.doc, ui.HintAlphabet)
	if len(hints) == 0 {
		v.statusbar.SetMessage("No text to hint", "info")
		return
	}
	v.hints = hints
	v.hintTyped = ""
	v.hintEx = ex
	v.hintPick = pick
	v.mode = ModeHint
	v.page.SetHints(hints, "")
	v.statusbar.SetSlot(1, hintLabel(ex))
}

// Hints returns the labels currently on screen
func (v *Viewer) Hints() []ui.Hint {
	return v.hints
}

func hintLabel(ex string) string {
	switch ex {
	case "y":
		return "Yank"
	case "ym":
		return "Yank (multiple)"
	case "q":
		return "Query"
	case "z":
		return "Select"
	}
	return "Caret"
}

func (v *Viewer) exitHints() {
	v.hints = nil
	v.hintTyped = ""
	v.hintEx = ""
	v.hintPick = nil
	v.mode = ModeNormal
	v.page.SetHints(nil, "")
	v.statusbar.SetSlot(1, "")
}

// yankNotifier forwards yanks to the clipboard and reports them.
type yankNotifier struct {
	v *Viewer
}

func (y yankNotifier) Copy(text string) error {
	if y.v.clip != nil {
		if err := y.v.clip.Copy(text); err != nil {
			y.v.statusbar.SetMessage("Yank failed: "+err.Error(), "error")
			return err
		}
	}
	y.v.statusbar.SetMessage(fmt.Sprintf("Yanked %d characters", utf8.RuneCountInString(text)), "success")
	return nil
}
