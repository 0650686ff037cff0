package syntax

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// SyntaxColors holds the color settings for syntax highlighting
type SyntaxColors struct {
	Keyword  string
	String   string
	Comment  string
	Number   string
	Operator string
	Function string
	Type     string
	Error    string
}

// DefaultSyntaxColors returns the default syntax color settings
func DefaultSyntaxColors() SyntaxColors {
	return SyntaxColors{
		Keyword:  "14", // Bright cyan
		String:   "10", // Bright green
		Comment:  "8",  // Gray
		Number:   "11", // Bright yellow
		Operator: "13", // Bright magenta
		Function: "12", // Bright blue
		Type:     "11", // Bright yellow
		Error:    "9",  // Bright red
	}
}

// ColorSpan represents a colored region of text
type ColorSpan struct {
	Start int    // Start offset (rune index)
	End   int    // End offset (rune index, exclusive)
	Color string // Theme color ("14", "#ff8800")
}

// Highlighter colors the code blocks of a page
type Highlighter struct {
	enabled bool
	colors  SyntaxColors
	lexers  map[string]chroma.Lexer
}

// New creates a new Highlighter with the default colors
func New() *Highlighter {
	return &Highlighter{
		enabled: true,
		colors:  DefaultSyntaxColors(),
		lexers:  make(map[string]chroma.Lexer),
	}
}

// SetEnabled enables or disables syntax highlighting
func (h *Highlighter) SetEnabled(enabled bool) {
	h.enabled = enabled
}

// Enabled returns whether highlighting is enabled
func (h *Highlighter) Enabled() bool {
	return h.enabled
}

// SetColors sets the syntax highlighting colors
func (h *Highlighter) SetColors(colors SyntaxColors) {
	h.colors = colors
}

// LanguageOf returns the language named by a class attribute such as
// "language-go" or "lang-python", or "".
func LanguageOf(class string) string {
	for _, c := range strings.Fields(class) {
		for _, prefix := range []string{"language-", "lang-"} {
			if strings.HasPrefix(c, prefix) && len(c) > len(prefix) {
				return strings.ToLower(c[len(prefix):])
			}
		}
	}
	return ""
}

// lexer returns the coalesced lexer for language, or nil. Lookups are
// cached, misses included.
func (h *Highlighter) lexer(language string) chroma.Lexer {
	if l, ok := h.lexers[language]; ok {
		return l
	}
	l := lexers.Get(language)
	if l != nil {
		l = chroma.Coalesce(l)
	}
	h.lexers[language] = l
	return l
}

// HasLexer reports whether language can be highlighted
func (h *Highlighter) HasLexer(language string) bool {
	return language != "" && h.lexer(language) != nil
}

// Spans returns color spans for a code block
// Returns nil if highlighting is disabled or no lexer is available
func (h *Highlighter) Spans(language, code string) []ColorSpan {
	if !h.enabled || language == "" {
		return nil
	}
	lexer := h.lexer(language)
	if lexer == nil {
		return nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil
	}

	var spans []ColorSpan
	pos := 0
	for _, token := range iterator.Tokens() {
		color := h.tokenColor(token.Type)
		tokenLen := utf8.RuneCountInString(token.Value)
		if color != "" && tokenLen > 0 {
			spans = append(spans, ColorSpan{
				Start: pos,
				End:   pos + tokenLen,
				Color: color,
			})
		}
		pos += tokenLen
	}

	return spans
}

// ColorAt returns the color for a specific rune offset
// Returns empty string if no color applies
func ColorAt(spans []ColorSpan, offset int) string {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > offset })
	if i < len(spans) && spans[i].Start <= offset {
		return spans[i].Color
	}
	return ""
}

// tokenColor returns the theme color for a token type
func (h *Highlighter) tokenColor(t chroma.TokenType) string {
	switch {
	// Keywords
	case t == chroma.Keyword,
		t == chroma.KeywordConstant,
		t == chroma.KeywordDeclaration,
		t == chroma.KeywordNamespace,
		t == chroma.KeywordPseudo,
		t == chroma.KeywordReserved,
		t == chroma.KeywordType:
		return h.colors.Keyword

	// Strings
	case t == chroma.String,
		t == chroma.StringAffix,
		t == chroma.StringBacktick,
		t == chroma.StringChar,
		t == chroma.StringDelimiter,
		t == chroma.StringDoc,
		t == chroma.StringDouble,
		t == chroma.StringEscape,
		t == chroma.StringHeredoc,
		t == chroma.StringInterpol,
		t == chroma.StringOther,
		t == chroma.StringRegex,
		t == chroma.StringSingle,
		t == chroma.StringSymbol:
		return h.colors.String

	// Comments
	case t == chroma.Comment,
		t == chroma.CommentHashbang,
		t == chroma.CommentMultiline,
		t == chroma.CommentPreproc,
		t == chroma.CommentPreprocFile,
		t == chroma.CommentSingle,
		t == chroma.CommentSpecial:
		return h.colors.Comment

	// Numbers
	case t == chroma.Number,
		t == chroma.NumberBin,
		t == chroma.NumberFloat,
		t == chroma.NumberHex,
		t == chroma.NumberInteger,
		t == chroma.NumberIntegerLong,
		t == chroma.NumberOct:
		return h.colors.Number

	// Operators
	case t == chroma.Operator,
		t == chroma.OperatorWord:
		return h.colors.Operator

	// Functions
	case t == chroma.NameFunction,
		t == chroma.NameFunctionMagic:
		return h.colors.Function

	// Types/Classes
	case t == chroma.NameClass,
		t == chroma.NameBuiltin,
		t == chroma.NameBuiltinPseudo:
		return h.colors.Type

	// Constants
	case t == chroma.NameConstant:
		return h.colors.Number // Same as numbers

	// Preprocessor
	case t == chroma.GenericHeading,
		t == chroma.GenericSubheading:
		return h.colors.Type

	// Errors
	case t == chroma.Error,
		t == chroma.GenericError:
		return h.colors.Error

	default:
		return "" // Default terminal color
	}
}
