package syntax

import "testing"

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		class string
		want  string
	}{
		{"language-go", "go"},
		{"hljs lang-Python", "python"},
		{"language-", ""},
		{"sourceCode", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := LanguageOf(tt.class); got != tt.want {
			t.Errorf("LanguageOf(%q) = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestSpans(t *testing.T) {
	h := New()
	code := "func main() {}"

	spans := h.Spans("go", code)
	if len(spans) == 0 {
		t.Fatal("Spans(go) returned no spans")
	}
	if got := ColorAt(spans, 0); got != DefaultSyntaxColors().Keyword {
		t.Errorf("ColorAt(func) = %q, want keyword color %q", got, DefaultSyntaxColors().Keyword)
	}
	if got := ColorAt(spans, 4); got != "" {
		t.Errorf("ColorAt(space) = %q, want no color", got)
	}
	if got := ColorAt(spans, 5); got != DefaultSyntaxColors().Function {
		t.Errorf("ColorAt(main) = %q, want function color", got)
	}

	if !h.HasLexer("go") || h.HasLexer("no-such-language") || h.HasLexer("") {
		t.Error("HasLexer() mismatch")
	}
	if spans := h.Spans("no-such-language", code); spans != nil {
		t.Errorf("Spans(unknown) = %v, want nil", spans)
	}

	h.SetEnabled(false)
	if spans := h.Spans("go", code); spans != nil {
		t.Errorf("Spans() while disabled = %v, want nil", spans)
	}
}

func TestSetColors(t *testing.T) {
	h := New()
	colors := DefaultSyntaxColors()
	colors.Keyword = "#ff8800"
	h.SetColors(colors)

	if got := ColorAt(h.Spans("go", "return 1"), 0); got != "#ff8800" {
		t.Errorf("ColorAt(return) = %q, want '#ff8800'", got)
	}
}
