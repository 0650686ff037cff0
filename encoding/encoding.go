// Package encoding detects the character set of loaded pages and decodes
// them to UTF-8.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Source records how a page's charset was chosen.
type Source int

const (
	SourceDefault  Source = iota // nothing matched, windows-1252 as browsers do
	SourceBOM                    // byte order mark
	SourceHeader                 // charset parameter of the content type
	SourceMeta                   // <meta charset> prescan
	SourceDetected               // UTF-8 validation or statistical detection
	SourceOverride               // chosen by the user
)

func (s Source) String() string {
	switch s {
	case SourceBOM:
		return "bom"
	case SourceHeader:
		return "header"
	case SourceMeta:
		return "meta"
	case SourceDetected:
		return "detected"
	case SourceOverride:
		return "override"
	}
	return "default"
}

// Result holds the charset chosen for a page
type Result struct {
	Name       string // WHATWG name, e.g. "utf-8", "shift_jis"
	Encoding   encoding.Encoding
	Confidence int // 0-100
	Source     Source
}

// Byte order marks
var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// Lookup resolves a charset label such as "latin1" or "Shift_JIS".
func Lookup(label string) (Result, error) {
	enc, name := charset.Lookup(strings.TrimSpace(label))
	if enc == nil {
		return Result{}, fmt.Errorf("unknown charset %q", label)
	}
	return Result{Name: name, Encoding: enc, Confidence: 100, Source: SourceOverride}, nil
}

// Detect picks the charset of a page. contentType may carry a charset
// parameter and may be empty.
func Detect(data []byte, contentType string) Result {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return named("utf-8", 100, SourceBOM)
	case bytes.HasPrefix(data, utf16LEBOM):
		return named("utf-16le", 100, SourceBOM)
	case bytes.HasPrefix(data, utf16BEBOM):
		return named("utf-16be", 100, SourceBOM)
	}

	enc, name, certain := charset.DetermineEncoding(data, contentType)
	if certain {
		return Result{Name: name, Encoding: enc, Confidence: 100, Source: SourceHeader}
	}
	// DetermineEncoding only falls back to these two; anything else came
	// from a <meta> declaration.
	if name != "utf-8" && name != "windows-1252" {
		return Result{Name: name, Encoding: enc, Confidence: 90, Source: SourceMeta}
	}

	if utf8.Valid(data) {
		return named("utf-8", 100, SourceDetected)
	}

	detector := chardet.NewTextDetector()
	detected, err := detector.DetectBest(data)
	if err == nil && detected != nil {
		if enc, name := charset.Lookup(detected.Charset); enc != nil {
			return Result{Name: name, Encoding: enc, Confidence: detected.Confidence, Source: SourceDetected}
		}
	}
	return Result{Name: "windows-1252", Encoding: charmap.Windows1252, Confidence: 10, Source: SourceDefault}
}

func named(label string, confidence int, src Source) Result {
	enc, name := charset.Lookup(label)
	return Result{Name: name, Encoding: enc, Confidence: confidence, Source: src}
}

// Decode converts data from r's charset to UTF-8, dropping any BOM.
func Decode(data []byte, r Result) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM) && r.Name == "utf-8":
		return data[len(utf8BOM):], nil
	case bytes.HasPrefix(data, utf16LEBOM) && r.Name == "utf-16le",
		bytes.HasPrefix(data, utf16BEBOM) && r.Name == "utf-16be":
		data = data[2:]
	}
	if r.Encoding == nil || r.Name == "utf-8" {
		return data, nil
	}
	reader := transform.NewReader(bytes.NewReader(data), r.Encoding.NewDecoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.Name, err)
	}
	return out, nil
}

// DecodePage detects (or, with a non-empty override, looks up) the charset
// of data and decodes it.
func DecodePage(data []byte, contentType, override string) ([]byte, Result, error) {
	var r Result
	if override != "" {
		var err error
		if r, err = Lookup(override); err != nil {
			return nil, Result{}, err
		}
	} else {
		r = Detect(data, contentType)
	}
	out, err := Decode(data, r)
	return out, r, err
}
