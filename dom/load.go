package dom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cornish/visualnav/encoding"
	"github.com/cornish/visualnav/log"
)

// Format is the markup a page is written in.
type Format int

const (
	FormatHTML Format = iota
	FormatMarkdown
	FormatText
)

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return FormatMarkdown
	case ".txt", ".text", ".log":
		return FormatText
	}
	return FormatHTML
}

// LoadOptions control how a page is decoded.
type LoadOptions struct {
	// Charset overrides charset detection when non-empty.
	Charset string
	// Format overrides the extension-based guess when non-nil.
	Format *Format
}

// Load reads and parses the page at path.
func Load(path string, opts LoadOptions) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	format := FormatForPath(path)
	if opts.Format != nil {
		format = *opts.Format
	}
	return LoadReader(f, format, opts.Charset)
}

// LoadReader decodes r to UTF-8 and parses it as format.
func LoadReader(r io.Reader, format Format, charset string) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	data, detected, err := encoding.DecodePage(raw, "", charset)
	if err != nil {
		return nil, err
	}
	log.Debug("decoded page", "charset", detected.Name, "source", detected.Source.String(), "confidence", detected.Confidence)

	switch format {
	case FormatMarkdown:
		return ParseMarkdown(data)
	case FormatText:
		return ParseText(string(data)), nil
	}
	return Parse(bytes.NewReader(data))
}
