package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

// Parse builds a document from HTML.
func Parse(r io.Reader) (*Document, error) {
	src, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	root := &Node{Type: DocumentNode}
	convertChildren(root, src)
	return newDocument(root), nil
}

// ParseString builds a document from an HTML string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseMarkdown renders Markdown (GFM tables and strikethrough included)
// to HTML and parses the result.
func ParseMarkdown(src []byte) (*Document, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return Parse(&buf)
}

// ParseText wraps plain text in a <pre> so whitespace is kept.
func ParseText(s string) *Document {
	d := NewDocument()
	pre := NewElement("pre")
	pre.AppendChild(NewText(s))
	d.Body().AppendChild(pre)
	return d
}

func convertChildren(dst *Node, src *html.Node) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			el := &Node{Type: ElementNode, Tag: c.Data}
			if len(c.Attr) > 0 {
				el.Attr = make(map[string]string, len(c.Attr))
				for _, a := range c.Attr {
					el.Attr[a.Key] = a.Val
				}
			}
			dst.AppendChild(el)
			convertChildren(el, c)
		case html.TextNode:
			dst.AppendChild(NewText(c.Data))
		}
	}
}
