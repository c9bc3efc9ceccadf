package content

import (
	"bytes"
	"fmt"
	stdhtml "html"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/knowledgelib/internal/markdown"
)

// OutlineEntry is an h2 or h3 heading of the converted page.
type OutlineEntry struct {
	Level int
	Text  string
	ID    string
}

// Converter renders markdown to HTML. It is safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds a converter with tables, footnotes, typographic
// punctuation and heading anchors. A non-empty style enables syntax
// highlighting of fenced code with that chroma style.
func NewConverter(highlightStyle string) *Converter {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Footnote,
		extension.Typographer,
	}
	if highlightStyle != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(highlightStyle),
			highlighting.WithGuessLanguage(false),
		))
	}
	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// Raw HTML stays so include failure comments survive conversion.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Converter{md: md}
}

// Convert returns the HTML of body and its h2/h3 outline.
func (c *Converter) Convert(body []byte) (string, []OutlineEntry, error) {
	doc := c.md.Parser().Parse(text.NewReader(body))

	outline := make([]OutlineEntry, 0)
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if h.Level == 2 || h.Level == 3 {
			// Typographer output arrives as entities; the renderer escapes again.
			entry := OutlineEntry{Level: h.Level, Text: stdhtml.UnescapeString(markdown.PlainText(h, body))}
			if id, ok := h.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					entry.ID = string(b)
				}
			}
			outline = append(outline, entry)
		}
		return gmast.WalkSkipChildren, nil
	})

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, body, doc); err != nil {
		return "", nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), outline, nil
}
