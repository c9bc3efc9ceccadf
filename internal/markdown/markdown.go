// Package markdown provides goldmark-based analysis of markdown bodies and
// byte-range rewriting that leaves code untouched.
package markdown

import (
	"bytes"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var analyzer = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Footnote))

func parse(body []byte) (gmast.Node, parser.Context) {
	ctx := parser.NewContext()
	root := analyzer.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	return root, ctx
}

// ExtractLinks returns links, images, autolinks and reference definitions in
// document order (reference definitions last, sorted by label).
func ExtractLinks(body []byte) []Link {
	root, ctx := parse(body)

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	refs := ctx.References()
	slices.SortFunc(refs, func(a, b parser.Reference) int {
		return bytes.Compare(a.Label(), b.Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return links
}

// Headings returns every heading in document order.
func Headings(body []byte) []Heading {
	root, _ := parse(body)

	out := make([]Heading, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			out = append(out, Heading{Level: h.Level, Text: PlainText(h, body)})
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return out
}

// PlainText concatenates the text segments below n.
func PlainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
