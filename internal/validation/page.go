package validation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type requiredElement struct {
	name        string
	description string
	match       func(*html.Node) bool
	exactlyOne  bool
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.DataAtom == a }
}

var requiredElements = []requiredElement{
	{name: "title", description: "title tag", match: isElement(atom.Title), exactlyOne: true},
	{name: "meta_description", description: "meta description", match: isMetaDescription, exactlyOne: true},
	{name: "main", description: "main tag", match: isElement(atom.Main), exactlyOne: true},
	{name: "header", description: "header tag", match: isElement(atom.Header)},
	{name: "footer", description: "footer tag", match: isElement(atom.Footer)},
}

func isMetaDescription(n *html.Node) bool {
	return n.DataAtom == atom.Meta && strings.EqualFold(getAttr(n, "name"), "description")
}

// CheckPageFile runs CheckPage on a file.
func CheckPageFile(path, location string) (Report, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Report{}, fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = f.Close() }()
	return CheckPage(f, location)
}

// CheckPage verifies the structural contract of a rendered page: exactly one
// title, meta description and main region, a header and a footer. Images
// without alt text and heading jumps are reported as warnings.
func CheckPage(r io.Reader, location string) (Report, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Report{}, fmt.Errorf("parse page: %w", err)
	}

	var rep Report
	counts := make([]int, len(requiredElements))
	prevHeading := 0

	walk(doc, func(n *html.Node) {
		for i, req := range requiredElements {
			if req.match(n) {
				counts[i]++
			}
		}
		switch n.DataAtom {
		case atom.Img:
			if strings.TrimSpace(getAttr(n, "alt")) == "" {
				rep.add(KindAccessibility, SeverityWarning, location, "Image missing alt attribute: %s", getAttr(n, "src"))
			}
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			level := int(n.Data[1] - '0')
			if level > prevHeading+1 {
				rep.add(KindAccessibility, SeverityWarning, location, "Incorrect heading hierarchy: h%d to h%d", prevHeading, level)
			}
			prevHeading = level
		}
	})

	for i, req := range requiredElements {
		switch {
		case counts[i] == 0:
			rep.add(KindElement, SeverityError, location, "Missing required element: %s", req.description)
		case req.exactlyOne && counts[i] > 1:
			rep.add(KindElement, SeverityError, location, "Duplicate required element: %s (found %d)", req.description, counts[i])
		}
	}
	return rep, nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
