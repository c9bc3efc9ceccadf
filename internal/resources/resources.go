// Package resources lists the auxiliary files that ship with a document.
package resources

import (
	"fmt"
	"html"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are scanned when no list is configured.
var DefaultExtensions = []string{".pdf", ".docx", ".xlsx", ".pptx", ".zip"}

// File is one auxiliary file.
type File struct {
	Name  string // file name inside the folder
	Title string // file name without extension
}

// Group collects the files of one extension.
type Group struct {
	Extension string // with leading dot, lower case
	Files     []File
}

// Label is the group heading, e.g. "Additional PDF Resources".
func (g Group) Label() string {
	return fmt.Sprintf("Additional %s Resources", strings.ToUpper(strings.TrimPrefix(g.Extension, ".")))
}

// Listing is the result of scanning one folder.
type Listing struct {
	Groups []Group
}

// Empty reports whether no tracked file was found.
func (l Listing) Empty() bool { return len(l.Groups) == 0 }

// Names returns every listed file name, grouped by extension.
func (l Listing) Names() []string {
	out := make([]string, 0)
	for _, g := range l.Groups {
		for _, f := range g.Files {
			out = append(out, f.Name)
		}
	}
	return out
}

// HTML renders the listing. An empty listing renders as "".
func (l Listing) HTML() string {
	if l.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("<section class=\"additional-resources\">\n<h2>Additional Resources</h2>\n")
	for _, g := range l.Groups {
		fmt.Fprintf(&b, "<h3>%s</h3>\n<ul>\n", html.EscapeString(g.Label()))
		for _, f := range g.Files {
			href := (&url.URL{Path: f.Name}).String()
			fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", html.EscapeString(href), html.EscapeString(f.Title))
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</section>")
	return b.String()
}

// Gatherer scans folders for a fixed set of extensions.
type Gatherer struct {
	extensions []string
}

// NewGatherer tracks exts in the given order; an empty list uses DefaultExtensions.
func NewGatherer(exts ...string) *Gatherer {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	norm := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		norm = append(norm, e)
	}
	return &Gatherer{extensions: norm}
}

// Extensions returns the tracked extensions.
func (g *Gatherer) Extensions() []string { return g.extensions }

// Scan lists the tracked files directly inside dir in directory order.
// Matching is case-insensitive on the extension.
func (g *Gatherer) Scan(dir string) (Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, fmt.Errorf("scan resources in %s: %w", dir, err)
	}

	var l Listing
	for _, ext := range g.extensions {
		group := Group{Extension: ext}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			name := e.Name()
			fileExt := filepath.Ext(name)
			if !strings.EqualFold(fileExt, ext) {
				continue
			}
			group.Files = append(group.Files, File{Name: name, Title: strings.TrimSuffix(name, fileExt)})
		}
		if len(group.Files) > 0 {
			l.Groups = append(l.Groups, group)
		}
	}
	return l, nil
}

// Gather returns the rendered listing for dir.
func (g *Gatherer) Gather(dir string) (string, error) {
	l, err := g.Scan(dir)
	if err != nil {
		return "", err
	}
	return l.HTML(), nil
}
