// Package render produces the HTML pages of a build from an embedded
// html/template set.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/metadata"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Site holds the site-wide values shared by every page.
type Site struct {
	Title        string
	Organization string
	Copyright    string
	BaseURL      string
}

// DefaultSite is used for zero fields of a configured Site.
var DefaultSite = Site{
	Title:        "Resource Library",
	Organization: "Resource Library",
	Copyright:    "Resource Library. All rights reserved.",
}

// Page is the input for one document page.
type Page struct {
	ID        string
	Record    metadata.Record
	Content   string // converted article HTML
	Outline   []content.OutlineEntry
	Resources string // resource listing HTML, possibly empty
	Previous  string // neighbour document ids, empty at the ends
	Next      string
	Folders   map[string]string // section id to folder id, for related links
}

// Link is a rendered navigation link.
type Link struct {
	Href  string
	Title string
}

// HomeEntry is one document on the library index.
type HomeEntry struct {
	ID          string
	Title       string
	Description string
}

// Renderer is safe for concurrent use.
type Renderer struct {
	tpl  *template.Template
	site Site
}

// New parses the embedded templates.
func New(site Site) (*Renderer, error) {
	if site.Title == "" {
		site.Title = DefaultSite.Title
	}
	if site.Organization == "" {
		site.Organization = DefaultSite.Organization
	}
	if site.Copyright == "" {
		site.Copyright = DefaultSite.Copyright
	}
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")

	tpl, err := template.New("site").Option("missingkey=error").ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &Renderer{tpl: tpl, site: site}, nil
}

// PageHref is the link from one document page to another.
func PageHref(id string) string {
	return "../" + id + "/"
}

type pageData struct {
	Site         Site
	Stylesheet   string
	Record       metadata.Record
	Keywords     string
	CanonicalURL string
	JSONLD       template.JS
	Outline      []content.OutlineEntry
	Content      template.HTML
	Resources    template.HTML
	Related      []Link
	Previous     *Link
	Next         *Link
	LastUpdated  string
}

// Render writes the page for p.
func (r *Renderer) Render(w io.Writer, p Page) error {
	ld, err := r.jsonLD(p)
	if err != nil {
		return err
	}
	data := pageData{
		Site:         r.site,
		Stylesheet:   "../static/css/site.css",
		Record:       p.Record,
		Keywords:     strings.Join(p.Record.Keywords, ", "),
		CanonicalURL: r.canonical(p.ID),
		JSONLD:       ld,
		Outline:      p.Outline,
		Content:      template.HTML(p.Content),   // #nosec G203 -- markdown converter output
		Resources:    template.HTML(p.Resources), // #nosec G203 -- escaped by the gatherer
		Related:      related(p),
		Previous:     navLink(p.Previous),
		Next:         navLink(p.Next),
		LastUpdated:  p.Record.LastUpdated,
	}
	if err := r.tpl.ExecuteTemplate(w, "page.html.tmpl", data); err != nil {
		return fmt.Errorf("render page %s: %w", p.ID, err)
	}
	return nil
}

type homeLink struct {
	Href        string
	Title       string
	Description string
}

type homeData struct {
	Site        Site
	Stylesheet  string
	Description string
	Entries     []homeLink
	LastUpdated string
}

// RenderHome writes the library index page listing entries in order.
func (r *Renderer) RenderHome(w io.Writer, entries []HomeEntry) error {
	data := homeData{
		Site:        r.site,
		Stylesheet:  "static/css/site.css",
		Description: "Index of " + r.site.Title,
		Entries:     make([]homeLink, len(entries)),
	}
	for i, e := range entries {
		data.Entries[i] = homeLink{Href: e.ID + "/", Title: e.Title, Description: e.Description}
	}
	if err := r.tpl.ExecuteTemplate(w, "home.html.tmpl", data); err != nil {
		return fmt.Errorf("render home: %w", err)
	}
	return nil
}

func (r *Renderer) canonical(id string) string {
	if r.site.BaseURL == "" {
		return ""
	}
	return r.site.BaseURL + "/" + id + "/"
}

func (r *Renderer) jsonLD(p Page) (template.JS, error) {
	doc := map[string]any{
		"@context":     "https://schema.org",
		"@type":        "Article",
		"headline":     p.Record.Title,
		"description":  p.Record.Description,
		"keywords":     p.Record.Keywords,
		"dateModified": p.Record.LastUpdated,
		"author": map[string]string{
			"@type": "Organization",
			"name":  r.site.Organization,
		},
	}
	if u := r.canonical(p.ID); u != "" {
		doc["url"] = u
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode json-ld: %w", err)
	}
	// #nosec G203 -- json.Marshal escapes <, > and &
	return template.JS(data), nil
}

func navLink(id string) *Link {
	if id == "" {
		return nil
	}
	return &Link{Href: PageHref(id), Title: corpus.Title(id)}
}

// related links the record's related sections that have a folder.
func related(p Page) []Link {
	out := make([]Link, 0, len(p.Record.RelatedSections))
	for _, sec := range p.Record.RelatedSections {
		if id, ok := p.Folders[sec]; ok && id != p.ID {
			out = append(out, Link{Href: PageHref(id), Title: corpus.Title(id)})
		}
	}
	return out
}
