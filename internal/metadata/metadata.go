// Package metadata resolves the complete metadata record of a document.
//
// Each field is taken from the document frontmatter, then from the library
// table entry of the document's section, then from a fallback derived from
// the folder name. Resolution never fails.
package metadata

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/frontmatter"
	"git.home.luguber.info/inful/knowledgelib/internal/library"
	"git.home.luguber.info/inful/knowledgelib/internal/util/sets"
)

// DateLayout is the format of LastUpdated.
const DateLayout = "2006-01-02"

// Fallback values used when neither frontmatter nor the library table has a field.
const (
	FallbackCategory   = "Resources"
	FallbackDifficulty = library.Beginner
)

// Record is the resolved metadata of one document.
type Record struct {
	Title           string
	Subtitle        string
	Description     string
	Keywords        []string
	Category        string
	Difficulty      string
	LastUpdated     string
	SectionID       string
	RelatedSections []string
}

// Clock returns the current time.
type Clock func() time.Time

// Enricher merges frontmatter with the library table.
type Enricher struct {
	table library.Table
	clock Clock
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithClock fixes the time source used for LastUpdated.
func WithClock(c Clock) Option {
	return func(e *Enricher) {
		if c != nil {
			e.clock = c
		}
	}
}

// NewEnricher creates an enricher over a read-only table. A nil table is empty.
func NewEnricher(table library.Table, opts ...Option) *Enricher {
	if table == nil {
		table = library.Table{}
	}
	e := &Enricher{table: table, clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns the record for the document in folder.
func (e *Enricher) Enrich(fields frontmatter.Fields, folder string) Record {
	sectionID := corpus.SectionID(folder)
	entry, _ := e.table.Lookup(sectionID)

	// a folder like "01__" has no title words
	title := firstNonEmpty(stringField(fields, "title"), corpus.Title(folder), folder)
	lowerTitle := lower(title)

	return Record{
		Title: title,
		Subtitle: firstNonEmpty(
			stringField(fields, "subtitle"),
			entry.Subtitle,
			"Resources and guides for "+lowerTitle,
		),
		Description: firstNonEmpty(
			stringField(fields, "description"),
			entry.Description,
			"Comprehensive information about "+lowerTitle,
		),
		Keywords: firstNonEmptyList(
			listField(fields, "keywords"),
			folderKeywords(folder),
		),
		Category: firstNonEmpty(
			stringField(fields, "category"),
			entry.Category,
			FallbackCategory,
		),
		Difficulty: canonicalDifficulty(firstNonEmpty(
			stringField(fields, "difficulty"),
			entry.Difficulty,
			FallbackDifficulty,
		)),
		LastUpdated: firstNonEmpty(
			dateField(fields, "last_updated"),
			e.clock().Format(DateLayout),
		),
		SectionID: sectionID,
		RelatedSections: firstNonEmptyList(
			listField(fields, "related_sections"),
			sets.Unique(entry.RelatedSections),
			[]string{},
		),
	}
}

// Casers are stateful, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func folderKeywords(folder string) []string {
	words := make([]string, 0)
	for w := range strings.SplitSeq(folder, "_") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, lower(w))
		}
	}
	return sets.Unique(words)
}

func canonicalDifficulty(v string) string {
	for _, tier := range library.Difficulties {
		if strings.EqualFold(tier, v) {
			return tier
		}
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return []string{}
}

func scalarString(v any) (string, bool) {
	switch vv := v.(type) {
	case string:
		return strings.TrimSpace(vv), true
	case int, int64, float64, bool:
		return fmt.Sprint(vv), true
	case time.Time:
		return vv.Format(DateLayout), true
	default:
		return "", false
	}
}

func stringField(fields frontmatter.Fields, key string) string {
	s, _ := scalarString(fields[key])
	return s
}

func dateField(fields frontmatter.Fields, key string) string {
	switch v := fields[key].(type) {
	case time.Time:
		return v.Format(DateLayout)
	case string:
		s := strings.TrimSpace(v)
		if t, err := time.Parse(DateLayout, s); err == nil {
			return t.Format(DateLayout)
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format(DateLayout)
		}
		return s
	default:
		return ""
	}
}

// listField accepts a sequence of scalars or a comma-separated string.
func listField(fields frontmatter.Fields, key string) []string {
	var raw []string
	switch v := fields[key].(type) {
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := scalarString(item); ok {
				raw = append(raw, s)
			}
		}
	default:
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return sets.Unique(out)
}
