package validation

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/knowledgelib/internal/markdown"
)

// Defaults for content checks.
const DefaultMinContentLength = 100

// DefaultRequiredSections are the headings every document must carry.
var DefaultRequiredSections = []string{"Introduction", "Content", "Summary"}

// ContentValidator checks a markdown body with frontmatter removed.
type ContentValidator struct {
	root             string
	minLength        int
	requiredSections []string
}

// ContentOption configures a ContentValidator.
type ContentOption func(*ContentValidator)

// WithMinLength sets the character floor below which a warning is raised.
func WithMinLength(n int) ContentOption {
	return func(v *ContentValidator) {
		if n > 0 {
			v.minLength = n
		}
	}
}

// WithRequiredSections replaces the required heading list.
func WithRequiredSections(sections []string) ContentOption {
	return func(v *ContentValidator) {
		if len(sections) > 0 {
			v.requiredSections = sections
		}
	}
}

// NewContentValidator checks links against the library root.
func NewContentValidator(root string, opts ...ContentOption) *ContentValidator {
	v := &ContentValidator{
		root:             root,
		minLength:        DefaultMinContentLength,
		requiredSections: DefaultRequiredSections,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Check runs every content check and returns (passed, messages).
func (v *ContentValidator) Check(body []byte, docDir string) (bool, []string) {
	return v.Validate(body, docDir, "").Result()
}

// Validate runs every content check against one body. docDir is the folder
// of the document and location labels the issues.
func (v *ContentValidator) Validate(body []byte, docDir, location string) Report {
	return v.ValidateExpanded(body, body, docDir, location)
}

// ValidateExpanded checks emptiness, length, required sections and heading
// hierarchy on expanded, the body with include directives replaced, and
// links on source, the body as written.
func (v *ContentValidator) ValidateExpanded(source, expanded []byte, docDir, location string) Report {
	var r Report

	if strings.TrimSpace(string(expanded)) == "" {
		r.add(KindEmpty, SeverityError, location, "Content is empty")
		return r
	}

	if utf8.RuneCount(expanded) < v.minLength {
		r.add(KindLength, SeverityWarning, location, "Content is too short (minimum %d characters)", v.minLength)
	}

	headings := markdown.Headings(expanded)
	v.checkSections(&r, headings, location)
	v.checkLinks(&r, source, docDir, location)
	checkHierarchy(&r, headings, location)

	return r
}

func (v *ContentValidator) checkSections(r *Report, headings []markdown.Heading, location string) {
	fold := cases.Fold()
	texts := make([]string, len(headings))
	for i, h := range headings {
		texts[i] = fold.String(h.Text)
	}
	for _, section := range v.requiredSections {
		want := fold.String(section)
		found := false
		for _, text := range texts {
			if strings.HasPrefix(text, want) {
				found = true
				break
			}
		}
		if !found {
			r.add(KindSection, SeverityError, location, "Missing required section: %s", section)
		}
	}
}

func (v *ContentValidator) checkLinks(r *Report, body []byte, docDir, location string) {
	for _, link := range markdown.ExtractLinks(body) {
		if link.Kind != markdown.LinkKindInline && link.Kind != markdown.LinkKindImage {
			continue
		}
		target, ok := LocalTarget(link.Destination)
		if !ok {
			continue
		}
		if !v.exists(target, docDir) {
			r.add(KindLink, SeverityError, location, "Broken internal link: %s", link.Destination)
		}
	}
}

// exists resolves target against the library root, then the document folder.
func (v *ContentValidator) exists(target, docDir string) bool {
	candidates := []string{filepath.Join(v.root, target)}
	if docDir != "" {
		candidates = append(candidates, filepath.Join(docDir, target))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return true
		}
	}
	return false
}

func checkHierarchy(r *Report, headings []markdown.Heading, location string) {
	prev := 0
	for _, h := range headings {
		if h.Level > prev+1 {
			r.add(KindHierarchy, SeverityError, location, "Invalid heading hierarchy: %s", h.Text)
		}
		prev = h.Level
	}
}

// LocalTarget returns the filesystem part of a relative link. External URLs,
// bare fragments and empty destinations report false.
func LocalTarget(dest string) (string, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "//") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return filepath.FromSlash(dest), true
	}
	if u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}
