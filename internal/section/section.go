// Package section creates and checks single document folders of a library.
package section

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/frontmatter"
	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
	"git.home.luguber.info/inful/knowledgelib/internal/library"
	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

// ImagesDir is created empty in every new section.
const ImagesDir = "images"

var prefixPattern = regexp.MustCompile(`^\d{2}$`)

// Skeleton describes a section to create.
type Skeleton struct {
	ID          string // "07" or a full folder name such as "07_Home_Networking"
	Title       string
	Description string
	Sections    []string // required headings, each written with a placeholder paragraph
	MinLength   int
}

// Validate checks the skeleton before anything is written.
func (s Skeleton) Validate() error {
	return ozzo.ValidateStruct(&s,
		ozzo.Field(&s.ID, ozzo.Required, ozzo.By(func(any) error {
			if !corpus.IsDocumentFolder(s.Folder()) {
				return fmt.Errorf("must be a prefix between %02d and %02d", corpus.MinPrefix, corpus.MaxPrefix)
			}
			return nil
		})),
		ozzo.Field(&s.Title, ozzo.Required),
	)
}

// Folder returns the directory name of the section.
func (s Skeleton) Folder() string {
	if !prefixPattern.MatchString(s.ID) {
		return s.ID
	}
	words := strings.Fields(s.Title)
	if len(words) == 0 {
		return s.ID
	}
	return s.ID + "_" + strings.Join(words, "_")
}

func (s Skeleton) description() string {
	if d := strings.TrimSpace(s.Description); d != "" {
		return d
	}
	return "An overview of " + s.Title + "."
}

// Readme renders the initial README with frontmatter.
func (s Skeleton) Readme() ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n", s.Title, s.description())
	for _, name := range s.Sections {
		fmt.Fprintf(&b, "\n## %s\n\nWrite the %s of %s here.\n", name, strings.ToLower(name), s.Title)
	}
	if n := utf8.RuneCountInString(b.String()); n < s.MinLength {
		fmt.Fprintf(&b, "\n%s\n", filler(s.MinLength-n))
	}

	fields := frontmatter.Fields{
		"title":       s.Title,
		"subtitle":    "Essential Resources for " + s.Title,
		"description": s.description(),
		"keywords":    keywords(s.Title),
	}
	return frontmatter.Compose(fields, []byte(b.String()))
}

func keywords(title string) []string {
	out := make([]string, 0)
	for w := range strings.FieldsSeq(strings.ToLower(title)) {
		out = append(out, w)
	}
	return out
}

// filler returns placeholder text of at least n characters.
func filler(n int) string {
	const sentence = "Replace this placeholder with the section text."
	parts := make([]string, 0, n/len(sentence)+1)
	for total := 0; total < n; total += len(sentence) + 1 {
		parts = append(parts, sentence)
	}
	return strings.Join(parts, " ")
}

// Create writes a new section folder under root and returns its path.
// A folder with the same numeric prefix must not exist.
func Create(root string, s Skeleton) (string, error) {
	if err := s.Validate(); err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "invalid section").Build()
	}
	folder := s.Folder()
	prefix := corpus.SectionID(folder)

	existing, err := corpus.PatternFolders(root)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "list library folders").
			WithContext("root", root).Build()
	}
	for _, name := range existing {
		if corpus.SectionID(name) == prefix {
			return "", errors.NewError(errors.CategoryValidation, fmt.Sprintf("Section %s already exists", prefix)).
				WithContext("folder", name).Build()
		}
	}

	readme, err := s.Readme()
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "render section README").Build()
	}
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(filepath.Join(dir, ImagesDir), 0o750); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "create section folder").
			WithContext("path", dir).Build()
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, corpus.ReadmeName), readme); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "write section README").
			WithContext("path", dir).Build()
	}
	return dir, nil
}

// Find resolves ref, a folder name or numeric prefix, to a corpus document.
func Find(root, ref string) (corpus.Document, error) {
	docs, err := corpus.Discover(root)
	if err != nil {
		return corpus.Document{}, err
	}
	for _, d := range docs {
		if d.ID == ref || d.SectionID == ref {
			return d, nil
		}
	}
	return corpus.Document{}, errors.NewError(errors.CategoryNotFound, fmt.Sprintf("Section %s does not exist", ref)).
		WithContext("root", root).Build()
}

// Checker validates one section folder.
type Checker struct {
	Expander  *content.Expander
	Validator *validation.ContentValidator
	Table     library.Table
}

// Check reports missing files, content issues of the README and a missing
// library metadata entry.
func (c Checker) Check(doc corpus.Document) (validation.Report, error) {
	var rep validation.Report
	src, err := doc.ReadSource()
	if err != nil {
		return rep, err
	}
	if !src.Present {
		rep.Issues = append(rep.Issues, validation.Issue{
			Kind:     validation.KindCorpus,
			Message:  "Missing required file: " + corpus.ReadmeName,
			Location: doc.ID,
			Severity: validation.SeverityError,
		})
		return rep, nil
	}

	_, body := frontmatter.Parse(src.Content)
	expanded, _ := c.Expander.Expand(body, doc.Dir)
	rep.Merge(c.Validator.ValidateExpanded(body, expanded, doc.Dir, doc.ID))

	if _, err := os.Stat(filepath.Join(doc.Dir, ImagesDir)); stderrors.Is(err, fs.ErrNotExist) {
		rep.Issues = append(rep.Issues, validation.Issue{
			Kind:     validation.KindCorpus,
			Message:  "Missing " + ImagesDir + " folder",
			Location: doc.ID,
			Severity: validation.SeverityWarning,
		})
	}
	if _, ok := c.Table.Lookup(doc.SectionID); !ok {
		rep.Issues = append(rep.Issues, validation.Issue{
			Kind:     validation.KindCorpus,
			Message:  fmt.Sprintf("No library metadata entry for section %s", doc.SectionID),
			Location: doc.ID,
			Severity: validation.SeverityWarning,
		})
	}
	return rep, nil
}
