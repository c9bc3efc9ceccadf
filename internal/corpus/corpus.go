// Package corpus discovers the numbered document folders of a library.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ReadmeName is the source document inside each folder.
const ReadmeName = "README.md"

// Prefix bounds for folders that belong to the corpus.
const (
	MinPrefix = 1
	MaxPrefix = 49
)

var folderPattern = regexp.MustCompile(`^\d{2}_.+$`)

// Document is one numbered folder of the library.
type Document struct {
	ID        string // folder name, e.g. "03_Budget_Planning"
	SectionID string // numeric prefix, e.g. "03"
	Dir       string // absolute folder path
}

// Source is the raw README of a document.
type Source struct {
	Path    string
	Content []byte
	Present bool
}

// MatchesPattern reports whether name has the `NN_title` shape, regardless of range.
func MatchesPattern(name string) bool {
	return folderPattern.MatchString(name)
}

// IsDocumentFolder reports whether name is part of the corpus: `NN_title`
// with NN between MinPrefix and MaxPrefix.
func IsDocumentFolder(name string) bool {
	if !MatchesPattern(name) {
		return false
	}
	n, err := strconv.Atoi(name[:2])
	if err != nil {
		return false
	}
	return n >= MinPrefix && n <= MaxPrefix
}

// SectionID returns the text before the first underscore.
func SectionID(folder string) string {
	id, _, _ := strings.Cut(folder, "_")
	return id
}

// TitleWords returns the folder name without its prefix, split on underscores.
func TitleWords(folder string) []string {
	_, rest, ok := strings.Cut(folder, "_")
	if !ok {
		rest = folder
	}
	words := make([]string, 0)
	for w := range strings.SplitSeq(rest, "_") {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Title returns the folder name without its prefix, underscores as spaces.
func Title(folder string) string {
	return strings.Join(TitleWords(folder), " ")
}

// Discover lists the corpus folders directly under root in lexicographic order.
func Discover(root string) ([]Document, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve library root: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read library root: %w", err)
	}

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || !IsDocumentFolder(e.Name()) {
			continue
		}
		docs = append(docs, Document{
			ID:        e.Name(),
			SectionID: SectionID(e.Name()),
			Dir:       filepath.Join(abs, e.Name()),
		})
	}
	slices.SortFunc(docs, func(a, b Document) int { return strings.Compare(a.ID, b.ID) })
	return docs, nil
}

// PatternFolders lists every `NN_title` directory under root, including
// those outside the corpus prefix range.
func PatternFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read library root: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && MatchesPattern(e.Name()) {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out, nil
}

// IDs returns the document ids in order.
func IDs(docs []Document) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

// ReadmePath returns the README location for the document.
func (d Document) ReadmePath() string {
	return filepath.Join(d.Dir, ReadmeName)
}

// ReadSource reads the document README. A missing README is not an error.
func (d Document) ReadSource() (Source, error) {
	path := d.ReadmePath()
	// #nosec G304 -- path is built from a discovered corpus folder
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Source{Path: path}, nil
	}
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Source{Path: path, Content: data, Present: true}, nil
}
