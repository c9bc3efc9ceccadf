// Package navigation computes and persists the previous/next chain that links
// the documents of a library in prefix order.
package navigation

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
)

// FileName is the default name of the persisted table.
const FileName = "navigation.json"

// Entry links a document to its neighbours. Nil means no neighbour.
type Entry struct {
	Previous *string `json:"previous"`
	Next     *string `json:"next"`
}

// Table maps document ids to their neighbours.
type Table map[string]Entry

// Build returns the linear chain over the corpus folders in names. Names that
// are not corpus folders are ignored. Order of names does not matter.
func Build(names []string) Table {
	ids := make([]string, 0, len(names))
	for _, n := range names {
		if corpus.IsDocumentFolder(n) {
			ids = append(ids, n)
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	table := make(Table, len(ids))
	for i, id := range ids {
		var e Entry
		if i > 0 {
			e.Previous = &ids[i-1]
		}
		if i+1 < len(ids) {
			e.Next = &ids[i+1]
		}
		table[id] = e
	}
	return table
}

// IDs returns the document ids in chain order.
func (t Table) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Neighbours returns the previous and next ids of id, empty when absent.
func (t Table) Neighbours(id string) (prev, next string) {
	e := t[id]
	if e.Previous != nil {
		prev = *e.Previous
	}
	if e.Next != nil {
		next = *e.Next
	}
	return prev, next
}

// Equal reports whether both tables describe the same chain.
func (t Table) Equal(other Table) bool {
	if len(t) != len(other) {
		return false
	}
	for id, e := range t {
		o, ok := other[id]
		if !ok || !sameRef(e.Previous, o.Previous) || !sameRef(e.Next, o.Next) {
			return false
		}
	}
	return true
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Marshal encodes the table as indented JSON with sorted keys.
func (t Table) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes the table atomically. It reports whether the file changed.
func Save(path string, t Table) (bool, error) {
	data, err := t.Marshal()
	if err != nil {
		return false, fmt.Errorf("encode navigation: %w", err)
	}
	// #nosec G304 -- path is the configured navigation file
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := fsutil.WriteFileAtomic(path, data); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "write navigation").
			WithContext("path", path).Build()
	}
	return true, nil
}

// Load reads a persisted table. A missing file reports found=false; an
// unparseable file is a fatal corpus error.
func Load(path string) (t Table, found bool, err error) {
	// #nosec G304 -- path is the configured navigation file
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return Table{}, false, nil
	}
	if err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryFileSystem, "read navigation").
			WithContext("path", path).Build()
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, true, errors.WrapError(err, errors.CategoryCorpus, "navigation file is malformed").
			Fatal().WithContext("path", path).Build()
	}
	if t == nil {
		t = Table{}
	}
	return t, true, nil
}
