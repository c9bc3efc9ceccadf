// Package library loads the section metadata table shared by every document
// of a build.
package library

import (
	"bytes"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
)

// Difficulty tiers, lowest first.
const (
	Beginner     = "Beginner"
	Intermediate = "Intermediate"
	Advanced     = "Advanced"
	Expert       = "Expert"
)

// Difficulties lists the tiers in ascending order.
var Difficulties = []string{Beginner, Intermediate, Advanced, Expert}

// Entry is the library-wide metadata for one section id.
type Entry struct {
	Category        string   `json:"category,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty"`
	RelatedSections []string `json:"related_sections,omitempty"`
	Subtitle        string   `json:"subtitle,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// Table maps section ids to entries. It is read-only once loaded.
type Table map[string]Entry

// Lookup returns the entry for sectionID.
func (t Table) Lookup(sectionID string) (Entry, bool) {
	e, ok := t[sectionID]
	return e, ok
}

// SectionIDs returns the ids present in the table in ascending order.
func (t Table) SectionIDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("library_metadata.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("library_metadata.schema.json")
	})
	return schema, schemaErr
}

// Load reads and validates the table at path.
//
// A missing file yields an empty table. Unparseable or schema-invalid content
// is a fatal corpus error.
func Load(path string) (Table, error) {
	// #nosec G304 -- path is the configured metadata file
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return Table{}, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read library metadata").
			WithContext("path", path).Build()
	}
	return Parse(data, path)
}

// Parse decodes and validates raw table JSON. source names the input in errors.
func Parse(data []byte, source string) (Table, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryCorpus, "library metadata is not valid JSON").
			Fatal().WithContext("path", source).Build()
	}

	sch, err := compiled()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "compile library metadata schema").Build()
	}
	if err := sch.Validate(doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryCorpus, "library metadata violates schema").
			Fatal().
			WithContext("path", source).
			WithContext("issues", strings.Join(schemaIssues(err), "; ")).
			Build()
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, errors.WrapError(err, errors.CategoryCorpus, "decode library metadata").
			Fatal().WithContext("path", source).Build()
	}
	if table == nil {
		table = Table{}
	}
	return table, nil
}

// Save writes the table as indented JSON.
func Save(path string, table Table) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library metadata: %w", err)
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'))
}

func schemaIssues(err error) []string {
	var verr *jsonschema.ValidationError
	if !stderrors.As(err, &verr) {
		return []string{err.Error()}
	}
	out := make([]string, 0)
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			loc := node.InstanceLocation
			if loc == "" {
				loc = "#"
			}
			out = append(out, loc+": "+node.Message)
			return
		}
		for _, c := range node.Causes {
			walk(c)
		}
	}
	walk(verr)
	return out
}
