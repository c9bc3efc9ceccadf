// Package review audits a built library: corpus files, rendered pages,
// metadata coverage and navigation consistency.
package review

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
	"git.home.luguber.info/inful/knowledgelib/internal/library"
	"git.home.luguber.info/inful/knowledgelib/internal/navigation"
	"git.home.luguber.info/inful/knowledgelib/internal/util/sets"
	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

// FileName is the report written next to the library.
const FileName = "SYSTEM_REVIEW_REPORT.json"

// Options locates the inputs of a review.
type Options struct {
	Root           string
	OutputDir      string
	MetadataPath   string
	NavigationPath string
	Clock          func() time.Time
}

// Check is one pass/fail item.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Blocks counts the corpus folders and what they contain.
type Blocks struct {
	Total      int `json:"total_blocks"`
	WithReadme int `json:"blocks_with_readme"`
	WithIndex  int `json:"blocks_with_index"`
}

// Health is the aggregate of all checks.
type Health struct {
	TotalChecks    int     `json:"total_checks"`
	PassedChecks   int     `json:"passed_checks"`
	PassPercentage float64 `json:"pass_percentage"`
}

// Report is the serialized review.
type Report struct {
	GeneratedAt string  `json:"generated_at"`
	Blocks      Blocks  `json:"knowledge_block_validation"`
	Checks      []Check `json:"checks"`
	Health      Health  `json:"system_health"`
}

// Passed reports whether every check passed.
func (r Report) Passed() bool { return r.Health.PassedChecks == r.Health.TotalChecks }

// Run performs the review. Unreadable corpus files fail their checks
// instead of aborting; only an unreadable library root is an error.
func Run(opts Options) (Report, error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	docs, err := corpus.Discover(opts.Root)
	if err != nil {
		return Report{}, err
	}
	ids := corpus.IDs(docs)

	r := Report{GeneratedAt: clock().UTC().Format(time.RFC3339)}
	r.add("navigation_file_present", fileExists(opts.NavigationPath), opts.NavigationPath)
	r.add("metadata_file_present", fileExists(opts.MetadataPath), opts.MetadataPath)

	r.Blocks = countBlocks(docs, opts.OutputDir)
	r.add("blocks_present", r.Blocks.Total > 0, "")
	r.add("blocks_have_readme", r.Blocks.WithReadme == r.Blocks.Total,
		fmt.Sprintf("%d of %d", r.Blocks.WithReadme, r.Blocks.Total))
	r.add("blocks_have_page", r.Blocks.WithIndex == r.Blocks.Total,
		fmt.Sprintf("%d of %d", r.Blocks.WithIndex, r.Blocks.Total))

	r.checkMetadata(opts.MetadataPath, docs)
	r.checkNavigation(opts.NavigationPath, ids)

	r.Health.TotalChecks = len(r.Checks)
	for _, c := range r.Checks {
		if c.Passed {
			r.Health.PassedChecks++
		}
	}
	if r.Health.TotalChecks > 0 {
		r.Health.PassPercentage = float64(r.Health.PassedChecks) / float64(r.Health.TotalChecks) * 100
	}
	return r, nil
}

func (r *Report) add(name string, passed bool, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed, Detail: detail})
}

func countBlocks(docs []corpus.Document, outputDir string) Blocks {
	b := Blocks{Total: len(docs)}
	for _, d := range docs {
		if fileExists(d.ReadmePath()) {
			b.WithReadme++
		}
		if outputDir != "" && fileExists(filepath.Join(outputDir, d.ID, validation.OutputPage)) {
			b.WithIndex++
		}
	}
	return b
}

func (r *Report) checkMetadata(path string, docs []corpus.Document) {
	table, err := library.Load(path)
	if err != nil {
		r.add("metadata_valid", false, err.Error())
		return
	}
	r.add("metadata_valid", true, "")

	sections := sets.New[string]()
	var missing []string
	for _, d := range docs {
		sections.Add(d.SectionID)
		if _, ok := table.Lookup(d.SectionID); !ok {
			missing = append(missing, d.SectionID)
		}
	}
	r.add("metadata_covers_blocks", len(missing) == 0, joinDetail("missing", missing))

	orphans := sets.Sorted(sets.New(table.SectionIDs()...).Difference(sections))
	r.add("metadata_without_orphans", len(orphans) == 0, joinDetail("orphaned", orphans))
}

func (r *Report) checkNavigation(path string, ids []string) {
	nav, found, err := navigation.Load(path)
	switch {
	case err != nil:
		r.add("navigation_matches_corpus", false, err.Error())
	case !found:
		r.add("navigation_matches_corpus", false, "navigation file missing")
	default:
		ok := nav.Equal(navigation.Build(ids))
		detail := ""
		switch {
		case ok:
		case slices.Equal(nav.IDs(), ids):
			detail = "navigation links are out of order"
		default:
			detail = "navigation ids differ from corpus folders"
		}
		r.add("navigation_matches_corpus", ok, detail)
	}
}

// Write stores the report as indented JSON.
func Write(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode review: %w", err)
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'))
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func joinDetail(label string, ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return label + ": " + strings.Join(ids, ", ")
}
