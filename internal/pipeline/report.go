package pipeline

import (
	"time"

	"git.home.luguber.info/inful/knowledgelib/internal/buildstore"
	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
	"git.home.luguber.info/inful/knowledgelib/internal/metadata"
	"git.home.luguber.info/inful/knowledgelib/internal/render"
	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

// DocumentReport is the outcome of one document.
type DocumentReport struct {
	ID          string
	Record      metadata.Record
	Cached      bool
	Placeholder bool // README absent
	Resources   int
	Assets      int // image files copied next to the page
	Validation  validation.Report // source checks
	Output      validation.Report // rendered page checks
	Err         error             // page not written
}

// Issues merges the source and output checks.
func (d DocumentReport) Issues() validation.Report {
	var r validation.Report
	r.Merge(d.Validation)
	r.Merge(d.Output)
	return r
}

// Report summarizes a build.
type Report struct {
	BuildID           string
	StartedAt         time.Time
	Duration          time.Duration
	Revision          string
	Documents         []DocumentReport // corpus order
	Corpus            validation.Report
	Findings          []content.Finding
	NavigationChanged bool
	StaticFiles       int
}

// Failed counts documents whose page was not written.
func (r *Report) Failed() int {
	n := 0
	for _, d := range r.Documents {
		if d.Err != nil {
			n++
		}
	}
	return n
}

// All returns every validation issue of the build.
func (r *Report) All() validation.Report {
	var all validation.Report
	for _, d := range r.Documents {
		all.Merge(d.Issues())
	}
	all.Merge(r.Corpus)
	return all
}

// ErrorCount counts error issues across the build.
func (r *Report) ErrorCount() int { return r.All().ErrorCount() }

// WarningCount counts warning issues across the build.
func (r *Report) WarningCount() int { return r.All().WarningCount() }

// Status is failed when a page is missing or any error was found, warning
// when only warnings were found.
func (r *Report) Status() buildstore.Status {
	all := r.All()
	switch {
	case r.Failed() > 0 || all.HasErrors():
		return buildstore.StatusFailed
	case all.WarningCount() > 0:
		return buildstore.StatusWarning
	default:
		return buildstore.StatusSuccess
	}
}

// Record converts the report for the build store.
func (r *Report) Record() buildstore.BuildRecord {
	rec := buildstore.BuildRecord{
		ID:        r.BuildID,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
		Revision:  r.Revision,
		Documents: len(r.Documents),
		Failed:    r.Failed(),
		Errors:    r.ErrorCount(),
		Warnings:  r.WarningCount(),
		Status:    r.Status(),
	}
	for _, d := range r.Documents {
		issues := d.Issues()
		res := buildstore.DocumentResult{
			Document: d.ID,
			Cached:   d.Cached,
			Errors:   issues.ErrorCount(),
			Warnings: issues.WarningCount(),
			Messages: issues.Messages(),
		}
		if d.Err != nil {
			res.Failure = d.Err.Error()
		}
		rec.Results = append(rec.Results, res)
	}
	return rec
}

func (r *Report) logAttrs() []any {
	cached := 0
	for _, d := range r.Documents {
		if d.Cached {
			cached++
		}
	}
	return []any{
		logfields.Count(len(r.Documents)),
		"failed", r.Failed(),
		"cached", cached,
		"errors", r.ErrorCount(),
		"warnings", r.WarningCount(),
		"status", string(r.Status()),
		logfields.DurationMS(float64(r.Duration.Microseconds()) / 1000),
	}
}

func homeEntries(docs []DocumentReport) []render.HomeEntry {
	out := make([]render.HomeEntry, 0, len(docs))
	for _, d := range docs {
		if d.Err != nil {
			continue
		}
		out = append(out, render.HomeEntry{ID: d.ID, Title: d.Record.Title, Description: d.Record.Description})
	}
	return out
}
