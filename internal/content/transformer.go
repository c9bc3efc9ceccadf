// Package content turns a document body into HTML: rewrites page links,
// expands include directives inside the library sandbox, converts markdown
// with goldmark and validates the source. Problems degrade output and are
// reported; they never stop a document from rendering.
package content

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/knowledgelib/internal/cache"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
	"git.home.luguber.info/inful/knowledgelib/internal/markdown"
	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

// DefaultPageExtension replaces ".md" in rewritten links.
const DefaultPageExtension = ".html"

// Input is one document to transform.
type Input struct {
	ID          string // folder name
	Dir         string // absolute folder path
	Body        []byte // markdown with frontmatter removed
	Fingerprint string // cache guard for Body; empty disables caching
}

// Rendered is the cacheable part of a transform.
type Rendered struct {
	HTML       string
	Markdown   string // body after link rewriting and include expansion
	Outline    []OutlineEntry
	Inclusions []Inclusion
}

// Result is the outcome of Transform.
type Result struct {
	Rendered
	Validation validation.Report
	Cached     bool
}

// Options configures a Transformer.
type Options struct {
	Root           string // library root, the include sandbox
	PageExtension  string
	HighlightStyle string
	Validator      *validation.ContentValidator
	Collector      *Collector
	Cache          *cache.Cache[Rendered]
	Logger         *slog.Logger
}

// Transformer is safe for concurrent use.
type Transformer struct {
	links     markdown.DestinationFunc
	expander  *Expander
	converter *Converter
	validator *validation.ContentValidator
	collector *Collector
	cache     *cache.Cache[Rendered]
	logger    *slog.Logger
}

// NewTransformer builds a transformer. Zero options fall back to defaults.
func NewTransformer(opts Options) (*Transformer, error) {
	expander, err := NewExpander(opts.Root)
	if err != nil {
		return nil, err
	}
	ext := opts.PageExtension
	if ext == "" {
		ext = DefaultPageExtension
	}
	v := opts.Validator
	if v == nil {
		v = validation.NewContentValidator(expander.Root())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{
		links:     markdown.PageLinks(ext),
		expander:  expander,
		converter: NewConverter(opts.HighlightStyle),
		validator: v,
		collector: opts.Collector,
		cache:     opts.Cache,
		logger:    logger,
	}, nil
}

// Transform converts in.Body. The rendered part comes from the cache when the
// source and its includes are unchanged. Validation is never cached: structure
// checks run on the expanded body, link checks on the source.
func (t *Transformer) Transform(in Input) (Result, error) {
	var res Result

	useCache := t.cache != nil && in.Fingerprint != ""
	if useCache {
		res.Rendered, res.Cached = t.cache.Get(in.Dir, in.Fingerprint)
	}
	if !res.Cached {
		r, err := t.render(in)
		if err != nil {
			return Result{}, err
		}
		res.Rendered = r
		if useCache {
			t.cache.Put(in.Dir, in.Fingerprint, dependencies(r.Inclusions), r)
		}
	}
	res.Validation = t.validator.ValidateExpanded(in.Body, []byte(res.Markdown), in.Dir, in.ID)

	t.publish(in.ID, res)
	return res, nil
}

func (t *Transformer) render(in Input) (Rendered, error) {
	body := markdown.RewriteLinks(in.Body, t.links)
	body, incs := t.expander.Expand(body, in.Dir)

	html, outline, err := t.converter.Convert(body)
	if err != nil {
		return Rendered{}, fmt.Errorf("convert %s: %w", in.ID, err)
	}
	return Rendered{HTML: html, Markdown: string(body), Outline: outline, Inclusions: incs}, nil
}

func (t *Transformer) publish(docID string, res Result) {
	for _, inc := range res.Inclusions {
		if inc.Err == nil {
			continue
		}
		t.logger.Warn("Include directive failed",
			logfields.Document(docID),
			logfields.Directive(inc.Raw),
			logfields.Path(inc.Resolved),
			logfields.Error(inc.Err))
		t.collector.Add(Finding{
			Document: docID,
			Kind:     FindingDirective,
			Severity: validation.SeverityWarning.String(),
			Message:  FailureMarker(inc.Kind, inc.Target),
			Path:     inc.Resolved,
		})
	}
	for _, issue := range res.Validation.Issues {
		t.logger.Warn("Content validation issue",
			logfields.Document(docID),
			logfields.Rule(string(issue.Kind)),
			logfields.Severity(issue.Severity.String()),
			slog.String("message", issue.Message))
		t.collector.Add(Finding{
			Document: docID,
			Kind:     FindingValidation,
			Severity: issue.Severity.String(),
			Message:  issue.Message,
		})
	}
}

func dependencies(incs []Inclusion) []string {
	out := make([]string, 0, len(incs))
	for _, inc := range incs {
		// the written path too, so a retargeted symlink is noticed
		for _, p := range []string{inc.Path, inc.Resolved} {
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
