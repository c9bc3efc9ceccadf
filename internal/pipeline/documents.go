package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/knowledgelib/internal/cache"
	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/frontmatter"
	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
	"git.home.luguber.info/inful/knowledgelib/internal/metrics"
	"git.home.luguber.info/inful/knowledgelib/internal/render"
)

func (b *Builder) stageDocuments(ctx context.Context, bs *buildState) error {
	concurrency := min(b.opts.Workers, len(bs.docs))
	if concurrency < 1 {
		concurrency = 1
	}
	b.recorder.SetWorkers(concurrency)
	b.logger.Debug("Rendering documents", logfields.Workers(concurrency), logfields.Count(len(bs.docs)))

	reports := make([]DocumentReport, len(bs.docs))
	type docTask struct{ index int }
	tasks := make(chan docTask)
	var wg sync.WaitGroup
	var mu sync.Mutex
	worker := func() {
		defer wg.Done()
		for task := range tasks {
			select {
			case <-ctx.Done():
				return
			default:
			}
			start := time.Now()
			rep := b.processDocument(bs, bs.docs[task.index])
			b.recordDocument(rep, time.Since(start))
			mu.Lock()
			reports[task.index] = rep
			mu.Unlock()
		}
	}
	wg.Add(concurrency)
	for range concurrency {
		go worker()
	}
	for i := range bs.docs {
		select {
		case <-ctx.Done():
			close(tasks)
			wg.Wait()
			return canceled(StageDocuments, ctx.Err())
		case tasks <- docTask{index: i}:
		}
	}
	close(tasks)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return canceled(StageDocuments, err)
	}

	bs.report.Documents = reports
	return nil
}

func (b *Builder) recordDocument(rep DocumentReport, d time.Duration) {
	attrs := []any{logfields.Document(rep.ID), logfields.DurationMS(float64(d.Microseconds()) / 1000)}
	switch {
	case rep.Err != nil:
		b.recorder.IncDocumentResult(metrics.DocumentFailed)
		b.logger.Error("Document failed", append(attrs, logfields.Error(rep.Err))...)
	case rep.Cached:
		b.recorder.IncDocumentResult(metrics.DocumentCached)
		b.logger.Debug("Document rendered from cache", attrs...)
	default:
		b.recorder.IncDocumentResult(metrics.DocumentRendered)
		b.logger.Debug("Document rendered", attrs...)
	}
}

// processDocument never panics the pool; every failure is reported on the result.
func (b *Builder) processDocument(bs *buildState, doc corpus.Document) (rep DocumentReport) {
	rep = DocumentReport{ID: doc.ID}
	defer func() {
		if r := recover(); r != nil {
			rep.Err = fmt.Errorf("render %s: panic: %v", doc.ID, r)
		}
	}()

	src, err := doc.ReadSource()
	if err != nil {
		rep.Err = err
		return rep
	}
	fields, body := frontmatter.Parse(src.Content)
	rep.Record = bs.enricher.Enrich(fields, doc.ID)

	page := render.Page{
		ID:      doc.ID,
		Record:  rep.Record,
		Folders: bs.folders,
		Content: Placeholder,
	}
	page.Previous, page.Next = bs.nav.Neighbours(doc.ID)

	if src.Present {
		res, err := bs.transformer.Transform(content.Input{
			ID:          doc.ID,
			Dir:         doc.Dir,
			Body:        body,
			Fingerprint: cache.Fingerprint("", string(body)),
		})
		if err != nil {
			rep.Err = err
			return rep
		}
		rep.Cached = res.Cached
		rep.Validation = res.Validation
		page.Content = res.HTML
		page.Outline = res.Outline
	} else {
		rep.Placeholder = true
	}

	listing, err := bs.gatherer.Scan(doc.Dir)
	if err != nil {
		rep.Err = err
		return rep
	}
	page.Resources = listing.HTML()

	outDir := filepath.Join(b.opts.OutputDir, doc.ID)
	for _, name := range listing.Names() {
		if err := fsutil.CopyFile(filepath.Join(doc.Dir, name), filepath.Join(outDir, name)); err != nil {
			rep.Err = fmt.Errorf("copy resource %s: %w", name, err)
			return rep
		}
	}
	rep.Resources = len(listing.Names())

	if rep.Assets, err = copyAssets(doc.Dir, outDir, body); err != nil {
		rep.Err = err
		return rep
	}

	if err := writePage(pageFile(b.opts.OutputDir, doc.ID), func(w io.Writer) error { return b.renderer.Render(w, page) }); err != nil {
		rep.Err = err
		return rep
	}
	return rep
}
