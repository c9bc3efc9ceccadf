package pipeline

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

// validateOutput checks every written page. It runs after the document
// barrier so link targets of every page already exist.
func (b *Builder) validateOutput(ctx context.Context, bs *buildState) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.opts.Workers, 1))

	docs := bs.report.Documents
	for i := range docs {
		if docs[i].Err != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i].Output = b.checkPage(pageFile(b.opts.OutputDir, docs[i].ID), docs[i].ID)
			return nil
		})
	}

	var home validation.Report
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		home = b.checkPage(filepath.Join(b.opts.OutputDir, validation.OutputPage), validation.OutputPage)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	bs.report.Corpus.Merge(home)
	return nil
}

func (b *Builder) checkPage(path, location string) validation.Report {
	return validation.CheckOutputPage(path, b.opts.OutputDir, location)
}
