package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/knowledgelib/internal/buildstore"
	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
	"git.home.luguber.info/inful/knowledgelib/internal/library"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
	"git.home.luguber.info/inful/knowledgelib/internal/metadata"
	"git.home.luguber.info/inful/knowledgelib/internal/navigation"
	"git.home.luguber.info/inful/knowledgelib/internal/resources"
	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

// Stage names, also used as metric labels.
const (
	StageLoadLibrary = "load_library"
	StageDiscover    = "discover"
	StageNavigation  = "navigation"
	StagePrepare     = "prepare_output"
	StageDocuments   = "documents"
	StageHome        = "home"
	StageValidate    = "validate"
)

type stage struct {
	name string
	run  func(context.Context, *buildState) error
}

func (b *Builder) stages() []stage {
	return []stage{
		{StageLoadLibrary, b.stageLoadLibrary},
		{StageDiscover, b.stageDiscover},
		{StageNavigation, b.stageNavigation},
		{StagePrepare, b.stagePrepareOutput},
		{StageDocuments, b.stageDocuments},
		{StageHome, b.stageHome},
		{StageValidate, b.stageValidate},
	}
}

func (b *Builder) stageLoadLibrary(_ context.Context, bs *buildState) error {
	table, err := library.Load(b.opts.MetadataPath)
	if err != nil {
		return err
	}
	bs.table = table
	bs.enricher = metadata.NewEnricher(table, metadata.WithClock(b.clock))
	return nil
}

func (b *Builder) stageDiscover(_ context.Context, bs *buildState) error {
	docs, err := corpus.Discover(b.opts.Root)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "discover documents").
			WithContext("root", b.opts.Root).Fatal().Build()
	}
	bs.docs = docs
	bs.folders = make(map[string]string, len(docs))
	for _, d := range docs {
		bs.folders[d.SectionID] = d.ID
	}
	if rev, err := buildstore.Revision(b.opts.Root); err != nil {
		b.logger.Warn("Could not read library revision", logfields.Path(b.opts.Root), logfields.Error(err))
	} else {
		bs.report.Revision = rev
	}

	validator := validation.NewContentValidator(b.opts.Root,
		validation.WithMinLength(b.opts.MinContentLength),
		validation.WithRequiredSections(b.opts.RequiredSections),
	)
	t, err := content.NewTransformer(content.Options{
		Root:           b.opts.Root,
		PageExtension:  b.opts.PageExtension,
		HighlightStyle: b.opts.HighlightStyle,
		Validator:      validator,
		Collector:      bs.collector,
		Cache:          b.opts.Cache,
		Logger:         b.logger,
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "prepare content transformer").Build()
	}
	bs.transformer = t
	bs.gatherer = resources.NewGatherer(b.opts.ResourceExtensions...)
	b.logger.Info("Discovered documents", logfields.Count(len(docs)))
	return nil
}

func (b *Builder) stageNavigation(_ context.Context, bs *buildState) error {
	bs.nav = navigation.Build(corpus.IDs(bs.docs))
	if b.opts.NavigationPath == "" {
		return nil
	}
	changed, err := navigation.Save(b.opts.NavigationPath, bs.nav)
	if err != nil {
		return err
	}
	bs.report.NavigationChanged = changed
	return nil
}

func (b *Builder) stagePrepareOutput(_ context.Context, bs *buildState) error {
	out := b.opts.OutputDir
	if fsutil.Within(out, b.opts.Root) {
		return errors.ConfigError("output directory contains the library root").
			WithContext("output", out).Fatal().Build()
	}
	if b.opts.Clean {
		if err := os.RemoveAll(out); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "clean output directory").WithContext("path", out).Build()
		}
	}
	if err := os.MkdirAll(out, fsutil.DirPerm); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").WithContext("path", out).Build()
	}

	if b.opts.StaticDir == "" {
		return nil
	}
	info, err := os.Stat(b.opts.StaticDir)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "stat static directory").WithContext("path", b.opts.StaticDir).Build()
	}
	if !info.IsDir() {
		return errors.ConfigError("static path is not a directory").WithContext("path", b.opts.StaticDir).Build()
	}
	n, err := fsutil.CopyTree(b.opts.StaticDir, filepath.Join(out, "static"))
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "copy static files").Build()
	}
	bs.report.StaticFiles = n
	return nil
}

func (b *Builder) stageHome(_ context.Context, bs *buildState) error {
	entries := homeEntries(bs.report.Documents)
	path := filepath.Join(b.opts.OutputDir, validation.OutputPage)
	if err := writePage(path, func(w io.Writer) error { return b.renderer.RenderHome(w, entries) }); err != nil {
		return errors.WrapError(err, errors.CategoryBuild, "write home page").WithContext("path", path).Build()
	}
	return nil
}

func (b *Builder) stageValidate(ctx context.Context, bs *buildState) error {
	if err := b.validateOutput(ctx, bs); err != nil {
		return canceled(StageValidate, err)
	}
	nav := bs.nav
	if b.opts.NavigationPath != "" {
		persisted, found, err := navigation.Load(b.opts.NavigationPath)
		if err != nil {
			return err
		}
		if found {
			nav = persisted
		}
	}
	bs.report.Corpus.Merge(validation.CheckCorpus(corpus.IDs(bs.docs), nav, b.opts.OutputDir))
	return nil
}

func pageFile(outputDir, id string) string {
	return filepath.Join(outputDir, id, validation.OutputPage)
}

// writePage renders into memory first so a failed render never replaces a page.
func writePage(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, buf.Bytes())
}
