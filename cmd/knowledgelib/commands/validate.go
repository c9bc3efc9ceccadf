package commands

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/frontmatter"
	"git.home.luguber.info/inful/knowledgelib/internal/library"
	"git.home.luguber.info/inful/knowledgelib/internal/navigation"
	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

// ValidateCmd implements the 'validate' command. It checks sources without rendering.
type ValidateCmd struct {
	Pages bool `help:"Also check the rendered pages in the output directory"`
}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if _, err := library.Load(cfg.MetadataPath()); err != nil {
		return err
	}

	docs, err := corpus.Discover(cfg.Library.Root)
	if err != nil {
		return err
	}
	expander, err := content.NewExpander(cfg.Library.Root)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "resolve library root").Build()
	}
	validator := validation.NewContentValidator(expander.Root(),
		validation.WithMinLength(cfg.Build.MinContentLength),
		validation.WithRequiredSections(cfg.Build.RequiredSections),
	)

	var rep validation.Report
	for _, doc := range docs {
		src, err := doc.ReadSource()
		if err != nil {
			return err
		}
		if !src.Present {
			continue
		}
		_, body := frontmatter.Parse(src.Content)
		expanded, _ := expander.Expand(body, doc.Dir)
		rep.Merge(validator.ValidateExpanded(body, expanded, doc.Dir, doc.ID))
	}

	nav, found, err := navigation.Load(cfg.NavigationPath())
	if err != nil {
		return err
	}
	outputDir := ""
	if v.Pages {
		outputDir = cfg.Output.Directory
		rep.Merge(checkPages(outputDir, corpus.IDs(docs)))
	}
	if found {
		rep.Merge(validation.CheckCorpus(corpus.IDs(docs), nav, outputDir))
	} else {
		g.printf("No %s found; run 'knowledgelib nav' first\n", filepath.Base(cfg.NavigationPath()))
	}

	for _, issue := range rep.Issues {
		g.printf("%s\n", issue)
	}
	g.printf("%d documents checked: %d errors, %d warnings\n", len(docs), rep.ErrorCount(), rep.WarningCount())
	if rep.HasErrors() || !found {
		return validationFailed("validation failed", rep.ErrorCount())
	}
	return nil
}

func checkPages(outputDir string, ids []string) validation.Report {
	var rep validation.Report
	for _, id := range ids {
		page := filepath.Join(outputDir, id, validation.OutputPage)
		if _, err := os.Stat(page); err != nil {
			continue // reported by the corpus check
		}
		rep.Merge(validation.CheckOutputPage(page, outputDir, id))
	}
	return rep
}
