package commands

import (
	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/library"
	"git.home.luguber.info/inful/knowledgelib/internal/section"
	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

// SectionCmd groups the single-section commands.
type SectionCmd struct {
	New   SectionNewCmd   `cmd:"" help:"Create a section folder with a README skeleton"`
	Check SectionCheckCmd `cmd:"" help:"Check one section folder"`
}

// SectionNewCmd implements 'section new'.
type SectionNewCmd struct {
	ID          string `arg:"" help:"Numeric prefix (07) or full folder name (07_Home_Networking)"`
	Title       string `required:"" help:"Section title"`
	Description string `help:"One-line description"`
}

func (s *SectionNewCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	dir, err := section.Create(cfg.Library.Root, section.Skeleton{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Sections:    cfg.Build.RequiredSections,
		MinLength:   cfg.Build.MinContentLength,
	})
	if err != nil {
		return err
	}
	g.printf("Created %s\n", dir)
	return nil
}

// SectionCheckCmd implements 'section check'.
type SectionCheckCmd struct {
	ID string `arg:"" help:"Numeric prefix or folder name of the section"`
}

func (s *SectionCheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	table, err := library.Load(cfg.MetadataPath())
	if err != nil {
		return err
	}
	doc, err := section.Find(cfg.Library.Root, s.ID)
	if err != nil {
		return err
	}
	expander, err := content.NewExpander(cfg.Library.Root)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "resolve library root").Build()
	}
	checker := section.Checker{
		Expander: expander,
		Validator: validation.NewContentValidator(expander.Root(),
			validation.WithMinLength(cfg.Build.MinContentLength),
			validation.WithRequiredSections(cfg.Build.RequiredSections),
		),
		Table: table,
	}

	rep, err := checker.Check(doc)
	if err != nil {
		return err
	}
	for _, issue := range rep.Issues {
		g.printf("%s\n", issue)
	}
	if rep.HasErrors() {
		return validationFailed("section check failed", rep.ErrorCount())
	}
	g.printf("Section %s is valid (%d warnings)\n", doc.ID, rep.WarningCount())
	return nil
}
