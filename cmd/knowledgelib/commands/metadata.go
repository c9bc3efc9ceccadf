package commands

import (
	"os"

	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/frontmatter"
	"git.home.luguber.info/inful/knowledgelib/internal/library"
)

// MetadataCmd groups the metadata table commands.
type MetadataCmd struct {
	Init MetadataInitCmd `cmd:"" help:"Derive a metadata table from the corpus"`
}

// MetadataInitCmd implements 'metadata init'.
type MetadataInitCmd struct {
	Force bool `short:"f" help:"Overwrite an existing metadata file"`
}

func (m *MetadataInitCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	path := cfg.MetadataPath()
	if _, err := os.Stat(path); err == nil && !m.Force {
		return errors.ConfigError("metadata file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}

	docs, err := corpus.Discover(cfg.Library.Root)
	if err != nil {
		return err
	}
	sections := make([]library.Section, 0, len(docs))
	for _, doc := range docs {
		src, err := doc.ReadSource()
		if err != nil {
			return err
		}
		s := library.Section{ID: doc.SectionID}
		if src.Present {
			_, s.Readme = frontmatter.Parse(src.Content)
		}
		sections = append(sections, s)
	}

	table := library.Derive(sections)
	if err := library.Save(path, table); err != nil {
		return err
	}
	g.printf("Wrote %s (%d sections)\n", path, len(table))
	return nil
}
