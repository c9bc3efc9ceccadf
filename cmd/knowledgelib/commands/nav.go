package commands

import (
	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/navigation"
)

// NavCmd implements the 'nav' command.
type NavCmd struct {
	Check bool `help:"Only report whether the persisted table is up to date"`
}

func (n *NavCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	docs, err := corpus.Discover(cfg.Library.Root)
	if err != nil {
		return err
	}
	table := navigation.Build(corpus.IDs(docs))
	path := cfg.NavigationPath()

	if n.Check {
		current, found, err := navigation.Load(path)
		if err != nil {
			return err
		}
		if !found || !current.Equal(table) {
			g.printf("%s is out of date\n", path)
			return validationFailed("navigation is out of date", 1)
		}
		g.printf("%s is up to date (%d documents)\n", path, len(table))
		return nil
	}

	changed, err := navigation.Save(path, table)
	if err != nil {
		return err
	}
	if changed {
		g.printf("Wrote %s (%d documents)\n", path, len(table))
	} else {
		g.printf("%s unchanged (%d documents)\n", path, len(table))
	}
	return nil
}
