package commands

import (
	"git.home.luguber.info/inful/knowledgelib/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `short:"f" help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = config.DefaultFileName
	}
	cfg := config.Default()
	if root.Root != "" {
		cfg.Library.Root = root.Root
	}
	if err := config.Write(path, cfg, i.Force); err != nil {
		return err
	}
	g.printf("Configuration written to %s\n", path)
	return nil
}
