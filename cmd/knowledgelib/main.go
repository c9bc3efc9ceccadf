package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/knowledgelib/cmd/knowledgelib/commands"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("knowledgelib"),
		kong.Description("Build, validate and review a numbered knowledge library."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
