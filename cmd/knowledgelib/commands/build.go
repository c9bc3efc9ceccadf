package commands

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Output directory, overrides output.directory"`
	Clean   bool   `help:"Remove the output directory before building"`
	Workers int    `short:"w" help:"Worker count, overrides build.workers"`
	Strict  bool   `help:"Exit non-zero when validation reports errors"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Clean {
		cfg.Output.Clean = true
	}
	if b.Workers > 0 {
		cfg.Build.Workers = b.Workers
	}

	env, err := newBuildEnv(g, cfg, nil)
	if err != nil {
		return err
	}
	defer env.close(g)

	ctx, stop := signalContext()
	defer stop()

	rep, err := env.builder.Build(ctx)
	env.afterBuild(g)
	if err != nil {
		return err
	}
	printReport(g, rep)
	g.printf("Site written to %s\n", env.builder.OutputDir())

	if b.Strict && rep.ErrorCount() > 0 {
		return validationFailed("build reported validation errors", rep.ErrorCount())
	}
	return nil
}
