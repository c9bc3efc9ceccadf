package commands

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/knowledgelib/internal/cache"
	"git.home.luguber.info/inful/knowledgelib/internal/config"
	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
	"git.home.luguber.info/inful/knowledgelib/internal/review"
	"git.home.luguber.info/inful/knowledgelib/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output string `short:"o" help:"Output directory, overrides output.directory"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if w.Output != "" {
		cfg.Output.Directory = w.Output
	}

	rendered := cache.New[content.Rendered]()
	env, err := newBuildEnv(g, cfg, rendered)
	if err != nil {
		return err
	}
	defer env.close(g)

	watcher, err := watch.New(watch.Options{
		Root:     cfg.Library.Root,
		Ignore:   ignoredPaths(cfg),
		Debounce: cfg.Watch.Debounce,
		Interval: cfg.Watch.Interval,
		Logger:   g.logger(),
	}, func(ctx context.Context) error {
		rep, err := env.builder.Build(ctx)
		env.afterBuild(g)
		if err != nil {
			return err
		}
		printReport(g, rep)
		stats := rendered.Stats()
		g.logger().Debug("Render cache", logfields.Count(stats.Entries), slog.Int("hits", stats.Hits))
		return nil
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	g.printf("Watching %s (output %s); press Ctrl+C to stop\n", env.builder.Root(), env.builder.OutputDir())
	return watcher.Run(ctx)
}

// ignoredPaths lists the files a build writes, so builds never retrigger themselves.
func ignoredPaths(cfg *config.Config) []string {
	paths := []string{
		cfg.Output.Directory,
		cfg.NavigationPath(),
		filepath.Join(cfg.Library.Root, review.FileName),
	}
	for _, p := range []string{cfg.State.Database, cfg.Metrics.Textfile} {
		if p != "" {
			paths = append(paths, p, p+"-journal", p+"-wal")
		}
	}
	return paths
}
