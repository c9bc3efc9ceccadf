package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/knowledgelib/internal/buildstore"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" default:"10" help:"Number of builds to list"`
	Build string `arg:"" optional:"" help:"Show per-document results of this build"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cfg.State.Database == "" {
		return errors.ConfigError("build history is disabled (set state.database)").Build()
	}
	store, err := buildstore.Open(cfg.State.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if h.Build != "" {
		return h.showBuild(ctx, g, store)
	}

	builds, err := store.RecentBuilds(ctx, h.Limit)
	if err != nil {
		return err
	}
	if len(builds) == 0 {
		g.printf("No builds recorded\n")
		return nil
	}
	for _, b := range builds {
		rev := b.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if rev == "" {
			rev = "-"
		}
		g.printf("%s  %s  %-7s  %3d docs  %3d failed  %3d errors  %3d warnings  %s  %s\n",
			b.ID, b.StartedAt.Format(time.RFC3339), b.Status, b.Documents, b.Failed,
			b.Errors, b.Warnings, b.Duration.Round(time.Millisecond), rev)
	}
	return nil
}

func (h *HistoryCmd) showBuild(ctx context.Context, g *Global, store *buildstore.Store) error {
	results, err := store.DocumentResults(ctx, h.Build)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return errors.NewError(errors.CategoryNotFound, "no results recorded for build").
			WithContext("build_id", h.Build).Build()
	}
	for _, r := range results {
		state := "rendered"
		switch {
		case r.Failure != "":
			state = "failed"
		case r.Cached:
			state = "cached"
		}
		g.printf("%s  %-8s  %d errors  %d warnings\n", r.Document, state, r.Errors, r.Warnings)
		if r.Failure != "" {
			g.printf("    %s\n", r.Failure)
		}
		for _, m := range r.Messages {
			g.printf("    %s\n", m)
		}
	}
	return nil
}
