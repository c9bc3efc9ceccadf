package commands

import (
	"path/filepath"

	"git.home.luguber.info/inful/knowledgelib/internal/review"
)

// ReviewCmd implements the 'review' command.
type ReviewCmd struct {
	Report string `help:"Report path (default: <library root>/SYSTEM_REVIEW_REPORT.json)"`
}

func (r *ReviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	rep, err := review.Run(review.Options{
		Root:           cfg.Library.Root,
		OutputDir:      cfg.Output.Directory,
		MetadataPath:   cfg.MetadataPath(),
		NavigationPath: cfg.NavigationPath(),
	})
	if err != nil {
		return err
	}

	path := r.Report
	if path == "" {
		path = filepath.Join(cfg.Library.Root, review.FileName)
	}
	if err := review.Write(path, rep); err != nil {
		return err
	}

	for _, c := range rep.Checks {
		mark := "ok"
		if !c.Passed {
			mark = "FAIL"
		}
		if c.Detail != "" {
			g.printf("  %-4s %s: %s\n", mark, c.Name, c.Detail)
		} else {
			g.printf("  %-4s %s\n", mark, c.Name)
		}
	}
	g.printf("System health: %d/%d checks passed (%.1f%%)\n",
		rep.Health.PassedChecks, rep.Health.TotalChecks, rep.Health.PassPercentage)
	g.printf("Report written to %s\n", path)

	if !rep.Passed() {
		return validationFailed("system review failed", rep.Health.TotalChecks-rep.Health.PassedChecks)
	}
	return nil
}
