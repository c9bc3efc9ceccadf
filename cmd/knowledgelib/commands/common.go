package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/knowledgelib/internal/buildstore"
	"git.home.luguber.info/inful/knowledgelib/internal/cache"
	"git.home.luguber.info/inful/knowledgelib/internal/config"
	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
	"git.home.luguber.info/inful/knowledgelib/internal/metrics"
	"git.home.luguber.info/inful/knowledgelib/internal/pipeline"
	"git.home.luguber.info/inful/knowledgelib/internal/render"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer // user-facing output
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./knowledgelib.yaml when present)"`
	Root    string           `short:"r" help:"Library root, overrides library.root"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Render every document and validate the output"`
	Validate ValidateCmd `cmd:"" help:"Validate sources, navigation and optionally built pages"`
	Nav      NavCmd      `cmd:"" help:"Regenerate navigation.json from the corpus folders"`
	Metadata MetadataCmd `cmd:"" help:"Manage the library metadata table"`
	Review   ReviewCmd   `cmd:"" help:"Write the system review report"`
	History  HistoryCmd  `cmd:"" help:"List recorded builds"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild on source changes"`
	Init     InitCmd     `cmd:"" help:"Write a configuration file with defaults"`
	Section  SectionCmd  `cmd:"" help:"Create or check a single section"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(g.out(), format, args...)
}

// loadConfig loads the configuration and applies global overrides.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if root.Root != "" {
		cfg.Library.Root = root.Root
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// buildEnv holds the optional collaborators of a build.
type buildEnv struct {
	builder  *pipeline.Builder
	store    *buildstore.Store
	recorder *metrics.PrometheusRecorder
	textfile string
}

func newBuildEnv(g *Global, cfg *config.Config, c *cache.Cache[content.Rendered]) (*buildEnv, error) {
	env := &buildEnv{textfile: cfg.Metrics.Textfile}
	opts := pipeline.Options{
		Root:               cfg.Library.Root,
		OutputDir:          cfg.Output.Directory,
		StaticDir:          cfg.StaticPath(),
		MetadataPath:       cfg.MetadataPath(),
		NavigationPath:     cfg.NavigationPath(),
		Clean:              cfg.Output.Clean,
		Workers:            cfg.Build.Workers,
		PageExtension:      cfg.Build.PageExtension,
		HighlightStyle:     cfg.Build.HighlightStyle,
		MinContentLength:   cfg.Build.MinContentLength,
		RequiredSections:   cfg.Build.RequiredSections,
		ResourceExtensions: cfg.Build.ResourceExtensions,
		Site: render.Site{
			Title:        cfg.Site.Title,
			Organization: cfg.Site.Organization,
			Copyright:    cfg.Site.Copyright,
			BaseURL:      cfg.Site.BaseURL,
		},
		Cache:  c,
		Logger: g.logger(),
	}
	if env.textfile != "" {
		env.recorder = metrics.NewPrometheusRecorder(nil)
		opts.Recorder = env.recorder
	}
	if cfg.State.Database != "" {
		store, err := buildstore.Open(cfg.State.Database)
		if err != nil {
			return nil, err
		}
		env.store = store
		opts.History = store
	}
	b, err := pipeline.New(opts)
	if err != nil {
		env.close(g)
		return nil, err
	}
	env.builder = b
	return env, nil
}

// afterBuild exports metrics; failures are logged, never fatal.
func (e *buildEnv) afterBuild(g *Global) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.WriteTextfile(e.textfile); err != nil {
		g.logger().Warn("Failed to write metrics textfile", logfields.Path(e.textfile), logfields.Error(err))
	}
}

func (e *buildEnv) close(g *Global) {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		g.logger().Warn("Failed to close build store", logfields.Error(err))
	}
}

func printReport(g *Global, rep *pipeline.Report) {
	cached := 0
	for _, d := range rep.Documents {
		if d.Cached {
			cached++
		}
	}
	g.printf("Build %s: %s\n", rep.BuildID, rep.Status())
	g.printf("  documents: %d (cached %d, failed %d)\n", len(rep.Documents), cached, rep.Failed())
	g.printf("  issues: %d errors, %d warnings\n", rep.ErrorCount(), rep.WarningCount())
	for _, d := range rep.Documents {
		if d.Err != nil {
			g.printf("  %s: %v\n", d.ID, d.Err)
		}
		for _, issue := range d.Issues().Issues {
			g.printf("  %s\n", issue)
		}
	}
	for _, issue := range rep.Corpus.Issues {
		g.printf("  %s\n", issue)
	}
}

func validationFailed(message string, errorCount int) error {
	return errors.NewError(errors.CategoryValidation, message).WithContext("errors", errorCount).Build()
}
