// Package watch rebuilds the library when its sources change and,
// optionally, on a fixed interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
)

// DefaultDebounce coalesces bursts of file events into one rebuild.
const DefaultDebounce = 500 * time.Millisecond

// BuildFunc runs one build.
type BuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	Root     string
	Ignore   []string // files and directories whose changes never trigger a build
	Debounce time.Duration
	Interval time.Duration // zero disables periodic builds
	Logger   *slog.Logger
}

// Watcher serializes builds: at most one runs at a time and requests that
// arrive meanwhile collapse into a single follow-up build.
type Watcher struct {
	root     string
	ignore   []string
	debounce time.Duration
	interval time.Duration
	logger   *slog.Logger
	build    BuildFunc

	requests chan struct{}
	builds   atomic.Int64

	mu    sync.Mutex
	timer *time.Timer
}

// New prepares a watcher over opts.Root.
func New(opts Options, build BuildFunc) (*Watcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	w := &Watcher{
		root:     root,
		debounce: opts.Debounce,
		interval: opts.Interval,
		logger:   opts.Logger,
		build:    build,
		requests: make(chan struct{}, 1),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	for _, p := range opts.Ignore {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve ignored path: %w", err)
		}
		w.ignore = append(w.ignore, abs)
	}
	return w, nil
}

// Builds returns the number of builds started so far.
func (w *Watcher) Builds() int { return int(w.builds.Load()) }

// Run builds once, then on every change until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()
	w.addDirsRecursive(fsw, w.root)

	if w.interval > 0 {
		s, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create gocron scheduler: %w", err)
		}
		if _, err := s.NewJob(
			gocron.DurationJob(w.interval),
			gocron.NewTask(w.request),
			gocron.WithName("periodic-build"),
		); err != nil {
			_ = s.Shutdown()
			return fmt.Errorf("failed to create periodic build job: %w", err)
		}
		s.Start()
		defer func() { _ = s.Shutdown() }()
	}

	done := make(chan struct{})
	go w.buildLoop(ctx, done)
	w.request()
	w.logger.Info("Watching library", logfields.Path(w.root), slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			<-done
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) buildLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.requests:
			n := w.builds.Add(1)
			w.logger.Debug("Rebuilding", logfields.Count(int(n)))
			if err := w.build(ctx); err != nil && ctx.Err() == nil {
				w.logger.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// request queues a build unless one is already queued.
func (w *Watcher) request() {
	select {
	case w.requests <- struct{}{}:
	default:
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.request)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if w.ignored(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fsw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	for _, p := range w.ignore {
		if fsutil.Within(p, abs) {
			return true
		}
	}
	return ignoredName(filepath.Base(abs))
}

// ignoredName matches hidden, editor swap and OS metadata files.
func ignoredName(base string) bool {
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"),
		base == "Thumbs.db":
		return true
	}
	return false
}
