// Package watch rebuilds the site when content changes or on a schedule.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one build. Its error is logged and watching continues.
type BuildFunc func(ctx context.Context) error

// Options configure a Watcher.
type Options struct {
	// Root is the content directory watched recursively.
	Root     string
	Debounce time.Duration
	// Schedule is an optional cron expression for periodic rebuilds.
	Schedule string
	// Exclude lists directories and files whose events never trigger a
	// rebuild.
	Exclude []string
}

// Watcher runs builds one at a time. While a build runs at most one further
// build is queued; extra requests collapse into it.
type Watcher struct {
	opts     Options
	build    BuildFunc
	logger   *slog.Logger
	requests chan string

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Watcher.
func New(opts Options, build BuildFunc, logger *slog.Logger) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts.Root = absPath(opts.Root)
	exclude := make([]string, len(opts.Exclude))
	for i, p := range opts.Exclude {
		exclude[i] = absPath(p)
	}
	opts.Exclude = exclude
	return &Watcher{
		opts:     opts,
		build:    build,
		logger:   logger,
		requests: make(chan string, 1),
	}
}

// absPath makes event names and exclusions comparable.
func absPath(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Request queues a build. It returns false when one is already pending.
func (w *Watcher) Request(reason string) bool {
	select {
	case w.requests <- reason:
		return true
	default:
		w.logger.Debug("Rebuild already pending", slog.String("reason", reason))
		return false
	}
}

// Trigger queues a build once no further Trigger calls arrive for the
// debounce period.
func (w *Watcher) Trigger(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.Request(reason) })
}

// Run builds once, then rebuilds on changes until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.FileSystemError("failed to create file watcher").WithCause(err).Build()
	}
	defer func() { _ = fsw.Close() }()

	if err := w.addDirs(fsw, w.opts.Root); err != nil {
		return err
	}

	if w.opts.Schedule != "" {
		sched, err := w.startSchedule()
		if err != nil {
			return err
		}
		defer func() { _ = sched.Shutdown() }()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.loop(ctx)
	}()

	w.Request("initial")
	w.logger.Info("Watching for changes", logfields.Dir(w.opts.Root), slog.String("schedule", w.opts.Schedule))

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			wg.Wait()
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				w.stopTimer()
				wg.Wait()
				return nil
			}
			w.handleEvent(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				continue
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// loop consumes build requests sequentially until ctx is done.
func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-w.requests:
			start := time.Now()
			w.logger.Info("Rebuilding site", slog.String("reason", reason))
			if err := w.build(ctx); err != nil {
				w.logger.Warn("Rebuild failed", logfields.Error(err))
				continue
			}
			w.logger.Info("Rebuild finished",
				logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		}
	}
}

func (w *Watcher) startSchedule() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.InternalError("failed to create scheduler").WithCause(err).Build()
	}
	_, err = sched.NewJob(
		gocron.CronJob(w.opts.Schedule, false),
		gocron.NewTask(func() { w.Request("schedule") }),
		gocron.WithName("scheduled-rebuild"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid rebuild schedule").
			WithContext("schedule", w.opts.Schedule).
			Build()
	}
	sched.Start()
	return sched, nil
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if w.ignored(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirs(fsw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.Trigger("change")
}

func (w *Watcher) addDirs(fsw *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || w.excluded(path)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", logfields.Dir(path), logfields.Error(err))
		}
		return nil
	})
	if err != nil {
		return ferrors.FileSystemError("failed to watch content root").WithCause(err).
			WithContext("root", root).
			Build()
	}
	return nil
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) excluded(path string) bool {
	for _, dir := range w.opts.Exclude {
		if rel, err := filepath.Rel(dir, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignored reports events from hidden, editor temp or excluded files.
func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return w.excluded(path)
}
