// Package watch reloads a settings schema directory into a live panel when its
// files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/goliatone/go-settingsgen/pkg/schema"
)

// DefaultDebounce is how long the directory must stay quiet before a reload.
const DefaultDebounce = 250 * time.Millisecond

// Target receives reloaded documents. *panel.Panel satisfies it.
type Target interface {
	ReplaceDocument(doc *schema.Document) error
}

// LoadFunc reads the schema directory.
type LoadFunc func(dir string) (*schema.Document, error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger routes watcher diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLoader replaces the directory loader.
func WithLoader(fn LoadFunc) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.load = fn
		}
	}
}

// WithOnReload registers a callback invoked after every reload attempt with
// the error that rejected it, or nil.
func WithOnReload(fn func(error)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Stats summarises watcher activity.
type Stats struct {
	Events    int
	Reloads   int
	Failures  int
	LastError string
	LastEvent time.Time
}

// Watcher debounces fsnotify events on one directory and pushes the reloaded
// document to its target. Invalid documents leave the previous schema live.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	target   Target
	load     LoadFunc
	logger   *zap.Logger
	debounce time.Duration
	onReload func(error)

	pending   bool
	lastEvent time.Time
	stats     Stats

	running bool
	closed  bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New prepares a watcher for dir. Call Start to begin watching.
func New(dir string, target Target, options ...Option) (*Watcher, error) {
	if dir == "" {
		return nil, errors.New("watch: directory is required")
	}
	if target == nil {
		return nil, errors.New("watch: target is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	w := &Watcher{
		watcher:  fsw,
		dir:      dir,
		target:   target,
		load:     loadDir,
		logger:   zap.NewNop(),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w, nil
}

func loadDir(dir string) (*schema.Document, error) {
	return schema.LoadFS(os.DirFS(dir))
}

// Start begins watching. It returns once the directory tree is registered; events
// are processed until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errors.New("watch: watcher is stopped")
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if err := w.addTree(w.dir); err != nil {
		w.mu.Unlock()
		return err
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("watching schema directory", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))
	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the fsnotify watcher. It is safe to
// call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	if running {
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Error("close watcher", zap.Error(err))
	}
	w.logger.Info("schema watcher stopped", zap.String("dir", w.dir))
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch context cancelled")
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		case now := <-ticker.C:
			if w.due(now) {
				w.reload()
			}
		}
	}
}

// addTree registers root and every directory below it. fsnotify does not
// recurse, and schema.LoadFS reads nested files.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("watch: add %s: %w", path, walkErr)
		}
		if !entry.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) && !schema.IsSchemaFile(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
			w.markPending(event)
			return
		}
	}
	if !schema.IsSchemaFile(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.markPending(event)
}

func (w *Watcher) markPending(event fsnotify.Event) {
	w.logger.Debug("schema file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending = true
	w.lastEvent = time.Now()
	w.stats.Events++
	w.stats.LastEvent = w.lastEvent
	w.mu.Unlock()
}

func (w *Watcher) due(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pending || now.Sub(w.lastEvent) < w.debounce {
		return false
	}
	w.pending = false
	return true
}

func (w *Watcher) reload() {
	err := w.apply()

	w.mu.Lock()
	if err != nil {
		w.stats.Failures++
		w.stats.LastError = err.Error()
	} else {
		w.stats.Reloads++
		w.stats.LastError = ""
	}
	w.mu.Unlock()

	if w.onReload != nil {
		w.onReload(err)
	}
}

func (w *Watcher) apply() error {
	doc, err := w.load(w.dir)
	if err != nil {
		w.logger.Warn("schema reload rejected; previous schema stays live", zap.String("dir", w.dir), zap.Error(err))
		return err
	}
	if err := w.target.ReplaceDocument(doc); err != nil {
		w.logger.Warn("schema reload rejected; previous schema stays live", zap.String("dir", w.dir), zap.Error(err))
		return err
	}
	w.logger.Info("schema reloaded",
		zap.String("dir", w.dir),
		zap.Int("settings", len(doc.Settings)),
		zap.Int("groups", len(doc.Groups)))
	return nil
}
