// Package watcher indexes notes as they change inside a vault directory.
//
// The watcher subscribes to fsnotify events for every non-hidden directory
// under the vault root, debounces bursts of writes per file and hands the
// settled file to an IndexService. The vector store is append-only, so
// removals and renames are logged but not applied.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driving"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is indexed.
const DefaultDebounce = 300 * time.Millisecond

// DefaultExtensions lists the file types indexed when none are configured.
var DefaultExtensions = []string{".md", ".txt"}

// Config configures a Watcher.
type Config struct {
	// Root is the vault directory to watch.
	Root string

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Extensions are matched case-insensitively, with the leading dot.
	Extensions []string
}

// Event describes the outcome of handling one settled file.
type Event struct {
	// Path is vault-relative with forward slashes.
	Path   string
	Chunks int
	Err    error
}

// Watcher watches a vault and indexes changed notes.
type Watcher struct {
	root       string
	debounce   time.Duration
	extensions []string
	index      driving.IndexService
	onEvent    func(Event)

	ready chan struct{}
	done  chan struct{} // closed when Run returns
	due   chan settled
	// pending is owned by the Run loop.
	pending map[string]*pendingFile
}

type pendingFile struct {
	timer *time.Timer
	gen   uint64
}

type settled struct {
	path string
	gen  uint64
}

// New creates a watcher for cfg.Root. The root must be an existing directory.
func New(index driving.IndexService, cfg Config) (*Watcher, error) {
	if index == nil {
		return nil, fmt.Errorf("watcher: index service: %w", domain.ErrInvalidInput)
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolving %s: %w", cfg.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watcher: %s is not a directory: %w", root, domain.ErrInvalidInput)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	normalised := make([]string, len(exts))
	for i, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		normalised[i] = e
	}

	return &Watcher{
		root:       root,
		debounce:   debounce,
		extensions: normalised,
		index:      index,
		ready:      make(chan struct{}),
		done:       make(chan struct{}),
		due:        make(chan settled),
		pending:    make(map[string]*pendingFile),
	}, nil
}

// Root returns the absolute vault path.
func (w *Watcher) Root() string {
	return w.root
}

// OnEvent registers a callback invoked after each indexing attempt.
// Must be called before Run.
func (w *Watcher) OnEvent(fn func(Event)) {
	w.onEvent = fn
}

// Ready is closed once the initial directory tree is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the vault until ctx is cancelled or fsnotify shuts down.
// A Watcher runs once.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.done)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}
	logger.Info("Watching %s", w.root)
	close(w.ready)

	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		case s := <-w.due:
			p, ok := w.pending[s.path]
			if !ok || p.gen != s.gen {
				continue
			}
			delete(w.pending, s.path)
			w.indexFile(ctx, s.path)
		}
	}
}

// Scan indexes every matching file already in the vault.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	files := 0
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("watcher: scanning %s: %v", path, err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != w.root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.matches(path) {
			return nil
		}
		files++
		w.indexFile(ctx, path)
		return nil
	})
	return files, err
}

func (w *Watcher) handle(ctx context.Context, fsw *fsnotify.Watcher, ev fsnotify.Event) {
	rel, ok := w.relative(ev.Name)
	if !ok || hiddenPath(rel) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(fsw, ev.Name); err != nil {
				logger.Warn("watcher: %v", err)
			}
			return
		}
	}

	if !w.matches(ev.Name) {
		return
	}

	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		w.cancel(ev.Name)
		logger.Info("Removed %s (stored chunks are kept)", rel)
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		w.schedule(ctx, ev.Name)
	}
}

// schedule (re)starts the quiet period for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	p, ok := w.pending[path]
	if ok {
		p.timer.Stop()
		p.gen++
	} else {
		p = &pendingFile{}
		w.pending[path] = p
	}
	s := settled{path: path, gen: p.gen}
	p.timer = time.AfterFunc(w.debounce, func() { w.deliver(ctx, s) })
}

// deliver hands a settled file to the Run loop. It gives up once the loop
// has returned, since nothing would ever receive.
func (w *Watcher) deliver(ctx context.Context, s settled) bool {
	select {
	case w.due <- s:
		return true
	case <-ctx.Done():
	case <-w.done:
	}
	return false
}

func (w *Watcher) cancel(path string) {
	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) stopTimers() {
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) indexFile(ctx context.Context, path string) {
	rel, _ := w.relative(path)
	ev := Event{Path: rel}

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("watcher: %s vanished before indexing", rel)
		return
	case err != nil:
		ev.Err = fmt.Errorf("reading %s: %w", rel, err)
	default:
		doc := &domain.Document{
			URL:     rel,
			Content: string(content),
		}
		chunks, ierr := w.index.IndexDocument(ctx, doc)
		ev.Chunks = len(chunks)
		ev.Err = ierr
	}

	if ev.Err != nil {
		logger.Warn("watcher: indexing %s: %v", rel, ev.Err)
	} else {
		logger.Info("Indexed %s (%d chunks)", rel, ev.Chunks)
	}
	if w.onEvent != nil {
		w.onEvent(ev)
	}
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watcher: watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) matches(path string) bool {
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(path)))
}

// relative returns path relative to the vault root in POSIX form.
func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// hiddenPath reports whether any element of a relative POSIX path is hidden.
func hiddenPath(rel string) bool {
	return slices.ContainsFunc(strings.Split(rel, "/"), isHidden)
}
