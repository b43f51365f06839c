// Package inbox watches a directory for manuscripts and converts each one
// to a GeoJSON map of its locations once writes to it settle.
package inbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/locations"
)

const (
	// DefaultDebounce is how long a file must be quiet before it is processed.
	DefaultDebounce = 500 * time.Millisecond
	// OutputExt is the extension of converted maps.
	OutputExt = ".geojson"
)

// Handler processes one settled manuscript.
type Handler func(ctx context.Context, path string) error

// Stats counts watcher activity.
type Stats struct {
	Processed int
	Failed    int
	LastPath  string
	LastError string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithExtensions replaces the set of manuscript extensions. Extensions
// include the leading dot.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.exts = make(map[string]bool, len(exts))
		for _, e := range exts {
			w.exts[strings.ToLower(e)] = true
		}
	}
}

// Watcher debounces filesystem events in one directory.
type Watcher struct {
	dir      string
	handle   Handler
	debounce time.Duration
	exts     map[string]bool
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time
	stats   Stats
}

// New creates a watcher for dir. Nothing is watched until Run.
func New(dir string, handle Handler, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox: %s is not a directory", dir)
	}

	w := &Watcher{
		dir:      dir,
		handle:   handle,
		debounce: DefaultDebounce,
		exts:     map[string]bool{".txt": true, ".text": true, ".md": true},
		logger:   zap.NewNop(),
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("inbox: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("inbox: watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for manuscripts", zap.String("dir", w.dir))

	tick := w.debounce / 5
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.observe(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// observe records creates and writes of manuscripts for later processing.
func (w *Watcher) observe(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !w.exts[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flush processes every file that has been quiet for the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		err := w.handle(ctx, path)

		w.mu.Lock()
		w.stats.LastPath = path
		if err != nil {
			w.stats.Failed++
			w.stats.LastError = err.Error()
		} else {
			w.stats.Processed++
			w.stats.LastError = ""
		}
		w.mu.Unlock()

		if err != nil {
			w.logger.Warn("manuscript failed", zap.String("path", path), zap.Error(err))
			continue
		}
		w.logger.Info("manuscript converted", zap.String("path", path))
	}
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// OutputPath returns the map path written for a manuscript.
func OutputPath(manuscript string) string {
	return strings.TrimSuffix(manuscript, filepath.Ext(manuscript)) + OutputExt
}

// Converter returns a Handler that extracts a manuscript's locations and
// writes them next to it as GeoJSON.
func Converter(ex *locations.Extractor, src locations.TextSource) Handler {
	return func(ctx context.Context, path string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		upload, err := ex.Process(ctx, src, filepath.Base(path), f, "")
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(upload.GeoJSON, "", "  ")
		if err != nil {
			return fmt.Errorf("encode geojson: %w", err)
		}
		return writeAtomic(OutputPath(path), data)
	}
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".litmap-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
