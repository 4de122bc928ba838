// Package watch converts videos as they are dropped into a directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/five82/video2gif/internal/config"
	"github.com/five82/video2gif/internal/discovery"
	apperrors "github.com/five82/video2gif/internal/errors"
	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/processing"
)

// DefaultDebounce is how long a file must stay quiet before it is converted.
const DefaultDebounce = 2 * time.Second

const queueSize = 256

// Converter runs one conversion.
type Converter interface {
	Convert(ctx context.Context, inputPath string, handler processing.EventHandler) *processing.Result
}

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Config   *config.EffectiveConfig
	Logger   *logging.Logger
	// Handler receives the events of every conversion.
	Handler processing.EventHandler
	// OnResult is called after each conversion.
	OnResult func(*processing.Result)
}

// Watcher converts new or rewritten videos in one directory.
type Watcher struct {
	dir      string
	conv     Converter
	debounce time.Duration
	cfg      *config.EffectiveConfig
	log      *logging.Logger
	handler  processing.EventHandler
	onResult func(*processing.Result)
}

// New creates a watcher for dir. The directory is not recursed into.
func New(dir string, conv Converter, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Config == nil {
		opts.Config = config.Defaults()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Global()
	}
	if opts.Handler == nil {
		opts.Handler = processing.NopHandler
	}
	return &Watcher{
		dir:      dir,
		conv:     conv,
		debounce: opts.Debounce,
		cfg:      opts.Config,
		log:      opts.Logger.WithComponent("watch"),
		handler:  opts.Handler,
		onResult: opts.OnResult,
	}
}

// Run watches until ctx is cancelled. Conversions run one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.NewIOError("cannot start file watcher", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("cannot watch %s", w.dir), err)
	}
	w.log.Info("watching for videos", "dir", w.dir, "debounce", w.debounce)

	queue := make(chan string, queueSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range queue {
			if ctx.Err() != nil {
				continue
			}
			w.convert(ctx, path)
		}
	}()
	defer func() {
		close(queue)
		wg.Wait()
	}()

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(w.debounce/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.accepts(ev) {
				w.log.Debug("file event", "op", ev.Op.String(), "path", ev.Name)
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)

		case now := <-ticker.C:
			for _, path := range due(pending, now, w.debounce) {
				select {
				case queue <- path:
				default:
					w.log.Warn("conversion queue full, dropping file", "path", path)
				}
			}
		}
	}
}

func (w *Watcher) accepts(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	return w.cfg.IsVideoExtension(filepath.Ext(ev.Name))
}

func (w *Watcher) convert(ctx context.Context, path string) {
	if !discovery.IsVideoFile(path, w.cfg) {
		w.log.Debug("skipping vanished file", "path", path)
		return
	}
	w.log.Info("converting", "path", path)
	res := w.conv.Convert(ctx, path, w.handler)
	if w.onResult != nil {
		w.onResult(res)
	}
}

// due removes and returns, in name order, the paths quiet for at least d.
func due(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var ready []string
	for path, seen := range pending {
		if now.Sub(seen) >= d {
			ready = append(ready, path)
			delete(pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
