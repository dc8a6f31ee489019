package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/navdesk/internal/index"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
	"github.com/MrSnakeDoc/navdesk/internal/storage"
)

const defaultDebounce = 250 * time.Millisecond

// ConfigReloader keeps the index in sync with the YAML file. It reloads on a
// ticker, on manual triggers and, when watching, on file system events.
type ConfigReloader struct {
	files         *storage.FileStore
	syncer        *RedisSyncer // nil when Redis is disabled
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	watch         bool
	debounce      time.Duration
	manualTrigger chan struct{}
	stopCh        chan struct{}
}

// NewConfigReloader creates a new reloader. syncer may be nil.
func NewConfigReloader(
	files *storage.FileStore,
	syncer *RedisSyncer,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	watch bool,
	manualTrigger chan struct{},
) *ConfigReloader {
	return &ConfigReloader{
		files:         files,
		syncer:        syncer,
		index:         idx,
		logger:        log,
		interval:      interval,
		watch:         watch,
		debounce:      defaultDebounce,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
	}
}

// Start loads the document once, then keeps reloading in the background
func (cr *ConfigReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	var events <-chan struct{}
	if cr.watch {
		ch, err := cr.watchFile(ctx)
		if err != nil {
			cr.logger.Warn("config watch disabled", logger.Error(err))
		} else {
			events = ch
		}
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			var reason string
			select {
			case <-ticker.C:
				reason = "interval"
			case <-cr.manualTrigger:
				reason = "manual"
			case <-events:
				reason = "file_changed"
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
			cr.logger.Debug("reload triggered", logger.String("reason", reason))
			if err := cr.Reload(ctx); err != nil {
				cr.logger.Error("failed to reload config", logger.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *ConfigReloader) Stop() {
	close(cr.stopCh)
}

// Reload reads the file into the index. A broken file keeps the served
// document. Without a primary file the Redis mirror is preferred over the
// fallback document.
func (cr *ConfigReloader) Reload(ctx context.Context) error {
	doc, src, err := cr.files.Load()
	if err != nil {
		return err
	}

	if src != storage.SourceFile && cr.syncer != nil {
		ok, err := cr.syncer.Sync(ctx)
		if err != nil {
			cr.logger.Warn("redis sync failed", logger.Error(err))
		}
		if ok {
			return nil
		}
	}

	cr.index.Update(doc, string(src))
	cr.logger.Info("config reloaded",
		logger.String("source", string(src)),
		logger.Int("categories", len(doc.Categories)))

	if src == storage.SourceFile && cr.syncer != nil {
		cr.syncer.Mirror(ctx, doc, string(src))
	}
	return nil
}

// Apply persists a document saved by the owner and serves it immediately
func (cr *ConfigReloader) Apply(ctx context.Context, doc *nav.Document) error {
	if err := cr.files.Save(doc); err != nil {
		return err
	}
	cr.index.Update(doc, string(storage.SourceFile))
	if cr.syncer != nil {
		cr.syncer.Mirror(ctx, doc, string(storage.SourceFile))
	}
	return nil
}

// watchFile watches the directory of the config file, since editors and
// atomic saves replace the file rather than write to it. Bursts of events
// collapse into one signal after the debounce delay.
func (cr *ConfigReloader) watchFile(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(cr.files.Path())
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	name := filepath.Base(cr.files.Path())
	signal := func() {
		select {
		case out <- struct{}{}:
		default:
		}
	}

	go func() {
		defer func() { _ = w.Close() }()
		var timer *time.Timer
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(cr.debounce, signal)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cr.logger.Warn("config watcher error", logger.Error(err))
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	cr.logger.Info("watching config file", logger.String("path", cr.files.Path()))
	return out, nil
}
