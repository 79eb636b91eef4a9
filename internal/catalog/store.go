package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store holds the current catalog snapshot. Readers call Load once per
// request and keep using that snapshot; Swap replaces the whole catalog
// atomically so no reader can observe a partial update.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a Store holding c.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *Catalog {
	return s.current.Load()
}

// Swap installs c and returns the previous snapshot. A nil catalog is
// refused so the store never becomes empty.
func (s *Store) Swap(c *Catalog) (*Catalog, error) {
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("%w: refusing to install an empty catalog", ErrInvalidCatalog)
	}
	return s.current.Swap(c), nil
}

// reloadDebounce collapses the burst of events editors emit on save.
const reloadDebounce = 200 * time.Millisecond

// Watch reloads the catalog file at path whenever it changes and swaps the
// result into s. A file that fails to load is logged and the previous
// catalog stays in place. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, s *Store, reload func() (*Catalog, error), logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching agent catalog", zap.String("path", target))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			next, err := reload()
			if err != nil {
				logger.Error("catalog reload failed, keeping previous catalog",
					zap.String("path", target), zap.Error(err))
				continue
			}
			prev, err := s.Swap(next)
			if err != nil {
				logger.Error("catalog swap refused", zap.Error(err))
				continue
			}
			logger.Info("agent catalog reloaded",
				zap.Int("agents", next.Len()),
				zap.String("revision", next.Revision()),
				zap.String("previous_revision", prev.Revision()),
				zap.String("load_id", next.LoadID()))
		}
	}
}
