package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Holder publishes the current catalog. Readers get an immutable snapshot;
// reloads swap the pointer.
type Holder struct {
	cur     atomic.Pointer[Catalog]
	reloads atomic.Int64

	// OnReload, when set before Watch, runs after every successful reload.
	OnReload func(*Catalog)
}

// NewHolder returns a Holder serving c.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.cur.Store(c)
	return h
}

// Current returns the catalog in effect.
func (h *Holder) Current() *Catalog {
	return h.cur.Load()
}

// Reloads returns how many successful reloads have happened.
func (h *Holder) Reloads() int64 {
	return h.reloads.Load()
}

// Reload loads path and swaps it in if it validates. The previous catalog
// stays in effect on error.
func (h *Holder) Reload(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	h.cur.Store(c)
	h.reloads.Add(1)
	if h.OnReload != nil {
		h.OnReload(c)
	}
	return nil
}

// Watch reloads path whenever it changes until ctx is cancelled. The parent
// directory is watched so editors that replace the file are seen.
func (h *Holder) Watch(ctx context.Context, path string, log *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return fmt.Errorf("catalog path: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDebounce)
				} else {
					timer.Reset(reloadDebounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				if err := h.Reload(abs); err != nil {
					log.Warn("catalog reload failed, keeping previous", "path", abs, "error", err)
					continue
				}
				c := h.Current()
				log.Info("catalog reloaded", "path", abs, "name", c.Name, "version", c.Version, "targets", len(c.Targets))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("catalog watcher error", "error", err)
			}
		}
	}()
	return nil
}
