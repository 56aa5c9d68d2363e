package rcc

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/netdiag/netdiag-tools/internal/logger"
)

// debounceDuration coalesces editor save bursts into one recompilation.
const debounceDuration = 500 * time.Millisecond

// watch keeps recompiling while the inputs change, until the context is done.
// Unlike one-shot mode, a failing recompilation is logged and the watcher
// keeps running so the next save gets another chance.
func (c *compiler) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		_ = watcher.Close()
	}()

	// fsnotify watches are non-recursive: resource payloads live in
	// subdirectories of the UI directory, so the whole tree is registered.
	if err = addWatchTree(watcher, c.proj.Resources.UIDir); err != nil {
		return err
	}

	if err = watcher.Add(filepath.Dir(c.proj.Resources.Manifest)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(c.proj.Resources.Manifest), err)
	}

	logger.InfoKV(ctx, "Watching for input changes", "debounce", debounceDuration)

	recompile := make(chan struct{}, 1)

	var timer *time.Timer

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !relevantEvent(event) {
				continue
			}

			// A freshly created subdirectory has to be registered itself,
			// and may already contain files that arrived with it.
			if event.Op.Has(fsnotify.Create) {
				c.watchNewDir(ctx, watcher, event.Name)
			}

			// Debounce rapid saves.
			if timer == nil {
				timer = time.AfterFunc(debounceDuration, func() {
					select {
					case recompile <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounceDuration)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorKV(ctx, "Watcher error", "error", watchErr)

		case <-recompile:
			if compileErr := c.Compile(ctx); compileErr != nil {
				logger.ErrorKV(ctx, "Recompilation failed", "error", compileErr)
				continue
			}

			logger.Info(ctx, "Recompiled generated modules")
		}
	}
}

// watchNewDir registers a just-created directory tree, best effort.
func (c *compiler) watchNewDir(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	if err = addWatchTree(watcher, path); err != nil {
		logger.WarnKV(ctx, "Unable to watch new directory", "path", path, "error", err)
	}
}

// addWatchTree registers root and every directory below it.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if !d.IsDir() {
			return nil
		}

		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}

		return nil
	})
}

// relevantEvent filters out events that cannot change compiler output.
func relevantEvent(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}
