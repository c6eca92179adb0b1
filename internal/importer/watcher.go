package importer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Records files a watcher emits by default (lowercase, without '.').
var defaultRecordExts = map[string]struct{}{
	"json": {},
}

// WatchConfig controls a drop-directory watch: feeds land records files in
// the roots and every settled file becomes one import session.
type WatchConfig struct {
	Roots       []string
	AllowedExts map[string]struct{}
	// emit files already present when the watch starts
	InitialScan bool
	// coalesce rapid write bursts so half-written files are not emitted
	Debounce time.Duration
}

// StartWatcher emits the path of each new or rewritten records file under
// the roots. Both channels close when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no watch roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = defaultRecordExts
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create watcher", "error", err)
		return nil, nil, err
	}

	pathCh := make(chan string, 256)
	errCh := make(chan error, 1)

	// Register roots recursively; optionally emit files already there.
	addRoot := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && watchable(path, cfg.AllowedExts) {
				select {
				case pathCh <- path:
				default:
				}
			}
			return nil
		})
	}
	for _, root := range cfg.Roots {
		if err := addRoot(root); err != nil {
			logger.Error("failed to watch root directory", "root", root, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(pathCh)
		defer close(errCh)
		defer func() { _ = w.Close() }()

		// The pending map is only touched from this goroutine; the debounce
		// timer signals a flush instead of flushing itself.
		var timer *time.Timer
		pending := map[string]struct{}{}
		flushCh := make(chan struct{}, 1)
		requestFlush := func() {
			select {
			case flushCh <- struct{}{}:
			default:
			}
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case <-flushCh:
				for p := range pending {
					select {
					case pathCh <- p:
					default:
					}
					delete(pending, p)
				}
			case e := <-w.Events:
				if e.Op&fsnotify.Create == fsnotify.Create {
					// new subdirectories join the watch
					if fi, statErr := os.Stat(e.Name); statErr == nil && fi.IsDir() {
						if addErr := w.Add(e.Name); addErr != nil {
							logger.Warn("failed to watch new directory", "path", e.Name, "error", addErr)
						}
					}
				}

				if watchable(e.Name, cfg.AllowedExts) && e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					pending[e.Name] = struct{}{}
					if cfg.Debounce > 0 {
						if timer != nil {
							timer.Stop()
						}
						timer = time.AfterFunc(cfg.Debounce, requestFlush)
					} else {
						requestFlush()
					}
				}
			case err := <-w.Errors:
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return pathCh, errCh, nil
}

func watchable(path string, exts map[string]struct{}) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := exts[ext]
	return ok
}
