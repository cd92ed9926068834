package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/binzume/ifcconv/config"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// watch converts every .ifc file under dir once, then again on each
// create or write event until ctx is cancelled. Events for the same file
// are debounced.
func watch(ctx context.Context, cfg *config.Config, dir, format string) error {
	if strings.EqualFold(strings.TrimPrefix(format, "."), "ifc") {
		return errors.New("watch: output format must differ from the input")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, dir); err != nil {
		return err
	}

	pending := map[string]bool{}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && isIFC(path) {
			pending[path] = true
		}
		return nil
	})
	slog.Info("watcher: started", slog.String("root", dir))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watcher: stopped")
			return nil

		case <-timer.C:
			for path := range pending {
				output := outputFile(path, filepath.Dir(path), format)
				if err := convertFile(cfg, path, output); err != nil {
					slog.Warn("watcher: convert failed", slog.String("path", path), slog.String("error", err.Error()))
				}
			}
			pending = map[string]bool{}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						slog.Warn("watcher: add new dir failed", slog.String("path", ev.Name), slog.String("error", addErr.Error()))
					}
					continue
				}
			}
			if !isIFC(ev.Name) || ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			pending[ev.Name] = true
			timer.Reset(watchDebounce)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func isIFC(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ifc")
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
