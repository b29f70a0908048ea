// Package inbox imports Markdown documents dropped into a directory as
// notes with derived tasks, then removes them.
package inbox

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/noteflow/internal/parser"
	"github.com/starford/noteflow/internal/storage"
)

// ImportFunc stores one parsed document.
type ImportFunc func(ctx context.Context, doc *parser.Result) error

// Importer moves documents from the inbox into the workspace.
type Importer struct {
	store    storage.Provider
	importFn ImportFunc
	logger   *slog.Logger
	settle   time.Duration
}

// New creates an importer reading from store.
func New(store storage.Provider, fn ImportFunc, logger *slog.Logger) *Importer {
	return &Importer{
		store:    store,
		importFn: fn,
		logger:   logger,
		settle:   250 * time.Millisecond,
	}
}

// Sweep imports every document currently waiting, oldest first, and
// returns how many were imported.
func (im *Importer) Sweep(ctx context.Context) (int, error) {
	entries, err := im.store.List()
	if err != nil {
		return 0, err
	}
	imported := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return imported, ctx.Err()
		}
		if err := im.ImportFile(ctx, e.Path); err != nil {
			im.logger.Warn("inbox: import failed", slog.String("path", e.Path), slog.String("error", err.Error()))
			continue
		}
		imported++
	}
	return imported, nil
}

// ImportFile imports a single document. On success the file is deleted; a
// document that cannot be imported is moved under storage.FailedDir next to
// a ".err" file describing why.
func (im *Importer) ImportFile(ctx context.Context, rel string) error {
	data, err := im.store.Read(rel)
	if err != nil {
		return err
	}
	doc, err := parser.Parse(rel, data)
	if err == nil {
		err = im.importFn(ctx, doc)
	}
	if err != nil {
		if ctx.Err() == nil {
			im.quarantine(rel, err)
		}
		return fmt.Errorf("inbox: %s: %w", rel, err)
	}
	if err := im.store.Delete(rel); err != nil {
		return err
	}
	im.logger.Info("inbox: imported",
		slog.String("path", rel),
		slog.String("subject", doc.Subject),
		slog.Int("tasks", len(doc.ActionItems)))
	return nil
}

func (im *Importer) quarantine(rel string, cause error) {
	dst := filepath.Join(storage.FailedDir, rel)
	if err := im.store.Move(rel, dst); err != nil {
		im.logger.Error("inbox: quarantine failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if err := im.store.Write(dst+".err", []byte(cause.Error()+"\n")); err != nil {
		im.logger.Warn("inbox: write error note failed", slog.String("path", rel), slog.String("error", err.Error()))
	}
}

// Watch runs an fsnotify watcher on root until ctx is cancelled. Any
// change to a Markdown file schedules a sweep once the directory has been
// quiet for a short while, so half-written files are not picked up.
func (im *Importer) Watch(ctx context.Context, root string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	im.logger.Info("inbox: watching", slog.String("root", root))

	var settleTimer *time.Timer
	var settleCh <-chan time.Time
	schedule := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(im.settle)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(im.settle)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			im.logger.Info("inbox: stopped")
			return nil

		case <-settleCh:
			settleTimer, settleCh = nil, nil
			if n, err := im.Sweep(ctx); err != nil && ctx.Err() == nil {
				im.logger.Warn("inbox: sweep failed", slog.String("error", err.Error()))
			} else if n > 0 {
				im.logger.Debug("inbox: sweep done", slog.Int("imported", n))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if skipDir(root, ev.Name) {
						continue
					}
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						im.logger.Warn("inbox: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule()
					continue
				}
			}
			if !strings.HasSuffix(ev.Name, ".md") || strings.HasPrefix(filepath.Base(ev.Name), ".") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			im.logger.Error("inbox: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

func skipDir(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return true
	}
	return rel == storage.FailedDir || strings.HasPrefix(filepath.Base(dir), ".")
}

// addDirsRecursive adds root and its subdirectories, except the failed
// and hidden ones, to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(root, path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
