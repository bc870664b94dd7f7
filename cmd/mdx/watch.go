package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce groups editor saves that touch a file several times.
const watchDebounce = 100 * time.Millisecond

// watch recompiles documents under inputPath as they change, until ctx
// is done. Rebuilds run one at a time on the watch goroutine.
func watch(ctx context.Context, inputPath, outputDir, format string, rebuild func([]FileToCompile), env *Environment) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	baseDir := ""
	if info.IsDir() {
		baseDir = inputPath
		if err := addDirs(watcher, inputPath); err != nil {
			return fmt.Errorf("failed to setup watcher: %w", err)
		}
	} else if err := watcher.Add(filepath.Dir(inputPath)); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}

	fmt.Fprintf(env.Stderr, "Watching %s (Ctrl+C to stop)\n", inputPath)

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer
	defer debounce.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && baseDir != "" {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					_ = addDirs(watcher, event.Name)
					continue
				}
			}
			if !isRelevantEvent(event, inputPath, baseDir) {
				continue
			}
			pending[event.Name] = true
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(env.Stderr, "watch: %v\n", err)

		case <-debounce.C:
			files := pendingFiles(pending, outputDir, baseDir, format)
			pending = make(map[string]bool)
			if len(files) > 0 {
				rebuild(files)
			}
		}
	}
}

// isRelevantEvent keeps writes to documents. A single-file watch only
// reacts to that file.
func isRelevantEvent(event fsnotify.Event, inputPath, baseDir string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if baseDir == "" {
		return filepath.Clean(event.Name) == filepath.Clean(inputPath)
	}
	return looksLikeDocument(event.Name)
}

// pendingFiles turns changed paths that still exist into sorted jobs.
func pendingFiles(pending map[string]bool, outputDir, baseDir, format string) []FileToCompile {
	files := make([]FileToCompile, 0, len(pending))
	for path := range pending {
		if st, err := os.Stat(path); err != nil || st.IsDir() {
			continue
		}
		files = append(files, FileToCompile{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, baseDir, format),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].InputPath < files[j].InputPath })
	return files
}

// addDirs watches root and its subdirectories, skipping hidden ones.
func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
