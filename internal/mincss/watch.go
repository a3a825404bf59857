package im

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch runs RunFiles once, then again whenever one of the sources
// changes, until ctx is done. Build errors after the first are logged.
func (c *Config) Watch(ctx context.Context, patterns []string, out io.Writer) error {
	if c.OutFile == "" {
		return errors.New("watch mode requires an output file")
	}
	for _, pattern := range patterns {
		if !isGlob(pattern) && c.isOutputPath(pattern) {
			return fmt.Errorf("watch mode cannot read its own output file %s", pattern)
		}
	}
	if err := c.RunFiles(ctx, patterns, out); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchRoots(patterns) {
		if err := addDirs(watcher, dir); err != nil {
			return fmt.Errorf("error adding directories to watcher: %w", err)
		}
	}

	rebuild := make(chan struct{}, 1)
	debounced := debounce.New(watchDebounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Has(fsnotify.Create) {
				if fi, err := os.Stat(evt.Name); err == nil && fi.IsDir() {
					if err := addDirs(watcher, evt.Name); err != nil {
						c.log().Error().Err(err).Str("dir", evt.Name).Msg("error watching new directory")
					}
					continue
				}
			}
			if !evt.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) ||
				c.isOutputPath(evt.Name) || !matchesAny(patterns, evt.Name) {
				continue
			}
			c.log().Debug().Str("file", evt.Name).Str("op", evt.Op.String()).Msg("source changed")
			debounced(func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})

		case <-rebuild:
			a := time.Now()
			if err := c.RunFiles(ctx, patterns, out); err != nil {
				c.log().Error().Err(err).Msg("rebuild failed")
				continue
			}
			c.log().Info().Dur("took", time.Since(a)).Msg("rebuilt")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log().Error().Err(err).Msg("watcher error")
		}
	}
}

// watchRoots returns the directories to watch for the given patterns: the
// parent of each plain path and the static base of each glob.
func watchRoots(patterns []string) []string {
	seen := map[string]bool{}
	var roots []string
	for _, pattern := range patterns {
		var dir string
		if isGlob(pattern) {
			base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
			dir = filepath.FromSlash(base)
		} else {
			dir = filepath.Dir(pattern)
		}
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	return roots
}

func matchesAny(patterns []string, name string) bool {
	name = filepath.Clean(name)
	for _, pattern := range patterns {
		if !isGlob(pattern) {
			if filepath.Clean(pattern) == name {
				return true
			}
			continue
		}
		if ok, _ := doublestar.PathMatch(filepath.Clean(pattern), name); ok {
			return true
		}
	}
	return false
}

func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(walkedPath string, d os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if d.IsDir() {
			if err := watcher.Add(walkedPath); err != nil {
				return fmt.Errorf("error adding directory to watcher: %w", err)
			}
		}
		return nil
	})
}
