package im

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const maxConcurrentReads = 16

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandSources turns file paths and doublestar globs into a de-duplicated
// list of paths. Each glob's matches are sorted; argument order is kept.
// Glob matches for which exclude returns true are dropped.
func expandSources(patterns []string, exclude func(string) bool) ([]string, error) {
	seen := map[string]bool{}
	var paths []string

	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, pattern := range patterns {
		if !isGlob(pattern) {
			add(pattern)
			continue
		}
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("error expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if exclude != nil && exclude(m) {
				continue
			}
			add(m)
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	return paths, nil
}

// readSources reads paths concurrently and writes their contents to buf
// in order. Sizes are checked against the input limit before anything is read.
func (c *Config) readSources(ctx context.Context, paths []string, buf *InputBuffer) error {
	var total int64
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return &InputError{Err: fmt.Errorf("error reading file %s: %w", path, err)}
		}
		total += fi.Size()
		if c.MaxInputBytes > 0 && total > c.MaxInputBytes {
			return &InputError{Err: ErrInputTooLarge}
		}
	}

	contents := make([][]byte, len(paths))
	sem := semaphore.NewWeighted(maxConcurrentReads)
	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return fmt.Errorf("error acquiring semaphore: %w", err)
			}
			defer sem.Release(1)

			content, err := os.ReadFile(path)
			if err != nil {
				return &InputError{Err: fmt.Errorf("error reading file %s: %w", path, err)}
			}
			contents[i] = content
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, content := range contents {
		if _, err := buf.Write(content); err != nil {
			return err
		}
	}
	return nil
}
