// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package walk enumerates the regular files under a source root.
package walk

import (
	"context"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/extsort/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📄 FileTask is one regular file found under the root
type FileTask struct {
	Path    string // Absolute path
	RelPath string // Slash separated, relative to the root
	Index   int    // Discovery order, informational only
}

// 🔧 Options tunes what the walker reports
type Options struct {
	// Exclude holds doublestar patterns matched against RelPath. A matching
	// directory is not descended into.
	Exclude []string
	// Prune holds directories that are never descended into, e.g. a destination
	// root nested inside the source root.
	Prune []string
}

// 🚶 Walker walks one root
type Walker struct {
	root    string
	exclude []string
	prune   map[string]bool
}

// 🏭 New creates a walker for root. Symlinks in root itself are resolved so a
// linked source directory is walked like a real one.
func New(root string, opts Options) (*Walker, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root %s: %w", root, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	prune := make(map[string]bool, len(opts.Prune))
	for _, p := range opts.Prune {
		p, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Errorf("resolving prune path: %w", err)
		}
		prune[filepath.Clean(p)] = true
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			prune[resolved] = true
		}
	}

	return &Walker{
		root:    abs,
		exclude: opts.Exclude,
		prune:   prune,
	}, nil
}

// Root returns the absolute root being walked.
func (w *Walker) Root() string {
	return w.root
}

// 🔁 Files lazily yields every regular file under the root, each exactly once,
// in no particular order.
//
// A directory below the root that cannot be read is yielded as a
// *status.TraversalWarning error and skipped; iteration continues. Any other
// error (the root itself unreadable, ctx cancelled) is yielded once and ends
// the sequence.
func (w *Walker) Files(ctx context.Context) iter.Seq2[FileTask, error] {
	return func(yield func(FileTask, error) bool) {
		logger := zerolog.Ctx(ctx)
		index := 0
		stopped := false

		err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return errors.Errorf("walking %s: %w", w.root, ctxErr)
			}

			if err != nil {
				if path == w.root {
					return errors.Errorf("reading source root %s: %w", path, err)
				}
				if !yield(FileTask{}, &status.TraversalWarning{Path: path, Err: err}) {
					stopped = true
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, err := filepath.Rel(w.root, path)
			if err != nil {
				return errors.Errorf("relativizing %s: %w", path, err)
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if path == w.root {
					return nil
				}
				if w.prune[path] {
					logger.Debug().Str("path", path).Msg("pruning directory")
					return filepath.SkipDir
				}
				if w.excluded(rel) {
					logger.Debug().Str("path", path).Msg("excluding directory")
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				logger.Trace().Str("path", path).Stringer("type", d.Type()).Msg("skipping non-regular entry")
				return nil
			}
			if w.excluded(rel) {
				logger.Debug().Str("path", path).Msg("excluding file")
				return nil
			}

			task := FileTask{Path: path, RelPath: rel, Index: index}
			index++
			if !yield(task, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})

		if err != nil && !stopped {
			yield(FileTask{}, err)
		}
	}
}

func (w *Walker) excluded(rel string) bool {
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
