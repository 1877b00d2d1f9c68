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

package operation

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/extsort/pkg/classify"
	"github.com/walteh/extsort/pkg/collision"
	"github.com/walteh/extsort/pkg/log"
	"github.com/walteh/extsort/pkg/status"
	"github.com/walteh/extsort/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// tempPattern names in-progress copies inside a category directory.
const tempPattern = ".extsort-*.tmp"

// 🔧 CopierOptions configures a Copier
type CopierOptions struct {
	// DestinationRoot is the absolute directory category folders are created in
	DestinationRoot string
	// Sink receives one event per copy attempt
	Sink log.Sink
	// Guard serializes resolve-then-create per (category dir, base name). When
	// nil, a name is probed and then written with nothing held in between, so
	// two same-named files copied at once may race for it.
	Guard *collision.Guard
	// Atomic writes into a temp file and renames it into place, so an
	// interrupted copy never leaves a partial file under its final name.
	Atomic bool
}

// 📦 Copier copies single files into their category directory
type Copier struct {
	root   string
	sink   log.Sink
	guard  *collision.Guard
	atomic bool
}

// 🏭 NewCopier creates a new copier
func NewCopier(opts CopierOptions) *Copier {
	sink := opts.Sink
	if sink == nil {
		sink = log.Nop
	}
	return &Copier{
		root:   opts.DestinationRoot,
		sink:   sink,
		guard:  opts.Guard,
		atomic: opts.Atomic,
	}
}

// 📄 Copy classifies task, resolves its destination and copies its bytes there.
// It never returns an error: every failure becomes a failed outcome and stays
// local to this file.
func (c *Copier) Copy(ctx context.Context, task walk.FileTask) status.Outcome {
	logger := zerolog.Ctx(ctx).With().Str("source", task.Path).Logger()

	if err := ctx.Err(); err != nil {
		return c.fail(ctx, task.Path, "", status.StageCancelled, err)
	}

	name := filepath.Base(task.Path)
	if name == "." || name == string(filepath.Separator) {
		return c.fail(ctx, task.Path, "", status.StageClassify, errors.Errorf("no file name in %q", task.Path))
	}
	category := classify.Category(name)

	dir := filepath.Join(c.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c.fail(ctx, task.Path, category, status.StageMkdir, err)
	}

	src, err := os.Open(task.Path)
	if err != nil {
		return c.fail(ctx, task.Path, category, status.StageOpen, err)
	}
	defer src.Close()

	desired := filepath.Join(dir, name)
	var dst string
	if c.guard != nil {
		dst, err = c.guard.Claim(desired)
	} else {
		dst, err = collision.Resolve(desired)
	}
	if err != nil {
		return c.fail(ctx, task.Path, category, status.StageResolve, err)
	}
	if dst != desired {
		logger.Debug().Str("desired", desired).Str("destination", dst).Msg("name taken, using suffix")
	}

	var stage status.Stage
	if c.atomic {
		stage, err = c.writeAtomic(ctx, src, dir, dst)
	} else {
		stage, err = c.writeDirect(ctx, src, dst)
	}
	if err != nil {
		if c.guard != nil {
			// drop the claim so the name is free for the next run
			_ = os.Remove(dst)
		}
		return c.fail(ctx, task.Path, category, stage, err)
	}

	logger.Trace().Str("destination", dst).Msg("copy complete")
	c.sink.Emit(ctx, log.Event{
		Kind:        log.EventFileCopied,
		Source:      task.Path,
		Destination: dst,
		Category:    category,
	})
	return status.Copied(task.Path, dst, category)
}

// writeAtomic copies src into a temp file in dir and renames it onto dst.
func (c *Copier) writeAtomic(ctx context.Context, src io.Reader, dir, dst string) (status.Stage, error) {
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return status.StageCreate, err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: src}); err != nil {
		_ = tmp.Close()
		return status.StageWrite, err
	}
	// CreateTemp uses 0600
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return status.StageWrite, err
	}
	if err := tmp.Close(); err != nil {
		return status.StageWrite, err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return status.StageFinalize, err
	}
	committed = true
	return "", nil
}

// writeDirect copies src straight into dst. A failed copy removes what it wrote.
func (c *Copier) writeDirect(ctx context.Context, src io.Reader, dst string) (status.Stage, error) {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return status.StageCreate, err
	}
	if _, err := io.Copy(f, &ctxReader{ctx: ctx, r: src}); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return status.StageWrite, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return status.StageFinalize, err
	}
	return "", nil
}

func (c *Copier) fail(ctx context.Context, source, category string, stage status.Stage, err error) status.Outcome {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		stage = status.StageCancelled
	}
	cerr := &status.CopyError{Source: source, Stage: stage, Err: err}

	zerolog.Ctx(ctx).Debug().Err(err).Str("source", source).Str("stage", string(stage)).Msg("copy failed")
	c.sink.Emit(ctx, log.Event{
		Kind:     log.EventCopyFailed,
		Source:   source,
		Category: category,
		Err:      cerr,
	})
	return status.Failed(source, category, cerr)
}

// ctxReader stops a copy between reads once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
