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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/extsort/pkg/collision"
	"github.com/walteh/extsort/pkg/log"
	"github.com/walteh/extsort/pkg/runlock"
	"github.com/walteh/extsort/pkg/status"
	"github.com/walteh/extsort/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// ErrDestinationLocked is wrapped by the precondition error returned when
// another run holds the destination.
var ErrDestinationLocked = errors.New("destination is locked by another run")

// 🏃 runner executes a sort
type runner struct {
	opts Options
}

// 🏃 Sort checks both roots, locks the destination and copies every file
func (r *runner) Sort(ctx context.Context) (status.Summary, error) {
	logger := zerolog.Ctx(ctx)
	sink := r.opts.Sink

	src, dst, err := r.prepare()
	if err != nil {
		sink.Emit(ctx, log.Event{Kind: log.EventPreconditionFailed, Err: err})
		return status.Summary{}, err
	}

	lock := runlock.NewIn(r.opts.LockDir, dst)
	if err := acquire(lock); err != nil {
		sink.Emit(ctx, log.Event{Kind: log.EventPreconditionFailed, Err: err})
		return status.Summary{}, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn().Err(err).Msg("releasing destination lock")
		}
	}()

	// the destination is never walked, even when it sits inside the source
	walker, err := walk.New(src, walk.Options{
		Exclude: r.opts.Exclude,
		Prune:   []string{dst},
	})
	if err != nil {
		err = errors.Errorf("creating walker: %w", err)
		sink.Emit(ctx, log.Event{Kind: log.EventRunAborted, Source: src, Err: err})
		return status.Summary{}, err
	}

	var guard *collision.Guard
	if r.opts.SerializeCollisions {
		guard = collision.NewGuard()
	}
	dispatcher, err := NewDispatcher(DispatcherOptions{
		Copier: NewCopier(CopierOptions{
			DestinationRoot: dst,
			Sink:            sink,
			Guard:           guard,
			Atomic:          r.opts.Atomic,
		}),
		MaxConcurrentCopies: r.opts.MaxConcurrentCopies,
		Sink:                sink,
	})
	if err != nil {
		return status.Summary{}, errors.Errorf("creating dispatcher: %w", err)
	}

	logger.Debug().
		Str("source", src).
		Str("destination", dst).
		Int("workers", dispatcher.limit).
		Bool("serialize_collisions", guard != nil).
		Bool("atomic", r.opts.Atomic).
		Msg("starting run")
	sink.Emit(ctx, log.Event{Kind: log.EventRunStarted, Source: src, Destination: dst})

	summary, err := dispatcher.Run(ctx, walker.Files(ctx))
	if err != nil {
		err = errors.Errorf("sorting %s: %w", src, err)
		sink.Emit(ctx, log.Event{Kind: log.EventRunAborted, Source: src, Err: err})
		return summary, err
	}

	sink.Emit(ctx, log.Event{
		Kind:        log.EventRunFinished,
		Source:      src,
		Destination: dst,
		Copied:      len(summary.Copied),
		Failed:      len(summary.Failed),
		Warnings:    len(summary.Warnings),
	})
	return summary, nil
}

// prepare validates the source and creates the destination, returning both as
// absolute paths. Every error is a *status.PreconditionError.
func (r *runner) prepare() (string, string, error) {
	src, err := filepath.Abs(r.opts.Source)
	if err != nil {
		return "", "", &status.PreconditionError{Path: r.opts.Source, Reason: "cannot resolve source", Err: err}
	}
	info, err := os.Stat(src)
	if errors.Is(err, os.ErrNotExist) {
		return "", "", &status.PreconditionError{Path: src, Reason: "source does not exist", Err: err}
	}
	if err != nil {
		return "", "", &status.PreconditionError{Path: src, Reason: "cannot read source", Err: err}
	}
	if !info.IsDir() {
		return "", "", &status.PreconditionError{Path: src, Reason: "source is not a directory"}
	}

	dst, err := filepath.Abs(r.opts.Destination)
	if err != nil {
		return "", "", &status.PreconditionError{Path: r.opts.Destination, Reason: "cannot resolve destination", Err: err}
	}
	if dst == src {
		return "", "", &status.PreconditionError{Path: dst, Reason: "destination is the source"}
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", "", &status.PreconditionError{Path: dst, Reason: "cannot create destination", Err: err}
	}
	return src, dst, nil
}

func acquire(lock *runlock.Lock) error {
	ok, err := lock.TryLock()
	if err != nil {
		return &status.PreconditionError{Path: lock.Path(), Reason: "cannot lock destination", Err: err}
	}
	if !ok {
		return &status.PreconditionError{Path: lock.Path(), Reason: "cannot lock destination", Err: ErrDestinationLocked}
	}
	return nil
}
