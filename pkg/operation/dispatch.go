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
	"iter"

	"github.com/rs/zerolog"
	"github.com/walteh/extsort/pkg/config"
	"github.com/walteh/extsort/pkg/log"
	"github.com/walteh/extsort/pkg/status"
	"github.com/walteh/extsort/pkg/walk"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔌 FileCopier performs one copy attempt. It must always return an outcome.
type FileCopier interface {
	Copy(ctx context.Context, task walk.FileTask) status.Outcome
}

// 🔧 DispatcherOptions configures a Dispatcher
type DispatcherOptions struct {
	Copier FileCopier
	// MaxConcurrentCopies bounds in-flight copies. Zero or less uses
	// config.DefaultConcurrency.
	MaxConcurrentCopies int
	// Sink receives traversal warnings
	Sink log.Sink
}

// 🚦 Dispatcher fans discovered files out to a bounded pool of copies
type Dispatcher struct {
	copier FileCopier
	limit  int
	sink   log.Sink
}

// 🏭 NewDispatcher creates a new dispatcher
func NewDispatcher(opts DispatcherOptions) (*Dispatcher, error) {
	if opts.Copier == nil {
		return nil, errors.Errorf("copier is required")
	}
	limit := opts.MaxConcurrentCopies
	if limit <= 0 {
		limit = config.DefaultConcurrency()
	}
	sink := opts.Sink
	if sink == nil {
		sink = log.Nop
	}
	return &Dispatcher{
		copier: opts.Copier,
		limit:  limit,
		sink:   sink,
	}, nil
}

// 🏃 Run schedules one copy per file in files and waits for all of them.
//
// Traversal warnings are recorded and reported; iteration continues. Any other
// error from files stops scheduling: copies already started still finish, and
// the error is returned alongside the partial summary. Discovery blocks while
// the pool is full, so traversal never runs far ahead of copying.
func (d *Dispatcher) Run(ctx context.Context, files iter.Seq2[walk.FileTask, error]) (status.Summary, error) {
	logger := zerolog.Ctx(ctx)
	mgr := status.NewManager()

	var g errgroup.Group
	g.SetLimit(d.limit)

	var fatal error
	for task, err := range files {
		if err != nil {
			var warn *status.TraversalWarning
			if errors.As(err, &warn) {
				mgr.Warn(ctx, warn)
				d.sink.Emit(ctx, log.Event{
					Kind:   log.EventTraversalWarning,
					Source: warn.Path,
					Err:    warn,
				})
				continue
			}
			fatal = err
			break
		}

		mgr.Discover(ctx, task.Path)
		g.Go(func() error {
			mgr.Track(ctx, d.copier.Copy(ctx, task))
			return nil
		})
	}

	// copies report through the manager, never through the group
	_ = g.Wait()

	summary := mgr.Summary()
	logger.Debug().
		Int("discovered", summary.Discovered).
		Int("copied", len(summary.Copied)).
		Int("failed", len(summary.Failed)).
		Int("warnings", len(summary.Warnings)).
		Msg("dispatch finished")

	return summary, fatal
}
