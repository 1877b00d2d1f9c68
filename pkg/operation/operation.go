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

	"github.com/walteh/extsort/pkg/log"
	"github.com/walteh/extsort/pkg/runlock"
	"github.com/walteh/extsort/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operator sorts one source tree into one destination
type Operator interface {
	// Sort runs to completion and returns every outcome. Per-file failures are
	// in the summary; the error is set only when the run could not start or
	// was cut short.
	Sort(ctx context.Context) (status.Summary, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Source is the directory tree to read
	Source string
	// Destination receives one folder per category; created when missing
	Destination string
	// MaxConcurrentCopies bounds the copy pool; zero picks a default
	MaxConcurrentCopies int
	// Exclude holds doublestar patterns, relative to Source, that are skipped
	Exclude []string
	// SerializeCollisions holds a per-name latch across resolve and create
	SerializeCollisions bool
	// Atomic writes through a temp file and rename
	Atomic bool
	// LockDir holds the destination lock file; empty means runlock.StateDir()
	LockDir string
	// Sink receives run events
	Sink log.Sink
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Source == "" {
		return nil, errors.Errorf("source is required")
	}
	if opts.Destination == "" {
		return nil, errors.Errorf("destination is required")
	}
	if opts.MaxConcurrentCopies < 0 {
		return nil, errors.Errorf("max concurrent copies must not be negative")
	}
	if opts.Sink == nil {
		opts.Sink = log.Nop
	}
	if opts.LockDir == "" {
		opts.LockDir = runlock.StateDir()
	}
	return &runner{opts: opts}, nil
}
