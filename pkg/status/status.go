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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is the terminal state of one file's copy attempt
type FileStatus int

const (
	StatusUnknown FileStatus = iota
	StatusCopied             // File was written to its destination
	StatusFailed             // File could not be copied
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Outcome is the result of one copy attempt
type Outcome struct {
	Source      string     // Absolute source path
	Destination string     // Final destination path, set only on success
	Category    string     // Category directory the file was sorted into
	Status      FileStatus // Terminal state
	Err         error      // *CopyError, set only on failure
}

// 🏭 Copied creates a successful outcome
func Copied(source, destination, category string) Outcome {
	return Outcome{
		Source:      source,
		Destination: destination,
		Category:    category,
		Status:      StatusCopied,
	}
}

// 🏭 Failed creates a failed outcome from a copy error
func Failed(source, category string, err *CopyError) Outcome {
	return Outcome{
		Source:   source,
		Category: category,
		Status:   StatusFailed,
		Err:      err,
	}
}

// Stage returns the copy stage that failed, or "" for a successful outcome.
func (o Outcome) Stage() Stage {
	var cerr *CopyError
	if errors.As(o.Err, &cerr) {
		return cerr.Stage
	}
	return ""
}

// 📋 Summary is the aggregated view of a finished run
type Summary struct {
	Discovered int
	Copied     []Outcome
	Failed     []Outcome
	Warnings   []*TraversalWarning
}

// Total returns the number of outcomes in the summary.
func (s Summary) Total() int {
	return len(s.Copied) + len(s.Failed)
}

// 🔧 Manager aggregates outcomes and traversal warnings for a single run.
// It is safe for concurrent use.
type Manager struct {
	mu         sync.RWMutex
	outcomes   []Outcome
	warnings   []*TraversalWarning
	discovered int
	copied     int
	failed     int
}

// 🏭 NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{}
}

// Discover records that a file was handed to the copy pool.
func (m *Manager) Discover(ctx context.Context, path string) {
	m.mu.Lock()
	m.discovered++
	n := m.discovered
	m.mu.Unlock()

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("discovered", n).Msg("file discovered")
}

// Track records the outcome of one copy attempt.
func (m *Manager) Track(ctx context.Context, o Outcome) {
	m.mu.Lock()
	m.outcomes = append(m.outcomes, o)
	switch o.Status {
	case StatusCopied:
		m.copied++
	case StatusFailed:
		m.failed++
	}
	processed, total := len(m.outcomes), m.discovered
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("discovered", total).
		Str("source", o.Source).
		Stringer("status", o.Status).
		Msg("progress")
}

// Warn records a skipped subtree.
func (m *Manager) Warn(ctx context.Context, w *TraversalWarning) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, w)
}

// Counts returns the copied and failed totals so far.
func (m *Manager) Counts() (copied, failed int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copied, m.failed
}

// Summary returns a snapshot of everything tracked so far.
func (m *Manager) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Summary{
		Discovered: m.discovered,
		Copied:     make([]Outcome, 0, m.copied),
		Failed:     make([]Outcome, 0, m.failed),
		Warnings:   append([]*TraversalWarning(nil), m.warnings...),
	}
	for _, o := range m.outcomes {
		if o.Status == StatusCopied {
			s.Copied = append(s.Copied, o)
		} else {
			s.Failed = append(s.Failed, o)
		}
	}
	return s
}
