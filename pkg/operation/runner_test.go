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

package operation_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/extsort/pkg/log"
	"github.com/walteh/extsort/pkg/operation"
	"github.com/walteh/extsort/pkg/runlock"
	"github.com/walteh/extsort/pkg/status"
	"github.com/walteh/extsort/pkg/testutils"
)

func newOperator(t *testing.T, src, dst string, sink log.Sink, mutate ...func(*operation.Options)) operation.Operator {
	t.Helper()
	opts := operation.Options{
		Source:              src,
		Destination:         dst,
		MaxConcurrentCopies: 4,
		SerializeCollisions: true,
		Atomic:              true,
		LockDir:             t.TempDir(),
		Sink:                sink,
	}
	for _, m := range mutate {
		m(&opts)
	}
	op, err := operation.New(opts)
	require.NoError(t, err)
	return op
}

func TestSort(t *testing.T) {
	ctx := testutils.Context(t)
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "sorted")

	testutils.WriteFile(t, src, "a.txt", "top")
	testutils.WriteFile(t, src, "x/a.txt", "nested")
	testutils.WriteFile(t, src, "x/y/a.txt", "deeper")
	testutils.WriteFile(t, src, "Makefile", "all:")
	testutils.WriteFile(t, src, "photos/IMG.JPG", "jpg")
	testutils.WriteFile(t, src, "photos/img.jpg", "jpg2")
	testutils.WriteFile(t, src, "archive.tar.gz", "gz")

	sink := &recordingSink{}
	summary, err := newOperator(t, src, dst, sink).Sort(ctx)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Discovered)
	assert.Len(t, summary.Copied, 7)
	assert.Empty(t, summary.Failed)
	assert.Empty(t, summary.Warnings)

	assert.Equal(t, []string{
		"gz/archive.tar.gz",
		"jpg/IMG.JPG",
		"jpg/img.jpg",
		"no_extension/Makefile",
		"txt/a.txt",
		"txt/a_1.txt",
		"txt/a_2.txt",
	}, testutils.ListTree(t, dst))

	contents := map[string]bool{}
	for _, name := range []string{"a.txt", "a_1.txt", "a_2.txt"} {
		contents[testutils.ReadFile(t, filepath.Join(dst, "txt", name))] = true
	}
	assert.Equal(t, map[string]bool{"top": true, "nested": true, "deeper": true}, contents)

	kinds := sink.kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, log.EventRunStarted, kinds[0])
	assert.Equal(t, log.EventRunFinished, kinds[len(kinds)-1])
	assert.Equal(t, 7, sink.count(log.EventFileCopied))

	last := sink.events[len(sink.events)-1]
	assert.Equal(t, 7, last.Copied)
	assert.Zero(t, last.Failed)
}

func TestSortEmptySource(t *testing.T) {
	ctx := testutils.Context(t)
	sink := &recordingSink{}

	summary, err := newOperator(t, t.TempDir(), t.TempDir(), sink).Sort(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Total())
	assert.Equal(t, []log.EventKind{log.EventRunStarted, log.EventRunFinished}, sink.kinds())
}

func TestSortPreconditions(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T) (src, dst string)
		reason    string
		dstExists bool
	}{
		{
			name: "source_missing",
			setup: func(t *testing.T) (string, string) {
				return filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "out")
			},
			reason: "source does not exist",
		},
		{
			name: "source_is_a_file",
			setup: func(t *testing.T) (string, string) {
				return testutils.WriteFile(t, t.TempDir(), "file.txt", "x"), filepath.Join(t.TempDir(), "out")
			},
			reason: "source is not a directory",
		},
		{
			name: "destination_under_a_file",
			setup: func(t *testing.T) (string, string) {
				blocker := testutils.WriteFile(t, t.TempDir(), "blocker", "x")
				return t.TempDir(), filepath.Join(blocker, "out")
			},
			reason: "cannot create destination",
		},
		{
			name: "destination_is_source",
			setup: func(t *testing.T) (string, string) {
				dir := t.TempDir()
				testutils.WriteFile(t, dir, "b.md", "b")
				return dir, dir + string(filepath.Separator)
			},
			reason:    "destination is the source",
			dstExists: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutils.Context(t)
			src, dst := tt.setup(t)
			sink := &recordingSink{}

			summary, err := newOperator(t, src, dst, sink).Sort(ctx)
			require.Error(t, err)

			var perr *status.PreconditionError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.reason, perr.Reason)

			assert.Zero(t, summary.Total(), "no copy may be attempted")
			assert.Equal(t, []log.EventKind{log.EventPreconditionFailed}, sink.kinds())
			if tt.dstExists {
				assert.Equal(t, []string{"b.md"}, testutils.ListTree(t, dst), "destination must be left untouched")
			} else {
				assert.NoDirExists(t, dst)
			}
		})
	}
}

func TestSortDestinationLocked(t *testing.T) {
	ctx := testutils.Context(t)
	src := t.TempDir()
	dst := t.TempDir()
	testutils.WriteFile(t, src, "a.txt", "a")

	lockDir := t.TempDir()
	held := runlock.NewIn(lockDir, dst)
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = held.Unlock() })

	sink := &recordingSink{}
	summary, err := newOperator(t, src, dst, sink, func(o *operation.Options) {
		o.LockDir = lockDir
	}).Sort(ctx)
	require.ErrorIs(t, err, operation.ErrDestinationLocked)
	assert.Zero(t, summary.Total())
	assert.NoDirExists(t, filepath.Join(dst, "txt"))
	assert.Equal(t, []log.EventKind{log.EventPreconditionFailed}, sink.kinds())
}

func TestSortNestedDestination(t *testing.T) {
	ctx := testutils.Context(t)
	src := t.TempDir()
	dst := filepath.Join(src, "sorted")
	testutils.WriteFile(t, src, "a.txt", "a")
	testutils.WriteFile(t, src, "b/c.md", "c")

	op := newOperator(t, src, dst, log.Nop)

	summary, err := op.Sort(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Copied, 2)

	// a second run must not pick up the first run's output
	summary, err = op.Sort(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Copied, 2)
	assert.Equal(t, []string{"md/c.md", "md/c_1.md", "txt/a.txt", "txt/a_1.txt"}, testutils.ListTree(t, dst))
}

func TestSortOutputAsSource(t *testing.T) {
	ctx := testutils.Context(t)
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	out2 := filepath.Join(t.TempDir(), "out2")
	testutils.WriteFile(t, src, "a.txt", "a")

	_, err := newOperator(t, src, out, log.Nop).Sort(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"txt/a.txt"}, testutils.ListTree(t, out), "destination should hold only category folders")

	summary, err := newOperator(t, out, out2, log.Nop).Sort(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Copied, 1)
	assert.Equal(t, []string{"txt/a.txt"}, testutils.ListTree(t, out2))
}

func TestSortExclude(t *testing.T) {
	ctx := testutils.Context(t)
	src := t.TempDir()
	dst := t.TempDir()
	testutils.WriteFile(t, src, "keep.go", "k")
	testutils.WriteFile(t, src, ".git/HEAD", "ref")
	testutils.WriteFile(t, src, "logs/app.log", "l")

	summary, err := newOperator(t, src, dst, log.Nop, func(o *operation.Options) {
		o.Exclude = []string{".git", "**/*.log"}
	}).Sort(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Copied, 1)
	assert.Equal(t, filepath.Join(dst, "go", "keep.go"), summary.Copied[0].Destination)
}

func TestSortCancelled(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	testutils.WriteFile(t, src, "a.txt", "a")

	ctx, cancel := context.WithCancel(testutils.Context(t))
	cancel()

	sink := &recordingSink{}
	summary, err := newOperator(t, src, dst, sink).Sort(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Total())
	assert.Equal(t, []log.EventKind{log.EventRunStarted, log.EventRunAborted}, sink.kinds())
	assert.NoDirExists(t, filepath.Join(dst, "txt"))
}

func TestSortDirectWrites(t *testing.T) {
	ctx := testutils.Context(t)
	src := t.TempDir()
	dst := t.TempDir()
	testutils.WriteFile(t, src, "one/r.csv", "1")
	testutils.WriteFile(t, src, "two/r.csv", "2")

	summary, err := newOperator(t, src, dst, log.Nop, func(o *operation.Options) {
		o.Atomic = false
		o.MaxConcurrentCopies = 1
	}).Sort(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Copied, 2)
	assert.Equal(t, []string{"csv/r.csv", "csv/r_1.csv"}, testutils.ListTree(t, dst))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    operation.Options
		wantErr string
	}{
		{name: "missing_source", opts: operation.Options{Destination: "/d"}, wantErr: "source is required"},
		{name: "missing_destination", opts: operation.Options{Source: "/s"}, wantErr: "destination is required"},
		{name: "negative_workers", opts: operation.Options{Source: "/s", Destination: "/d", MaxConcurrentCopies: -2}, wantErr: "must not be negative"},
		{name: "nil_sink_ok", opts: operation.Options{Source: "/s", Destination: "/d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := operation.New(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, op)
		})
	}
}
