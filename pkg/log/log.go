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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/extsort/pkg/status"
)

// 🏷️ EventKind identifies a structured run event
type EventKind int

const (
	EventRunStarted EventKind = iota
	EventFileCopied
	EventRunFinished
	EventTraversalWarning
	EventCopyFailed
	EventPreconditionFailed
	EventRunAborted
)

// String returns a string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventRunStarted:
		return "run_started"
	case EventFileCopied:
		return "file_copied"
	case EventRunFinished:
		return "run_finished"
	case EventTraversalWarning:
		return "traversal_warning"
	case EventCopyFailed:
		return "copy_failed"
	case EventPreconditionFailed:
		return "precondition_failed"
	case EventRunAborted:
		return "run_aborted"
	default:
		return "unknown"
	}
}

// Level is info for progress events and error for every failure kind.
func (k EventKind) Level() zerolog.Level {
	switch k {
	case EventRunStarted, EventFileCopied, EventRunFinished:
		return zerolog.InfoLevel
	default:
		return zerolog.ErrorLevel
	}
}

// 📨 Event is one structured record emitted by a run
type Event struct {
	Kind        EventKind
	Source      string
	Destination string
	Category    string
	Err         error

	// Set on EventRunFinished
	Copied   int
	Failed   int
	Warnings int
}

// 🔌 Sink receives run events. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// Nop discards every event.
var Nop Sink = nopSink{}

type nopSink struct{}

func (nopSink) Emit(context.Context, Event) {}

// 🎯 Logger is a Sink that prints a human line per event and mirrors it as a zerolog record
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 📝 Emit logs one event
func (l *Logger) Emit(ctx context.Context, ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatEvent(ev))

	rec := l.zlog.WithLevel(ev.Kind.Level()).Str("kind", ev.Kind.String())
	if ev.Source != "" {
		rec = rec.Str("source", ev.Source)
	}
	if ev.Destination != "" {
		rec = rec.Str("destination", ev.Destination)
	}
	if ev.Category != "" {
		rec = rec.Str("category", ev.Category)
	}
	if ev.Err != nil {
		rec = rec.Err(ev.Err)
	}
	if ev.Kind == EventRunFinished {
		rec = rec.Int("copied", ev.Copied).Int("failed", ev.Failed).Int("warnings", ev.Warnings)
	}
	rec.Msg(message(ev))
}

func message(ev Event) string {
	switch ev.Kind {
	case EventRunStarted:
		return "starting file sorting"
	case EventFileCopied:
		return "copied file"
	case EventRunFinished:
		return "file sorting completed"
	case EventTraversalWarning:
		return "skipping unreadable directory"
	case EventCopyFailed:
		return "error copying file"
	case EventPreconditionFailed:
		return "cannot start file sorting"
	case EventRunAborted:
		return "file sorting aborted"
	default:
		return ev.Kind.String()
	}
}

// 📝 formatEvent formats an event for display
func (l *Logger) formatEvent(ev Event) string {
	switch ev.Kind {
	case EventRunStarted:
		return fmt.Sprintf("\n%s %s %s %s\n",
			color.New(color.Bold, color.FgCyan).Sprint("extsort"),
			color.New(color.Faint).Sprint("•"),
			ev.Source,
			color.New(color.FgMagenta).Sprintf("→ %s", ev.Destination))
	case EventFileCopied:
		return status.FormatOutcome(status.Copied(ev.Source, ev.Destination, ev.Category))
	case EventCopyFailed:
		return status.FormatOutcome(status.Outcome{
			Source:   ev.Source,
			Category: ev.Category,
			Status:   status.StatusFailed,
			Err:      ev.Err,
		})
	case EventTraversalWarning:
		w, ok := ev.Err.(*status.TraversalWarning)
		if !ok {
			w = &status.TraversalWarning{Path: ev.Source, Err: ev.Err}
		}
		return status.FormatWarning(w)
	case EventRunFinished:
		return fmt.Sprintf("\n✅ %s %s\n",
			color.New(color.FgGreen).Sprint("done"),
			status.FormatCounts(ev.Copied, ev.Failed, ev.Warnings))
	case EventPreconditionFailed, EventRunAborted:
		return fmt.Sprintf("❌ %s", color.New(color.FgRed).Sprintf("%s: %v", message(ev), ev.Err))
	default:
		return fmt.Sprintf("ℹ️  %s", color.New(color.FgCyan).Sprint(ev.Kind.String()))
	}
}
