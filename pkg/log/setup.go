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
	"io"

	"github.com/rs/zerolog"
)

// levelWriter drops records below min.
type levelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (lw levelWriter) Write(p []byte) (int, error) {
	return lw.w.Write(p)
}

func (lw levelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < lw.min {
		return len(p), nil
	}
	return lw.w.Write(p)
}

// 🏭 NewZerolog builds the structured logger behind a Logger.
//
// With debug set, records from debug up go to stderr through a console writer.
// A non-nil file receives every record, trace included, as JSON with caller
// information. With neither, the returned logger is disabled.
func NewZerolog(stderr io.Writer, debug bool, file io.Writer) zerolog.Logger {
	var writers []io.Writer
	if debug {
		writers = append(writers, levelWriter{
			w:   zerolog.ConsoleWriter{Out: stderr},
			min: zerolog.DebugLevel,
		})
	}
	if file != nil {
		writers = append(writers, file)
	}
	if len(writers) == 0 {
		return zerolog.Nop()
	}

	level := zerolog.DebugLevel
	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp()
	if file != nil {
		level = zerolog.TraceLevel
		ctx = ctx.Caller()
	}
	return ctx.Logger().Level(level)
}
