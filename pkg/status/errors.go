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
	"fmt"
)

// 🪜 Stage names the step of a copy that failed
type Stage string

const (
	StageClassify  Stage = "classify"
	StageMkdir     Stage = "mkdir"
	StageOpen      Stage = "open"
	StageResolve   Stage = "resolve"
	StageCreate    Stage = "create"
	StageWrite     Stage = "write"
	StageFinalize  Stage = "finalize"
	StageCancelled Stage = "cancelled"
)

// ❌ CopyError is a per-file failure. It never stops the run.
type CopyError struct {
	Source string
	Stage  Stage
	Err    error
}

// Error leaves the source out: the wrapped error almost always names a path
// already, and callers print Source next to it.
func (e *CopyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// ⚠️ TraversalWarning is a subtree that could not be read and was skipped.
type TraversalWarning struct {
	Path string
	Err  error
}

func (e *TraversalWarning) Error() string {
	return fmt.Sprintf("skipping %s: %v", e.Path, e.Err)
}

func (e *TraversalWarning) Unwrap() error {
	return e.Err
}

// 🚫 PreconditionError is a bad source or destination root. It aborts the run
// before any copy starts.
type PreconditionError struct {
	Path   string
	Reason string
	Err    error
}

func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Reason, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Reason, e.Path)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
