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
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

// 🧪 TestFormatOutcome tests outcome line formatting
func TestFormatOutcome(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{
			name:    "copied",
			outcome: Copied("/src/a.txt", "/dst/txt/a_1.txt", "txt"),
			want:    "    ✓ txt            /src/a.txt → /dst/txt/a_1.txt",
		},
		{
			name: "failed",
			outcome: Failed("/src/b.png", "png", &CopyError{
				Source: "/src/b.png",
				Stage:  StageOpen,
				Err:    errors.New("permission denied"),
			}),
			want: "    ✗ png            /src/b.png (open: permission denied)",
		},
		{
			name:    "unknown_without_category",
			outcome: Outcome{Source: "/src/c"},
			want:    "    - ?              /src/c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOutcome(tt.outcome))
		})
	}
}

func TestFormatWarning(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	got := FormatWarning(&TraversalWarning{Path: "/src/locked", Err: errors.New("permission denied")})
	assert.Equal(t, "    ! skipped        skipping /src/locked: permission denied", got)
}

func TestFormatCounts(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		copied   int
		failed   int
		warnings int
		want     string
	}{
		{name: "all_copied", copied: 3, want: "3 copied • 0 failed"},
		{name: "with_failures", copied: 3, failed: 1, want: "3 copied • 1 failed"},
		{name: "with_warnings", copied: 1, failed: 0, warnings: 2, want: "1 copied • 0 failed • 2 skipped directories"},
		{name: "empty_run", want: "0 copied • 0 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCounts(tt.copied, tt.failed, tt.warnings))
		})
	}
}
