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

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "simple_extension", path: "/src/a.txt", want: "txt"},
		{name: "uppercase_extension", path: "/src/PHOTO.JPG", want: "jpg"},
		{name: "mixed_case_extension", path: "/src/Report.PdF", want: "pdf"},
		{name: "double_extension", path: "/src/archive.tar.gz", want: "gz"},
		{name: "no_extension", path: "/src/Makefile", want: NoExtension},
		{name: "dotfile", path: "/src/.bashrc", want: NoExtension},
		{name: "dotfile_with_suffix", path: "/src/.config.yaml", want: "yaml"},
		{name: "trailing_dot", path: "/src/notes.", want: NoExtension},
		{name: "dot_in_directory_only", path: "/src/v1.2/README", want: NoExtension},
		{name: "relative_path", path: "docs/guide.md", want: "md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.path))
			assert.Equal(t, Category(tt.path), Category(tt.path), "classification should be stable")
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantStem   string
		wantSuffix string
	}{
		{name: "simple", input: "a.txt", wantStem: "a", wantSuffix: ".txt"},
		{name: "keeps_case", input: "A.TXT", wantStem: "A", wantSuffix: ".TXT"},
		{name: "multi_dot", input: "archive.tar.gz", wantStem: "archive.tar", wantSuffix: ".gz"},
		{name: "none", input: "Makefile", wantStem: "Makefile", wantSuffix: ""},
		{name: "dotfile", input: ".env", wantStem: ".env", wantSuffix: ""},
		{name: "double_leading_dot", input: "..foo", wantStem: ".", wantSuffix: ".foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, suffix := Split(tt.input)
			assert.Equal(t, tt.wantStem, stem)
			assert.Equal(t, tt.wantSuffix, suffix)
		})
	}
}
