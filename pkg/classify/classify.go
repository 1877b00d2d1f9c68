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

// Package classify maps file paths to the category directory they are sorted into.
package classify

import (
	"path/filepath"
	"strings"
)

// NoExtension is the category for files whose name carries no extension.
const NoExtension = "no_extension"

// 🏷️ Category returns the lowercased extension of path without its leading dot,
// or NoExtension when the name has none.
func Category(path string) string {
	_, suffix := Split(filepath.Base(path))
	if suffix == "" {
		return NoExtension
	}
	return strings.ToLower(suffix[1:])
}

// ✂️ Split splits a base name into stem and suffix, the suffix keeping its dot.
//
// A dot only starts a suffix when it is neither the first nor the last byte of the
// name, so ".bashrc" and "notes." have no suffix while "archive.tar.gz" has ".gz".
func Split(name string) (stem, suffix string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}
