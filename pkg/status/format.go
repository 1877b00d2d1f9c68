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
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent file entries
	categoryWidth = 14 // Width for the category column
)

// 🎯 FormatOutcome formats a copy outcome for display
func FormatOutcome(o Outcome) string {
	var prefix, detail string
	switch o.Status {
	case StatusCopied:
		prefix = color.GreenString("✓")
		detail = fmt.Sprintf("%s → %s", o.Source, o.Destination)
	case StatusFailed:
		prefix = color.RedString("✗")
		detail = fmt.Sprintf("%s %s", o.Source, color.RedString("(%v)", o.Err))
	default:
		prefix = color.HiBlackString("-")
		detail = o.Source
	}

	category := o.Category
	if category == "" {
		category = "?"
	}

	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		color.CyanString("%-*s", categoryWidth, category),
		detail,
	)
}

// ⚠️ FormatWarning formats a skipped subtree for display
func FormatWarning(w *TraversalWarning) string {
	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		color.YellowString("!"),
		fmt.Sprintf("%-*s", categoryWidth, "skipped"),
		w.Error(),
	)
}

// 📋 FormatCounts formats the end-of-run totals
func FormatCounts(copied, failed, warnings int) string {
	parts := []string{
		color.GreenString("%d copied", copied),
	}
	if failed > 0 {
		parts = append(parts, color.RedString("%d failed", failed))
	} else {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if warnings > 0 {
		parts = append(parts, color.YellowString("%d skipped directories", warnings))
	}
	return strings.Join(parts, color.New(color.Faint).Sprint(" • "))
}
