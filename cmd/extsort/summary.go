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

package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/pterm/pterm"
	"github.com/walteh/extsort/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📊 printSummary lists every failed file and skipped directory so they can be
// retried by hand. Nothing is printed for a clean run.
func printSummary(w io.Writer, s status.Summary) error {
	if len(s.Failed) == 0 && len(s.Warnings) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(s.Failed)+len(s.Warnings))
	for _, o := range s.Failed {
		rows = append(rows, []string{o.Source, string(o.Stage()), detail(o.Err)})
	}
	for _, warn := range s.Warnings {
		rows = append(rows, []string{warn.Path, "traverse", detail(warn.Err)})
	}
	slices.SortFunc(rows, func(a, b []string) int {
		return cmp.Compare(a[0], b[0])
	})

	data := append(pterm.TableData{{"Path", "Stage", "Error"}}, rows...)
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering failure table: %w", err)
	}

	header := pterm.Warning.Sprintf("%d files failed, %d directories skipped", len(s.Failed), len(s.Warnings))
	_, err = fmt.Fprintf(w, "\n%s\n%s\n", header, table)
	return err
}

// detail strips the wrapper so the table shows only the underlying cause.
func detail(err error) string {
	if err == nil {
		return ""
	}
	var cerr *status.CopyError
	if errors.As(err, &cerr) && cerr.Err != nil {
		return cerr.Err.Error()
	}
	return err.Error()
}
