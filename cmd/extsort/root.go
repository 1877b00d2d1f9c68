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
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/extsort/pkg/config"
	"github.com/walteh/extsort/pkg/log"
	"github.com/walteh/extsort/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ rootOpts holds the command line flags
type rootOpts struct {
	configFile          string
	workers             int
	exclude             []string
	serializeCollisions bool
	atomic              bool
	logFile             string
	debug               bool
	noColor             bool

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "extsort [source] [destination]",
		Short: "Sort a directory tree into per-extension folders",
		Long: `extsort copies every regular file under source into destination/<ext>/,
where <ext> is the lowercase file extension (or no_extension). Files that
would overwrite an existing name get a _1, _2, ... suffix before the extension.

Source files are never modified. A file that cannot be copied is reported and
skipped; the rest of the tree is still sorted.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (.yaml, .yml, .hcl or .json)")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "maximum concurrent copies (default 2x CPUs, 4 to 64)")
	flags.StringArrayVarP(&opts.exclude, "exclude", "x", nil, "doublestar pattern, relative to source, to skip (repeatable)")
	flags.BoolVar(&opts.serializeCollisions, "serialize-collisions", true, "hold a per-name lock while choosing and creating a destination")
	flags.BoolVar(&opts.atomic, "atomic", true, "write through a temp file and rename it into place")
	flags.StringVar(&opts.logFile, "log-file", "", "append JSON logs, trace level included, to this file")

	persistent := cmd.PersistentFlags()
	persistent.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging on stderr")
	persistent.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

// 🔧 resolve layers the config file, positional args and flags, in that order
func (o *rootOpts) resolve(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(cmd.Context(), o.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Source = args[0]
	}
	if len(args) > 1 {
		cfg.Destination = args[1]
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.MaxConcurrentCopies = o.workers
	}
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, o.exclude...)
	}
	if flags.Changed("serialize-collisions") {
		cfg.SerializeCollisions = o.serializeCollisions
	}
	if flags.Changed("atomic") {
		cfg.Atomic = o.atomic
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (o *rootOpts) run(cmd *cobra.Command, args []string) error {
	if o.noColor || !isTerminal(o.stdout) {
		color.NoColor = true
		pterm.DisableColor()
	}

	cfg, err := o.resolve(cmd, args)
	if err != nil {
		return err
	}

	var logFile io.Writer
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return errors.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logFile = f
	}

	// per-writer levels are set by NewZerolog
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	// run_id tells apart runs appending to the same log file
	zlog := log.NewZerolog(o.stderr, o.debug, logFile).With().Str("run_id", uuid.NewString()).Logger()
	ctx := zlog.WithContext(cmd.Context())
	zlog.Debug().Str("config", cfg.String()).Strs("exclude", cfg.Exclude).Msg("configuration resolved")

	return o.sort(ctx, cfg, log.New(o.stdout, zlog))
}

func (o *rootOpts) sort(ctx context.Context, cfg *config.Config, sink log.Sink) error {
	op, err := operation.New(operation.Options{
		Source:              cfg.Source,
		Destination:         cfg.Destination,
		MaxConcurrentCopies: cfg.MaxConcurrentCopies,
		Exclude:             cfg.Exclude,
		SerializeCollisions: cfg.SerializeCollisions,
		Atomic:              cfg.Atomic,
		Sink:                sink,
	})
	if err != nil {
		return errors.Errorf("creating operation: %w", err)
	}

	summary, err := op.Sort(ctx)
	if perr := printSummary(o.stdout, summary); perr != nil {
		zerolog.Ctx(ctx).Warn().Err(perr).Msg("rendering summary")
	}
	if err != nil {
		return &reportedError{err: err}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
