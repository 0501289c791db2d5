// Copyright 2025 Google LLC
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

// Utility tcextract lowers the tensor core loop nests of a program
// encoded in JSON into matrix-multiply-accumulate statements.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irjson"
	"github.com/gx-org/tensorcore/build/passes/tensorcore"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var formats = []string{formatText, formatJSON}

type flags struct {
	format   string
	check    bool
	parallel int
	trace    bool
}

func readProgram(cmd *cobra.Command, path string) (ir.Stmt, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	prog, err := irjson.Unmarshal(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "cannot decode %s", path)
	}
	return prog, nil
}

func writeProgram(w io.Writer, prog ir.Stmt, format string) error {
	if format == formatText {
		_, err := io.WriteString(w, prog.String())
		return err
	}
	data, err := irjson.Marshal(prog)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func (f *flags) options(cmd *cobra.Command) []tensorcore.Option {
	opts := []tensorcore.Option{tensorcore.WithParallel(f.parallel)}
	if f.trace {
		handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, tensorcore.WithLogger(slog.New(handler)))
	}
	return opts
}

func (f *flags) run(cmd *cobra.Command, args []string) error {
	if !lo.Contains(formats, f.format) {
		return errors.Errorf("unknown output format %q: supported formats are %v", f.format, formats)
	}
	prog, err := readProgram(cmd, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if f.check {
		errs := multierr.Errors(tensorcore.Check(prog, f.options(cmd)...))
		if len(errs) == 0 {
			_, err := fmt.Fprintln(out, "ok")
			return err
		}
		lo.ForEach(errs, func(err error, _ int) {
			fmt.Fprintln(out, err)
		})
		return errors.Errorf("%d tensor core loop nest(s) cannot be lowered", len(errs))
	}
	lowered, err := tensorcore.Extract(prog, f.options(cmd)...)
	if err != nil {
		return err
	}
	return writeProgram(out, lowered, f.format)
}

func newCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "tcextract program.json",
		Short:         "Lower tensor core loop nests into matrix-multiply-accumulate statements",
		Long:          "Lower tensor core loop nests into matrix-multiply-accumulate statements.\nThe program is read from a JSON file, or from the standard input if the file is -.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          f.run,
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", formatText, "output format (text, json)")
	cmd.Flags().BoolVar(&f.check, "check", false, "report all the loop nests which cannot be lowered instead of printing the lowered program")
	cmd.Flags().IntVarP(&f.parallel, "parallel", "p", 1, "number of loop nests analyzed concurrently")
	cmd.Flags().BoolVarP(&f.trace, "trace", "v", false, "trace the analysis on the standard error")
	return cmd
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
