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

// Package tensorcore lowers tensor core loop nests into
// matrix-multiply-accumulate statements.
//
// A tensor core loop nest is made of three nested loops of kind
// [ir.TensorCore], M, N and K, iterating from 0 over constant extents.
// The innermost loop stores a single value of the form
//
//	C[c] = C[c] + cast(A[a]) * cast(B[b])
//
// where the addresses a, b and c match one of the layouts known by the pass.
// The pass replaces the whole nest with one [ir.MMAStmt].
// A nest which cannot be lowered is an error: the pass never leaves
// a tensor core loop in the program.
package tensorcore

import (
	"log/slog"
	"slices"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/gx-org/tensorcore/build/fmterr"
	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irwalk"
)

type options struct {
	logger   *slog.Logger
	parallel int
	shapes   Shapes
}

// Option configures the pass.
type Option func(*options)

// WithLogger sets the logger tracing the analysis at the debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithParallel analyzes up to n loop nests concurrently.
// The nests are analyzed sequentially if n <= 1.
func WithParallel(n int) Option {
	return func(opts *options) {
		opts.parallel = n
	}
}

// WithShapes replaces the table of supported shapes.
func WithShapes(shapes Shapes) Option {
	return func(opts *options) {
		opts.shapes = shapes
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: slog.New(slog.DiscardHandler),
		shapes: DefaultShapes,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// candidate is the outer loop of a tensor core nest with
// the bindings enclosing it.
type candidate struct {
	loop *ir.ForStmt
	lets []*ir.LetStmt
}

func (o *options) findNests(stmt ir.Stmt, lets []*ir.LetStmt, nests []candidate) []candidate {
	switch stmtT := stmt.(type) {
	case *ir.ForStmt:
		switch stmtT.Kind {
		case ir.TensorCore:
			return append(nests, candidate{loop: stmtT, lets: slices.Clone(lets)})
		case ir.GPUBlock:
			o.logger.Debug("gpu block loop", "loop", stmtT.ShortString())
		}
		return o.findNests(stmtT.Body, lets, nests)
	case *ir.LetStmt:
		return o.findNests(stmtT.Body, append(lets, stmtT), nests)
	case *ir.BlockStmt:
		for _, child := range stmtT.List {
			nests = o.findNests(child, lets, nests)
		}
		return nests
	}
	return nests
}

// analyzeNests analyzes all the nests.
// If failFast is set, the sequential analysis stops at the first error.
func (o *options) analyzeNests(nests []candidate, failFast bool) ([]*Match, []error) {
	matches := make([]*Match, len(nests))
	errs := make([]error, len(nests))
	if o.parallel <= 1 {
		for i, cand := range nests {
			matches[i], errs[i] = newNest(o, cand.loop, cand.lets).analyze()
			if errs[i] != nil && failFast {
				break
			}
		}
		return matches, errs
	}
	var group errgroup.Group
	group.SetLimit(o.parallel)
	for i, cand := range nests {
		group.Go(func() error {
			matches[i], errs[i] = newNest(o, cand.loop, cand.lets).analyze()
			return nil
		})
	}
	// Errors are collected in errs to report them in the order of the program.
	_ = group.Wait()
	return matches, errs
}

// Extract replaces all the tensor core loop nests of a program with
// matrix-multiply-accumulate statements.
// The first nest, in program order, which cannot be lowered is reported as an error.
// A program without tensor core loops is returned as is.
func Extract(root ir.Stmt, opts ...Option) (ir.Stmt, error) {
	o := newOptions(opts)
	nests := o.findNests(root, nil, nil)
	o.logger.Debug("extracting tensor core operations", "nests", len(nests))
	if len(nests) == 0 {
		return root, nil
	}
	matches, errs := o.analyzeNests(nests, true)
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	// Nests are replaced in the order of findNests so that a nest shared
	// by several parents is lowered once per occurrence.
	next := 0
	return irwalk.RewriteStmt(root, func(stmt ir.Stmt) (ir.Stmt, error) {
		loop, ok := stmt.(*ir.ForStmt)
		if !ok || loop.Kind != ir.TensorCore {
			return nil, nil
		}
		if next >= len(matches) || matches[next] == nil {
			return nil, fmterr.Internalf(loop, "tensor core loop %s has not been analyzed", loop.Var)
		}
		lowered := matches[next].Stmt
		next++
		return lowered, nil
	})
}

// Check analyzes all the tensor core loop nests of a program and
// returns all the errors.
func Check(root ir.Stmt, opts ...Option) error {
	o := newOptions(opts)
	nests := o.findNests(root, nil, nil)
	_, errs := o.analyzeNests(nests, false)
	var all error
	for i, err := range errs {
		if err == nil {
			continue
		}
		all = multierr.Append(all, fmterr.PrefixWith("loop nest %d: ", i)(err))
	}
	return all
}

// Analyze analyzes a single tensor core loop nest given its outer loop.
// Bindings enclosing the loop are not resolved.
func Analyze(loop *ir.ForStmt, opts ...Option) (*Match, error) {
	if loop.Kind != ir.TensorCore {
		return nil, fmterr.Wrapf(loop, irwalk.ErrNotTensorCore, "%s loop %s", loop.Kind, loop.Var)
	}
	return newNest(newOptions(opts), loop, nil).analyze()
}
