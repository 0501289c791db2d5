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

package tensorcore

import (
	"log/slog"
	"slices"
	"strings"

	basefmt "github.com/gx-org/tensorcore/base/fmt"
	"github.com/gx-org/tensorcore/build/fmterr"
	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/canonical"
	"github.com/gx-org/tensorcore/build/ir/irhelper"
	"github.com/gx-org/tensorcore/build/ir/irmatch"
	"github.com/gx-org/tensorcore/build/ir/irwalk"
)

// Operands are the reads and the write of a matrix-multiply-accumulate.
type Operands struct {
	// Store writes the result. Its index and value are resolved:
	// they do not refer to bindings of the nest.
	Store *ir.StoreStmt
	// C is the read of the accumulator.
	C *ir.LoadExpr
	// A and B are the reads of the multiplied matrices.
	A, B *ir.LoadExpr
}

// Valid returns true if all the operands have been found.
func (ops Operands) Valid() bool {
	return ops.Store != nil && ops.C != nil && ops.A != nil && ops.B != nil
}

// nest is the state of the analysis of one tensor core loop nest.
type nest struct {
	opts *options
	log  *slog.Logger

	loopM, loopN, loopK *ir.ForStmt
	shape               ir.Shape

	lets []*ir.LetStmt
	ops  Operands

	layouts Layouts
	strides struct {
		C, A, B ir.Expr
	}
}

func newNest(opts *options, loop *ir.ForStmt, outer []*ir.LetStmt) *nest {
	return &nest{
		opts:  opts,
		log:   opts.logger.With("loop", loop.ShortString()),
		loopM: loop,
		lets:  outer,
	}
}

// analyze matches the idiom in the nest and builds the statement replacing it.
func (n *nest) analyze() (*Match, error) {
	n.log.Debug("analyzing tensor core loop nest", "nest", basefmt.Number(n.loopM.String()))
	if err := n.matchLoops(); err != nil {
		return nil, err
	}
	if err := n.matchAccumulate(); err != nil {
		return nil, err
	}
	if err := n.classifyLayouts(); err != nil {
		return nil, err
	}
	cfg, err := n.validateShape()
	if err != nil {
		return nil, err
	}
	stmt := n.emit(cfg)
	n.log.Debug("tensor core loop nest lowered", "stmt", strings.TrimSpace(stmt.String()))
	return &Match{
		Shape:    n.shape,
		Config:   cfg,
		Operands: n.ops,
		Layouts:  n.layouts,
		Stmt:     stmt,
	}, nil
}

// extent returns the number of iterations of a tensor core loop.
func extent(loop *ir.ForStmt) (int64, error) {
	minV, ext, ok := loop.ConstRange()
	if !ok || minV != 0 || ext <= 0 {
		return 0, fmterr.Wrapf(loop, ErrLoopRange, "loop %s iterates over (%s, %s)", loop.Var, loop.Min, loop.Extent)
	}
	return ext, nil
}

// innermost skips the bindings and the single statement blocks
// at the top of a loop body.
func innermost(body ir.Stmt) ir.Stmt {
	for {
		switch bodyT := body.(type) {
		case *ir.LetStmt:
			if bodyT.Body == nil {
				return bodyT
			}
			body = bodyT.Body
		case *ir.BlockStmt:
			if len(bodyT.List) != 1 {
				return bodyT
			}
			body = bodyT.List[0]
		default:
			return body
		}
	}
}

// matchLoops checks that the nest has exactly three tensor core
// dimensions M, N and K, nested in this order.
func (n *nest) matchLoops() error {
	m, err := extent(n.loopM)
	if err != nil {
		return err
	}
	n.lets = slices.Concat(n.lets, irwalk.CollectBindings(n.loopM))
	loops, err := irwalk.CollectTensorLoops(n.loopM.Body)
	if err != nil {
		return err
	}
	if len(loops) != 2 {
		return fmterr.Wrapf(n.loopM, ErrNesting, "expected 3 tensor core dimensions, got %d", len(loops)+1)
	}
	n.loopN, n.loopK = loops[0], loops[1]
	if !irwalk.Contains(n.loopN.Body, n.loopK) {
		return fmterr.Wrapf(n.loopK, ErrNesting, "loop %s is not nested in loop %s", n.loopK.Var, n.loopN.Var)
	}
	if inner := innermost(n.loopM.Body); inner != n.loopN {
		return fmterr.Wrapf(n.loopM, ErrNesting, "loop %s holds %s beside loop %s", n.loopM.Var, inner.ShortString(), n.loopN.Var)
	}
	if inner := innermost(n.loopN.Body); inner != n.loopK {
		return fmterr.Wrapf(n.loopN, ErrNesting, "loop %s holds %s beside loop %s", n.loopN.Var, inner.ShortString(), n.loopK.Var)
	}
	nExt, err := extent(n.loopN)
	if err != nil {
		return err
	}
	kExt, err := extent(n.loopK)
	if err != nil {
		return err
	}
	n.shape = ir.Shape{M: m, N: nExt, K: kExt}
	n.log.Debug("found the required loop nesting", "shape", n.shape.String(), "bindings", len(n.lets))
	return nil
}

// Templates of the value written in the accumulator.
// The multiplication is never commuted: the left operand is A.
var accumulateTemplates = []ir.Expr{
	irhelper.Add(irhelper.Wild("c"), irhelper.Mul(irhelper.Wild("a"), irhelper.Wild("b"))),
	irhelper.Add(irhelper.Mul(irhelper.Wild("a"), irhelper.Wild("b")), irhelper.Wild("c")),
}

func matchAccumulateValue(value ir.Expr) (irmatch.Bindings, bool) {
	for _, tmpl := range accumulateTemplates {
		if bindings, ok := irmatch.MatchNamed(tmpl, value); ok {
			return bindings, true
		}
	}
	return nil, false
}

func castLoad(expr ir.Expr) (*ir.CastExpr, *ir.LoadExpr, bool) {
	cast, ok := expr.(*ir.CastExpr)
	if !ok {
		return nil, nil, false
	}
	load, ok := cast.X.(*ir.LoadExpr)
	return cast, load, ok
}

// matchAccumulate finds the unique store of the nest and extracts
// the operands of C = C + cast(A) * cast(B).
func (n *nest) matchAccumulate() error {
	stores := irwalk.Collect[*ir.StoreStmt](n.loopK.Body)
	if len(stores) != 1 {
		return fmterr.Wrapf(n.loopK, ErrStoreCount, "got %d stores", len(stores))
	}
	store := stores[0]
	if inner := innermost(n.loopK.Body); inner != store {
		return fmterr.Wrapf(n.loopK, ErrStoreCount, "loop %s holds %s beside the store", n.loopK.Var, inner.ShortString())
	}
	resolver := irwalk.NewResolver(n.lets)
	index, err := resolver.Resolve(store.Index)
	if err != nil {
		return err
	}
	value, err := resolver.Resolve(store.Value)
	if err != nil {
		return err
	}
	resolved := &ir.StoreStmt{Buffer: store.Buffer, Index: index, Value: value}
	n.log.Debug("store after resolving bindings", "store", strings.TrimSpace(resolved.String()))

	bindings, ok := matchAccumulateValue(value)
	if !ok {
		return fmterr.Wrapf(store, ErrAccumulate, "value %s does not match %s", value, accumulateTemplates[0])
	}
	c, ok := bindings["c"].(*ir.LoadExpr)
	if !ok {
		return fmterr.Wrapf(store, ErrAccumulate, "accumulator %s is not a load", bindings["c"])
	}
	castA, a, okA := castLoad(bindings["a"])
	castB, b, okB := castLoad(bindings["b"])
	if !okA || !okB {
		return fmterr.Wrapf(store, ErrAccumulate, "operands %s and %s are not converted loads", bindings["a"], bindings["b"])
	}
	if c.Buffer != store.Buffer {
		return fmterr.Wrapf(store, ErrAccumulate, "accumulator read from %s but stored in %s", c.Buffer, store.Buffer)
	}
	if !canonical.Equal(c.Index, index) {
		return fmterr.Wrapf(store, ErrAccumulate, "accumulator read at %s but stored at %s", c.Index, index)
	}
	if a.Typ != b.Typ {
		return fmterr.Wrapf(store, ErrAccumulate, "operands %s and %s have different kinds %s and %s", a.Buffer, b.Buffer, a.Typ, b.Typ)
	}
	if castA.Typ != c.Typ || castB.Typ != c.Typ {
		return fmterr.Wrapf(store, ErrAccumulate, "operands converted to %s and %s but accumulated in %s", castA.Typ, castB.Typ, c.Typ)
	}
	n.ops = Operands{Store: resolved, C: c, A: a, B: b}
	n.log.Debug("accumulate operands", "C", c.String(), "A", a.String(), "B", b.String())
	return nil
}
