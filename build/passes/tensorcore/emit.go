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
	"github.com/samber/lo"

	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/canonical"
	"github.com/gx-org/tensorcore/build/ir/irhelper"
	"github.com/gx-org/tensorcore/build/ir/irwalk"
)

// Match is a tensor core loop nest recognized by the pass.
type Match struct {
	Shape    ir.Shape
	Config   Config
	Operands Operands
	Layouts  Layouts
	// Stmt is the statement replacing the loop nest.
	Stmt *ir.MMAStmt
}

// FragmentBytes returns the size in bytes of the tiles of C, A and B.
func (m *Match) FragmentBytes() (c, a, b int64) {
	in, acc := int64(m.Stmt.InType.Size()), int64(m.Stmt.AccType.Size())
	return m.Shape.M * m.Shape.N * acc,
		m.Shape.M * m.Shape.K * in,
		m.Shape.K * m.Shape.N * in
}

// foldStride simplifies a leading dimension into a constant when possible.
func foldStride(stride ir.Expr) ir.Expr {
	folded := irwalk.Fold(stride)
	if val, ok := canonical.Int64(folded); ok {
		return irhelper.IntAs(val, folded.Type())
	}
	return folded
}

// emit builds the statement computing the tile of the nest.
// The offset of an operand is its address at the origin of the tile,
// that is when all the tensor core dimensions are 0.
func (n *nest) emit(cfg Config) *ir.MMAStmt {
	origin := lo.SliceToMap([]*ir.ForStmt{n.loopM, n.loopN, n.loopK}, func(loop *ir.ForStmt) (string, ir.Expr) {
		return loop.Var, irhelper.Int(0)
	})
	fragment := func(load *ir.LoadExpr, stride ir.Expr, layout ir.Layout) ir.Fragment {
		return ir.Fragment{
			Buffer: load.Buffer,
			Offset: irwalk.Fold(irwalk.Substitute(load.Index, origin)),
			Stride: foldStride(stride),
			Layout: layout,
		}
	}
	return &ir.MMAStmt{
		Shape:   n.shape,
		Config:  cfg.Name,
		C:       fragment(n.ops.C, n.strides.C, n.layouts.C),
		A:       fragment(n.ops.A, n.strides.A, n.layouts.A),
		B:       fragment(n.ops.B, n.strides.B, n.layouts.B),
		AccType: n.ops.C.Typ,
		InType:  n.ops.A.Typ,
	}
}
