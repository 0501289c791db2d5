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

package irwalk

import (
	"go/token"

	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irkind"
)

// Fold simplifies the integer arithmetic of an expression:
// constant operands are computed and the neutral elements of
// the addition and the multiplication are removed.
// Division and remainder are kept as is.
func Fold(expr ir.Expr) ir.Expr {
	switch exprT := expr.(type) {
	case *ir.BinaryExpr:
		return foldBinary(exprT)
	case *ir.CastExpr:
		x := Fold(exprT.X)
		if x == exprT.X {
			return expr
		}
		return &ir.CastExpr{Typ: exprT.Typ, X: x}
	case *ir.LoadExpr:
		index := Fold(exprT.Index)
		if index == exprT.Index {
			return expr
		}
		return &ir.LoadExpr{Typ: exprT.Typ, Buffer: exprT.Buffer, Index: index}
	default:
		return expr
	}
}

func isConst(x ir.Expr, val int64) bool {
	got, ok := ir.IsConst(x)
	return ok && got == val
}

func foldBinary(expr *ir.BinaryExpr) ir.Expr {
	x, y := Fold(expr.X), Fold(expr.Y)
	if !irkind.IsIntegerKind(x.Type()) {
		if x == expr.X && y == expr.Y {
			return expr
		}
		return &ir.BinaryExpr{Op: expr.Op, X: x, Y: y}
	}
	xVal, xOk := ir.IsConst(x)
	yVal, yOk := ir.IsConst(y)
	switch expr.Op {
	case token.ADD:
		switch {
		case xOk && yOk:
			return &ir.IntImm{Typ: x.Type(), Val: xVal + yVal}
		case isConst(x, 0):
			return y
		case isConst(y, 0):
			return x
		}
	case token.SUB:
		switch {
		case xOk && yOk:
			return &ir.IntImm{Typ: x.Type(), Val: xVal - yVal}
		case isConst(y, 0):
			return x
		}
	case token.MUL:
		switch {
		case xOk && yOk:
			return &ir.IntImm{Typ: x.Type(), Val: xVal * yVal}
		case isConst(x, 0) || isConst(y, 0):
			return &ir.IntImm{Typ: x.Type(), Val: 0}
		case isConst(x, 1):
			return y
		case isConst(y, 1):
			return x
		}
	}
	if x == expr.X && y == expr.Y {
		return expr
	}
	return &ir.BinaryExpr{Op: expr.Op, X: x, Y: y}
}
