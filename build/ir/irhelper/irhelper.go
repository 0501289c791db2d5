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

// Package irhelper provides helper functions to build IR programmatically.
package irhelper

import (
	"go/token"

	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irkind"
)

// Int returns an index constant.
func Int(v int64) *ir.IntImm {
	return IntAs(v, irkind.Index)
}

// IntAs returns an integer constant of a given kind.
func IntAs(v int64, kind irkind.Kind) *ir.IntImm {
	return &ir.IntImm{Typ: kind, Val: v}
}

// Float returns a float constant of a given kind.
func Float(v float64, kind irkind.Kind) *ir.FloatImm {
	return &ir.FloatImm{Typ: kind, Val: v}
}

// Var returns a reference to an index variable.
func Var(name string) *ir.Variable {
	return VarAs(name, irkind.Index)
}

// VarAs returns a reference to a variable of a given kind.
func VarAs(name string, kind irkind.Kind) *ir.Variable {
	return &ir.Variable{Typ: kind, Name: name}
}

// Wild returns a wildcard matching any expression.
func Wild(name string) *ir.Wildcard {
	return &ir.Wildcard{Name: name}
}

// Binary returns a binary expression.
func Binary(op token.Token, x, y ir.Expr) *ir.BinaryExpr {
	return &ir.BinaryExpr{Op: op, X: x, Y: y}
}

// Add returns x + y.
func Add(x, y ir.Expr) *ir.BinaryExpr {
	return Binary(token.ADD, x, y)
}

// Sub returns x - y.
func Sub(x, y ir.Expr) *ir.BinaryExpr {
	return Binary(token.SUB, x, y)
}

// Mul returns x * y.
func Mul(x, y ir.Expr) *ir.BinaryExpr {
	return Binary(token.MUL, x, y)
}

// Cast converts x into a given kind.
func Cast(kind irkind.Kind, x ir.Expr) *ir.CastExpr {
	return &ir.CastExpr{Typ: kind, X: x}
}

// Load reads an element of a buffer.
func Load(kind irkind.Kind, buffer string, index ir.Expr) *ir.LoadExpr {
	return &ir.LoadExpr{Typ: kind, Buffer: buffer, Index: index}
}

// For returns a loop over [minV, minV+extent) with constant bounds.
func For(kind ir.ForKind, name string, minV, extent int64, body ir.Stmt) *ir.ForStmt {
	return &ir.ForStmt{
		Var:    name,
		Min:    Int(minV),
		Extent: Int(extent),
		Kind:   kind,
		Body:   body,
	}
}

// Let binds a name to a value for a body.
func Let(name string, value ir.Expr, body ir.Stmt) *ir.LetStmt {
	return &ir.LetStmt{Name: name, Value: value, Body: body}
}

// Store writes a value in a buffer.
func Store(buffer string, index, value ir.Expr) *ir.StoreStmt {
	return &ir.StoreStmt{Buffer: buffer, Index: index, Value: value}
}

// Block returns a block of statements.
func Block(stmts ...ir.Stmt) *ir.BlockStmt {
	return &ir.BlockStmt{List: stmts}
}
