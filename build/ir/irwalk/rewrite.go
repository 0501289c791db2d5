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
	"fmt"

	"github.com/gx-org/tensorcore/build/ir"
)

type (
	// ExprFunc is called on each expression before its children.
	// It returns the expression replacing its argument or nil
	// to keep the expression and rewrite its children.
	ExprFunc func(ir.Expr) (ir.Expr, error)

	// StmtFunc is called on each statement before its children.
	// It returns the statement replacing its argument or nil
	// to keep the statement and rewrite its children.
	StmtFunc func(ir.Stmt) (ir.Stmt, error)
)

// RewriteExpr rewrites an expression tree.
// Nodes with unchanged children are not copied: an expression for which f
// never returns a replacement is returned as is.
func RewriteExpr(expr ir.Expr, f ExprFunc) (ir.Expr, error) {
	if expr == nil {
		return nil, nil
	}
	repl, err := f(expr)
	if err != nil {
		return nil, err
	}
	if repl != nil {
		return repl, nil
	}
	switch exprT := expr.(type) {
	case *ir.IntImm, *ir.FloatImm, *ir.Variable, *ir.Wildcard:
		return expr, nil
	case *ir.BinaryExpr:
		x, err := RewriteExpr(exprT.X, f)
		if err != nil {
			return nil, err
		}
		y, err := RewriteExpr(exprT.Y, f)
		if err != nil {
			return nil, err
		}
		if x == exprT.X && y == exprT.Y {
			return expr, nil
		}
		return &ir.BinaryExpr{Op: exprT.Op, X: x, Y: y}, nil
	case *ir.CastExpr:
		x, err := RewriteExpr(exprT.X, f)
		if err != nil {
			return nil, err
		}
		if x == exprT.X {
			return expr, nil
		}
		return &ir.CastExpr{Typ: exprT.Typ, X: x}, nil
	case *ir.LoadExpr:
		index, err := RewriteExpr(exprT.Index, f)
		if err != nil {
			return nil, err
		}
		if index == exprT.Index {
			return expr, nil
		}
		return &ir.LoadExpr{Typ: exprT.Typ, Buffer: exprT.Buffer, Index: index}, nil
	default:
		return nil, fmt.Errorf("expression type %T not supported", exprT)
	}
}

// RewriteStmt rewrites the statements of a tree.
// Expressions are not traversed.
// Nodes with unchanged children are not copied: a statement for which f
// never returns a replacement is returned as is.
func RewriteStmt(stmt ir.Stmt, f StmtFunc) (ir.Stmt, error) {
	if stmt == nil {
		return nil, nil
	}
	repl, err := f(stmt)
	if err != nil {
		return nil, err
	}
	if repl != nil {
		return repl, nil
	}
	switch stmtT := stmt.(type) {
	case *ir.StoreStmt, *ir.MMAStmt:
		return stmt, nil
	case *ir.ForStmt:
		body, err := RewriteStmt(stmtT.Body, f)
		if err != nil {
			return nil, err
		}
		if body == stmtT.Body {
			return stmt, nil
		}
		loop := *stmtT
		loop.Body = body
		return &loop, nil
	case *ir.LetStmt:
		body, err := RewriteStmt(stmtT.Body, f)
		if err != nil {
			return nil, err
		}
		if body == stmtT.Body {
			return stmt, nil
		}
		return &ir.LetStmt{Name: stmtT.Name, Value: stmtT.Value, Body: body}, nil
	case *ir.BlockStmt:
		var list []ir.Stmt
		for i, child := range stmtT.List {
			nChild, err := RewriteStmt(child, f)
			if err != nil {
				return nil, err
			}
			if list == nil && nChild != child {
				list = append(make([]ir.Stmt, 0, len(stmtT.List)), stmtT.List[:i]...)
			}
			if list != nil {
				list = append(list, nChild)
			}
		}
		if list == nil {
			return stmt, nil
		}
		return &ir.BlockStmt{List: list}, nil
	default:
		return nil, fmt.Errorf("statement type %T not supported", stmtT)
	}
}

// Substitute replaces the variables of an expression given their names.
// Replacements are not traversed.
func Substitute(expr ir.Expr, vals map[string]ir.Expr) ir.Expr {
	// The function never fails: all the expression types are supported.
	subst, _ := RewriteExpr(expr, func(expr ir.Expr) (ir.Expr, error) {
		vr, ok := expr.(*ir.Variable)
		if !ok {
			return nil, nil
		}
		return vals[vr.Name], nil
	})
	return subst
}
