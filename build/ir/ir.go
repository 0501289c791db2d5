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

// Package ir is the loop-level Intermediate Representation (IR) tree
// consumed by the lowering passes.
//
// The tree is immutable: passes build new trees and share the nodes
// they do not change. Expressions are compared structurally (see [Equal]),
// never by identity.
package ir

import (
	"fmt"
	"go/token"

	"github.com/gx-org/tensorcore/build/ir/irkind"
)

// ----------------------------------------------------------------------------
// Types of node in the tree.
type (
	// Node in the tree.
	Node interface {
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()
	}

	// Expr is an expression computing a scalar value.
	Expr interface {
		Node
		// exprNode marks a structure as an expression structure.
		exprNode()
		// Type returns the element kind of the value computed by the expression.
		Type() irkind.Kind
		String() string
	}

	// Stmt is a statement that performs an action.
	// No value is being returned.
	Stmt interface {
		Node
		// stmtNode marks a structure as a statement structure.
		stmtNode()
		// ShortString returns a one line description of the statement
		// used to locate errors.
		ShortString() string
		String() string
	}
)

// ----------------------------------------------------------------------------
// Expressions.
type (
	// IntImm is an integer constant.
	IntImm struct {
		Typ irkind.Kind
		Val int64
	}

	// FloatImm is a floating point constant.
	FloatImm struct {
		Typ irkind.Kind
		Val float64
	}

	// Variable is a reference to a loop variable, a let binding
	// or a parameter of the program.
	Variable struct {
		Typ  irkind.Kind
		Name string
	}

	// Wildcard matches any expression in a template.
	// It never appears in a program.
	// An invalid kind matches expressions of any kind.
	Wildcard struct {
		Typ  irkind.Kind
		Name string
	}

	// BinaryExpr is an arithmetic operation between two expressions.
	// Op is one of token.ADD, token.SUB, token.MUL, token.QUO or token.REM.
	BinaryExpr struct {
		Op   token.Token
		X, Y Expr
	}

	// CastExpr converts a value into another kind.
	CastExpr struct {
		Typ irkind.Kind
		X   Expr
	}

	// LoadExpr reads an element of a buffer at a linear offset.
	LoadExpr struct {
		Typ    irkind.Kind
		Buffer string
		Index  Expr
	}
)

var (
	_ Expr = (*IntImm)(nil)
	_ Expr = (*FloatImm)(nil)
	_ Expr = (*Variable)(nil)
	_ Expr = (*Wildcard)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*CastExpr)(nil)
	_ Expr = (*LoadExpr)(nil)
)

func (*IntImm) node()     {}
func (*IntImm) exprNode() {}

// Type of the constant.
func (e *IntImm) Type() irkind.Kind { return e.Typ }

func (*FloatImm) node()     {}
func (*FloatImm) exprNode() {}

// Type of the constant.
func (e *FloatImm) Type() irkind.Kind { return e.Typ }

func (*Variable) node()     {}
func (*Variable) exprNode() {}

// Type of the variable.
func (e *Variable) Type() irkind.Kind { return e.Typ }

func (*Wildcard) node()     {}
func (*Wildcard) exprNode() {}

// Type matched by the wildcard.
func (e *Wildcard) Type() irkind.Kind { return e.Typ }

func (*BinaryExpr) node()     {}
func (*BinaryExpr) exprNode() {}

// Type of the result, that is the type of the left operand.
func (e *BinaryExpr) Type() irkind.Kind { return e.X.Type() }

func (*CastExpr) node()     {}
func (*CastExpr) exprNode() {}

// Type targeted by the conversion.
func (e *CastExpr) Type() irkind.Kind { return e.Typ }

func (*LoadExpr) node()     {}
func (*LoadExpr) exprNode() {}

// Type of the elements of the buffer.
func (e *LoadExpr) Type() irkind.Kind { return e.Typ }

// IsBinaryOp returns true if the token is an operator supported by BinaryExpr.
func IsBinaryOp(op token.Token) bool {
	switch op {
	case token.ADD, token.SUB, token.MUL, token.QUO, token.REM:
		return true
	}
	return false
}

// StrideVar returns the variable holding the stride of a buffer along a dimension.
func StrideVar(buffer string, dim int) *Variable {
	return &Variable{Typ: irkind.Index, Name: fmt.Sprintf("%s.stride.%d", buffer, dim)}
}

// ----------------------------------------------------------------------------
// Statements.

// ForKind is the iteration kind of a loop, assigned by scheduling.
type ForKind uint8

// Iteration kinds of loops.
const (
	Serial ForKind = iota
	Parallel
	Vectorized
	Unrolled
	GPUBlock
	GPUThread
	// TensorCore marks a loop as one dimension of a hardware
	// matrix-multiply-accumulate region.
	TensorCore
)

var forKindNames = []string{
	Serial:     "serial",
	Parallel:   "parallel",
	Vectorized: "vectorized",
	Unrolled:   "unrolled",
	GPUBlock:   "gpu_block",
	GPUThread:  "gpu_thread",
	TensorCore: "tensor_core",
}

// String returns the name of the kind.
func (k ForKind) String() string {
	if int(k) >= len(forKindNames) {
		return fmt.Sprintf("ForKind(%d)", k)
	}
	return forKindNames[k]
}

// ForKindFromString returns a loop kind given its name.
func ForKindFromString(s string) (ForKind, bool) {
	for i, name := range forKindNames {
		if name == s {
			return ForKind(i), true
		}
	}
	return Serial, false
}

type (
	// ForStmt iterates its body over [Min, Min+Extent).
	ForStmt struct {
		Var    string
		Min    Expr
		Extent Expr
		Kind   ForKind
		Body   Stmt
	}

	// LetStmt binds a name to an expression for the rest of its body.
	// A LetStmt shadows the bindings of the same name of enclosing statements.
	LetStmt struct {
		Name  string
		Value Expr
		Body  Stmt
	}

	// StoreStmt writes a value in a buffer at a linear offset.
	StoreStmt struct {
		Buffer string
		Index  Expr
		Value  Expr
	}

	// BlockStmt is a sequence of statements.
	BlockStmt struct {
		List []Stmt
	}
)

var (
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*LetStmt)(nil)
	_ Stmt = (*StoreStmt)(nil)
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*MMAStmt)(nil)
)

func (*ForStmt) node()     {}
func (*ForStmt) stmtNode() {}

// VarRef returns a reference to the variable of the loop.
func (s *ForStmt) VarRef() *Variable {
	return &Variable{Typ: irkind.Index, Name: s.Var}
}

// ConstRange returns the range of the loop if both its minimum and its
// extent are constants.
func (s *ForStmt) ConstRange() (minV, extent int64, ok bool) {
	minImm, minOk := s.Min.(*IntImm)
	extImm, extOk := s.Extent.(*IntImm)
	if !minOk || !extOk {
		return 0, 0, false
	}
	return minImm.Val, extImm.Val, true
}

func (*LetStmt) node()     {}
func (*LetStmt) stmtNode() {}

func (*StoreStmt) node()     {}
func (*StoreStmt) stmtNode() {}

func (*BlockStmt) node()     {}
func (*BlockStmt) stmtNode() {}
