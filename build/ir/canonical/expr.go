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

package canonical

import (
	"fmt"
	"go/token"
	"math/big"

	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irkind"
)

type (
	// number is a known constant.
	number struct {
		val *big.Float
	}

	// atom is a symbol: a variable, a load or a cast.
	// Atoms are equal if their string representations are equal.
	atom struct {
		str string
	}
)

func (n *number) Compare(other Comparable) bool {
	otherT, ok := other.(*number)
	return ok && n.val.Cmp(otherT.val) == 0
}

func (n *number) Float() *big.Float {
	return n.val
}

func (n *number) Simplify() Simplifier {
	return n
}

func (n *number) String() string {
	return n.val.Text('g', -1)
}

func (a atom) Compare(other Comparable) bool {
	otherT, ok := other.(atom)
	return ok && a.str == otherT.str
}

func (a atom) Simplify() Simplifier {
	return a
}

func (a atom) String() string {
	return a.str
}

// FromExpr returns the canonical form of an IR expression.
// Integer divisions and remainders are operators without algebraic properties.
func FromExpr(expr ir.Expr) Simplifier {
	switch exprT := expr.(type) {
	case *ir.IntImm:
		return &number{val: new(big.Float).SetInt64(exprT.Val)}
	case *ir.FloatImm:
		return &number{val: big.NewFloat(exprT.Val)}
	case *ir.Variable:
		return atom{str: exprT.Name}
	case *ir.Wildcard:
		return atom{str: exprT.String()}
	case *ir.BinaryExpr:
		x, y := FromExpr(exprT.X), FromExpr(exprT.Y)
		if exprT.Op == token.QUO && irkind.IsIntegerKind(exprT.Type()) {
			return unknown{tk: exprT.Op, pExpr: orderedExpr(x, y)}
		}
		return FromBinary(exprT.Op, x, y)
	case *ir.CastExpr:
		return atom{str: fmt.Sprintf("%s(%s)", exprT.Typ, FromExpr(exprT.X).Simplify())}
	case *ir.LoadExpr:
		return atom{str: fmt.Sprintf("%s[%s]", exprT.Buffer, FromExpr(exprT.Index).Simplify())}
	default:
		return atom{str: fmt.Sprintf("%T", exprT)}
	}
}

// Equal returns true if two expressions are equal up to the commutativity
// and the associativity of the addition and the multiplication,
// and up to the evaluation of constants.
func Equal(x, y ir.Expr) bool {
	return FromExpr(x).Simplify().Compare(FromExpr(y).Simplify())
}

// Int64 returns the value of an expression if it only contains integer constants.
func Int64(expr ir.Expr) (int64, bool) {
	val := ToValue(FromExpr(expr).Simplify())
	if val == nil || !val.IsInt() {
		return 0, false
	}
	i, acc := val.Int64()
	return i, acc == big.Exact
}
