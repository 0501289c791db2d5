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

package ir

// Equal returns true if two expressions have the same structure,
// the same kinds and the same leaves.
// Wildcards are only equal to wildcards of the same name and kind.
func Equal(x, y Expr) bool {
	if x == nil || y == nil {
		return x == y
	}
	switch xT := x.(type) {
	case *IntImm:
		yT, ok := y.(*IntImm)
		return ok && xT.Typ == yT.Typ && xT.Val == yT.Val
	case *FloatImm:
		yT, ok := y.(*FloatImm)
		return ok && xT.Typ == yT.Typ && xT.Val == yT.Val
	case *Variable:
		yT, ok := y.(*Variable)
		return ok && xT.Typ == yT.Typ && xT.Name == yT.Name
	case *Wildcard:
		yT, ok := y.(*Wildcard)
		return ok && xT.Typ == yT.Typ && xT.Name == yT.Name
	case *BinaryExpr:
		yT, ok := y.(*BinaryExpr)
		return ok && xT.Op == yT.Op && Equal(xT.X, yT.X) && Equal(xT.Y, yT.Y)
	case *CastExpr:
		yT, ok := y.(*CastExpr)
		return ok && xT.Typ == yT.Typ && Equal(xT.X, yT.X)
	case *LoadExpr:
		yT, ok := y.(*LoadExpr)
		return ok && xT.Typ == yT.Typ && xT.Buffer == yT.Buffer && Equal(xT.Index, yT.Index)
	}
	return false
}

// IsConst returns the value of an expression if it is an integer constant.
func IsConst(x Expr) (int64, bool) {
	imm, ok := x.(*IntImm)
	if !ok {
		return 0, false
	}
	return imm.Val, true
}

// IsConstZero returns true if the expression is the integer constant 0.
func IsConstZero(x Expr) bool {
	val, ok := IsConst(x)
	return ok && val == 0
}
