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

package canonical_test

import (
	"go/token"
	"testing"

	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/canonical"
	"github.com/gx-org/tensorcore/build/ir/irhelper"
	"github.com/gx-org/tensorcore/build/ir/irkind"
)

var (
	k = irhelper.Var("k")
	m = irhelper.Var("m")
	a = irhelper.Var("a")
	b = irhelper.Var("b")
	c = irhelper.Var("c")
)

func TestCanonicalString(t *testing.T) {
	tests := []struct {
		Expr       ir.Expr
		Str        string
		Simplified string
	}{
		{
			Expr:       irhelper.Int(42),
			Str:        "42",
			Simplified: "42",
		},
		{
			Expr:       irhelper.Add(irhelper.Int(5), irhelper.Int(2)),
			Str:        "(+ 2 5)",
			Simplified: "7",
		},
		{
			Expr:       irhelper.Sub(irhelper.Int(5), irhelper.Int(2)),
			Str:        "(+ (- 2) 5)",
			Simplified: "3",
		},
		{
			Expr:       irhelper.Mul(k, irhelper.Add(m, irhelper.Int(3))),
			Str:        "(* (+ 3 m) k)",
			Simplified: "(* (+ 3 m) k)",
		},
		{
			Expr:       irhelper.Mul(irhelper.Mul(irhelper.Int(2), k), irhelper.Mul(irhelper.Int(4), m)),
			Str:        "(* (* 2 k) (* 4 m))",
			Simplified: "(* 8 k m)",
		},
		{
			Expr:       irhelper.Binary(token.REM, b, a),
			Str:        "(% b a)",
			Simplified: "(% b a)",
		},
	}
	for i, test := range tests {
		can := canonical.FromExpr(test.Expr)
		if got := can.String(); got != test.Str {
			t.Errorf("test %d: incorrect expression representation: got %s but want %s", i, got, test.Str)
		}
		if got := can.Simplify().String(); got != test.Simplified {
			t.Errorf("test %d: incorrect simplified expression representation: got %s but want %s", i, got, test.Simplified)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		x, y ir.Expr
		want bool
	}{
		{
			x:    irhelper.Add(k, irhelper.Mul(m, irhelper.Int(16))),
			y:    irhelper.Add(irhelper.Mul(irhelper.Int(16), m), k),
			want: true,
		},
		{
			x:    irhelper.Add(irhelper.Add(a, b), c),
			y:    irhelper.Add(a, irhelper.Add(b, c)),
			want: true,
		},
		{
			x:    irhelper.Sub(a, b),
			y:    irhelper.Sub(b, a),
			want: false,
		},
		{
			x:    irhelper.Binary(token.REM, a, b),
			y:    irhelper.Binary(token.REM, b, a),
			want: false,
		},
		{
			x:    irhelper.Mul(irhelper.Add(k, irhelper.Int(0)), irhelper.Int(1)),
			y:    k,
			want: true,
		},
		{
			x:    irhelper.Load(irkind.Float32, "C", irhelper.Add(a, b)),
			y:    irhelper.Load(irkind.Float32, "C", irhelper.Add(b, a)),
			want: true,
		},
		{
			x:    irhelper.Load(irkind.Float32, "C", a),
			y:    irhelper.Load(irkind.Float32, "D", a),
			want: false,
		},
		{
			x:    irhelper.Cast(irkind.Float32, a),
			y:    irhelper.Cast(irkind.Float64, a),
			want: false,
		},
		{
			x:    irhelper.Add(irhelper.Add(a, irhelper.Int(3)), irhelper.Int(-3)),
			y:    a,
			want: true,
		},
	}
	for i, test := range tests {
		if got := canonical.Equal(test.x, test.y); got != test.want {
			t.Errorf("test %d: Equal(%s, %s) = %v but want %v", i, test.x, test.y, got, test.want)
		}
	}
}

func TestInt64(t *testing.T) {
	tests := []struct {
		expr ir.Expr
		want int64
		ok   bool
	}{
		{expr: irhelper.Mul(irhelper.Int(8), irhelper.Int(16)), want: 128, ok: true},
		{expr: irhelper.Add(irhelper.Int(112), irhelper.Int(16)), want: 128, ok: true},
		{expr: irhelper.Add(k, irhelper.Int(1))},
		{expr: irhelper.Binary(token.QUO, irhelper.Int(7), irhelper.Int(2))},
	}
	for i, test := range tests {
		got, ok := canonical.Int64(test.expr)
		if ok != test.ok || got != test.want {
			t.Errorf("test %d: Int64(%s) = %d, %v but want %d, %v", i, test.expr, got, ok, test.want, test.ok)
		}
	}
}
