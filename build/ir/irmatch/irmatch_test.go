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

package irmatch_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irhelper"
	"github.com/gx-org/tensorcore/build/ir/irkind"
	"github.com/gx-org/tensorcore/build/ir/irmatch"
)

func exprStrings(exprs []ir.Expr) []string {
	ss := make([]string, len(exprs))
	for i, expr := range exprs {
		ss[i] = expr.String()
	}
	return ss
}

func TestMatch(t *testing.T) {
	var (
		w   = irhelper.Wild
		i   = irhelper.Var("i")
		j   = irhelper.Var("j")
		c16 = irhelper.Int(16)
	)
	tests := []struct {
		pattern ir.Expr
		expr    ir.Expr
		want    []string
		ok      bool
	}{
		{
			pattern: irhelper.Add(w(""), w("")),
			expr:    irhelper.Add(i, irhelper.Mul(j, c16)),
			want:    []string{"i", "(j * 16)"},
			ok:      true,
		},
		{
			pattern: irhelper.Add(w(""), w("")),
			expr:    irhelper.Sub(i, j),
		},
		{
			pattern: irhelper.Add(irhelper.Mul(w(""), w("")), w("")),
			expr:    irhelper.Add(i, irhelper.Mul(j, c16)),
		},
		{
			pattern: irhelper.Add(i, w("")),
			expr:    irhelper.Add(i, c16),
			want:    []string{"16"},
			ok:      true,
		},
		{
			pattern: irhelper.Add(i, w("")),
			expr:    irhelper.Add(j, c16),
		},
		{
			pattern: irhelper.Cast(irkind.Float32, irhelper.Load(irkind.Bfloat16, "A", w(""))),
			expr:    irhelper.Cast(irkind.Float32, irhelper.Load(irkind.Bfloat16, "A", irhelper.Add(i, j))),
			want:    []string{"(i + j)"},
			ok:      true,
		},
		{
			pattern: irhelper.Cast(irkind.Float32, irhelper.Load(irkind.Bfloat16, "A", w(""))),
			expr:    irhelper.Cast(irkind.Float32, irhelper.Load(irkind.Float32, "A", i)),
		},
		{
			pattern: &ir.Wildcard{Typ: irkind.Bfloat16},
			expr:    irhelper.Load(irkind.Float32, "C", i),
		},
		{
			pattern: &ir.Wildcard{Typ: irkind.Float32},
			expr:    irhelper.Load(irkind.Float32, "C", i),
			want:    []string{"C[i]"},
			ok:      true,
		},
	}
	for n, test := range tests {
		got, ok := irmatch.Match(test.pattern, test.expr)
		if ok != test.ok {
			t.Errorf("test %d: Match(%s, %s) returned %v but want %v", n, test.pattern, test.expr, ok, test.ok)
			continue
		}
		if !ok {
			continue
		}
		if diff := cmp.Diff(exprStrings(got), test.want); diff != "" {
			t.Errorf("test %d: unexpected bindings:\n%s", n, diff)
		}
	}
}

func TestMatchNamed(t *testing.T) {
	var (
		m = irhelper.Var("m")
		k = irhelper.Var("k")
	)
	pattern := irhelper.Add(
		irhelper.Mul(irhelper.Add(k, irhelper.Wild("row")), irhelper.Wild("stride")),
		irhelper.Add(m, irhelper.Wild("row")),
	)
	bindings, ok := irmatch.MatchNamed(pattern, irhelper.Add(
		irhelper.Mul(irhelper.Add(k, irhelper.Var("r")), irhelper.Int(32)),
		irhelper.Add(m, irhelper.Var("r")),
	))
	if !ok {
		t.Fatalf("pattern %s did not match", pattern)
	}
	got := map[string]string{}
	for name, expr := range bindings {
		got[name] = expr.String()
	}
	if diff := cmp.Diff(got, map[string]string{"row": "r", "stride": "32"}); diff != "" {
		t.Errorf("unexpected bindings:\n%s", diff)
	}

	if _, ok := irmatch.MatchNamed(pattern, irhelper.Add(
		irhelper.Mul(irhelper.Add(k, irhelper.Var("r")), irhelper.Int(32)),
		irhelper.Add(m, irhelper.Var("s")),
	)); ok {
		t.Errorf("wildcard %q has been bound to two different expressions", "row")
	}
}
