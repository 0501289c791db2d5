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

package irwalk_test

import (
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irhelper"
	"github.com/gx-org/tensorcore/build/ir/irkind"
	"github.com/gx-org/tensorcore/build/ir/irwalk"
)

var (
	ii = irhelper.Var("ii")
	ki = irhelper.Var("ki")
)

func store() *ir.StoreStmt {
	return irhelper.Store("C", ii,
		irhelper.Add(
			irhelper.Load(irkind.Float32, "C", ii),
			irhelper.Cast(irkind.Float32, irhelper.Load(irkind.Bfloat16, "A", ki)),
		))
}

func varNames(loops []*ir.ForStmt) []string {
	names := make([]string, len(loops))
	for i, loop := range loops {
		names[i] = loop.Var
	}
	return names
}

func TestCollect(t *testing.T) {
	nest := irhelper.For(ir.TensorCore, "ii", 0, 16,
		irhelper.Let("x", ii,
			irhelper.For(ir.TensorCore, "ki", 0, 16, store()),
		),
	)
	loops := irwalk.Collect[*ir.ForStmt](nest)
	if diff := cmp.Diff(varNames(loops), []string{"ii", "ki"}); diff != "" {
		t.Errorf("unexpected loops:\n%s", diff)
	}
	if got := len(irwalk.Collect[*ir.LoadExpr](nest)); got != 2 {
		t.Errorf("got %d loads but want 2", got)
	}
	lets := irwalk.CollectBindings(nest)
	if len(lets) != 1 || lets[0].Name != "x" {
		t.Errorf("unexpected bindings: %v", lets)
	}
	if !irwalk.Contains(nest, loops[1]) {
		t.Errorf("nest does not contain its inner loop")
	}
	if irwalk.Contains(loops[1], nest) {
		t.Errorf("inner loop contains its outer loop")
	}
}

func TestCollectTensorLoops(t *testing.T) {
	nest := irhelper.For(ir.TensorCore, "ii", 0, 16,
		irhelper.For(ir.TensorCore, "ki", 0, 16, store()),
	)
	loops, err := irwalk.CollectTensorLoops(nest)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(varNames(loops), []string{"ii", "ki"}); diff != "" {
		t.Errorf("unexpected loops:\n%s", diff)
	}

	nest = irhelper.For(ir.TensorCore, "ii", 0, 16,
		irhelper.For(ir.Serial, "ko", 0, 8, store()),
	)
	_, err = irwalk.CollectTensorLoops(nest)
	if !errors.Is(err, irwalk.ErrNotTensorCore) {
		t.Fatalf("got error %v but want %v", err, irwalk.ErrNotTensorCore)
	}
	if want := "for serial (ko, 0, 8): serial loop ko: loop is not a tensor core dimension"; err.Error() != want {
		t.Errorf("got error %q but want %q", err.Error(), want)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		lets []*ir.LetStmt
		expr ir.Expr
		want string
	}{
		{
			expr: irhelper.Add(ii, irhelper.Var("n")),
			want: "(ii + n)",
		},
		{
			lets: []*ir.LetStmt{
				irhelper.Let("a", irhelper.Mul(irhelper.Var("i"), irhelper.Int(16)), nil),
				irhelper.Let("b", irhelper.Add(irhelper.Var("a"), irhelper.Var("j")), nil),
				irhelper.Let("x", irhelper.Var("b"), nil),
			},
			expr: irhelper.Add(ii, irhelper.Var("x")),
			want: "(ii + ((i * 16) + j))",
		},
		{
			lets: []*ir.LetStmt{
				irhelper.Let("x", irhelper.Var("i"), nil),
				irhelper.Let("x", irhelper.Add(irhelper.Var("x"), irhelper.Int(1)), nil),
			},
			expr: irhelper.Var("x"),
			want: "(i + 1)",
		},
		{
			lets: []*ir.LetStmt{
				irhelper.Let("x", irhelper.Var("x"), nil),
			},
			expr: irhelper.Var("x"),
			want: "x",
		},
	}
	for i, test := range tests {
		got, err := irwalk.Resolve(test.expr, test.lets)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(got.String(), test.want); diff != "" {
			t.Errorf("test %d: unexpected resolved expression:\n%s", i, diff)
		}
	}
}

func TestRewriteStmt(t *testing.T) {
	first := irhelper.Store("B", ii, irhelper.Int(0))
	second := store()
	nest := irhelper.For(ir.TensorCore, "ii", 0, 16, irhelper.Block(first, second))

	same, err := irwalk.RewriteStmt(nest, func(ir.Stmt) (ir.Stmt, error) { return nil, nil })
	if err != nil {
		t.Fatal(err)
	}
	if same != nest {
		t.Errorf("identity rewrite returned a new tree")
	}

	repl := irhelper.Store("D", ii, irhelper.Int(1))
	got, err := irwalk.RewriteStmt(nest, func(stmt ir.Stmt) (ir.Stmt, error) {
		if stmt == second {
			return repl, nil
		}
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got == nest {
		t.Fatalf("rewrite did not create a new tree")
	}
	block := got.(*ir.ForStmt).Body.(*ir.BlockStmt)
	if block.List[0] != first {
		t.Errorf("unchanged statement has not been shared")
	}
	if block.List[1] != repl {
		t.Errorf("statement has not been replaced")
	}
	if nest.Body.(*ir.BlockStmt).List[1] != second {
		t.Errorf("rewrite modified the original tree")
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		expr ir.Expr
		want string
	}{
		{
			expr: irhelper.Mul(irhelper.Add(ii, irhelper.Int(0)), irhelper.Int(1)),
			want: "ii",
		},
		{
			expr: irhelper.Add(irhelper.Mul(irhelper.Int(2), irhelper.Int(8)), ki),
			want: "(16 + ki)",
		},
		{
			expr: irhelper.Mul(irhelper.Add(ii, ki), irhelper.Int(0)),
			want: "0",
		},
		{
			expr: irhelper.Sub(irhelper.Int(5), irhelper.Int(7)),
			want: "-2",
		},
		{
			expr: irhelper.Binary(token.QUO, irhelper.Int(8), irhelper.Int(2)),
			want: "(8 / 2)",
		},
		{
			expr: irhelper.Load(irkind.Float32, "C", irhelper.Add(irhelper.Int(0), ii)),
			want: "C[ii]",
		},
	}
	for i, test := range tests {
		if diff := cmp.Diff(irwalk.Fold(test.expr).String(), test.want); diff != "" {
			t.Errorf("test %d: unexpected folded expression:\n%s", i, diff)
		}
	}
}

func TestSubstitute(t *testing.T) {
	expr := irhelper.Add(ii, irhelper.Mul(ki, irhelper.Int(4)))
	got := irwalk.Substitute(expr, map[string]ir.Expr{
		"ii": irhelper.Int(0),
		"ki": irhelper.Int(0),
	})
	if diff := cmp.Diff(got.String(), "(0 + (0 * 4))"); diff != "" {
		t.Errorf("unexpected substitution:\n%s", diff)
	}
	if folded := irwalk.Fold(got); folded.String() != "0" {
		t.Errorf("got %s but want 0", folded)
	}
	if same := irwalk.Substitute(expr, map[string]ir.Expr{"n": irhelper.Int(0)}); same != expr {
		t.Errorf("substitution without match returned a new expression")
	}
}
