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
	"slices"

	"github.com/samber/lo"

	"github.com/gx-org/tensorcore/build/fmterr"
	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irhelper"
	"github.com/gx-org/tensorcore/build/ir/irkind"
	"github.com/gx-org/tensorcore/build/ir/irmatch"
	"github.com/gx-org/tensorcore/build/ir/irwalk"
)

// Layouts of the operands of a matrix-multiply-accumulate.
type Layouts struct {
	C, A, B ir.Layout
}

// layoutTemplate recognizes the address of an operand stored with a given layout.
type layoutTemplate struct {
	layout  ir.Layout
	pattern ir.Expr
	// stride computes the leading dimension from the bindings of the template.
	stride func(irmatch.Bindings) ir.Expr
}

func wild(name string) *ir.Wildcard {
	return &ir.Wildcard{Typ: irkind.Index, Name: name}
}

// tiled matches k + (((x + w1) * w2) + w3) * w4.
// The leading dimension is w2 * w4.
func tiled(layout ir.Layout, k, x ir.Expr) layoutTemplate {
	return layoutTemplate{
		layout: layout,
		pattern: irhelper.Add(k, irhelper.Mul(
			irhelper.Add(irhelper.Mul(irhelper.Add(x, wild("w1")), wild("w2")), wild("w3")),
			wild("w4"),
		)),
		stride: func(b irmatch.Bindings) ir.Expr {
			return irhelper.Mul(b["w2"], b["w4"])
		},
	}
}

// strided matches ((k + w1) * (w2 + w3)) + (x + w4).
// The leading dimension is w2 + w3.
func strided(layout ir.Layout, k, x ir.Expr) layoutTemplate {
	return layoutTemplate{
		layout: layout,
		pattern: irhelper.Add(
			irhelper.Mul(irhelper.Add(k, wild("w1")), irhelper.Add(wild("w2"), wild("w3"))),
			irhelper.Add(x, wild("w4")),
		),
		stride: func(b irmatch.Bindings) ir.Expr {
			return irhelper.Add(b["w2"], b["w3"])
		},
	}
}

// accumulator matches n + (((m + w1) * C.stride.1) + w2).
func accumulator(buffer string, m, n ir.Expr) layoutTemplate {
	stride := ir.StrideVar(buffer, 1)
	return layoutTemplate{
		layout: ir.RowMajor,
		pattern: irhelper.Add(n, irhelper.Add(
			irhelper.Mul(irhelper.Add(m, wild("w1")), stride),
			wild("w2"),
		)),
		stride: func(irmatch.Bindings) ir.Expr {
			return stride
		},
	}
}

// dependsOnDimension returns the first wildcard, in name order, bound to an
// expression referring to one of the tensor core dimensions of the nest.
func (n *nest) dependsOnDimension(bindings irmatch.Bindings) (string, string, bool) {
	dims := []string{n.loopM.Var, n.loopN.Var, n.loopK.Var}
	names := lo.Keys(bindings)
	slices.Sort(names)
	for _, name := range names {
		vars := irwalk.Collect[*ir.Variable](bindings[name])
		if vr, found := lo.Find(vars, func(vr *ir.Variable) bool {
			return lo.Contains(dims, vr.Name)
		}); found {
			return name, vr.Name, true
		}
	}
	return "", "", false
}

// classify returns the layout of an operand given the templates of its layouts,
// tried in order.
func (n *nest) classify(name string, load *ir.LoadExpr, tmpls ...layoutTemplate) (ir.Layout, ir.Expr, error) {
	for _, tmpl := range tmpls {
		bindings, ok := irmatch.MatchNamed(tmpl.pattern, load.Index)
		if !ok {
			continue
		}
		if wildcard, dim, found := n.dependsOnDimension(bindings); found {
			n.log.Debug("template binding depends on a dimension", "operand", name, "layout", tmpl.layout.String(), "wildcard", wildcard, "loop", dim)
			continue
		}
		n.log.Debug("operand layout", "operand", name, "buffer", load.Buffer, "layout", tmpl.layout.String())
		return tmpl.layout, tmpl.stride(bindings), nil
	}
	return ir.UnknownLayout, nil, fmterr.Wrapf(n.ops.Store, ErrLayout, "operand %s: address %s of buffer %s", name, load.Index, load.Buffer)
}

// classifyLayouts classifies the layouts of C, A and B.
// Row-major templates are tried before column-major ones.
func (n *nest) classifyLayouts() (err error) {
	m, nv, k := n.loopM.VarRef(), n.loopN.VarRef(), n.loopK.VarRef()
	if n.layouts.C, n.strides.C, err = n.classify("C", n.ops.C,
		accumulator(n.ops.C.Buffer, m, nv),
	); err != nil {
		return err
	}
	if n.layouts.A, n.strides.A, err = n.classify("A", n.ops.A,
		tiled(ir.RowMajor, k, m),
		strided(ir.ColMajor, k, m),
	); err != nil {
		return err
	}
	if n.layouts.B, n.strides.B, err = n.classify("B", n.ops.B,
		strided(ir.RowMajor, k, nv),
		tiled(ir.ColMajor, k, nv),
	); err != nil {
		return err
	}
	return nil
}
