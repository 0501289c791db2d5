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
	"github.com/gx-org/tensorcore/build/fmterr"
	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/internal/base/scope"
)

type (
	binding struct {
		let *ir.LetStmt
		// index of the scope in which the value of the binding is defined.
		index int
	}

	// Resolver substitutes variables with the values they are bound to.
	Resolver struct {
		// scopes[i] is the scope seen by the value of the i-th binding.
		// The last scope sees all the bindings.
		scopes []*scope.RWScope[binding]
	}
)

// NewResolver returns a resolver given a list of bindings ordered from
// the outermost to the innermost.
// The value of a binding only sees the bindings before it so that
//
//	let x = x + 1
//
// refers to an outer x.
func NewResolver(lets []*ir.LetStmt) *Resolver {
	r := &Resolver{scopes: make([]*scope.RWScope[binding], len(lets)+1)}
	r.scopes[0] = scope.NewScope[binding](nil)
	for i, let := range lets {
		child := scope.NewScope[binding](r.scopes[i])
		child.Define(let.Name, binding{let: let, index: i})
		r.scopes[i+1] = child
	}
	return r
}

// Resolve returns an expression where all the variables bound by a let
// have been replaced, recursively, by their values.
// Variables without bindings, like loop variables or parameters, are kept.
func (r *Resolver) Resolve(expr ir.Expr) (ir.Expr, error) {
	return r.resolve(expr, len(r.scopes)-1, 0)
}

func (r *Resolver) resolve(expr ir.Expr, scopeIndex, depth int) (ir.Expr, error) {
	sc := r.scopes[scopeIndex]
	return RewriteExpr(expr, func(expr ir.Expr) (ir.Expr, error) {
		vr, ok := expr.(*ir.Variable)
		if !ok {
			return nil, nil
		}
		bind, ok := sc.Find(vr.Name)
		if !ok {
			return nil, nil
		}
		// A value only sees the bindings defined before it:
		// a chain of substitutions is never longer than the number of bindings.
		if depth >= len(r.scopes) {
			return nil, fmterr.Internalf(bind.let, "cannot resolve %s: substitution depth %d exceeded", vr.Name, depth)
		}
		return r.resolve(bind.let.Value, bind.index, depth+1)
	})
}

// Resolve replaces in an expression the variables bound by a list of
// let statements with their values. Bindings are searched from the
// innermost (the end of the list) to the outermost (the beginning of the list).
func Resolve(expr ir.Expr, lets []*ir.LetStmt) (ir.Expr, error) {
	return NewResolver(lets).Resolve(expr)
}
