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

// Package irmatch matches expressions against templates with wildcards.
//
// Matching is structural: operators, operand order, kinds and leaves
// must be the same in the template and in the expression, except for
// wildcards which match any sub-expression of their kind.
// No algebraic rule (commutativity, associativity) is applied.
package irmatch

import (
	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irkind"
)

// Bindings maps the name of wildcards to the sub-expressions they matched.
type Bindings map[string]ir.Expr

type matcher struct {
	bound []ir.Expr
	named Bindings
}

func (m *matcher) wildcard(w *ir.Wildcard, expr ir.Expr) bool {
	if w.Typ != irkind.Invalid && w.Typ != expr.Type() {
		return false
	}
	if w.Name != "" {
		if prev, ok := m.named[w.Name]; ok {
			if !ir.Equal(prev, expr) {
				return false
			}
		} else {
			m.named[w.Name] = expr
		}
	}
	m.bound = append(m.bound, expr)
	return true
}

func (m *matcher) match(pattern, expr ir.Expr) bool {
	if pattern == nil || expr == nil {
		return pattern == expr
	}
	switch patternT := pattern.(type) {
	case *ir.Wildcard:
		return m.wildcard(patternT, expr)
	case *ir.BinaryExpr:
		exprT, ok := expr.(*ir.BinaryExpr)
		return ok &&
			patternT.Op == exprT.Op &&
			m.match(patternT.X, exprT.X) &&
			m.match(patternT.Y, exprT.Y)
	case *ir.CastExpr:
		exprT, ok := expr.(*ir.CastExpr)
		return ok &&
			patternT.Typ == exprT.Typ &&
			m.match(patternT.X, exprT.X)
	case *ir.LoadExpr:
		exprT, ok := expr.(*ir.LoadExpr)
		return ok &&
			patternT.Typ == exprT.Typ &&
			patternT.Buffer == exprT.Buffer &&
			m.match(patternT.Index, exprT.Index)
	default:
		return ir.Equal(pattern, expr)
	}
}

func newMatcher() *matcher {
	return &matcher{named: make(Bindings)}
}

// Match matches an expression against a pattern.
// If the match succeeds, the sub-expressions bound to the wildcards are
// returned in the order in which the wildcards appear in the pattern
// (left to right).
func Match(pattern, expr ir.Expr) ([]ir.Expr, bool) {
	m := newMatcher()
	if !m.match(pattern, expr) {
		return nil, false
	}
	return m.bound, true
}

// MatchNamed matches an expression against a pattern and returns
// the sub-expressions bound to named wildcards.
// A name used by more than one wildcard must bind equal sub-expressions.
func MatchNamed(pattern, expr ir.Expr) (Bindings, bool) {
	m := newMatcher()
	if !m.match(pattern, expr) {
		return nil, false
	}
	return m.named, true
}
