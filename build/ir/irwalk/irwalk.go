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

// Package irwalk traverses and rewrites IR trees.
package irwalk

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gx-org/tensorcore/build/fmterr"
	"github.com/gx-org/tensorcore/build/ir"
)

// ErrNotTensorCore is returned when a loop of another kind is found
// while collecting the dimensions of a tensor core region.
var ErrNotTensorCore = errors.New("loop is not a tensor core dimension")

// Inspect traverses a tree in depth-first order: it starts by calling f(node);
// node must not be nil. If f returns true, Inspect invokes f recursively for
// each of the non-nil children of node.
func Inspect(node ir.Node, f func(ir.Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch nodeT := node.(type) {
	case *ir.IntImm, *ir.FloatImm, *ir.Variable, *ir.Wildcard:
	case *ir.BinaryExpr:
		Inspect(nodeT.X, f)
		Inspect(nodeT.Y, f)
	case *ir.CastExpr:
		Inspect(nodeT.X, f)
	case *ir.LoadExpr:
		Inspect(nodeT.Index, f)
	case *ir.ForStmt:
		Inspect(nodeT.Min, f)
		Inspect(nodeT.Extent, f)
		Inspect(nodeT.Body, f)
	case *ir.LetStmt:
		Inspect(nodeT.Value, f)
		Inspect(nodeT.Body, f)
	case *ir.StoreStmt:
		Inspect(nodeT.Index, f)
		Inspect(nodeT.Value, f)
	case *ir.BlockStmt:
		for _, stmt := range nodeT.List {
			Inspect(stmt, f)
		}
	case *ir.MMAStmt:
		for _, frag := range []ir.Fragment{nodeT.C, nodeT.A, nodeT.B} {
			Inspect(frag.Offset, f)
			Inspect(frag.Stride, f)
		}
	default:
		panic(fmt.Sprintf("node type %T not supported", nodeT))
	}
}

// Collect returns all the nodes of type T reachable from root in pre-order.
func Collect[T ir.Node](root ir.Node) []T {
	var all []T
	Inspect(root, func(node ir.Node) bool {
		if nodeT, ok := node.(T); ok {
			all = append(all, nodeT)
		}
		return true
	})
	return all
}

// CollectBindings returns all the let statements reachable from root
// in traversal order, that is outer bindings before the inner bindings they scope.
func CollectBindings(root ir.Stmt) []*ir.LetStmt {
	return Collect[*ir.LetStmt](root)
}

// CollectTensorLoops returns all the loops reachable from root in pre-order.
// All the loops must be tensor core loops: the first loop of another kind
// stops the traversal and an error wrapping ErrNotTensorCore is returned.
func CollectTensorLoops(root ir.Stmt) ([]*ir.ForStmt, error) {
	var loops []*ir.ForStmt
	var err error
	Inspect(root, func(node ir.Node) bool {
		if err != nil {
			return false
		}
		loop, ok := node.(*ir.ForStmt)
		if !ok {
			return true
		}
		if loop.Kind != ir.TensorCore {
			err = fmterr.Wrapf(loop, ErrNotTensorCore, "%s loop %s", loop.Kind, loop.Var)
			return false
		}
		loops = append(loops, loop)
		return true
	})
	if err != nil {
		return nil, err
	}
	return loops, nil
}

// Contains returns true if target is reachable from root.
func Contains(root, target ir.Node) bool {
	found := false
	Inspect(root, func(node ir.Node) bool {
		if found {
			return false
		}
		if node == target {
			found = true
			return false
		}
		return true
	})
	return found
}
