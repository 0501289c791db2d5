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

// Package irjson encodes and decodes IR trees in JSON.
//
// Every node is a JSON object with a "node" field naming its type:
//
//	{"node": "for", "var": "ii", "kind": "tensor_core",
//	 "min": {"node": "int", "type": "int32", "int": 0},
//	 "extent": {"node": "int", "type": "int32", "int": 16},
//	 "body": {...}}
package irjson

import (
	"encoding/json"
	"go/token"

	"github.com/pkg/errors"

	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irkind"
)

// Names of the nodes in the "node" field.
const (
	nodeInt      = "int"
	nodeFloat    = "float"
	nodeVar      = "var"
	nodeWildcard = "wildcard"
	nodeBinary   = "binary"
	nodeCast     = "cast"
	nodeLoad     = "load"
	nodeFor      = "for"
	nodeLet      = "let"
	nodeStore    = "store"
	nodeBlock    = "block"
	nodeMMA      = "mma"
)

type (
	jsonNode struct {
		Node string `json:"node"`

		// Expressions.
		Type   string    `json:"type,omitempty"`
		Int    *int64    `json:"int,omitempty"`
		Float  *float64  `json:"float,omitempty"`
		Name   string    `json:"name,omitempty"`
		Op     string    `json:"op,omitempty"`
		X      *jsonNode `json:"x,omitempty"`
		Y      *jsonNode `json:"y,omitempty"`
		Buffer string    `json:"buffer,omitempty"`
		Index  *jsonNode `json:"index,omitempty"`

		// Statements.
		Var    string       `json:"var,omitempty"`
		Kind   string       `json:"kind,omitempty"`
		Min    *jsonNode    `json:"min,omitempty"`
		Extent *jsonNode    `json:"extent,omitempty"`
		Value  *jsonNode    `json:"value,omitempty"`
		Body   *jsonNode    `json:"body,omitempty"`
		List   *[]*jsonNode `json:"list,omitempty"`

		// Matrix-multiply-accumulate.
		Shape   *ir.Shape     `json:"shape,omitempty"`
		Config  string        `json:"config,omitempty"`
		C       *jsonFragment `json:"c,omitempty"`
		A       *jsonFragment `json:"a,omitempty"`
		B       *jsonFragment `json:"b,omitempty"`
		AccType string        `json:"acc_type,omitempty"`
		InType  string        `json:"in_type,omitempty"`
	}

	jsonFragment struct {
		Buffer string    `json:"buffer"`
		Offset *jsonNode `json:"offset"`
		Stride *jsonNode `json:"stride"`
		Layout string    `json:"layout"`
	}
)

var binaryOps = map[string]token.Token{}

func init() {
	for _, op := range []token.Token{token.ADD, token.SUB, token.MUL, token.QUO, token.REM} {
		binaryOps[op.String()] = op
	}
}

// Marshal encodes a statement in JSON.
func Marshal(stmt ir.Stmt) ([]byte, error) {
	node, err := encodeStmt(stmt)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(node, "", "  ")
}

// Unmarshal decodes a statement from JSON.
func Unmarshal(data []byte) (ir.Stmt, error) {
	var node jsonNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "cannot decode IR")
	}
	return decodeStmt(&node)
}

func encodeExpr(expr ir.Expr) (*jsonNode, error) {
	switch exprT := expr.(type) {
	case *ir.IntImm:
		return &jsonNode{Node: nodeInt, Type: exprT.Typ.String(), Int: &exprT.Val}, nil
	case *ir.FloatImm:
		return &jsonNode{Node: nodeFloat, Type: exprT.Typ.String(), Float: &exprT.Val}, nil
	case *ir.Variable:
		return &jsonNode{Node: nodeVar, Type: exprT.Typ.String(), Name: exprT.Name}, nil
	case *ir.Wildcard:
		return &jsonNode{Node: nodeWildcard, Type: exprT.Typ.String(), Name: exprT.Name}, nil
	case *ir.BinaryExpr:
		x, err := encodeExpr(exprT.X)
		if err != nil {
			return nil, err
		}
		y, err := encodeExpr(exprT.Y)
		if err != nil {
			return nil, err
		}
		return &jsonNode{Node: nodeBinary, Op: exprT.Op.String(), X: x, Y: y}, nil
	case *ir.CastExpr:
		x, err := encodeExpr(exprT.X)
		if err != nil {
			return nil, err
		}
		return &jsonNode{Node: nodeCast, Type: exprT.Typ.String(), X: x}, nil
	case *ir.LoadExpr:
		index, err := encodeExpr(exprT.Index)
		if err != nil {
			return nil, err
		}
		return &jsonNode{Node: nodeLoad, Type: exprT.Typ.String(), Buffer: exprT.Buffer, Index: index}, nil
	case nil:
		return nil, errors.Errorf("missing expression")
	default:
		return nil, errors.Errorf("expression type %T not supported", exprT)
	}
}

func encodeFragment(frag ir.Fragment) (*jsonFragment, error) {
	offset, err := encodeExpr(frag.Offset)
	if err != nil {
		return nil, errors.WithMessagef(err, "fragment %s offset", frag.Buffer)
	}
	stride, err := encodeExpr(frag.Stride)
	if err != nil {
		return nil, errors.WithMessagef(err, "fragment %s stride", frag.Buffer)
	}
	return &jsonFragment{
		Buffer: frag.Buffer,
		Offset: offset,
		Stride: stride,
		Layout: frag.Layout.String(),
	}, nil
}

func encodeStmt(stmt ir.Stmt) (*jsonNode, error) {
	switch stmtT := stmt.(type) {
	case *ir.ForStmt:
		minV, err := encodeExpr(stmtT.Min)
		if err != nil {
			return nil, err
		}
		extent, err := encodeExpr(stmtT.Extent)
		if err != nil {
			return nil, err
		}
		body, err := encodeStmt(stmtT.Body)
		if err != nil {
			return nil, err
		}
		return &jsonNode{
			Node:   nodeFor,
			Var:    stmtT.Var,
			Kind:   stmtT.Kind.String(),
			Min:    minV,
			Extent: extent,
			Body:   body,
		}, nil
	case *ir.LetStmt:
		value, err := encodeExpr(stmtT.Value)
		if err != nil {
			return nil, err
		}
		body, err := encodeStmt(stmtT.Body)
		if err != nil {
			return nil, err
		}
		return &jsonNode{Node: nodeLet, Name: stmtT.Name, Value: value, Body: body}, nil
	case *ir.StoreStmt:
		index, err := encodeExpr(stmtT.Index)
		if err != nil {
			return nil, err
		}
		value, err := encodeExpr(stmtT.Value)
		if err != nil {
			return nil, err
		}
		return &jsonNode{Node: nodeStore, Buffer: stmtT.Buffer, Index: index, Value: value}, nil
	case *ir.BlockStmt:
		list := make([]*jsonNode, len(stmtT.List))
		for i, child := range stmtT.List {
			var err error
			if list[i], err = encodeStmt(child); err != nil {
				return nil, err
			}
		}
		return &jsonNode{Node: nodeBlock, List: &list}, nil
	case *ir.MMAStmt:
		node := &jsonNode{
			Node:    nodeMMA,
			Shape:   &stmtT.Shape,
			Config:  stmtT.Config,
			AccType: stmtT.AccType.String(),
			InType:  stmtT.InType.String(),
		}
		var err error
		if node.C, err = encodeFragment(stmtT.C); err != nil {
			return nil, err
		}
		if node.A, err = encodeFragment(stmtT.A); err != nil {
			return nil, err
		}
		if node.B, err = encodeFragment(stmtT.B); err != nil {
			return nil, err
		}
		return node, nil
	case nil:
		return nil, errors.Errorf("missing statement")
	default:
		return nil, errors.Errorf("statement type %T not supported", stmtT)
	}
}

func decodeKind(name string) (irkind.Kind, error) {
	kind := irkind.KindFromString(name)
	if kind == irkind.Invalid {
		return irkind.Invalid, errors.Errorf("unknown kind %q", name)
	}
	return kind, nil
}

func decodeExpr(node *jsonNode) (ir.Expr, error) {
	if node == nil {
		return nil, errors.Errorf("missing expression")
	}
	switch node.Node {
	case nodeInt:
		if node.Int == nil {
			return nil, errors.Errorf("integer constant without a value")
		}
		kind, err := decodeKind(node.Type)
		if err != nil {
			return nil, err
		}
		return &ir.IntImm{Typ: kind, Val: *node.Int}, nil
	case nodeFloat:
		if node.Float == nil {
			return nil, errors.Errorf("float constant without a value")
		}
		kind, err := decodeKind(node.Type)
		if err != nil {
			return nil, err
		}
		return &ir.FloatImm{Typ: kind, Val: *node.Float}, nil
	case nodeVar:
		kind, err := decodeKind(node.Type)
		if err != nil {
			return nil, err
		}
		return &ir.Variable{Typ: kind, Name: node.Name}, nil
	case nodeWildcard:
		// Wildcards of any kind have an invalid kind.
		return &ir.Wildcard{Typ: irkind.KindFromString(node.Type), Name: node.Name}, nil
	case nodeBinary:
		op, ok := binaryOps[node.Op]
		if !ok {
			return nil, errors.Errorf("unknown binary operator %q", node.Op)
		}
		x, err := decodeExpr(node.X)
		if err != nil {
			return nil, err
		}
		y, err := decodeExpr(node.Y)
		if err != nil {
			return nil, err
		}
		return &ir.BinaryExpr{Op: op, X: x, Y: y}, nil
	case nodeCast:
		kind, err := decodeKind(node.Type)
		if err != nil {
			return nil, err
		}
		x, err := decodeExpr(node.X)
		if err != nil {
			return nil, err
		}
		return &ir.CastExpr{Typ: kind, X: x}, nil
	case nodeLoad:
		kind, err := decodeKind(node.Type)
		if err != nil {
			return nil, err
		}
		index, err := decodeExpr(node.Index)
		if err != nil {
			return nil, errors.WithMessagef(err, "load from %s", node.Buffer)
		}
		return &ir.LoadExpr{Typ: kind, Buffer: node.Buffer, Index: index}, nil
	default:
		return nil, errors.Errorf("unknown expression node %q", node.Node)
	}
}

func decodeFragment(frag *jsonFragment) (ir.Fragment, error) {
	if frag == nil {
		return ir.Fragment{}, errors.Errorf("missing fragment")
	}
	offset, err := decodeExpr(frag.Offset)
	if err != nil {
		return ir.Fragment{}, errors.WithMessagef(err, "fragment %s offset", frag.Buffer)
	}
	stride, err := decodeExpr(frag.Stride)
	if err != nil {
		return ir.Fragment{}, errors.WithMessagef(err, "fragment %s stride", frag.Buffer)
	}
	return ir.Fragment{
		Buffer: frag.Buffer,
		Offset: offset,
		Stride: stride,
		Layout: ir.LayoutFromString(frag.Layout),
	}, nil
}

func decodeStmt(node *jsonNode) (ir.Stmt, error) {
	if node == nil {
		return nil, errors.Errorf("missing statement")
	}
	switch node.Node {
	case nodeFor:
		kind, ok := ir.ForKindFromString(node.Kind)
		if !ok {
			return nil, errors.Errorf("unknown loop kind %q", node.Kind)
		}
		minV, err := decodeExpr(node.Min)
		if err != nil {
			return nil, errors.WithMessagef(err, "loop %s minimum", node.Var)
		}
		extent, err := decodeExpr(node.Extent)
		if err != nil {
			return nil, errors.WithMessagef(err, "loop %s extent", node.Var)
		}
		body, err := decodeStmt(node.Body)
		if err != nil {
			return nil, errors.WithMessagef(err, "loop %s body", node.Var)
		}
		return &ir.ForStmt{Var: node.Var, Min: minV, Extent: extent, Kind: kind, Body: body}, nil
	case nodeLet:
		value, err := decodeExpr(node.Value)
		if err != nil {
			return nil, errors.WithMessagef(err, "let %s", node.Name)
		}
		body, err := decodeStmt(node.Body)
		if err != nil {
			return nil, err
		}
		return &ir.LetStmt{Name: node.Name, Value: value, Body: body}, nil
	case nodeStore:
		index, err := decodeExpr(node.Index)
		if err != nil {
			return nil, errors.WithMessagef(err, "store to %s index", node.Buffer)
		}
		value, err := decodeExpr(node.Value)
		if err != nil {
			return nil, errors.WithMessagef(err, "store to %s value", node.Buffer)
		}
		return &ir.StoreStmt{Buffer: node.Buffer, Index: index, Value: value}, nil
	case nodeBlock:
		block := &ir.BlockStmt{}
		if node.List == nil || len(*node.List) == 0 {
			return block, nil
		}
		block.List = make([]ir.Stmt, len(*node.List))
		for i, child := range *node.List {
			var err error
			if block.List[i], err = decodeStmt(child); err != nil {
				return nil, err
			}
		}
		return block, nil
	case nodeMMA:
		if node.Shape == nil {
			return nil, errors.Errorf("matrix-multiply-accumulate without a shape")
		}
		accType, err := decodeKind(node.AccType)
		if err != nil {
			return nil, err
		}
		inType, err := decodeKind(node.InType)
		if err != nil {
			return nil, err
		}
		stmt := &ir.MMAStmt{Shape: *node.Shape, Config: node.Config, AccType: accType, InType: inType}
		if stmt.C, err = decodeFragment(node.C); err != nil {
			return nil, err
		}
		if stmt.A, err = decodeFragment(node.A); err != nil {
			return nil, err
		}
		if stmt.B, err = decodeFragment(node.B); err != nil {
			return nil, err
		}
		return stmt, nil
	default:
		return nil, errors.Errorf("unknown statement node %q", node.Node)
	}
}
