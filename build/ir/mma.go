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

import (
	"fmt"

	"github.com/gx-org/tensorcore/build/ir/irkind"
)

// Layout is the addressing convention of a 2-D operand.
type Layout uint8

// Operand layouts.
const (
	UnknownLayout Layout = iota
	RowMajor
	ColMajor
)

// String returns the name of the layout.
func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "Row"
	case ColMajor:
		return "Column"
	}
	return "Unknown"
}

// LayoutFromString returns a layout given its name.
func LayoutFromString(s string) Layout {
	switch s {
	case "Row":
		return RowMajor
	case "Column":
		return ColMajor
	}
	return UnknownLayout
}

// Shape is the (M, N, K) shape of a matrix-multiply-accumulate tile:
// C is MxN, A is MxK and B is KxN.
type Shape struct {
	M, N, K int64
}

// String returns the shape as m<M>n<N>k<K>.
func (s Shape) String() string {
	return fmt.Sprintf("m%dn%dk%d", s.M, s.N, s.K)
}

// Less orders shapes by M, then N, then K.
func (s Shape) Less(o Shape) bool {
	if s.M != o.M {
		return s.M < o.M
	}
	if s.N != o.N {
		return s.N < o.N
	}
	return s.K < o.K
}

type (
	// Fragment is one operand of a matrix-multiply-accumulate instruction.
	Fragment struct {
		// Buffer storing the matrix.
		Buffer string
		// Offset is the linear offset of the first element of the tile in the buffer.
		Offset Expr
		// Stride is the leading dimension of the matrix, that is the distance
		// between two consecutive rows (row-major) or columns (column-major).
		Stride Expr
		// Layout of the matrix in the buffer.
		Layout Layout
	}

	// MMAStmt computes C += A * B for one tile on the hardware matrix unit.
	// It replaces a complete tensor core loop nest.
	MMAStmt struct {
		Shape Shape
		// Config is the name of the hardware configuration executing the tile.
		Config string

		C, A, B Fragment

		// AccType is the kind of the accumulator C.
		AccType irkind.Kind
		// InType is the storage kind of A and B.
		InType irkind.Kind
	}
)

func (*MMAStmt) node()     {}
func (*MMAStmt) stmtNode() {}
