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

// Package irkind defines the element kinds of expressions in the IR.
package irkind

import "github.com/gx-org/backend/dtype"

// Kind of an expression.
type Kind uint

// Kind of data supported by the IR.
const (
	Invalid = Kind(dtype.Invalid)

	Bool     = Kind(dtype.Bool)
	Int32    = Kind(dtype.Int32)
	Int64    = Kind(dtype.Int64)
	Uint32   = Kind(dtype.Uint32)
	Uint64   = Kind(dtype.Uint64)
	Bfloat16 = Kind(dtype.Bfloat16)
	Float32  = Kind(dtype.Float32)
	Float64  = Kind(dtype.Float64)
)

// Index is the kind of loop variables and buffer indices.
const Index = Int32

// String returns a string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Bfloat16:
		return "bfloat16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return "invalid"
}

// DType converts a kind into an array data type.
func (k Kind) DType() dtype.DataType {
	return dtype.DataType(k)
}

// Size returns the size of an element of the kind in bytes.
// Returns 0 for the invalid kind.
func (k Kind) Size() int {
	if k == Invalid {
		return 0
	}
	return dtype.Sizeof(k.DType())
}

// KindFromString returns a kind given its name.
// An unknown name returns the invalid kind.
func KindFromString(ident string) Kind {
	switch ident {
	case "bool":
		return Bool
	case "int32":
		return Int32
	case "int64":
		return Int64
	case "uint32":
		return Uint32
	case "uint64":
		return Uint64
	case "bfloat16":
		return Bfloat16
	case "float32":
		return Float32
	case "float64":
		return Float64
	default:
		return Invalid
	}
}

// IsIntegerKind returns true if kind is an integer.
func IsIntegerKind(kind Kind) bool {
	switch kind {
	case Int32, Int64, Uint32, Uint64:
		return true
	}
	return false
}

// IsFloatKind returns true if kind is a float.
func IsFloatKind(kind Kind) bool {
	switch kind {
	case Bfloat16, Float32, Float64:
		return true
	}
	return false
}
