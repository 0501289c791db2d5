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

package irkind_test

import (
	"testing"

	"github.com/gx-org/tensorcore/build/ir/irkind"
)

func TestKindFromString(t *testing.T) {
	for _, kind := range []irkind.Kind{
		irkind.Bool,
		irkind.Int32,
		irkind.Int64,
		irkind.Uint32,
		irkind.Uint64,
		irkind.Bfloat16,
		irkind.Float32,
		irkind.Float64,
	} {
		if got := irkind.KindFromString(kind.String()); got != kind {
			t.Errorf("KindFromString(%q) = %v but want %v", kind.String(), got, kind)
		}
	}
	if got := irkind.KindFromString("float16x"); got != irkind.Invalid {
		t.Errorf("KindFromString(float16x) = %v but want invalid", got)
	}
}

func TestSize(t *testing.T) {
	tests := []struct {
		kind irkind.Kind
		want int
	}{
		{kind: irkind.Bfloat16, want: 2},
		{kind: irkind.Float32, want: 4},
		{kind: irkind.Int64, want: 8},
		{kind: irkind.Invalid, want: 0},
	}
	for _, test := range tests {
		if got := test.kind.Size(); got != test.want {
			t.Errorf("%v.Size() = %d but want %d", test.kind, got, test.want)
		}
	}
}

func TestIntegerFloat(t *testing.T) {
	if !irkind.IsIntegerKind(irkind.Index) {
		t.Errorf("index kind %v is not an integer", irkind.Index)
	}
	if irkind.IsFloatKind(irkind.Int32) {
		t.Errorf("int32 is a float")
	}
	if !irkind.IsFloatKind(irkind.Bfloat16) {
		t.Errorf("bfloat16 is not a float")
	}
}
