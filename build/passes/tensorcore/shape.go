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
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/maps"

	"github.com/gx-org/tensorcore/build/fmterr"
	"github.com/gx-org/tensorcore/build/ir"
	"github.com/gx-org/tensorcore/build/ir/irkind"
)

// Config is a hardware configuration executing matrix-multiply-accumulate tiles.
type Config struct {
	// Name of the configuration, as used by the code generator.
	Name string
	// InTypes are the supported storage kinds of A and B.
	InTypes []irkind.Kind
	// AccTypes are the supported kinds of the accumulator C.
	AccTypes []irkind.Kind
}

// Shapes maps tile shapes to the hardware configuration executing them.
type Shapes map[ir.Shape]Config

// DefaultShapes is the table of shapes supported by the hardware.
var DefaultShapes = Shapes{
	{M: 16, N: 16, K: 16}: {
		Name:     "m16n16k16",
		InTypes:  []irkind.Kind{irkind.Bfloat16},
		AccTypes: []irkind.Kind{irkind.Float32},
	},
}

func (s Shapes) sorted() []ir.Shape {
	shapes := maps.Keys(s)
	sort.Slice(shapes, func(i, j int) bool {
		return shapes[i].Less(shapes[j])
	})
	return shapes
}

func (s Shapes) String() string {
	return strings.Join(lo.Map(s.sorted(), func(shape ir.Shape, _ int) string {
		return shape.String()
	}), ", ")
}

func kindsString(kinds []irkind.Kind) string {
	return strings.Join(lo.Map(kinds, func(kind irkind.Kind, _ int) string {
		return kind.String()
	}), ", ")
}

// validateShape returns the configuration of the tile of the nest.
func (n *nest) validateShape() (Config, error) {
	cfg, ok := n.opts.shapes[n.shape]
	if !ok {
		return Config{}, fmterr.Wrapf(n.loopM, ErrShape, "%s (supported shapes: %s)", n.shape, n.opts.shapes)
	}
	inType, accType := n.ops.A.Typ, n.ops.C.Typ
	if !lo.Contains(cfg.InTypes, inType) {
		return Config{}, fmterr.Wrapf(n.loopM, ErrShape, "%s does not support %s operands (supported: %s)", cfg.Name, inType, kindsString(cfg.InTypes))
	}
	if !lo.Contains(cfg.AccTypes, accType) {
		return Config{}, fmterr.Wrapf(n.loopM, ErrShape, "%s does not support %s accumulators (supported: %s)", cfg.Name, accType, kindsString(cfg.AccTypes))
	}
	return cfg, nil
}
