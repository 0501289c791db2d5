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
	"strconv"
	"strings"

	basefmt "github.com/gx-org/tensorcore/base/fmt"
)

func (e *IntImm) String() string {
	return strconv.FormatInt(e.Val, 10)
}

func (e *FloatImm) String() string {
	return strconv.FormatFloat(e.Val, 'g', -1, 64)
}

func (e *Variable) String() string {
	return e.Name
}

func (e *Wildcard) String() string {
	return "*" + e.Name
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.X, e.Op, e.Y)
}

func (e *CastExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Typ, e.X)
}

func (e *LoadExpr) String() string {
	return fmt.Sprintf("%s[%s]", e.Buffer, e.Index)
}

func stmtString(s Stmt) string {
	if s == nil {
		return ""
	}
	return s.String()
}

// ShortString returns the header of the loop.
func (s *ForStmt) ShortString() string {
	return fmt.Sprintf("for %s (%s, %s, %s)", s.Kind, s.Var, s.Min, s.Extent)
}

func (s *ForStmt) String() string {
	return s.ShortString() + " {\n" + basefmt.Indent(stmtString(s.Body)) + "}\n"
}

// ShortString returns the binding without its body.
func (s *LetStmt) ShortString() string {
	return fmt.Sprintf("let %s = %s", s.Name, s.Value)
}

func (s *LetStmt) String() string {
	return s.ShortString() + "\n" + stmtString(s.Body)
}

// ShortString returns the destination of the store.
func (s *StoreStmt) ShortString() string {
	return fmt.Sprintf("store %s[%s]", s.Buffer, s.Index)
}

func (s *StoreStmt) String() string {
	return fmt.Sprintf("%s[%s] = %s\n", s.Buffer, s.Index, s.Value)
}

// ShortString returns the number of statements in the block.
func (s *BlockStmt) ShortString() string {
	return fmt.Sprintf("block of %d statements", len(s.List))
}

func (s *BlockStmt) String() string {
	var b strings.Builder
	for _, stmt := range s.List {
		b.WriteString(stmtString(stmt))
	}
	return b.String()
}

func (f Fragment) String() string {
	return fmt.Sprintf("%s[%s; ldm=%s; %s]", f.Buffer, f.Offset, f.Stride, f.Layout)
}

// ShortString returns the name of the instruction.
func (s *MMAStmt) ShortString() string {
	return "mma_sync." + s.Shape.String()
}

func (s *MMAStmt) String() string {
	return fmt.Sprintf("%s %s += %s * %s (%s -> %s)\n", s.ShortString(), s.C, s.A, s.B, s.InType, s.AccType)
}
