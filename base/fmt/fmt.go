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

// Package fmt provides utility methods for building string representations of IR trees.
package fmt

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Number adds a number prefix to all lines in a string.
func Number(x string) string {
	lines := slices.Collect(strings.Lines(x))
	if len(lines) == 0 {
		return ""
	}
	numDigits := int(math.Log10(float64(len(lines)))) + 1
	fmtString := fmt.Sprintf("%%0%dd %%s", numDigits)
	var s strings.Builder
	for i, line := range lines {
		s.WriteString(fmt.Sprintf(fmtString, i+1, line))
	}
	return s.String()
}

// IndentWith prefixes all the lines in a string.
func IndentWith(prefix, x string) string {
	var y strings.Builder
	for line := range strings.Lines(x) {
		y.WriteString(prefix)
		y.WriteString(line)
	}
	return y.String()
}

// Indent the given string by two spaces.
func Indent(x string) string {
	return IndentWith("  ", x)
}
