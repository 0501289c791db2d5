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

import "github.com/pkg/errors"

// Errors returned when a tensor core loop nest cannot be lowered.
// Returned errors wrap one of these and can be tested with errors.Is.
var (
	ErrNesting    = errors.New("invalid tensor core loop nesting")
	ErrLoopRange  = errors.New("tensor core loop range must start at 0 and have a constant extent")
	ErrStoreCount = errors.New("expected exactly one store in the innermost tensor core loop")
	ErrAccumulate = errors.New("accumulate pattern not recognized")
	ErrLayout     = errors.New("operand address does not match any known layout")
	ErrShape      = errors.New("unsupported tensor core shape")
)
