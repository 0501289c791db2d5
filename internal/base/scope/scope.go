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

// Package scope provides lexical scopes in which names are bound to values.
package scope

type (
	// Scope provides a set of values that can be found given their name.
	Scope[V any] interface {
		Find(string) (V, bool)
	}

	// RWScope stores key,value pairs and implements the Scope interface.
	// A value is retrieved from its key by querying the scope and,
	// if not found, its parents recursively. Inner definitions
	// shadow the definitions of the parents.
	RWScope[V any] struct {
		parent Scope[V]
		local  map[string]V
	}
)

var _ Scope[any] = (*RWScope[any])(nil)

// NewScope returns a new scope given a parent, which can be nil.
func NewScope[V any](parent Scope[V]) *RWScope[V] {
	return &RWScope[V]{
		parent: parent,
		local:  make(map[string]V),
	}
}

// Define maps `key` to `value`, overwriting if necessary.
func (s *RWScope[V]) Define(k string, v V) {
	s.local[k] = v
}

// Find a key in the scope and its parents.
// The second return value indicates whether any value was found.
func (s *RWScope[V]) Find(key string) (value V, ok bool) {
	if value, ok = s.local[key]; ok || s.parent == nil {
		return
	}
	return s.parent.Find(key)
}
