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

package fmterr_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/gx-org/tensorcore/build/fmterr"
)

type node string

func (n node) ShortString() string { return string(n) }

var errSentinel = errors.New("sentinel")

func TestErrorf(t *testing.T) {
	err := fmterr.Errorf(node("for tensor_core (ii, 0, 16)"), "invalid extent %d", 3)
	if got, want := err.Error(), "for tensor_core (ii, 0, 16): invalid extent 3"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	var withPos fmterr.ErrorWithPos
	if !errors.As(err, &withPos) {
		t.Fatalf("%T does not implement ErrorWithPos", err)
	}
	if got := withPos.Src().ShortString(); got != "for tensor_core (ii, 0, 16)" {
		t.Errorf("incorrect source: %q", got)
	}
}

func TestWrapf(t *testing.T) {
	err := fmterr.Wrapf(node("store C[i]"), errSentinel, "buffer %s", "C")
	if !errors.Is(err, errSentinel) {
		t.Errorf("errors.Is(%v, errSentinel) = false", err)
	}
	if got, want := err.Error(), "store C[i]: buffer C: sentinel"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if verbose := fmt.Sprintf("%+v", err); !strings.Contains(verbose, "Error generated at:") {
		t.Errorf("verbose error does not contain a stack trace:\n%s", verbose)
	}
}

func TestPositionWithoutSource(t *testing.T) {
	err := fmterr.Position(nil, errSentinel)
	if got := err.Error(); got != "sentinel" {
		t.Errorf("got %q but want %q", got, "sentinel")
	}
}

func TestInternalf(t *testing.T) {
	err := fmterr.Internalf(node("let x = y"), "depth %d exceeded", 4)
	if !strings.Contains(err.Error(), "internal error") {
		t.Errorf("error %q is not reported as an internal error", err.Error())
	}
	if !strings.Contains(err.Error(), "let x = y: depth 4 exceeded") {
		t.Errorf("error %q does not contain the original message", err.Error())
	}
}

func TestPrefixWith(t *testing.T) {
	err := fmterr.PrefixWith("loop nest %d: ", 2)(errSentinel)
	if got, want := err.Error(), "loop nest 2: sentinel"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if !errors.Is(err, errSentinel) {
		t.Errorf("errors.Is(%v, errSentinel) = false", err)
	}
}
