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

package fmterr

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/pkg/errors"
)

type (
	// Source is a node of the IR to which an error can be attached.
	Source interface {
		// ShortString returns a one line description of the node.
		ShortString() string
	}

	// ErrorWithPos is an error attached to a node of the IR.
	ErrorWithPos interface {
		error
		Src() Source
		Err() error
	}

	errorWithPos struct {
		src Source
		loc string
		err error
	}
)

// Position attaches an IR node to an error.
func Position(src Source, err error) ErrorWithPos {
	e := errorWithPos{src: src, err: err}
	if src != nil {
		// Cache the location so that the error message does not depend on later changes of src.
		e.loc = src.ShortString()
	}
	return e
}

// Errorf returns a formatted compiler error for the user.
func Errorf(src Source, format string, a ...any) error {
	return Position(src, errors.Errorf(format, a...))
}

// Wrapf wraps an error (usually a sentinel error) with a formatted message
// and attaches the result to an IR node.
func Wrapf(src Source, err error, format string, a ...any) error {
	return Position(src, errors.Wrapf(err, format, a...))
}

// Internal marks an error as internal, potentially adding additional information.
func Internal(err error) error {
	return fmt.Errorf("tensorcore internal error. This is a bug in the compiler. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal compiler error.
func Internalf(src Source, format string, a ...any) error {
	return Internal(Errorf(src, format, a...))
}

// Error returns a string description of the error.
func (err errorWithPos) Error() (s string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s = fmt.Sprintf("recovered from panic when building error message: %T:\n%v", err.err, string(debug.Stack()))
	}()
	if err.loc == "" {
		return err.err.Error()
	}
	return err.loc + ": " + err.err.Error()
}

// Unwrap the error.
func (err errorWithPos) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
func (err errorWithPos) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

func (err errorWithPos) Src() Source {
	return err.src
}

func (err errorWithPos) Err() error {
	return err.err
}

func formatVerbose(err error, s fmt.State) {
	io.WriteString(s, err.Error())
	var withSt interface {
		StackTrace() errors.StackTrace
	}
	if !errors.As(err, &withSt) {
		return
	}
	fmt.Fprintf(s, "\nError generated at:%+v\n", withSt.StackTrace())
}

func format(err error, s fmt.State, verb rune) {
	switch verb {
	case 'w', 'v':
		if s.Flag('+') {
			formatVerbose(err, s)
			return
		}
		io.WriteString(s, err.Error())
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}
