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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/gx-org/tensorcore/build/ir/irjson"
)

type runResult struct {
	stdout, stderr string
	err            error
}

func runCommand(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newCommand()
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func archiveFiles(ar *txtar.Archive) map[string]string {
	files := make(map[string]string, len(ar.Files))
	for _, file := range ar.Files {
		files[file.Name] = string(file.Data)
	}
	return files
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)
			files := archiveFiles(ar)
			input := filepath.Join(t.TempDir(), "input.json")
			require.NoError(t, os.WriteFile(input, []byte(files["input.json"]), 0644))

			args := append(strings.Fields(files["args"]), input)
			res := runCommand(t, "", args...)
			if wantErr, ok := files["error"]; ok {
				require.Error(t, res.err)
				assert.Contains(t, res.err.Error(), strings.TrimSpace(wantErr))
			} else {
				require.NoError(t, res.err)
			}
			assert.Equal(t, files["stdout"], res.stdout)
		})
	}
}

func readInput(t *testing.T, name string) string {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return archiveFiles(ar)["input.json"]
}

func TestStdinJSON(t *testing.T) {
	res := runCommand(t, readInput(t, "lower.txtar"), "--format", "json", "-")
	require.NoError(t, res.err)

	lowered, err := irjson.Unmarshal([]byte(res.stdout))
	require.NoError(t, err)
	want := runCommand(t, readInput(t, "lower.txtar"), "-")
	require.NoError(t, want.err)
	assert.Equal(t, want.stdout, lowered.String())
	assert.Contains(t, res.stdout, `"node": "mma"`)
}

func TestTrace(t *testing.T) {
	res := runCommand(t, readInput(t, "lower.txtar"), "--trace", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "found the required loop nesting")
	assert.NotContains(t, res.stdout, "found the required loop nesting")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		args  []string
		stdin string
		want  string
	}{
		{
			args: []string{"--format", "yaml", "-"},
			want: `unknown output format "yaml"`,
		},
		{
			args:  []string{"-"},
			stdin: `{"node": "for"`,
			want:  "cannot decode -",
		},
		{
			args: []string{filepath.Join("testdata", "missing.json")},
			want: "cannot read",
		},
		{
			args:  []string{"-"},
			stdin: readInput(t, "nesting.txtar"),
			want:  "expected 3 tensor core dimensions, got 1",
		},
	}
	for _, test := range tests {
		res := runCommand(t, test.stdin, test.args...)
		require.Error(t, res.err, "args: %v", test.args)
		assert.Contains(t, res.err.Error(), test.want)
	}
	assert.Error(t, runCommand(t, "").err, "missing program argument")
}
