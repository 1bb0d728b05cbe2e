// Copyright 2025 Emiliano Spinella (eminwux)
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
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eminwux/bytefilter/cmd/bytefilter"
	"github.com/eminwux/bytefilter/internal/logging"
	"github.com/spf13/viper"
)

const prog = "bytefilter"

const usageLine = "Usage: bytefilter -i input_file -o output_file -f filter\n"

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Cleanup(func() {
		viper.Reset()
	})
	t.Setenv("HOME", t.TempDir())

	ctx := context.WithValue(context.Background(), logging.CtxLogger, logging.NewNoopLogger())

	var stdout, stderr bytes.Buffer
	code := runWithFactory(ctx, bytefilter.NewBytefilterRootCmd, prog, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func Test_Run_HelloWorld(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte("Hello, World!\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := run(t, "-i", in, "-o", out, "-f", "upper")
	if code != 0 {
		t.Fatalf("expected exit code 0; got: %d (stderr: %q)", code, stderr)
	}

	want := "Contents of " + in + " (pre-transformation):\nHello, World!\n\n" +
		"Contents of " + out + " (post-transformation):\nHELLO, WORLD!\n\n"
	if stdout != want {
		t.Fatalf("expected stdout %q; got: %q", want, stdout)
	}
	if stderr != "" {
		t.Fatalf("expected empty stderr; got: %q", stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "HELLO, WORLD!\n" {
		t.Fatalf("unexpected output file content: %q", string(data))
	}
}

func Test_Run_SamePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "same.txt")
	if err := os.WriteFile(path, []byte("Shout Quietly\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := run(t, "--input", path, "--output", path, "--filter", "lower")
	if code != 0 {
		t.Fatalf("expected exit code 0; got: %d (stderr: %q)", code, stderr)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "shout quietly\n" {
		t.Fatalf("unexpected file content: %q", string(data))
	}
}

func Test_Run_MissingFlags(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := map[string][]string{
		"no flags":   {},
		"no input":   {"-o", out, "-f", "upper"},
		"no output":  {"-i", in, "-f", "upper"},
		"no filter":  {"-i", in, "-o", out},
		"empty flag": {"-i", in, "-o", out, "-f", ""},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, stdout, stderr := run(t, args...)
			if code != 1 {
				t.Fatalf("expected exit code 1; got: %d", code)
			}
			if stderr != usageLine {
				t.Fatalf("expected '%v'; got: '%v'", usageLine, stderr)
			}
			if stdout != "" {
				t.Fatalf("no file may be displayed, got: %q", stdout)
			}
			if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("output file must not exist, stat err: %v", err)
			}
		})
	}
}

func Test_Run_UnknownFlag(t *testing.T) {
	code, stdout, stderr := run(t, "-x", "-i", "a", "-o", "b", "-f", "null")
	if code != 1 {
		t.Fatalf("expected exit code 1; got: %d", code)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout; got: %q", stdout)
	}
	if !strings.HasPrefix(stderr, prog+": ") || !strings.HasSuffix(stderr, usageLine) {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
	if !strings.Contains(stderr, "unknown shorthand flag") {
		t.Fatalf("expected pflag error in stderr: %q", stderr)
	}
}

func Test_Run_PositionalArgument(t *testing.T) {
	code, _, stderr := run(t, "-i", "a", "-o", "b", "-f", "null", "extra")
	if code != 1 {
		t.Fatalf("expected exit code 1; got: %d", code)
	}
	if !strings.Contains(stderr, "invalid positional argument") || !strings.HasSuffix(stderr, usageLine) {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func Test_Run_InvalidFilter(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := run(t, "-i", in, "-o", out, "-f", "reverse")
	if code != 1 {
		t.Fatalf("expected exit code 1; got: %d", code)
	}
	want := "Invalid filter: reverse. Choose from 'upper', 'lower', or 'null'.\n"
	if stderr != want {
		t.Fatalf("expected '%v'; got: '%v'", want, stderr)
	}
	if stdout != "Contents of "+in+" (pre-transformation):\nabc\n" {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output file must not exist, stat err: %v", err)
	}
}

func Test_Run_MissingInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "missing.txt")
	out := filepath.Join(dir, "out.txt")

	code, stdout, stderr := run(t, "-i", in, "-o", out, "-f", "null")
	if code != 1 {
		t.Fatalf("expected exit code 1; got: %d", code)
	}
	want := "Failed to open file for displaying contents: no such file or directory\n" +
		"Failed to open input file: no such file or directory\n"
	if stderr != want {
		t.Fatalf("expected '%v'; got: '%v'", want, stderr)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout; got: %q", stdout)
	}
}

func Test_Run_MetadataFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	report := filepath.Join(dir, "report.yaml")
	if err := os.WriteFile(in, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := run(t, "-i", in, "-o", out, "-f", "upper", "--metadata-file", report)
	if code != 0 {
		t.Fatalf("expected exit code 0; got: %d (stderr: %q)", code, stderr)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	for _, want := range []string{"filter: upper", "mode: distinct", "bytesWritten: 3"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("report missing %q:\n%s", want, string(data))
		}
	}
}

func Test_Run_InvalidBufferSize(t *testing.T) {
	code, stdout, stderr := run(t, "-i", "a", "-o", "b", "-f", "null", "--buffer-size", "0")
	if code != 1 {
		t.Fatalf("expected exit code 1; got: %d", code)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout; got: %q", stdout)
	}
	if !strings.Contains(stderr, "buffer size must be at least 1") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}
