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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/eminwux/bytefilter/cmd/bytefilter"
	"github.com/eminwux/bytefilter/internal/errdefs"
	"github.com/eminwux/bytefilter/internal/logging"
	"github.com/spf13/cobra"
)

type rootFactory func() *cobra.Command

func runWithFactory(
	ctx context.Context,
	factory rootFactory,
	prog string,
	args []string,
	stdout, stderr io.Writer,
) int {
	root := factory()
	root.SetContext(ctx)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		reportError(stderr, prog, err)
		return 1
	}
	return 0
}

// reportError prints err on stderr. Usage errors are followed by the usage
// line; a plain missing-flag error prints only the usage line.
func reportError(w io.Writer, prog string, err error) {
	if errors.Is(err, errdefs.ErrUsage) {
		if !errors.Is(err, errdefs.ErrMissingFlag) {
			fmt.Fprintf(w, "%s: %v\n", prog, err)
		}
		fmt.Fprintf(w, bytefilter.UsageFormat+"\n", prog)
		return
	}
	fmt.Fprintln(w, errdefs.Describe(err))
}

func main() {
	logger := logging.NewNoopLogger()
	ctx := context.WithValue(context.Background(), logging.CtxLogger, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	code := runWithFactory(
		ctx,
		bytefilter.NewBytefilterRootCmd,
		filepath.Base(os.Args[0]),
		os.Args[1:],
		os.Stdout,
		os.Stderr,
	)
	stop()

	os.Exit(code)
}
