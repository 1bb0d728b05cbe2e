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

// Package pipeline runs the display, filter and write steps of bytefilter.
//
// Run prints the input file, resolves the filter, transforms the input into
// the output and prints the output file. When the input and output paths are
// the same string the whole file is buffered before it is rewritten;
// otherwise it is streamed chunk by chunk.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/eminwux/bytefilter/internal/errdefs"
	"github.com/eminwux/bytefilter/internal/filter"
)

const (
	// DefaultBufferSize is the chunk size used for reads and writes.
	DefaultBufferSize = 1024
	// OutputFileMode is the permission set of a newly created output file.
	OutputFileMode = 0o644

	LabelPre  = "pre-transformation"
	LabelPost = "post-transformation"
)

type Mode string

const (
	ModeDistinct Mode = "distinct"
	ModeSame     Mode = "same"
)

// ReadErrorPolicy decides what a read failure after the streaming loop does.
type ReadErrorPolicy string

const (
	// ReadErrorsFatal aborts the run.
	ReadErrorsFatal ReadErrorPolicy = "fatal"
	// ReadErrorsReport prints the diagnostic and carries on with the output
	// written so far.
	ReadErrorsReport ReadErrorPolicy = "report"
)

func ParseReadErrorPolicy(s string) (ReadErrorPolicy, error) {
	switch ReadErrorPolicy(s) {
	case ReadErrorsFatal, "":
		return ReadErrorsFatal, nil
	case ReadErrorsReport:
		return ReadErrorsReport, nil
	}
	return "", fmt.Errorf("%w: %q (use fatal|report)", errdefs.ErrInvalidReadPolicy, s)
}

type Options struct {
	Input      string
	Output     string
	FilterName string
	BufferSize int
	ReadErrors ReadErrorPolicy
}

type Stats struct {
	Mode         Mode
	Filter       filter.Filter
	BytesRead    int64
	BytesWritten int64
	Chunks       int
}

type Pipeline struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func New(stdout, stderr io.Writer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

// Run executes the full pipeline. Non-fatal problems are reported on stderr
// as they happen; the returned error is the one that stopped the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Stats, error) {
	if opts.BufferSize < 1 {
		return nil, fmt.Errorf("%w: %d", errdefs.ErrInvalidBufferSize, opts.BufferSize)
	}

	p.logger.DebugContext(ctx, "pipeline starting",
		"input", opts.Input,
		"output", opts.Output,
		"filter", opts.FilterName,
		"bufferSize", opts.BufferSize,
		"readErrors", opts.ReadErrors,
	)

	p.Display(ctx, opts.Input, LabelPre, opts.BufferSize)

	f, ok := filter.Resolve(opts.FilterName)
	if !ok {
		p.logger.ErrorContext(ctx, "unknown filter", "filter", opts.FilterName)
		return nil, fmt.Errorf("%w: %s. Choose from 'upper', 'lower', or 'null'.", errdefs.ErrInvalidFilter, opts.FilterName)
	}

	var (
		stats *Stats
		err   error
	)
	if opts.Input == opts.Output {
		stats, err = p.TransformSame(ctx, opts.Input, f, opts.BufferSize)
	} else {
		stats, err = p.TransformDistinct(ctx, opts.Input, opts.Output, f, opts.BufferSize, opts.ReadErrors)
	}
	if err != nil {
		p.logger.ErrorContext(ctx, "transformation failed", "error", err, "errno", errdefs.Errno(err))
		return stats, err
	}

	p.logger.InfoContext(ctx, "transformation done",
		"mode", stats.Mode,
		"filter", stats.Filter,
		"bytesRead", stats.BytesRead,
		"bytesWritten", stats.BytesWritten,
		"chunks", stats.Chunks,
	)

	p.Display(ctx, opts.Output, LabelPost, opts.BufferSize)
	return stats, nil
}

// report prints a diagnostic on stderr in "<context>: <reason>" form.
func (p *Pipeline) report(ctx context.Context, err error) {
	p.logger.WarnContext(ctx, "reported error", "error", err, "errno", errdefs.Errno(err))
	fmt.Fprintln(p.stderr, errdefs.Describe(err))
}
