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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/eminwux/bytefilter/internal/errdefs"
	"github.com/eminwux/bytefilter/internal/filter"
)

// TransformDistinct streams in through f into out, one chunk at a time.
// out is created or truncated. A read error after the loop follows policy.
func (p *Pipeline) TransformDistinct(
	ctx context.Context,
	in, out string,
	f filter.Filter,
	bufSize int,
	policy ReadErrorPolicy,
) (*Stats, error) {
	stats := &Stats{Mode: ModeDistinct, Filter: f}

	src, err := os.Open(in)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", errdefs.ErrOpenInput, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, OutputFileMode)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", errdefs.ErrCreateOutput, err)
	}
	defer dst.Close()

	p.logger.DebugContext(ctx, "streaming transform", "input", in, "output", out, "filter", f)

	buf := make([]byte, bufSize)
	var rerr error
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, fmt.Errorf("%w: %w", errdefs.ErrContextDone, ctxErr)
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			stats.BytesRead += int64(n)
			stats.Chunks++

			f.Apply(buf[:n])

			m, werr := dst.Write(buf[:n])
			stats.BytesWritten += int64(m)
			if werr == nil && m != n {
				werr = io.ErrShortWrite
			}
			if werr != nil {
				return stats, fmt.Errorf("%w: %w", errdefs.ErrWriteOutput, werr)
			}
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				rerr = readErr
			}
			break
		}
		if n == 0 {
			break
		}
	}

	if rerr != nil {
		err := fmt.Errorf("%w: %w", errdefs.ErrReadInput, rerr)
		if policy != ReadErrorsReport {
			return stats, err
		}
		p.report(ctx, err)
	}

	if err := dst.Close(); err != nil {
		return stats, fmt.Errorf("%w: %w", errdefs.ErrWriteOutput, err)
	}

	return stats, nil
}

// TransformSame rewrites path in place. The whole file is read into memory
// before the path is reopened with truncation, so nothing is lost to the
// truncate.
func (p *Pipeline) TransformSame(ctx context.Context, path string, f filter.Filter, bufSize int) (*Stats, error) {
	stats := &Stats{Mode: ModeSame, Filter: f}

	src, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", errdefs.ErrOpenInput, err)
	}

	content, chunks, err := readAll(ctx, src, bufSize)
	_ = src.Close()
	stats.BytesRead = int64(len(content))
	stats.Chunks = chunks
	if err != nil {
		return stats, err
	}

	p.logger.DebugContext(ctx, "buffered input", "path", path, "bytes", len(content), "chunks", chunks)

	f.Apply(content)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, OutputFileMode)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", errdefs.ErrOpenOutput, err)
	}
	defer dst.Close()

	n, werr := dst.Write(content)
	stats.BytesWritten = int64(n)
	if werr == nil && n != len(content) {
		werr = io.ErrShortWrite
	}
	if werr != nil {
		return stats, fmt.Errorf("%w: %w", errdefs.ErrWriteTransformed, werr)
	}

	if err := dst.Close(); err != nil {
		return stats, fmt.Errorf("%w: %w", errdefs.ErrWriteTransformed, err)
	}

	return stats, nil
}

// readAll reads r in chunks of at most bufSize bytes. The buffer grows
// geometrically and is clipped to its logical length once at the end.
func readAll(ctx context.Context, r io.Reader, bufSize int) ([]byte, int, error) {
	buf := make([]byte, 0, bufSize)
	chunks := 0
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return buf, chunks, fmt.Errorf("%w: %w", errdefs.ErrContextDone, ctxErr)
		}

		if cap(buf)-len(buf) < bufSize {
			buf = slices.Grow(buf, max(bufSize, cap(buf)))
		}

		n, err := r.Read(buf[len(buf) : len(buf)+bufSize])
		if n > 0 {
			buf = buf[:len(buf)+n]
			chunks++
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, chunks, fmt.Errorf("%w: %w", errdefs.ErrReadInput, err)
		}
		if n == 0 {
			break
		}
	}
	return slices.Clip(buf), chunks, nil
}
