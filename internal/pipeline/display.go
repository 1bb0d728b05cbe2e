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

	"github.com/eminwux/bytefilter/internal/errdefs"
)

// Display prints path verbatim on stdout under a "Contents of" header,
// followed by a newline. Open and read failures are reported on stderr and
// never stop the program.
func (p *Pipeline) Display(ctx context.Context, path, label string, bufSize int) {
	f, err := os.Open(path)
	if err != nil {
		p.report(ctx, fmt.Errorf("%w: %w", errdefs.ErrDisplayOpen, err))
		return
	}
	defer f.Close()

	fmt.Fprintf(p.stdout, "Contents of %s (%s):\n", path, label)

	buf := make([]byte, bufSize)
	var (
		total int64
		rerr  error
	)
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			total += int64(n)
			if _, werr := p.stdout.Write(buf[:n]); werr != nil {
				p.logger.WarnContext(ctx, "display: stdout write failed", "path", path, "error", werr)
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

	fmt.Fprintln(p.stdout)

	if rerr != nil {
		p.report(ctx, fmt.Errorf("%w: %w", errdefs.ErrDisplayRead, rerr))
	}

	p.logger.DebugContext(ctx, "displayed file", "path", path, "label", label, "bytes", total)
}
