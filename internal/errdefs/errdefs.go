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

package errdefs

import "errors"

// I/O sentinels double as the context printed in front of the system error,
// so their text is user-facing and capitalized.
//
//nolint:staticcheck // user-facing diagnostic text
var (
	ErrDisplayOpen      = errors.New("Failed to open file for displaying contents")
	ErrDisplayRead      = errors.New("Failed to read file")
	ErrOpenInput        = errors.New("Failed to open input file")
	ErrCreateOutput     = errors.New("Failed to create output file")
	ErrOpenOutput       = errors.New("Failed to open output file")
	ErrReadInput        = errors.New("Failed to read input file")
	ErrWriteOutput      = errors.New("Failed to write to output file")
	ErrWriteTransformed = errors.New("Failed to write transformed content to file")
	ErrWriteMetadata    = errors.New("Failed to write metadata file")
	ErrInvalidFilter    = errors.New("Invalid filter")
)

var (
	ErrUsage             = errors.New("invalid usage")
	ErrMissingFlag       = errors.New("required flag(s) not set")
	ErrInvalidFlag       = errors.New("invalid flag usage")
	ErrInvalidArgument   = errors.New("invalid positional argument")
	ErrInvalidBufferSize = errors.New("buffer size must be at least 1")
	ErrInvalidReadPolicy = errors.New("unknown read error policy")
	ErrConfig            = errors.New("config error")
	ErrLoggerNotFound    = errors.New("logger not found in context")
	ErrContextDone       = errors.New("context has been cancelled")
)
