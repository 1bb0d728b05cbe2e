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

import (
	"errors"

	"golang.org/x/sys/unix"
)

//nolint:gochecknoglobals // fixed lookup table
var ioContexts = []error{
	ErrDisplayOpen,
	ErrDisplayRead,
	ErrOpenInput,
	ErrCreateOutput,
	ErrOpenOutput,
	ErrReadInput,
	ErrWriteOutput,
	ErrWriteTransformed,
	ErrWriteMetadata,
}

// Describe renders err as "<context>: <system error description>".
//
// When err wraps one of the I/O sentinels and an errno, the path and
// operation that os adds ("open /x: ...") are dropped so the text matches
// what perror(3) prints. Anything else is returned as err.Error().
func Describe(err error) string {
	if err == nil {
		return ""
	}

	ctx := ioContext(err)
	if ctx == nil {
		return err.Error()
	}

	var errno unix.Errno
	if errors.As(err, &errno) {
		return ctx.Error() + ": " + errno.Error()
	}

	return ctx.Error() + ": " + innermost(err).Error()
}

// Errno returns the symbolic errno name carried by err ("ENOENT"), or "".
func Errno(err error) string {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	return unix.ErrnoName(errno)
}

func ioContext(err error) error {
	for _, c := range ioContexts {
		if errors.Is(err, c) {
			return c
		}
	}
	return nil
}

// innermost returns the last leaf of the wrap tree that is not an I/O
// context sentinel.
func innermost(err error) error {
	last := err
	for _, cur := range unwrapAll(err) {
		if isLeaf(cur) && !isSentinel(cur) {
			last = cur
		}
	}
	return last
}

func isLeaf(err error) bool {
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		return len(u.Unwrap()) == 0
	case interface{ Unwrap() error }:
		return u.Unwrap() == nil
	}
	return true
}

func isSentinel(err error) bool {
	for _, c := range ioContexts {
		if err == c { //nolint:errorlint // identity check on sentinels
			return true
		}
	}
	return false
}

// unwrapAll flattens the error tree depth-first, parents before children.
func unwrapAll(err error) []error {
	var out []error
	stack := []error{err}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)

		switch u := cur.(type) {
		case interface{ Unwrap() []error }:
			children := u.Unwrap()
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		case interface{ Unwrap() error }:
			if next := u.Unwrap(); next != nil {
				stack = append(stack, next)
			}
		}
	}
	return out
}
