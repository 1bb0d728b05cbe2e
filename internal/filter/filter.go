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

// Package filter provides the byte transforms applied by the pipeline.
// Every filter maps one byte to exactly one byte, so a filtered buffer always
// has the same length as its input.
package filter

// Filter is a tagged variant over the supported byte transforms.
type Filter int

const (
	Null Filter = iota
	Upper
	Lower
)

//nolint:gochecknoglobals // name table
var names = map[string]Filter{
	"upper": Upper,
	"lower": Lower,
	"null":  Null,
}

// Resolve returns the filter registered under name. Matching is exact and
// case-sensitive.
func Resolve(name string) (Filter, bool) {
	f, ok := names[name]
	return f, ok
}

// Names lists the accepted filter names in the order they are documented.
func Names() []string {
	return []string{"upper", "lower", "null"}
}

func (f Filter) String() string {
	switch f {
	case Upper:
		return "upper"
	case Lower:
		return "lower"
	case Null:
		return "null"
	}
	return "unknown"
}

// Map transforms a single byte. Case mapping is ASCII only, which is what
// toupper(3) and tolower(3) do in the C locale.
func (f Filter) Map(c byte) byte {
	switch f {
	case Upper:
		if 'a' <= c && c <= 'z' {
			return c - ('a' - 'A')
		}
	case Lower:
		if 'A' <= c && c <= 'Z' {
			return c + ('a' - 'A')
		}
	case Null:
	}
	return c
}

// Apply transforms buf in place.
func (f Filter) Apply(buf []byte) {
	if f == Null {
		return
	}
	for i, c := range buf {
		buf[i] = f.Map(c)
	}
}
