/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry

import "strings"

// Flags is the classification bitset of a Type.
type Flags uint32

const (
	// FlagEnum marks named integer types registered with RegisterEnum.
	FlagEnum Flags = 1 << iota
	// FlagPointer marks pointer types and unsafe.Pointer.
	FlagPointer
	// FlagIntegral marks integer kinds (including uintptr).
	FlagIntegral
	// FlagFloating marks float32 and float64.
	FlagFloating
)

var flagNames = [...]struct {
	f    Flags
	name string
}{
	{FlagEnum, "enum"},
	{FlagPointer, "pointer"},
	{FlagIntegral, "integral"},
	{FlagFloating, "floating"},
}

// Has reports whether every bit of flag is set in f.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag && flag != 0
}

// Names returns the names of the set flags in declaration order.
func (f Flags) Names() []string {
	var out []string
	for _, n := range flagNames {
		if f&n.f != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

// String renders f as "a|b", or "none".
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}
