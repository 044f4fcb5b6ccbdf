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

import (
	"golang.org/x/exp/slices"
)

// EnumInfo is one declared enum value.
type EnumInfo struct {
	// Number is the integral value.
	Number int64
	// Value is the boxed enum value.
	Value *Boxed
	// Name is the declared name.
	Name string
}

// EnumInfos returns the declared values in declaration order.
func (t *Type) EnumInfos() []EnumInfo {
	return slices.Clone(t.enums)
}

// EnumByNumber returns the first declared value numbered n.
func (t *Type) EnumByNumber(n int64) (EnumInfo, bool) {
	if i := slices.IndexFunc(t.enums, func(e EnumInfo) bool { return e.Number == n }); i >= 0 {
		return t.enums[i], true
	}
	return EnumInfo{}, false
}

// EnumByName returns the declared value called name.
func (t *Type) EnumByName(name string) (EnumInfo, bool) {
	if i := slices.IndexFunc(t.enums, func(e EnumInfo) bool { return e.Name == name }); i >= 0 {
		return t.enums[i], true
	}
	return EnumInfo{}, false
}

// EnumName returns the declared name of the enum value held by h.
func (t *Type) EnumName(h any) (string, bool) {
	if !t.IsEnum() {
		return "", false
	}
	v, err := t.reg.unbox(h, t.native, false)
	if err != nil {
		return "", false
	}
	e, ok := t.EnumByNumber(integerOf(v))
	return e.Name, ok
}
