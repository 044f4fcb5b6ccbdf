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

package strategy

import (
	"reflect"

	"dirpx.dev/rtti/apis"
	uref "dirpx.dev/rtti/utils/reflect"
)

// NewClassStrategy creates an apis.Strategy that maps class handles to
// their class struct.
func NewClassStrategy() apis.Strategy {
	return &classStrategy{}
}

// classStrategy resolves *S and S to S when S is a class, so that a class
// and its handles share one descriptor.
type classStrategy struct{}

// Ensure classStrategy implements apis.Strategy.
var _ apis.Strategy = (*classStrategy)(nil)

// TryResolve resolves the class of v's dynamic type.
func (s *classStrategy) TryResolve(v any, cfg apis.Config) (reflect.Type, bool) {
	if v == nil {
		return nil, false
	}
	return s.TryResolveType(reflect.TypeOf(v), cfg)
}

// TryResolveType resolves the class of t.
func (*classStrategy) TryResolveType(t reflect.Type, _ apis.Config) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	return uref.ClassOf(t)
}
