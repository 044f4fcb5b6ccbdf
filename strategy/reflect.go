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
)

// NewReflectStrategy creates an apis.Strategy that resolves identities via
// plain reflection.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback: the identity of a handle is
// its dynamic Go type, the identity of a static type is the type itself.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// TryResolve returns the dynamic type of v.
func (reflectStrategy) TryResolve(v any, _ apis.Config) (reflect.Type, bool) {
	if v == nil {
		return nil, false
	}
	return reflect.TypeOf(v), true
}

// TryResolveType returns t unchanged.
func (reflectStrategy) TryResolveType(t reflect.Type, _ apis.Config) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	return t, true
}
