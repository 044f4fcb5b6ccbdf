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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Attributable is implemented by every descriptor carrying attributes.
type Attributable interface {
	// Attribute returns the raw value stored under key.
	Attribute(key string) (any, bool)
}

// Attributes is a flat key/value store attached to a descriptor at
// registration time. It is not inherited along the base chain.
type Attributes struct {
	attrs map[string]any
}

// HasAttribute reports whether key is present.
func (a *Attributes) HasAttribute(key string) bool {
	_, ok := a.attrs[key]
	return ok
}

// Attribute returns the raw value stored under key.
func (a *Attributes) Attribute(key string) (any, bool) {
	v, ok := a.attrs[key]
	return v, ok
}

// AttributeKeys returns the keys in sorted order.
func (a *Attributes) AttributeKeys() []string {
	keys := maps.Keys(a.attrs)
	slices.Sort(keys)
	return keys
}

func (a *Attributes) setAttributes(m map[string]any) {
	if len(m) == 0 {
		return
	}
	if a.attrs == nil {
		a.attrs = make(map[string]any, len(m))
	}
	for k, v := range m {
		a.attrs[k] = v
	}
}

// GetAttribute returns the value under key as T, or def when the key is
// absent or holds a value of another type.
func GetAttribute[T any](a Attributable, key string, def T) T {
	if a == nil {
		return def
	}
	v, ok := a.Attribute(key)
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}
