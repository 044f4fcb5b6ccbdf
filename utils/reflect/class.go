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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectNotClass indicates that the provided type is not a class
	// (a struct embedding apis.Object, directly or through another class).
	ErrReflectNotClass = errors.New("reflect: type is not a class")
)

var (
	classIface = reflect.TypeFor[apis.Class]()
	rootType   = reflect.TypeFor[apis.Object]()
)

// RootType returns the native type of the class root, apis.Object.
func RootType() reflect.Type {
	return rootType
}

// IsClass reports whether t is a class struct: a struct whose pointer
// satisfies apis.Class.
func IsClass(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(classIface)
}

// ClassOf returns the class struct for t when t is either a class struct S
// or a class handle *S.
func ClassOf(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if IsClass(t) {
		return t, true
	}
	return nil, false
}

// BaseOf returns the base class of the class struct t: the type of its
// first exported embedded field that is itself a class. For apis.Object
// the result is (nil, nil).
func BaseOf(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if !IsClass(t) {
		return nil, ErrReflectNotClass
	}
	if t == rootType {
		return nil, nil
	}
	idx, ok := baseField(t)
	if !ok {
		// Only reachable when the class marker comes from a non-embedded
		// source, e.g. a struct declaring IsRttiObject itself.
		return rootType, nil
	}
	bt := t.Field(idx).Type
	if bt.Kind() == reflect.Pointer {
		bt = bt.Elem()
	}
	return bt, nil
}

// baseField locates the embedded base class field of struct t.
func baseField(t reflect.Type) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || !f.IsExported() {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if IsClass(ft) {
			return i, true
		}
	}
	return -1, false
}

// Upcast converts the class handle v to the pointer or interface type to.
//
// Assignable values are returned unchanged. Otherwise the embedding chain
// of v is walked (at most cfg.MaxEmbedDepth levels) until a base handle
// assignable to the requested type is found. The returned handle aliases
// the embedded base inside v, like a static upcast.
//
// If MaxEmbedDepth <= 0, DefaultMaxEmbedDepth is used.
func Upcast(v reflect.Value, to reflect.Type, cfg apis.Config) (reflect.Value, bool) {
	if !v.IsValid() || to == nil {
		return reflect.Value{}, false
	}
	if v.Type().AssignableTo(to) {
		return v, true
	}
	if v.Kind() != reflect.Pointer || to.Kind() != reflect.Pointer {
		return reflect.Value{}, false
	}

	maxDepth := cfg.MaxEmbedDepth
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxEmbedDepth
	}

	cur := v
	for i := 0; i < maxDepth; i++ {
		if cur.IsNil() {
			return reflect.Value{}, false
		}
		s := cur.Elem()
		if s.Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		idx, ok := baseField(s.Type())
		if !ok {
			return reflect.Value{}, false
		}
		f := s.Field(idx)
		if f.Kind() == reflect.Pointer {
			if f.IsNil() {
				return reflect.Value{}, false
			}
			cur = f
		} else {
			cur = f.Addr()
		}
		if cur.Type().AssignableTo(to) {
			return cur, true
		}
	}
	return reflect.Value{}, false
}
