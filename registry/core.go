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
	"reflect"
	"unsafe"

	uref "dirpx.dev/rtti/utils/reflect"
)

// numericTypes are the primitives that convert into and compare with
// each other.
var numericTypes = []reflect.Type{
	reflect.TypeFor[int](),
	reflect.TypeFor[int8](),
	reflect.TypeFor[int16](),
	reflect.TypeFor[int32](),
	reflect.TypeFor[int64](),
	reflect.TypeFor[uint](),
	reflect.TypeFor[uint8](),
	reflect.TypeFor[uint16](),
	reflect.TypeFor[uint32](),
	reflect.TypeFor[uint64](),
	reflect.TypeFor[uintptr](),
	reflect.TypeFor[float32](),
	reflect.TypeFor[float64](),
}

// initCore registers the primitive catalogue.
func (r *Registry) initCore() {
	nums := make([]*Type, 0, len(numericTypes))
	for _, nt := range numericTypes {
		nums = append(nums, r.registerCore(nt))
	}
	for _, src := range nums {
		for _, dst := range nums {
			if src != dst {
				src.convs = append(src.convs, TypeConverter{Target: dst, fn: reflectConverter(r, src.native, dst.native)})
			}
			src.cmps = append(src.cmps, ObjectComparer{Target: dst, fn: numericComparer(r, src.native, dst.native)})
		}
	}

	for _, t := range []*Type{
		r.registerCore(reflect.TypeFor[bool]()),
		r.registerCore(reflect.TypeFor[string]()),
	} {
		t.cmps = append(t.cmps, ObjectComparer{Target: t, fn: equalComparer(r, t.native)})
	}

	r.registerCore(reflect.TypeFor[unsafe.Pointer]())
}

func (r *Registry) registerCore(t reflect.Type) *Type {
	ct := r.TypeOfNative(t)
	ct.registered = true
	return ct
}

// numericComparer compares an l-typed and an r-typed number by value.
func numericComparer(reg *Registry, l, r reflect.Type) func(any, any) CompareResult {
	return func(lh, rh any) CompareResult {
		lv, err := reg.unbox(lh, l, false)
		if err != nil {
			return Failed
		}
		rv, err := reg.unbox(rh, r, false)
		if err != nil {
			return Failed
		}
		return resultOf(numericEqual(lv, rv))
	}
}

// equalComparer compares two values of the comparable type t with ==.
func equalComparer(reg *Registry, t reflect.Type) func(any, any) CompareResult {
	return func(lh, rh any) CompareResult {
		lv, err := reg.unbox(lh, t, false)
		if err != nil {
			return Failed
		}
		rv, err := reg.unbox(rh, t, false)
		if err != nil {
			return Failed
		}
		return resultOf(lv.Equal(rv))
	}
}

func numericEqual(a, b reflect.Value) bool {
	at, bt := a.Type(), b.Type()
	switch {
	case uref.IsFloating(at) || uref.IsFloating(bt):
		return asFloat(a) == asFloat(b)
	case uref.IsUnsigned(at) && uref.IsUnsigned(bt):
		return a.Uint() == b.Uint()
	case uref.IsUnsigned(at):
		return b.Int() >= 0 && a.Uint() == uint64(b.Int())
	case uref.IsUnsigned(bt):
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint()
	}
	return a.Int() == b.Int()
}

func asFloat(v reflect.Value) float64 {
	switch {
	case uref.IsFloating(v.Type()):
		return v.Float()
	case uref.IsUnsigned(v.Type()):
		return float64(v.Uint())
	}
	return float64(v.Int())
}
