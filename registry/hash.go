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
	"hash/maphash"
	"math"
	"reflect"
)

// hashSeed is fixed for the process so hash codes are stable across calls.
var hashSeed = maphash.MakeSeed()

// hashValue computes the hash code of v. Integers hash to their value,
// floats to their bit pattern (with -0 folded into 0), strings through
// maphash; composite values combine their elements and reference kinds
// hash by identity.
func hashValue(v reflect.Value) uint64 {
	if !v.IsValid() {
		return 0
	}
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f == 0 {
			return 0
		}
		return math.Float64bits(f)
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		return combineHash(math.Float64bits(real(c)), math.Float64bits(imag(c)))
	case reflect.String:
		return maphash.String(hashSeed, v.String())
	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return hashValue(v.Elem())
	case reflect.Array:
		var h uint64
		for i := 0; i < v.Len(); i++ {
			h = combineHash(h, hashValue(v.Index(i)))
		}
		return h
	case reflect.Struct:
		var h uint64
		for i := 0; i < v.NumField(); i++ {
			h = combineHash(h, hashValue(v.Field(i)))
		}
		return h
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return uint64(v.Pointer())
	}
	return 0
}

func combineHash(h, x uint64) uint64 {
	return h*31 + x
}
