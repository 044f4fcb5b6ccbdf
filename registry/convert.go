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
	"math"
	"reflect"

	"golang.org/x/exp/slices"

	uref "dirpx.dev/rtti/utils/reflect"
)

// TypeConverter converts handles of its source type into Target.
type TypeConverter struct {
	// Target is the declared result type.
	Target *Type
	fn     func(h any) (any, bool)
}

// Convert applies the converter to h.
func (c TypeConverter) Convert(h any) (any, bool) {
	return c.fn(h)
}

// CanConvertTo reports whether a handle of type t converts to dst in one
// step. The null source is handled by Registry.Convert.
func (t *Type) CanConvertTo(dst *Type) bool {
	if t == nil || dst == nil {
		return false
	}
	if dst.IsAssignableFrom(t) {
		return true
	}
	r := t.reg
	if t.IsPointer() && dst == r.voidPointerType() {
		return true
	}
	if t.IsEnum() && dst.HasFlag(FlagIntegral) {
		return true
	}
	if t.HasFlag(FlagIntegral) && dst.IsEnum() {
		return true
	}
	for _, c := range dst.ctors {
		if len(c.params) == 1 && c.params[0].Type.IsAssignableFrom(t) {
			return true
		}
	}
	for _, c := range t.convs {
		if c.Target.IsAssignableTo(dst) {
			return true
		}
	}
	return false
}

// CanConvert reports whether src converts to dst in one step.
func (r *Registry) CanConvert(src, dst *Type) bool {
	return src.CanConvertTo(dst)
}

// Convert performs one conversion step of h into dst. Rules, in order:
// null, assignability, pointer erasure to unsafe.Pointer, a converting
// constructor of dst, a converter of the source, the enum/integral bridge.
// Failure is an ordinary outcome reported by the boolean.
func (r *Registry) Convert(h any, dst *Type) (any, bool) {
	if dst == nil {
		return nil, false
	}
	if h == nil {
		return nil, !dst.IsValueType()
	}
	src := r.TypeOfObject(h)
	if src == nil {
		return nil, false
	}

	if dst.IsAssignableFrom(src) {
		return h, true
	}

	if src.IsPointer() && dst == r.voidPointerType() {
		return Box(UnboxPointer(h)), true
	}

	if out, ok := convertingConstructor(h, src, dst); ok {
		return out, true
	}

	for _, c := range src.convs {
		if c.Target.IsAssignableTo(dst) {
			return c.Convert(h)
		}
	}

	if src.IsEnum() && dst.HasFlag(FlagIntegral) {
		u, ok := r.Convert(h, src.underlying)
		if !ok {
			return nil, false
		}
		return r.Convert(u, dst)
	}

	if src.HasFlag(FlagIntegral) && dst.IsEnum() {
		v, err := r.unbox(h, src.native, false)
		if err != nil {
			return nil, false
		}
		n, ok := narrowInteger(v, dst.underlying.native)
		if !ok {
			return nil, false
		}
		e, ok := dst.EnumByNumber(n)
		if !ok {
			return nil, false
		}
		return e.Value.Clone(), true
	}

	return nil, false
}

// voidPointerType returns the unsafe.Pointer descriptor.
func (r *Registry) voidPointerType() *Type {
	return r.TypeOfNative(unsafePtrType)
}

// integerOf returns the integral value of v as int64.
func integerOf(v reflect.Value) int64 {
	if uref.IsUnsigned(v.Type()) {
		return int64(v.Uint())
	}
	return v.Int()
}

// narrowInteger converts the integral value v to the integral type to and
// returns the result as int64. It fails when v lies outside the range of
// to.
func narrowInteger(v reflect.Value, to reflect.Type) (int64, bool) {
	lim := reflect.Zero(to)
	if uref.IsUnsigned(v.Type()) {
		u := v.Uint()
		if uref.IsUnsigned(to) {
			if lim.OverflowUint(u) {
				return 0, false
			}
		} else if u > math.MaxInt64 || lim.OverflowInt(int64(u)) {
			return 0, false
		}
	} else {
		i := v.Int()
		if uref.IsUnsigned(to) {
			if i < 0 || lim.OverflowUint(uint64(i)) {
				return 0, false
			}
		} else if lim.OverflowInt(i) {
			return 0, false
		}
	}
	return integerOf(v.Convert(to)), true
}

// convertingConstructor runs the constructor CreateInstance would pick for
// h when dst declares a one-parameter constructor taking src. Rejections
// are an ordinary outcome and are not reported.
func convertingConstructor(h any, src, dst *Type) (any, bool) {
	declared := slices.ContainsFunc(dst.ctors, func(c *ConstructorInfo) bool {
		return len(c.params) == 1 && c.params[0].Type.IsAssignableFrom(src)
	})
	if !declared {
		return nil, false
	}
	args := []any{h}
	c := dst.constructorFor(args)
	if c == nil {
		return nil, false
	}
	out, err := c.run(nil, args)
	if err != nil || out == nil {
		return nil, false
	}
	return out, true
}

// reflectConverter converts by reflect.Value.Convert into target.
func reflectConverter(r *Registry, src, target reflect.Type) func(any) (any, bool) {
	return func(h any) (any, bool) {
		v, err := r.unbox(h, src, false)
		if err != nil {
			return nil, false
		}
		return newBoxed(v.Convert(target)), true
	}
}
