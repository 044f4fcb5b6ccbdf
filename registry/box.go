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
	"fmt"
	"log/slog"
	"reflect"
	"unsafe"

	"dirpx.dev/rtti/apis"
	uref "dirpx.dev/rtti/utils/reflect"
)

// Boxed carries a copy of a value of a non-class type so it can flow
// through the same pipeline as class handles. The stored value is
// addressable: reference parameters and field setters mutate it in place.
type Boxed struct {
	v reflect.Value
}

// Ensure *Boxed reports its stored type to the resolver chain.
var _ apis.Typed = (*Boxed)(nil)

func newBoxed(v reflect.Value) *Boxed {
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return &Boxed{v: p.Elem()}
}

// NativeType returns the Go type of the stored value.
func (b *Boxed) NativeType() reflect.Type { return b.v.Type() }

// Interface returns a copy of the stored value.
func (b *Boxed) Interface() any { return b.v.Interface() }

// Value returns the stored value. It is addressable.
func (b *Boxed) Value() reflect.Value { return b.v }

// Addr returns a *T pointing at the stored value.
func (b *Boxed) Addr() any { return b.v.Addr().Interface() }

// IsPointer reports whether the stored value is itself a pointer.
func (b *Boxed) IsPointer() bool {
	k := b.v.Kind()
	return k == reflect.Pointer || k == reflect.UnsafePointer
}

// Pointer returns the address of the stored value.
func (b *Boxed) Pointer() unsafe.Pointer { return b.v.Addr().UnsafePointer() }

// HashCode hashes the stored value. Integers hash to themselves.
func (b *Boxed) HashCode() uint64 { return hashValue(b.v) }

// Clone returns a new carrier holding a copy of the stored value.
func (b *Boxed) Clone() *Boxed { return newBoxed(b.v) }

// String formats the stored value with fmt.
func (b *Boxed) String() string { return fmt.Sprint(b.v.Interface()) }

// Box lifts v into a handle. Class handles and apis.Typed values pass
// through unchanged, a class struct passed by value becomes a handle to
// a copy, everything else is copied into a *Boxed. Nil pointers of
// either kind become the null handle.
func Box(v any) any {
	switch v.(type) {
	case nil:
		return nil
	case apis.Class, apis.Typed:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		return v
	}
	return boxValue(reflect.ValueOf(v))
}

// boxValue is Box for reflected results. Interface values are boxed by
// their dynamic contents; nil class handles become the null handle.
func boxValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		return Box(v.Elem().Interface())
	}
	t := v.Type()
	if _, ok := uref.ClassOf(t); ok {
		if t.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil
			}
			return v.Interface()
		}
		p := reflect.New(t)
		p.Elem().Set(v)
		return p.Interface()
	}
	if t == boxedPtrType {
		if v.IsNil() {
			return nil
		}
		return v.Interface()
	}
	return newBoxed(v)
}

// UnboxPointer returns the generic address of h: the stored pointer of a
// pointer carrier, the address of the stored value of any other carrier,
// and the handle itself for class handles and raw pointers.
func UnboxPointer(h any) unsafe.Pointer {
	switch x := h.(type) {
	case nil:
		return nil
	case *Boxed:
		if x.IsPointer() {
			return x.v.UnsafePointer()
		}
		return x.Pointer()
	case unsafe.Pointer:
		return x
	}
	v := reflect.ValueOf(h)
	if v.Kind() == reflect.Pointer || v.Kind() == reflect.UnsafePointer {
		return v.UnsafePointer()
	}
	return nil
}

// HashCode hashes handle h: carriers by value, class handles by identity.
func HashCode(h any) uint64 {
	switch x := h.(type) {
	case nil:
		return 0
	case *Boxed:
		return x.HashCode()
	}
	return hashValue(reflect.ValueOf(h))
}

// Unbox extracts a T from h. If h does not hold a T, one conversion
// step is attempted. A mismatch panics with *UnboxError when the
// registry is configured with FatalUnbox, otherwise it is logged and the
// zero value is returned.
func Unbox[T any](r *Registry, h any) T {
	v, err := r.unbox(h, reflect.TypeFor[T](), true)
	if err != nil {
		r.unboxFailed(err)
		var zero T
		return zero
	}
	out, _ := v.Interface().(T)
	return out
}

// TryUnbox is Unbox without the failure policy.
func TryUnbox[T any](r *Registry, h any) (T, bool) {
	v, err := r.unbox(h, reflect.TypeFor[T](), true)
	if err != nil {
		var zero T
		return zero, false
	}
	out, _ := v.Interface().(T)
	return out, true
}

// UnboxRef returns a pointer to the T held by h without conversion. For
// carriers the pointer aliases the stored value. Mismatches follow the
// Unbox failure policy and yield nil.
func UnboxRef[T any](r *Registry, h any) *T {
	v, err := r.unbox(h, reflect.TypeFor[*T](), false)
	if err != nil {
		r.unboxFailed(err)
		return nil
	}
	out, _ := v.Interface().(*T)
	return out
}

// Cast returns h as T without conversion; class handles are upcast
// along their embedding chain.
func Cast[T any](r *Registry, h any) (T, bool) {
	v, err := r.unbox(h, reflect.TypeFor[T](), false)
	if err != nil {
		var zero T
		return zero, false
	}
	out, _ := v.Interface().(T)
	return out, true
}

func (r *Registry) unboxFailed(err error) {
	if r.cfg.FatalUnbox {
		panic(err)
	}
	r.log.Error("unbox failed", slog.Any("err", err))
}

// unbox shapes handle h into a value of type want. When convert is set
// and no structural rule applies, one conversion step is tried.
func (r *Registry) unbox(h any, want reflect.Type, convert bool) (reflect.Value, error) {
	if want == anyType {
		out := reflect.New(anyType).Elem()
		if h != nil {
			out.Set(reflect.ValueOf(h))
		}
		return out, nil
	}
	if h == nil {
		if uref.IsNillable(want) {
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, &UnboxError{Want: want}
	}
	if want == unsafePtrType {
		return reflect.ValueOf(UnboxPointer(h)), nil
	}

	var cur reflect.Value
	if b, ok := h.(*Boxed); ok {
		cur = b.v
	} else {
		cur = reflect.ValueOf(h)
	}
	ct := cur.Type()

	switch {
	case ct == want:
		return cur, nil
	case want.Kind() == reflect.Pointer && want.Elem() == ct:
		if cur.CanAddr() {
			return cur.Addr(), nil
		}
		p := reflect.New(ct)
		p.Elem().Set(cur)
		return p, nil
	case ct.Kind() == reflect.Pointer && ct.Elem() == want:
		if !cur.IsNil() {
			return cur.Elem(), nil
		}
	case ct.AssignableTo(want):
		out := reflect.New(want).Elem()
		out.Set(cur)
		return out, nil
	}

	if up, ok := uref.Upcast(cur, want, r.cfg); ok {
		return up, nil
	}
	if uref.IsClass(want) {
		if up, ok := uref.Upcast(cur, reflect.PointerTo(want), r.cfg); ok {
			return up.Elem(), nil
		}
	}

	if convert {
		if dst := r.TypeOfNative(want); dst != nil {
			if out, ok := r.Convert(h, dst); ok && out != nil {
				return r.unbox(out, want, false)
			}
		}
	}
	return reflect.Value{}, &UnboxError{Want: want, Got: r.TypeOfObject(h)}
}
