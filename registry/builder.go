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
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"

	uref "dirpx.dev/rtti/utils/reflect"
)

// TypeBuilder registers the members of T. Errors accumulate and are
// reported by Err; once the type itself failed to register, further calls
// are no-ops.
//
//	registry.Register[Point](r, "Point").
//		DefaultConstructor().
//		Field("X").
//		Field("Y").
//		Must()
type TypeBuilder[T any] struct {
	r   *Registry
	t   *Type
	err error
}

// Register starts the registration of T under name; an empty name keeps
// the default display name. Registering T again under the same name
// returns a builder over the existing descriptor and members already
// present are not added twice.
func Register[T any](r *Registry, name string) *TypeBuilder[T] {
	b := &TypeBuilder[T]{r: r}
	t := TypeOf[T](r)
	if t == nil || r.Closed() {
		b.fail(ErrClosed)
		return b
	}
	if name == "" {
		name = t.name
	}
	if t.registered && t.name != name {
		b.fail(fmt.Errorf("%w: %s is registered as %q, not %q", ErrConflictingRegistration, t.native, t.name, name))
		return b
	}
	t.name = name
	t.registered = true
	b.t = t
	return b
}

// RegisterEnum registers the named integer type E as an enum. The
// descriptor gets the enum flag, its integral type as underlying type,
// a zero, a copy and a checked from-integral constructor, a converter to
// the integral type and an equality comparer.
func RegisterEnum[E constraints.Integer](r *Registry, name string) *TypeBuilder[E] {
	b := Register[E](r, name)
	if b.t == nil || b.t.IsEnum() {
		return b
	}
	et := reflect.TypeFor[E]()
	basic := uref.BasicOf(et)
	if basic == et {
		b.fail(fmt.Errorf("%w: %s is not a named integer type", ErrNotEnum, et))
		return b
	}

	t := b.t
	t.flags = (t.flags &^ FlagIntegral) | FlagEnum
	t.underlying = r.TypeOfNative(basic)

	b.DefaultConstructor()
	b.Constructor(func(e E) E { return e })
	b.Constructor(enumFromIntegral(t, basic).Interface())
	t.convs = append(t.convs, TypeConverter{Target: t.underlying, fn: reflectConverter(r, et, basic)})
	return AddComparer(b, func(x, y E) bool { return x == y })
}

// enumFromIntegral builds func(U) (E, error) accepting declared numbers only.
func enumFromIntegral(t *Type, basic reflect.Type) reflect.Value {
	ft := reflect.FuncOf([]reflect.Type{basic}, []reflect.Type{t.native, errorType}, false)
	return reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		ev := reflect.New(errorType).Elem()
		n := integerOf(in[0])
		if _, ok := t.EnumByNumber(n); !ok {
			ev.Set(reflect.ValueOf(fmt.Errorf("%w: %d for %s", ErrUndeclaredEnum, n, t.name)))
			return []reflect.Value{reflect.Zero(t.native), ev}
		}
		return []reflect.Value{in[0].Convert(t.native), ev}
	})
}

// Type returns the descriptor, or nil if registration failed.
func (b *TypeBuilder[T]) Type() *Type { return b.t }

// Err returns the accumulated registration errors.
func (b *TypeBuilder[T]) Err() error { return b.err }

// Must panics if any registration step failed.
func (b *TypeBuilder[T]) Must() *TypeBuilder[T] {
	if b.err != nil {
		panic(b.err)
	}
	return b
}

func (b *TypeBuilder[T]) fail(err error) {
	b.err = errors.Join(b.err, err)
	name := reflect.TypeFor[T]().String()
	if b.t != nil {
		name = b.t.name
	}
	b.r.log.Error("registration failed", slog.String("type", name), slog.Any("err", err))
}

// Attr attaches an attribute to the type.
func (b *TypeBuilder[T]) Attr(key string, v any) *TypeBuilder[T] {
	if b.t != nil {
		b.t.setAttributes(map[string]any{key: v})
	}
	return b
}

// Constructor registers fn as a constructor. fn returns T (or *T for
// classes), optionally followed by an error.
func (b *TypeBuilder[T]) Constructor(fn any, opts ...MemberOption) *TypeBuilder[T] {
	if b.t == nil {
		return b
	}
	m, err := b.r.newMethodBase(b.t, ctorName, fn, kindCtor, applyMemberOptions(opts))
	if err != nil {
		b.fail(err)
		return b
	}
	if slices.IndexFunc(b.t.ctors, func(c *ConstructorInfo) bool { return c.sameSignature(m) }) < 0 {
		b.t.ctors = append(b.t.ctors, &ConstructorInfo{*m})
	}
	return b
}

// DefaultConstructor registers a constructor returning the zero T.
func (b *TypeBuilder[T]) DefaultConstructor(opts ...MemberOption) *TypeBuilder[T] {
	if b.t == nil {
		return b
	}
	if b.t.IsInterface() {
		b.fail(fmt.Errorf("%w: interface %s has no zero instance", ErrBadSignature, b.t.name))
		return b
	}
	return b.Constructor(func() T {
		var zero T
		return zero
	}, opts...)
}

// Method registers fn as a member method. The first parameter of fn is
// the receiver: T, *T, or an interface implemented by *T. Interface
// receivers dispatch to the dynamic type of the target.
func (b *TypeBuilder[T]) Method(name string, fn any, opts ...MemberOption) *TypeBuilder[T] {
	return b.addMethod(name, fn, kindMethod, opts)
}

// StaticMethod registers fn as a method without target.
func (b *TypeBuilder[T]) StaticMethod(name string, fn any, opts ...MemberOption) *TypeBuilder[T] {
	return b.addMethod(name, fn, kindStatic, opts)
}

func (b *TypeBuilder[T]) addMethod(name string, fn any, kind memberKind, opts []MemberOption) *TypeBuilder[T] {
	if b.t == nil {
		return b
	}
	m, err := b.r.newMethodBase(b.t, name, fn, kind, applyMemberOptions(opts))
	if err != nil {
		b.fail(err)
		return b
	}
	if slices.IndexFunc(b.t.methods, func(o *MethodInfo) bool { return o.sameSignature(m) }) < 0 {
		b.t.methods = append(b.t.methods, &MethodInfo{*m})
	}
	return b
}

// Property registers a property from a getter func(recv) V and a setter
// func(recv, V). Either may be nil, not both.
func (b *TypeBuilder[T]) Property(name string, getter, setter any, opts ...MemberOption) *TypeBuilder[T] {
	if b.t == nil {
		return b
	}
	mc := applyMemberOptions(opts)
	p := &PropertyInfo{name: name, owner: b.t}
	if getter != nil {
		g, err := b.r.newMethodBase(b.t, name, getter, kindMethod, memberConfig{})
		if err == nil && (len(g.params) != 0 || g.ret == nil) {
			err = fmt.Errorf("%w: getter of %s must take no arguments and return a value", ErrBadSignature, name)
		}
		if err != nil {
			b.fail(err)
			return b
		}
		p.getter = &MethodInfo{*g}
		p.typ = g.ret
	}
	if setter != nil {
		s, err := b.r.newMethodBase(b.t, name, setter, kindMethod, memberConfig{})
		if err == nil && (len(s.params) != 1 || s.ret != nil) {
			err = fmt.Errorf("%w: setter of %s must take one argument and return nothing", ErrBadSignature, name)
		}
		if err == nil && p.typ != nil && s.params[0].Type != p.typ {
			err = fmt.Errorf("%w: setter of %s takes %s, getter returns %s", ErrBadSignature, name, s.params[0].Type, p.typ)
		}
		if err != nil {
			b.fail(err)
			return b
		}
		p.setter = &MethodInfo{*s}
		p.typ = s.params[0].Type
	}
	if p.getter == nil && p.setter == nil {
		b.fail(fmt.Errorf("%w: property %s has neither getter nor setter", ErrBadSignature, name))
		return b
	}
	p.setAttributes(mc.attrs)
	b.addProperty(p)
	return b
}

// Field registers the exported struct field name as a read-write property.
func (b *TypeBuilder[T]) Field(name string, opts ...MemberOption) *TypeBuilder[T] {
	return b.field(name, false, opts)
}

// ReadonlyField registers the exported struct field name as a read-only
// property.
func (b *TypeBuilder[T]) ReadonlyField(name string, opts ...MemberOption) *TypeBuilder[T] {
	return b.field(name, true, opts)
}

func (b *TypeBuilder[T]) field(name string, readonly bool, opts []MemberOption) *TypeBuilder[T] {
	if b.t == nil {
		return b
	}
	g, s, ok := b.r.fieldAccessors(b.t, name, readonly)
	if !ok {
		b.fail(fmt.Errorf("%w: %s.%s", ErrUnknownField, b.t.name, name))
		return b
	}
	p := &PropertyInfo{name: name, owner: b.t, typ: g.ret, getter: g, setter: s}
	p.setAttributes(applyMemberOptions(opts).attrs)
	b.addProperty(p)
	return b
}

func (b *TypeBuilder[T]) addProperty(p *PropertyInfo) {
	if slices.IndexFunc(b.t.props, func(o *PropertyInfo) bool { return o.name == p.name }) >= 0 {
		return
	}
	b.t.props = append(b.t.props, p)
}

// Value declares the enum value v under name.
func (b *TypeBuilder[T]) Value(name string, v T) *TypeBuilder[T] {
	if b.t == nil {
		return b
	}
	if !b.t.IsEnum() {
		b.fail(fmt.Errorf("%w: %s", ErrNotEnum, b.t.name))
		return b
	}
	if _, ok := b.t.EnumByName(name); ok {
		return b
	}
	rv := reflect.ValueOf(v)
	b.t.enums = append(b.t.enums, EnumInfo{Number: integerOf(rv), Value: newBoxed(rv), Name: name})
	return b
}

// AddConverter registers fn as a converter from S to U. fn reports false
// when it cannot convert the given value.
func AddConverter[S, U any](b *TypeBuilder[S], fn func(S) (U, bool)) *TypeBuilder[S] {
	if b.t == nil {
		return b
	}
	if fn == nil {
		b.fail(fmt.Errorf("%w: converter of %s", ErrNotFunc, b.t.name))
		return b
	}
	r := b.r
	target := TypeOf[U](r)
	if slices.IndexFunc(b.t.convs, func(c TypeConverter) bool { return c.Target == target }) >= 0 {
		return b
	}
	b.t.convs = append(b.t.convs, TypeConverter{Target: target, fn: func(h any) (any, bool) {
		s, ok := Cast[S](r, h)
		if !ok {
			return nil, false
		}
		u, ok := fn(s)
		if !ok {
			return nil, false
		}
		return boxValue(reflect.ValueOf(&u).Elem()), true
	}})
	return b
}

// AddComparer registers fn as the equality of L against handles
// assignable to R.
func AddComparer[L, R any](b *TypeBuilder[L], fn func(L, R) bool) *TypeBuilder[L] {
	if b.t == nil {
		return b
	}
	if fn == nil {
		b.fail(fmt.Errorf("%w: comparer of %s", ErrNotFunc, b.t.name))
		return b
	}
	r := b.r
	target := TypeOf[R](r)
	if slices.IndexFunc(b.t.cmps, func(c ObjectComparer) bool { return c.Target == target }) >= 0 {
		return b
	}
	b.t.cmps = append(b.t.cmps, ObjectComparer{Target: target, fn: func(lh, rh any) CompareResult {
		l, ok := Cast[L](r, lh)
		if !ok {
			return Failed
		}
		rv, ok := Cast[R](r, rh)
		if !ok {
			return Failed
		}
		return resultOf(fn(l, rv))
	}})
	return b
}
