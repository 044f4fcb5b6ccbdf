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

	"golang.org/x/exp/slices"
)

// Type is the runtime descriptor of one native type. Descriptors are
// singletons per registry: two descriptors denote the same type only if
// they are the same pointer, never by name.
type Type struct {
	Attributes

	reg        *Registry
	name       string
	native     reflect.Type
	size       uintptr
	flags      Flags
	base       *Type
	underlying *Type
	registered bool

	ctors   []*ConstructorInfo
	methods []*MethodInfo
	props   []*PropertyInfo
	enums   []EnumInfo
	convs   []TypeConverter
	cmps    []ObjectComparer

	// next links the registry's intrusive list.
	next *Type
}

// Name returns the display name. Names are not identity keys.
func (t *Type) Name() string { return t.name }

// String returns the display name.
func (t *Type) String() string { return t.name }

// Native returns the Go type this descriptor stands for.
func (t *Type) Native() reflect.Type { return t.native }

// Size returns the size in bytes of a value of the native type.
func (t *Type) Size() uintptr { return t.size }

// Flags returns the classification bitset.
func (t *Type) Flags() Flags { return t.flags }

// HasFlag reports whether flag is set.
func (t *Type) HasFlag(flag Flags) bool { return t.flags.Has(flag) }

// BaseType returns the base type, or nil for the object root.
// Value types always report the box root.
func (t *Type) BaseType() *Type { return t.base }

// UnderlyingType returns the pointee of pointer types and the integral
// type of enums; nil otherwise.
func (t *Type) UnderlyingType() *Type { return t.underlying }

// Registry returns the registry owning t.
func (t *Type) Registry() *Registry { return t.reg }

// IsEnum reports whether t is a registered enum.
func (t *Type) IsEnum() bool { return t.HasFlag(FlagEnum) }

// IsPointer reports whether t is a pointer type.
func (t *Type) IsPointer() bool { return t.HasFlag(FlagPointer) }

// IsValueType reports whether t is a boxed value type.
func (t *Type) IsValueType() bool {
	return t.base != nil && t.base == t.reg.boxType
}

// IsClass reports whether t takes part in subclassing: the object root,
// class structs and interfaces.
func (t *Type) IsClass() bool {
	return t != t.reg.boxType && !t.IsValueType()
}

// IsInterface reports whether t is an abstract class backed by a Go interface.
func (t *Type) IsInterface() bool {
	return t.native.Kind() == reflect.Interface
}

// IsSubClassOf reports whether o is a proper ancestor of t. Interface
// types are ancestors of every class whose handles implement them.
func (t *Type) IsSubClassOf(o *Type) bool {
	if t == nil || o == nil || t == o {
		return false
	}
	for b := t.base; b != nil; b = b.base {
		if b == o {
			return true
		}
	}
	if o.IsInterface() && !t.IsValueType() && t != t.reg.boxType {
		return t.handleType().Implements(o.native)
	}
	return false
}

// IsAssignableTo reports whether a handle of type t may stand in for o
// without conversion.
func (t *Type) IsAssignableTo(o *Type) bool {
	if t == nil || o == nil {
		return false
	}
	if t == o {
		return true
	}
	if t.IsValueType() {
		return o == t.reg.objectType || o == t.reg.boxType
	}
	return t.IsSubClassOf(o)
}

// IsAssignableFrom is the converse of IsAssignableTo.
func (t *Type) IsAssignableFrom(o *Type) bool {
	if o == nil {
		return false
	}
	return o.IsAssignableTo(t)
}

// IsAssignableFromObject reports whether handle h may stand in for t.
// The null handle is assignable to every non-value type.
func (t *Type) IsAssignableFromObject(h any) bool {
	if h == nil {
		return !t.IsValueType()
	}
	return t.IsAssignableFrom(t.reg.TypeOfObject(h))
}

// handleType returns the Go type instances of t travel as.
func (t *Type) handleType() reflect.Type {
	if t.native.Kind() == reflect.Interface {
		return t.native
	}
	return reflect.PointerTo(t.native)
}

// Constructors returns the constructors declared on t. Constructors are
// not inherited.
func (t *Type) Constructors() []*ConstructorInfo {
	return slices.Clone(t.ctors)
}

// Constructor returns the first constructor whose parameter types are
// exactly types. With no arguments it returns the default constructor.
func (t *Type) Constructor(types ...*Type) *ConstructorInfo {
	for _, c := range t.ctors {
		if c.matchTypes(types) {
			return c
		}
	}
	return nil
}

// ConstructorByParams is like Constructor but also matches the reference
// and const markers of each parameter.
func (t *Type) ConstructorByParams(params ...ParameterInfo) *ConstructorInfo {
	for _, c := range t.ctors {
		if c.matchParams(params) {
			return c
		}
	}
	return nil
}

// Registered reports whether t was registered explicitly or belongs to
// the core catalogue, as opposed to being created on first reference.
func (t *Type) Registered() bool { return t.registered }

// DeclaredMethods returns the methods declared on t itself.
func (t *Type) DeclaredMethods() []*MethodInfo {
	return slices.Clone(t.methods)
}

// DeclaredProperties returns the properties declared on t itself.
func (t *Type) DeclaredProperties() []*PropertyInfo {
	return slices.Clone(t.props)
}

// Methods returns the methods of t followed by those of its base types.
func (t *Type) Methods() []*MethodInfo {
	var out []*MethodInfo
	for cur := t; cur != nil; cur = cur.base {
		out = append(out, cur.methods...)
	}
	return out
}

// Method returns the first method named name along the base chain.
func (t *Type) Method(name string) *MethodInfo {
	for cur := t; cur != nil; cur = cur.base {
		if i := slices.IndexFunc(cur.methods, func(m *MethodInfo) bool { return m.name == name }); i >= 0 {
			return cur.methods[i]
		}
	}
	return nil
}

// MethodByTypes returns the first method named name whose parameter
// types are exactly types, searching along the base chain.
func (t *Type) MethodByTypes(name string, types ...*Type) *MethodInfo {
	for cur := t; cur != nil; cur = cur.base {
		for _, m := range cur.methods {
			if m.name == name && m.matchTypes(types) {
				return m
			}
		}
	}
	return nil
}

// MethodByParams is like MethodByTypes but also matches the reference and
// const markers of each parameter.
func (t *Type) MethodByParams(name string, params ...ParameterInfo) *MethodInfo {
	for cur := t; cur != nil; cur = cur.base {
		for _, m := range cur.methods {
			if m.name == name && m.matchParams(params) {
				return m
			}
		}
	}
	return nil
}

// Properties returns the properties of t followed by those of its base types.
func (t *Type) Properties() []*PropertyInfo {
	var out []*PropertyInfo
	for cur := t; cur != nil; cur = cur.base {
		out = append(out, cur.props...)
	}
	return out
}

// Property returns the first property named name along the base chain.
func (t *Type) Property(name string) *PropertyInfo {
	for cur := t; cur != nil; cur = cur.base {
		if i := slices.IndexFunc(cur.props, func(p *PropertyInfo) bool { return p.name == name }); i >= 0 {
			return cur.props[i]
		}
	}
	return nil
}

// Converters returns the converters registered on t as a source.
func (t *Type) Converters() []TypeConverter {
	return slices.Clone(t.convs)
}

// Comparers returns the comparers registered on t as the left operand.
func (t *Type) Comparers() []ObjectComparer {
	return slices.Clone(t.cmps)
}

// CreateInstance invokes the first constructor, in registration order,
// whose arity matches and whose parameters accept args: value-typed
// parameters require an argument of exactly that type, other parameters
// accept null or any convertible argument.
func (t *Type) CreateInstance(args ...any) (any, error) {
	c := t.constructorFor(args)
	if c == nil {
		return nil, t.reg.dispatchFailed(t.name, ctorName, ErrNoConstructor)
	}
	return c.Invoke(args...)
}

// constructorFor returns the first constructor that accepts args.
func (t *Type) constructorFor(args []any) *ConstructorInfo {
	for _, c := range t.ctors {
		if len(c.params) == len(args) && c.accepts(args) {
			return c
		}
	}
	return nil
}

func (c *ConstructorInfo) accepts(args []any) bool {
	r := c.owner.reg
	for i, p := range c.params {
		a := args[i]
		if p.Type.IsValueType() {
			if a == nil || r.TypeOfObject(a) != p.Type {
				return false
			}
			continue
		}
		if a != nil && !r.TypeOfObject(a).CanConvertTo(p.Type) {
			return false
		}
	}
	return true
}
