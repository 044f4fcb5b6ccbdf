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
)

// PropertyInfo describes a property as a getter and an optional setter.
type PropertyInfo struct {
	Attributes

	name   string
	owner  *Type
	typ    *Type
	getter *MethodInfo
	setter *MethodInfo
}

// Name returns the property name.
func (p *PropertyInfo) Name() string { return p.name }

// Owner returns the declaring type.
func (p *PropertyInfo) Owner() *Type { return p.owner }

// PropertyType returns the type of the property value.
func (p *PropertyInfo) PropertyType() *Type { return p.typ }

// Getter returns the getter, or nil for write-only properties.
func (p *PropertyInfo) Getter() *MethodInfo { return p.getter }

// Setter returns the setter, or nil for read-only properties.
func (p *PropertyInfo) Setter() *MethodInfo { return p.setter }

// CanRead reports whether the property has a getter.
func (p *PropertyInfo) CanRead() bool { return p.getter != nil }

// CanWrite reports whether the property has a setter.
func (p *PropertyInfo) CanWrite() bool { return p.setter != nil }

// GetValue reads the property of target.
func (p *PropertyInfo) GetValue(target any) (any, error) {
	if p.getter == nil {
		return nil, p.owner.reg.dispatchFailed(p.owner.name, p.name, ErrNotReadable)
	}
	return p.getter.Invoke(target)
}

// SetValue writes v into the property of target.
func (p *PropertyInfo) SetValue(target any, v any) error {
	if p.setter == nil {
		return p.owner.reg.dispatchFailed(p.owner.name, p.name, ErrReadOnly)
	}
	_, err := p.setter.Invoke(target, v)
	return err
}

// fieldAccessors builds getter and setter methods bound to the exported
// struct field name of owner. The receiver is a pointer so the setter
// writes into the target in place.
func (r *Registry) fieldAccessors(owner *Type, name string, readonly bool) (*MethodInfo, *MethodInfo, bool) {
	if owner.native.Kind() != reflect.Struct {
		return nil, nil, false
	}
	sf, ok := owner.native.FieldByName(name)
	if !ok || !exportedPath(owner.native, sf.Index) {
		return nil, nil, false
	}
	idx := sf.Index
	recv := reflect.PointerTo(owner.native)

	getter := &MethodInfo{MethodBase{
		name:  name,
		owner: owner,
		ret:   r.TypeOfNative(sf.Type),
		recv:  recv,
		call: func(in []reflect.Value) []reflect.Value {
			f, err := in[0].Elem().FieldByIndexErr(idx)
			if err != nil {
				return []reflect.Value{reflect.Zero(sf.Type)}
			}
			return []reflect.Value{f}
		},
	}}
	if readonly {
		return getter, nil, true
	}

	setter := &MethodInfo{MethodBase{
		name:   name,
		owner:  owner,
		params: []ParameterInfo{r.paramInfo(sf.Type)},
		recv:   recv,
		call: func(in []reflect.Value) []reflect.Value {
			if f, err := in[0].Elem().FieldByIndexErr(idx); err == nil && f.CanSet() {
				f.Set(in[1])
			}
			return nil
		},
	}}
	return getter, setter, true
}

// exportedPath reports whether every field along idx is exported.
func exportedPath(t reflect.Type, idx []int) bool {
	for _, i := range idx {
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		f := t.Field(i)
		if !f.IsExported() {
			return false
		}
		t = f.Type
	}
	return true
}
