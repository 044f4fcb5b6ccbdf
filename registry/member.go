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
	"reflect"
	"strings"

	uref "dirpx.dev/rtti/utils/reflect"
)

// ParameterInfo describes one declared parameter.
type ParameterInfo struct {
	// Type is the parameter type; for reference parameters the pointee.
	Type *Type
	// IsRef marks a *T parameter of a non-class T.
	IsRef bool
	// IsConst marks a parameter declared with ConstParam.
	IsConst bool

	native reflect.Type
}

// Native returns the Go type of the declared parameter.
func (p ParameterInfo) Native() reflect.Type { return p.native }

// String renders the parameter as "[const ][*]Type".
func (p ParameterInfo) String() string {
	var b strings.Builder
	if p.IsConst {
		b.WriteString("const ")
	}
	if p.IsRef {
		b.WriteByte('*')
	}
	if p.Type != nil {
		b.WriteString(p.Type.Name())
	}
	return b.String()
}

func (p ParameterInfo) same(o ParameterInfo) bool {
	return p.Type == o.Type && p.IsRef == o.IsRef && p.IsConst == o.IsConst
}

// MemberOption configures a member at registration time.
type MemberOption func(*memberConfig)

type memberConfig struct {
	attrs  map[string]any
	consts []int
}

// WithAttr attaches an attribute to the member.
func WithAttr(key string, v any) MemberOption {
	return func(c *memberConfig) {
		if c.attrs == nil {
			c.attrs = make(map[string]any)
		}
		c.attrs[key] = v
	}
}

// ConstParam marks the parameters at the given positions (receiver
// excluded) as const.
func ConstParam(idx ...int) MemberOption {
	return func(c *memberConfig) {
		c.consts = append(c.consts, idx...)
	}
}

func applyMemberOptions(opts []MemberOption) memberConfig {
	var c memberConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// MethodBase holds what constructors and methods share: name, owner,
// return type, parameters, attributes and the invocation closure.
type MethodBase struct {
	Attributes

	name   string
	owner  *Type
	ret    *Type
	params []ParameterInfo
	static bool

	// recv is the Go type the target is shaped into; nil without target.
	recv reflect.Type
	// errOut is set when the last result is an error.
	errOut bool
	call   func([]reflect.Value) []reflect.Value
}

// Name returns the member name.
func (m *MethodBase) Name() string { return m.name }

// Owner returns the declaring type.
func (m *MethodBase) Owner() *Type { return m.owner }

// ReturnType returns the result type, or nil for void.
func (m *MethodBase) ReturnType() *Type { return m.ret }

// Parameters returns a copy of the declared parameters.
func (m *MethodBase) Parameters() []ParameterInfo {
	out := make([]ParameterInfo, len(m.params))
	copy(out, m.params)
	return out
}

// IsStatic reports whether the member takes no target.
func (m *MethodBase) IsStatic() bool { return m.static }

// String renders the signature as "Name(p1, p2) Ret".
func (m *MethodBase) String() string {
	var b strings.Builder
	b.WriteString(m.name)
	b.WriteByte('(')
	for i, p := range m.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if m.ret != nil {
		b.WriteByte(' ')
		b.WriteString(m.ret.Name())
	}
	return b.String()
}

func (m *MethodBase) matchTypes(types []*Type) bool {
	if len(types) != len(m.params) {
		return false
	}
	for i, p := range m.params {
		if p.Type != types[i] {
			return false
		}
	}
	return true
}

func (m *MethodBase) matchParams(params []ParameterInfo) bool {
	if len(params) != len(m.params) {
		return false
	}
	for i, p := range m.params {
		if !p.same(params[i]) {
			return false
		}
	}
	return true
}

func (m *MethodBase) sameSignature(o *MethodBase) bool {
	return m.name == o.name && m.static == o.static && m.matchParams(o.params)
}

// invoke runs the call sequence and reports a rejection on the
// diagnostic channel as a *DispatchError.
func (m *MethodBase) invoke(target any, args []any) (any, error) {
	out, err := m.run(target, args)
	if err != nil {
		return nil, m.owner.reg.dispatchFailed(m.owner.name, m.name, err)
	}
	return out, nil
}

// run is the generic call sequence: arity, target, marshaling, call and
// result boxing. Failures are returned unreported.
func (m *MethodBase) run(target any, args []any) (any, error) {
	r := m.owner.reg
	if len(args) != len(m.params) {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArity, len(m.params), len(args))
	}

	in := make([]reflect.Value, 0, len(args)+1)
	if m.recv != nil {
		if target == nil {
			return nil, ErrNilTarget
		}
		if !m.acceptsTarget(target) {
			return nil, ErrTargetType
		}
		rv, err := r.unbox(target, m.recv, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTargetType, err)
		}
		in = append(in, rv)
	}

	vals, err := r.marshalArgs(m.params, args)
	if err != nil {
		return nil, err
	}
	in = append(in, vals...)

	out := m.call(in)
	if m.errOut {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			cause, _ := last.Interface().(error)
			return nil, fmt.Errorf("%w: %w", ErrInvocation, cause)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return boxValue(out[0]), nil
}

// acceptsTarget reports whether target is assignable to the owner. Value
// owners also accept pointers to the owner.
func (m *MethodBase) acceptsTarget(target any) bool {
	tt := m.owner.reg.TypeOfObject(target)
	if tt == nil {
		return false
	}
	if m.owner.IsAssignableFrom(tt) {
		return true
	}
	return tt.IsPointer() && tt.underlying == m.owner
}

// marshalArgs shapes args into the declared parameters. Value parameters
// allow one conversion step; reference parameters require the exact type.
// It does not call anything.
func (r *Registry) marshalArgs(params []ParameterInfo, args []any) ([]reflect.Value, error) {
	out := make([]reflect.Value, len(params))
	for i, p := range params {
		v, err := r.unbox(args[i], p.native, !p.IsRef)
		if err != nil {
			return nil, &MarshalError{Index: i, Param: p, Got: r.TypeOfObject(args[i])}
		}
		out[i] = v
	}
	return out, nil
}

// paramInfo describes a parameter of Go type t. A *T parameter of a
// non-class T is a reference parameter typed by T.
func (r *Registry) paramInfo(t reflect.Type) ParameterInfo {
	if t.Kind() == reflect.Pointer && !uref.IsClass(t.Elem()) {
		return ParameterInfo{Type: r.TypeOfNative(t.Elem()), IsRef: true, native: t}
	}
	return ParameterInfo{Type: r.TypeOfNative(t), native: t}
}

type memberKind int

const (
	kindCtor memberKind = iota
	kindMethod
	kindStatic
)

// newMethodBase validates fn against the member kind and captures its
// parameter and result descriptors.
func (r *Registry) newMethodBase(owner *Type, name string, fn any, kind memberKind, mc memberConfig) (*MethodBase, error) {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fmt.Errorf("%w: %s", ErrNotFunc, name)
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: %s", ErrVariadic, name)
	}

	nout := ft.NumOut()
	errOut := nout > 0 && ft.Out(nout-1) == errorType
	nres := nout
	if errOut {
		nres--
	}
	if nres > 1 {
		return nil, fmt.Errorf("%w: %s returns %d values", ErrBadSignature, name, nres)
	}

	m := &MethodBase{
		name:   name,
		owner:  owner,
		static: kind == kindStatic,
		errOut: errOut,
		call:   fv.Call,
	}

	first := 0
	if kind == kindMethod {
		if ft.NumIn() == 0 {
			return nil, fmt.Errorf("%w: %s has no receiver", ErrBadReceiver, name)
		}
		recv := ft.In(0)
		if !owner.acceptsReceiver(recv) {
			return nil, fmt.Errorf("%w: %s receiver %s for %s", ErrBadReceiver, name, recv, owner.name)
		}
		m.recv = recv
		first = 1
	}

	for i := first; i < ft.NumIn(); i++ {
		m.params = append(m.params, r.paramInfo(ft.In(i)))
	}
	for _, c := range mc.consts {
		if c < 0 || c >= len(m.params) {
			return nil, fmt.Errorf("%w: %s has no parameter %d", ErrBadSignature, name, c)
		}
		m.params[c].IsConst = true
	}

	if nres == 1 {
		m.ret = r.TypeOfNative(ft.Out(0))
	}
	if kind == kindCtor && m.ret != owner {
		return nil, fmt.Errorf("%w: constructor of %s must return it", ErrBadSignature, owner.name)
	}

	m.setAttributes(mc.attrs)
	return m, nil
}

// acceptsReceiver reports whether a function whose first parameter is
// recv can be called on instances of t.
func (t *Type) acceptsReceiver(recv reflect.Type) bool {
	if recv == t.native || recv == reflect.PointerTo(t.native) {
		return true
	}
	if recv.Kind() != reflect.Interface {
		return false
	}
	if t.native.Kind() == reflect.Interface {
		return t.native.Implements(recv)
	}
	return reflect.PointerTo(t.native).Implements(recv)
}
