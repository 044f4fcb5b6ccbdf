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
	"reflect"
	"strings"
)

var (
	// ErrClosed is returned when registering into a registry after Shutdown.
	ErrClosed = errors.New("rtti(registry): registry is shut down")
	// ErrNilType is returned when a nil reflect.Type or *Type is provided.
	ErrNilType = errors.New("rtti(registry): nil type provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different name.
	ErrConflictingRegistration = errors.New("rtti(registry): conflicting type registration")
	// ErrNotFunc is returned when a member is registered from a non-function.
	ErrNotFunc = errors.New("rtti(registry): member is not a non-nil func")
	// ErrVariadic is returned when a member is registered from a variadic func.
	ErrVariadic = errors.New("rtti(registry): variadic funcs are not supported")
	// ErrBadSignature reports a function whose shape does not fit the member
	// being registered (wrong result, too many results, bad const index).
	ErrBadSignature = errors.New("rtti(registry): malformed member signature")
	// ErrBadReceiver reports a method whose first parameter cannot receive
	// instances of the owning type.
	ErrBadReceiver = errors.New("rtti(registry): receiver does not match owner type")
	// ErrUnknownField is returned when a field is not an exported struct field.
	ErrUnknownField = errors.New("rtti(registry): unknown or unexported field")
	// ErrNotEnum is returned for enum operations on non-enum types.
	ErrNotEnum = errors.New("rtti(registry): type is not an enum")
	// ErrUndeclaredEnum is returned when a number maps to no declared enum value.
	ErrUndeclaredEnum = errors.New("rtti(registry): undeclared enum value")

	// ErrArity reports an argument count that differs from the declared arity.
	ErrArity = errors.New("rtti(registry): argument count mismatch")
	// ErrNilTarget reports a member call without a target.
	ErrNilTarget = errors.New("rtti(registry): nil target")
	// ErrTargetType reports a target that is not assignable to the owner type.
	ErrTargetType = errors.New("rtti(registry): target not assignable to owner")
	// ErrArgument reports an argument that cannot be marshaled into its parameter.
	ErrArgument = errors.New("rtti(registry): argument not convertible to parameter")
	// ErrInvocation wraps a non-nil error returned by the invoked function.
	ErrInvocation = errors.New("rtti(registry): invocation failed")
	// ErrNoConstructor is returned by CreateInstance when no overload matches.
	ErrNoConstructor = errors.New("rtti(registry): no matching constructor")
	// ErrNotReadable is returned when reading a property without getter.
	ErrNotReadable = errors.New("rtti(registry): property is write-only")
	// ErrReadOnly is returned when writing a property without setter.
	ErrReadOnly = errors.New("rtti(registry): property is read-only")
	// ErrUnbox is wrapped by every *UnboxError.
	ErrUnbox = errors.New("rtti(registry): unbox type mismatch")
)

// DispatchError describes a rejected constructor, method or property call.
type DispatchError struct {
	// Owner is the display name of the type declaring the member.
	Owner string
	// Member is the member name (".ctor" for constructors).
	Member string
	// Err is the cause, one of the dispatch sentinels or a *MarshalError.
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("rtti(registry): dispatch %s.%s: %v", e.Owner, e.Member, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// MarshalError reports the first argument that could not be marshaled.
type MarshalError struct {
	// Index is the zero-based parameter position.
	Index int
	// Param is the declared parameter.
	Param ParameterInfo
	// Got is the runtime type of the argument; nil for a null argument.
	Got *Type
}

func (e *MarshalError) Error() string {
	got := "null"
	if e.Got != nil {
		got = e.Got.Name()
	}
	return fmt.Sprintf("rtti(registry): argument %d: cannot pass %s as %s", e.Index, got, e.Param)
}

func (e *MarshalError) Unwrap() error { return ErrArgument }

// UnboxError reports a handle whose runtime type cannot satisfy the
// requested Go type.
type UnboxError struct {
	// Want is the requested Go type.
	Want reflect.Type
	// Got is the runtime type of the handle; nil for a null handle.
	Got *Type
}

func (e *UnboxError) Error() string {
	var b strings.Builder
	b.WriteString("rtti(registry): cannot unbox ")
	if e.Got == nil {
		b.WriteString("null")
	} else {
		b.WriteString(e.Got.Name())
	}
	b.WriteString(" as ")
	b.WriteString(e.Want.String())
	return b.String()
}

func (e *UnboxError) Unwrap() error { return ErrUnbox }
