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


// Package rtti is a runtime type-reflection engine.
//
// It lets a program enumerate, at execution time, the constructors,
// methods, properties and enum values of registered types, invoke them
// through a uniform handle representation, and convert or compare values
// across type boundaries it did not know about at compile time.
//
// # Object model
//
// Every value flowing through the engine is a handle of type any; nil is
// the null handle. Structs that embed apis.Object are classes and travel
// as pointers (*S). Every other value is lifted into a *registry.Boxed
// carrier by Box. The runtime type of a handle is found by a resolver
// chain: values implementing apis.Typed (carriers do) report their type,
// class handles resolve to their class, anything else to its Go type.
//
// Each Go type has exactly one descriptor (*registry.Type) per registry,
// created on first reference. Descriptors are compared by pointer, never
// by name. A class's base type is its first exported embedded class;
// interfaces are abstract classes implemented by class handles.
//
//	type Shape struct {
//		apis.Object
//		Center Point
//	}
//
//	registry.Register[Shape](r, "Shape").
//		DefaultConstructor().
//		Field("Center").
//		Method("Area", (*Shape).Area).
//		Must()
//
//	h, _ := registry.TypeOf[Shape](r).CreateInstance()
//	_ = registry.TypeOf[Shape](r).Property("Center").SetValue(h, registry.Box(Point{X: 1, Y: 2}))
//	area, _ := registry.TypeOf[Shape](r).Method("Area").Invoke(h)
//	f := registry.Unbox[float64](r, area)
//
// # Conversion and comparison
//
// Registry.Convert performs one conversion step: null, assignability,
// pointer erasure to unsafe.Pointer, a converting constructor of the
// target, a converter of the source, or the enum/integral bridge. A
// failed conversion is a boolean outcome, not an error. Registry.Compare
// searches the comparers of the left operand, then those of the right
// operand with the operands swapped, and reports Failed only when neither
// side accepts the other.
//
// # Global state
//
// The registry package works on explicit *registry.Registry values. This
// package adds a process-wide default held in an immutable snapshot:
// readers load it atomically without locks, writers (SetConfig,
// SetBuilder, SetExt, SetRegistry, Init, Shutdown, SetAll) serialize on a
// mutex, build a new snapshot and publish it atomically. A registry set
// with SetRegistry is pinned and is not rebuilt until UnpinRegistry.
//
// Registration is expected to happen during start-up, before concurrent
// use. Initializers installed with Init (or passed as ext) are replayed
// on every rebuild of the default registry.
package rtti
