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

package apis

import "reflect"

// Object is the root of the class hierarchy.
//
// A struct becomes a class by embedding Object, or by embedding another
// class. Class instances always travel as pointers:
//
//	type Shape struct {
//	    apis.Object
//	    Center Point
//	}
//
//	type Circle struct {
//	    Shape
//	    Radius float64
//	}
//
// The first exported embedded class of a struct is its base type, so the
// chain above is Circle -> Shape -> Object.
type Object struct{}

// IsRttiObject marks *Object (and, through embedding, every class pointer)
// as a Class.
func (*Object) IsRttiObject() {}

// Class is satisfied by pointers to structs that embed Object.
type Class interface {
	IsRttiObject()
}

// Typed is the "what is my type" capability. Values that implement it are
// resolved to the native type they report instead of their dynamic Go type.
// Boxed carriers implement it; user wrappers may implement it to stand in
// for another type.
type Typed interface {
	// NativeType returns the Go type this value represents.
	NativeType() reflect.Type
}

// Namer supplies a display name for a type. When the zero value of a type
// implements Namer, its EntityName is used as the default descriptor name.
type Namer interface {
	// EntityName returns the canonical, type-level name for this entity.
	EntityName() string
}
