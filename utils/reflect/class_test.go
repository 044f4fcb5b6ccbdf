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

package reflect_test

import (
	"reflect"
	"testing"

	"dirpx.dev/rtti/apis"
	uref "dirpx.dev/rtti/utils/reflect"
)

// Local class hierarchy: Leaf -> Mid -> Top -> apis.Object.
type Top struct {
	apis.Object
	Name string
}

type Mid struct {
	Top
	N int
}

type Leaf struct {
	Mid
}

// PtrEmbed embeds its base by pointer.
type PtrEmbed struct {
	*Top
}

type Plain struct{ X int }

type Namer interface{ GetName() string }

func (t *Top) GetName() string { return t.Name }

func TestClassOf(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
		ok   bool
	}{
		{"class struct", reflect.TypeOf(Top{}), reflect.TypeOf(Top{}), true},
		{"class handle", reflect.TypeOf(&Leaf{}), reflect.TypeOf(Leaf{}), true},
		{"root", uref.RootType(), uref.RootType(), true},
		{"plain struct", reflect.TypeOf(Plain{}), nil, false},
		{"plain ptr", reflect.TypeOf(&Plain{}), nil, false},
		{"builtin", reflect.TypeOf(0), nil, false},
		{"nil", nil, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := uref.ClassOf(tc.typ)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ClassOf(%v) = (%v,%v), want (%v,%v)", tc.typ, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestBaseOf(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
	}{
		{"leaf", reflect.TypeOf(Leaf{}), reflect.TypeOf(Mid{})},
		{"mid", reflect.TypeOf(Mid{}), reflect.TypeOf(Top{})},
		{"top", reflect.TypeOf(Top{}), uref.RootType()},
		{"pointer embed", reflect.TypeOf(PtrEmbed{}), reflect.TypeOf(Top{})},
		{"root", uref.RootType(), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.BaseOf(tc.typ)
			if err != nil {
				t.Fatalf("BaseOf(%v): unexpected error: %v", tc.typ, err)
			}
			if got != tc.want {
				t.Fatalf("BaseOf(%v) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}

	if _, err := uref.BaseOf(reflect.TypeOf(Plain{})); err != uref.ErrReflectNotClass {
		t.Fatalf("BaseOf(Plain): want ErrReflectNotClass, got %v", err)
	}
	if _, err := uref.BaseOf(nil); err != uref.ErrReflectNilType {
		t.Fatalf("BaseOf(nil): want ErrReflectNilType, got %v", err)
	}
}

func TestUpcast_AliasesEmbeddedBase(t *testing.T) {
	leaf := &Leaf{}
	conf := apis.Config{MaxEmbedDepth: 8}

	got, ok := uref.Upcast(reflect.ValueOf(leaf), reflect.TypeOf(&Top{}), conf)
	if !ok {
		t.Fatal("Upcast(*Leaf -> *Top) failed")
	}
	top := got.Interface().(*Top)
	top.Name = "shared"
	if leaf.Name != "shared" {
		t.Fatalf("upcast handle must alias the embedded base, leaf.Name = %q", leaf.Name)
	}

	// Interfaces are satisfied directly through promoted methods.
	if _, ok := uref.Upcast(reflect.ValueOf(leaf), reflect.TypeOf((*Namer)(nil)).Elem(), conf); !ok {
		t.Fatal("Upcast(*Leaf -> Namer) failed")
	}

	// Down-casts and unrelated types are rejected.
	if _, ok := uref.Upcast(reflect.ValueOf(&Top{}), reflect.TypeOf(&Leaf{}), conf); ok {
		t.Fatal("Upcast(*Top -> *Leaf) must fail")
	}
	if _, ok := uref.Upcast(reflect.ValueOf(&Plain{}), reflect.TypeOf(&Top{}), conf); ok {
		t.Fatal("Upcast(*Plain -> *Top) must fail")
	}
}

func TestUpcast_DepthGuardAndNilEmbed(t *testing.T) {
	leaf := &Leaf{}
	// Leaf -> Mid -> Top needs two levels.
	if _, ok := uref.Upcast(reflect.ValueOf(leaf), reflect.TypeOf(&Top{}), apis.Config{MaxEmbedDepth: 1}); ok {
		t.Fatal("depth 1 must not reach Top from Leaf")
	}
	if _, ok := uref.Upcast(reflect.ValueOf(leaf), reflect.TypeOf(&Top{}), apis.Config{MaxEmbedDepth: 2}); !ok {
		t.Fatal("depth 2 must reach Top from Leaf")
	}

	// A nil embedded pointer stops the walk.
	if _, ok := uref.Upcast(reflect.ValueOf(&PtrEmbed{}), reflect.TypeOf(&Top{}), apis.Config{}); ok {
		t.Fatal("nil embedded base must fail")
	}
	pe := &PtrEmbed{Top: &Top{Name: "x"}}
	got, ok := uref.Upcast(reflect.ValueOf(pe), reflect.TypeOf(&Top{}), apis.Config{})
	if !ok || got.Interface().(*Top) != pe.Top {
		t.Fatal("pointer embedded base must be returned as-is")
	}
}

func TestKinds(t *testing.T) {
	type Color int32

	if !uref.IsIntegral(reflect.TypeOf(Color(0))) || uref.IsIntegral(reflect.TypeOf(1.5)) {
		t.Fatal("IsIntegral mismatch")
	}
	if !uref.IsUnsigned(reflect.TypeOf(uint16(0))) || uref.IsUnsigned(reflect.TypeOf(0)) {
		t.Fatal("IsUnsigned mismatch")
	}
	if !uref.IsFloating(reflect.TypeOf(float32(0))) || uref.IsFloating(reflect.TypeOf(0)) {
		t.Fatal("IsFloating mismatch")
	}
	if !uref.IsNillable(reflect.TypeOf(&Plain{})) || uref.IsNillable(reflect.TypeOf(Plain{})) {
		t.Fatal("IsNillable mismatch")
	}
	if got := uref.BasicOf(reflect.TypeOf(Color(0))); got != reflect.TypeOf(int32(0)) {
		t.Fatalf("BasicOf(Color) = %v, want int32", got)
	}
	if got := uref.BasicOf(reflect.TypeOf(Plain{})); got != nil {
		t.Fatalf("BasicOf(Plain) = %v, want nil", got)
	}
}
