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

package registry_test

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"unsafe"

	"dirpx.dev/rtti/registry"
)

type Celsius struct{ Deg float64 }

type Feet float64

type Meters struct{ V float64 }

func registerUnits(t *testing.T, r *registry.Registry) {
	t.Helper()
	err := registry.Register[Celsius](r, "Celsius").
		Constructor(func(d float64) Celsius { return Celsius{Deg: d} }).
		Err()
	if err != nil {
		t.Fatal(err)
	}
	err = registry.Register[Meters](r, "Meters").
		Constructor(func(f Feet) Meters { return Meters{V: float64(f) * 0.3048} }).
		Err()
	if err != nil {
		t.Fatal(err)
	}
	err = registry.AddConverter(registry.Register[Feet](r, "Feet"),
		func(f Feet) (Meters, bool) { return Meters{V: -1}, true },
	).Err()
	if err != nil {
		t.Fatal(err)
	}
}

func TestConvert(t *testing.T) {
	r := newRegistry(t, nil)
	registerTestTypes(t, r)
	registerUnits(t, r)

	t.Run("null", func(t *testing.T) {
		if h, ok := r.Convert(nil, registry.TypeOf[TestBase](r)); !ok || h != nil {
			t.Errorf("Convert(nil, class) = %v, %v", h, ok)
		}
		if _, ok := r.Convert(nil, registry.TypeOf[int](r)); ok {
			t.Errorf("Convert(nil, int) succeeded")
		}
		if _, ok := r.Convert(registry.Box(1), nil); ok {
			t.Errorf("Convert(_, nil) succeeded")
		}
	})

	t.Run("assignable", func(t *testing.T) {
		obj := &Test{}
		h, ok := r.Convert(obj, registry.TypeOf[TestBase](r))
		if !ok || h != any(obj) {
			t.Errorf("upcast conversion = %v, %v, want the same handle", h, ok)
		}
		if h, ok := r.Convert(obj, r.ObjectType()); !ok || h != any(obj) {
			t.Errorf("Convert(_, Object) = %v, %v", h, ok)
		}
		b := registry.Box(3)
		if h, ok := r.Convert(b, r.BoxType()); !ok || h != b {
			t.Errorf("Convert(_, ObjectBox) = %v, %v", h, ok)
		}
		if _, ok := r.Convert(&TestBase{}, registry.TypeOf[Test](r)); ok {
			t.Errorf("downcast conversion succeeded")
		}
	})

	t.Run("pointer erasure", func(t *testing.T) {
		x := 5
		h, ok := r.Convert(registry.Box(&x), registry.TypeOf[unsafe.Pointer](r))
		if !ok || registry.Unbox[unsafe.Pointer](r, h) != unsafe.Pointer(&x) {
			t.Errorf("Convert(*int, unsafe.Pointer) = %v, %v", h, ok)
		}
	})

	t.Run("numeric", func(t *testing.T) {
		h, ok := r.Convert(registry.Box(300), registry.TypeOf[float32](r))
		if !ok || registry.Unbox[float32](r, h) != 300 {
			t.Errorf("Convert(300, float32) = %v, %v", h, ok)
		}
		if _, ok := r.Convert(registry.Box(1), registry.TypeOf[string](r)); ok {
			t.Errorf("Convert(int, string) succeeded")
		}
	})

	t.Run("converting constructor", func(t *testing.T) {
		h, ok := r.Convert(registry.Box(1.5), registry.TypeOf[Celsius](r))
		if !ok || registry.Unbox[Celsius](r, h).Deg != 1.5 {
			t.Errorf("Convert(1.5, Celsius) = %v, %v", h, ok)
		}
		// One step only: int would need int -> float64 -> Celsius.
		if _, ok := r.Convert(registry.Box(2), registry.TypeOf[Celsius](r)); ok {
			t.Errorf("Convert(int, Celsius) chained two steps")
		}
	})

	t.Run("constructor before converter", func(t *testing.T) {
		h, ok := r.Convert(registry.Box(Feet(10)), registry.TypeOf[Meters](r))
		if !ok {
			t.Fatal("Convert(Feet, Meters) failed")
		}
		if got := registry.Unbox[Meters](r, h).V; got < 3.04 || got > 3.05 {
			t.Errorf("Meters = %v, want the constructor result", got)
		}
	})

	t.Run("converter", func(t *testing.T) {
		h, ok := r.Convert(&Test{}, registry.TypeOf[int](r))
		if !ok || registry.Unbox[int](r, h) != 128 {
			t.Errorf("Convert(Test, int) = %v, %v", h, ok)
		}
	})

	t.Run("enum bridge", func(t *testing.T) {
		te := registry.TypeOf[TestEnum](r)
		h, ok := r.Convert(registry.Box(Value2), registry.TypeOf[int64](r))
		if !ok || registry.Unbox[int64](r, h) != 1 {
			t.Errorf("Convert(Value2, int64) = %v, %v", h, ok)
		}
		h, ok = r.Convert(registry.Box(uint8(1)), te)
		if !ok || registry.Unbox[TestEnum](r, h) != Value2 {
			t.Errorf("Convert(uint8(1), TestEnum) = %v, %v", h, ok)
		}
		h, ok = r.Convert(registry.Box(int32(0)), te)
		if !ok || registry.Unbox[TestEnum](r, h) != Value1 {
			t.Errorf("Convert(int32(0), TestEnum) = %v, %v", h, ok)
		}
		for _, n := range []any{
			int32(5), int64(-1), uint(2),
			int64(1 << 32), int64(1<<32 + 1), uint32(math.MaxUint32), uint64(math.MaxUint64),
		} {
			if h, ok := r.Convert(registry.Box(n), te); ok {
				t.Errorf("Convert(%v, TestEnum) = %v, want failure for an undeclared number", n, h)
			}
		}
		te2 := registry.TypeOf[TestEnum2](r)
		h, ok = r.Convert(registry.Box(int64(1)), te2)
		if !ok || registry.Unbox[TestEnum2](r, h) != First {
			t.Errorf("Convert(int64(1), TestEnum2) = %v, %v", h, ok)
		}
		for _, n := range []any{257, int16(-255), uint64(1<<8 + 2)} {
			if h, ok := r.Convert(registry.Box(n), te2); ok {
				t.Errorf("Convert(%v, TestEnum2) = %v, want failure for an out-of-range number", n, h)
			}
		}
		if _, ok := r.Convert(registry.Box(Value2), registry.TypeOf[TestEnum2](r)); ok {
			t.Errorf("enum converted into another enum")
		}
	})
}

func TestConvert_RejectionNotLogged(t *testing.T) {
	var buf bytes.Buffer
	r := newRegistry(t, &buf)
	registerTestTypes(t, r)
	te := registry.TypeOf[TestEnum](r)

	buf.Reset()
	if h, ok := r.Convert(registry.Box(int32(5)), te); ok {
		t.Fatalf("Convert(int32(5), TestEnum) = %v, want failure", h)
	}
	if h, ok := r.Convert(registry.Box("x"), te); ok {
		t.Fatalf("Convert(\"x\", TestEnum) = %v, want failure", h)
	}
	if strings.Contains(buf.String(), "dispatch failed") {
		t.Errorf("failed conversion reported as a dispatch failure:\n%s", buf.String())
	}

	if _, err := te.CreateInstance(registry.Box(int32(5))); err == nil {
		t.Fatal("CreateInstance(int32(5)) succeeded for an undeclared number")
	}
	if !strings.Contains(buf.String(), "dispatch failed") {
		t.Errorf("CreateInstance rejection not logged:\n%s", buf.String())
	}
}

func TestConvert_Deterministic(t *testing.T) {
	r := newRegistry(t, nil)
	registerTestTypes(t, r)
	registerUnits(t, r)

	inputs := []struct {
		h   any
		dst *registry.Type
	}{
		{registry.Box(Feet(10)), registry.TypeOf[Meters](r)},
		{registry.Box(int64(1)), registry.TypeOf[TestEnum](r)},
		{registry.Box(128), registry.TypeOf[uint16](r)},
		{&Test{}, registry.TypeOf[int](r)},
	}
	for _, in := range inputs {
		first, ok := r.Convert(in.h, in.dst)
		if !ok {
			t.Fatalf("Convert(%v, %s) failed", in.h, in.dst)
		}
		for i := 0; i < 10; i++ {
			again, ok := r.Convert(in.h, in.dst)
			if !ok || registry.HashCode(first) != registry.HashCode(again) {
				t.Fatalf("Convert(%v, %s) not deterministic: %v vs %v", in.h, in.dst, first, again)
			}
		}
	}
}

func TestCanConvertTo(t *testing.T) {
	r := newRegistry(t, nil)
	registerTestTypes(t, r)
	registerUnits(t, r)

	cases := []struct {
		src, dst *registry.Type
		want     bool
	}{
		{registry.TypeOf[Test](r), registry.TypeOf[TestBase](r), true},
		{registry.TypeOf[Test](r), registry.TypeOf[int](r), true},
		{registry.TypeOf[Test](r), registry.TypeOf[int32](r), false},
		{registry.TypeOf[TestEnum](r), registry.TypeOf[int](r), true},
		{registry.TypeOf[int](r), registry.TypeOf[TestEnum](r), true},
		{registry.TypeOf[float64](r), registry.TypeOf[TestEnum](r), false},
		{registry.TypeOf[float64](r), registry.TypeOf[Celsius](r), true},
		{registry.TypeOf[int](r), registry.TypeOf[Celsius](r), false},
		{registry.TypeOf[*int](r), registry.TypeOf[unsafe.Pointer](r), true},
		{registry.TypeOf[string](r), registry.TypeOf[int](r), false},
		{registry.TypeOf[Handle[TestBase]](r), registry.TypeOf[HandleBase](r), true},
	}
	for _, tc := range cases {
		if got := tc.src.CanConvertTo(tc.dst); got != tc.want {
			t.Errorf("%s.CanConvertTo(%s) = %v, want %v", tc.src, tc.dst, got, tc.want)
		}
		if got := r.CanConvert(tc.src, tc.dst); got != tc.want {
			t.Errorf("CanConvert(%s, %s) = %v, want %v", tc.src, tc.dst, got, tc.want)
		}
	}
}
