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
	"fmt"
	"strings"
	"testing"

	"dirpx.dev/rtti/registry"
)

type Point struct {
	X, Y int
}

func TestIsComparable(t *testing.T) {
	r := newRegistry(t, nil)
	registerTestTypes(t, r)

	cases := []struct {
		l, rt *registry.Type
		want  bool
	}{
		{registry.TypeOf[TestEnum](r), registry.TypeOf[TestEnum](r), true},
		{registry.TypeOf[TestEnum](r), registry.TypeOf[int](r), false},
		{registry.TypeOf[int](r), registry.TypeOf[TestEnum](r), false},
		{registry.TypeOf[int](r), registry.TypeOf[float64](r), true},
		{registry.TypeOf[uint8](r), registry.TypeOf[int64](r), true},
		{registry.TypeOf[int](r), registry.TypeOf[string](r), false},
		{registry.TypeOf[string](r), registry.TypeOf[string](r), true},
		{registry.TypeOf[Test](r), registry.TypeOf[Test](r), false},
		{nil, nil, true},
		{registry.TypeOf[int](r), nil, false},
	}
	for _, tc := range cases {
		if got := r.IsComparable(tc.l, tc.rt); got != tc.want {
			t.Errorf("IsComparable(%v, %v) = %v, want %v", tc.l, tc.rt, got, tc.want)
		}
	}
}

func TestCompare(t *testing.T) {
	r := newRegistry(t, nil)
	registerTestTypes(t, r)

	ttt := registry.Box(128)
	cases := []struct {
		name        string
		left, right any
		want        registry.CompareResult
	}{
		{"int float32", ttt, registry.Box(float32(128)), registry.Equals},
		{"uint int", registry.Box(uint(0)), ttt, registry.NotEquals},
		{"int string", ttt, registry.Box("xxx"), registry.Failed},
		{"negative unsigned", registry.Box(-1), registry.Box(uint64(1<<64 - 1)), registry.NotEquals},
		{"uint8 int64", registry.Box(uint8(7)), registry.Box(int64(7)), registry.Equals},
		{"float", registry.Box(0.5), registry.Box(float32(0.5)), registry.Equals},
		{"strings", registry.Box("a"), registry.Box("a"), registry.Equals},
		{"bools", registry.Box(true), registry.Box(false), registry.NotEquals},
		{"enums", registry.Box(Value2), registry.Box(Value2), registry.Equals},
		{"enum int", registry.Box(Value2), registry.Box(1), registry.Failed},
		{"null null", nil, nil, registry.Equals},
		{"int null", ttt, nil, registry.Failed},
		{"classes", &Test{}, &Test{}, registry.Failed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Compare(tc.left, tc.right); got != tc.want {
				t.Errorf("Compare = %v, want %v", got, tc.want)
			}
			if got := r.Compare(tc.right, tc.left); got != tc.want {
				t.Errorf("swapped Compare = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompare_RightOperandFallback(t *testing.T) {
	r := newRegistry(t, nil)
	registerTestTypes(t, r)

	err := registry.AddComparer(registry.Register[Point](r, "Point"),
		func(p Point, s string) bool { return fmt.Sprintf("%d,%d", p.X, p.Y) == s },
	).Err()
	if err != nil {
		t.Fatal(err)
	}

	p := registry.Box(Point{X: 1, Y: 2})
	if got := r.Compare(p, registry.Box("1,2")); got != registry.Equals {
		t.Errorf("Compare(Point, string) = %v", got)
	}
	if got := r.Compare(registry.Box("1,2"), p); got != registry.Equals {
		t.Errorf("Compare(string, Point) = %v, want the right operand's comparer", got)
	}
	if got := r.Compare(registry.Box("2,1"), p); got != registry.NotEquals {
		t.Errorf("Compare(string, Point) = %v", got)
	}
	if !r.IsComparable(registry.TypeOf[string](r), registry.TypeOf[Point](r)) {
		t.Errorf("IsComparable(string, Point) = false")
	}
	if got := r.Compare(p, p); got != registry.Failed {
		t.Errorf("Compare(Point, Point) = %v, want Failed", got)
	}
}

func TestCompare_ClassAgainstNull(t *testing.T) {
	r := newRegistry(t, nil)
	registerTestTypes(t, r)

	err := registry.AddComparer(registry.Register[TestBase](r, ""),
		func(l TestBase, rh *TestBase) bool { return rh != nil && l.TestBaseA == rh.TestBaseA },
	).Err()
	if err != nil {
		t.Fatal(err)
	}

	a := &Test{}
	a.TestBaseA = 3
	b := &TestBase{TestBaseA: 3}
	cases := []struct {
		name        string
		left, right any
		want        registry.CompareResult
	}{
		{"derived base", a, b, registry.Equals},
		{"base derived", b, a, registry.Equals},
		{"base null", b, nil, registry.NotEquals},
		{"null base", nil, b, registry.NotEquals},
		{"different", b, &TestBase{TestBaseA: 4}, registry.NotEquals},
	}
	for _, tc := range cases {
		if got := r.Compare(tc.left, tc.right); got != tc.want {
			t.Errorf("%s: Compare = %v, want %v", tc.name, got, tc.want)
		}
	}
	if !r.IsComparable(registry.TypeOf[TestBase](r), nil) {
		t.Errorf("IsComparable(TestBase, null) = false")
	}
}

func TestCompareResult_String(t *testing.T) {
	var got []string
	for _, c := range []registry.CompareResult{registry.Failed, registry.Equals, registry.NotEquals} {
		got = append(got, c.String())
	}
	if want := "Failed,Equals,NotEquals"; strings.Join(got, ",") != want {
		t.Errorf("String() = %v, want %s", got, want)
	}
}
