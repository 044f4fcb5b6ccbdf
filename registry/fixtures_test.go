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
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/config"
	"dirpx.dev/rtti/registry"
)

var errBoom = errors.New("boom")

type TestEnum int32

const (
	Value1 TestEnum = iota
	Value2
)

type TestEnum2 uint8

const (
	First TestEnum2 = iota + 1
	Second
)

type TestStruct struct {
	TE TestEnum
}

func (s *TestStruct) Func(a int) { s.TE = TestEnum(a) }

// Func1er is the dynamically dispatched part of TestBase.
type Func1er interface {
	Func1() string
}

type TestBase struct {
	apis.Object
	TestBaseA int32
}

func (*TestBase) Func1() string         { return "TestBase.Func1" }
func (b *TestBase) BaseFunc3() int32    { return 34 }
func (b *TestBase) BaseFunc5(a int) int { return a * 2 }

type Test struct {
	TestBase
	A int32
	B string
	C any
	D TestEnum
	E TestStruct

	prop1 int
	ctor  string
}

func NewTest() *Test                         { return &Test{A: 1, ctor: "()"} }
func NewTestInt(i int) *Test                 { return &Test{A: int32(i), ctor: "(int)"} }
func NewTestIntFloat(i int, f float32) *Test { return &Test{A: int32(i), ctor: "(int, float32)"} }

func (*Test) Func1() string               { return "Test.Func1" }
func (t *Test) GetProp1() int             { return t.prop1 }
func (t *Test) SetProp1(v int)            { t.prop1 = v }
func (t *Test) Func3() int                { return 34 }
func (t *Test) Func7(b *TestBase) string  { return strconv.Itoa(int(b.TestBaseA)) }
func (t *Test) Func8(e TestEnum)          { t.D = e }
func (t *Test) Fail() error               { return errBoom }
func (t *Test) Inc(p *int)                { *p++ }
func (t *Test) Describe() (string, error) { return t.B + "!", nil }

type HandleBase struct {
	Ptr any
}

type Handle[T any] struct {
	HandleBase
}

// newRegistry returns an isolated registry logging into buf (if non-nil).
func newRegistry(t *testing.T, buf *bytes.Buffer, opts ...config.Option) *registry.Registry {
	t.Helper()
	var w io.Writer = io.Discard
	if buf != nil {
		w = &syncWriter{w: buf}
	}
	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := registry.New(config.NewConfig(opts...), registry.WithLogger(log))
	t.Cleanup(r.Shutdown)
	return r
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// registerTestTypes registers the shared fixture types.
func registerTestTypes(t *testing.T, r *registry.Registry) {
	t.Helper()

	err := errors.Join(
		registry.RegisterEnum[TestEnum](r, "TestEnum").
			Attr("DisplayName", "TestEnumForDisplay").
			Value("Value1", Value1).
			Value("Value2", Value2).
			Err(),
		registry.RegisterEnum[TestEnum2](r, "TestEnum2").
			Value("First", First).
			Value("Second", Second).
			Err(),
		registry.Register[TestStruct](r, "TestStruct").
			DefaultConstructor().
			Field("TE").
			Method("Func", (*TestStruct).Func).
			Err(),
		registry.Register[TestBase](r, "TestBase").
			Field("TestBaseA").
			Method("Func1", Func1er.Func1).
			Method("BaseFunc3", (*TestBase).BaseFunc3).
			Method("Func5", (*TestBase).BaseFunc5).
			Err(),
		registry.AddConverter(
			registry.Register[Test](r, "Test").
				Constructor(NewTest).
				Constructor(NewTestInt).
				Constructor(NewTestIntFloat).
				Field("A").
				Field("B").
				Field("C").
				Field("D").
				Field("E").
				Property("Prop1", (*Test).GetProp1, (*Test).SetProp1).
				Property("Prop2", (*Test).GetProp1, nil).
				Property("Prop3", nil, (*Test).SetProp1).
				Method("Func3", (*Test).Func3).
				Method("Func7", (*Test).Func7, registry.ConstParam(0), registry.WithAttr("doc", "prints A")).
				Method("Func8", (*Test).Func8).
				Method("Fail", (*Test).Fail).
				Method("Inc", (*Test).Inc).
				Method("Describe", (*Test).Describe).
				StaticMethod("Sum", func(a, b int) int { return a + b }),
			func(Test) (int, bool) { return 128, true },
		).Err(),
	)
	if err != nil {
		t.Fatalf("register fixtures: %v", err)
	}

	hb := registry.Register[Handle[TestBase]](r, "Handle<TestBase>").
		Attr("handle", registry.TypeOf[TestBase](r)).
		Constructor(func(p *TestBase) Handle[TestBase] { return Handle[TestBase]{HandleBase{Ptr: p}} })
	registry.AddConverter(hb, func(h Handle[TestBase]) (HandleBase, bool) { return h.HandleBase, true })
	if err := hb.Err(); err != nil {
		t.Fatalf("register Handle<TestBase>: %v", err)
	}
}
