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

package builder_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/builder"
	"dirpx.dev/rtti/config"
	"dirpx.dev/rtti/registry"
)

// userType is a plain named type with no special behavior.
type userType struct{ N int }

// Widget is a class used to verify class resolution.
type Widget struct{ apis.Object }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestBuildRegistry_Basic asserts that BuildRegistry returns a working
// registry with the core catalogue.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New(builder.WithLogger(quietLogger()))

	// prev may be nil; this must still produce a valid registry.
	reg, err := b.BuildRegistry(config.DefaultConfig(), nil, nil)
	if err != nil || reg == nil {
		t.Fatalf("BuildRegistry: reg=%v err=%v", reg, err)
	}
	if reg.Find("int") == nil || reg.Find("Object") == nil {
		t.Fatal("core catalogue missing")
	}
	if c := reg.Count(); c < 2 {
		t.Fatalf("Count too small: %d", c)
	}
}

// TestBuildRegistry_RunsInitializers verifies that ext initializers run
// after the core catalogue and that their errors are reported.
func TestBuildRegistry_RunsInitializers(t *testing.T) {
	b := builder.New(builder.WithLogger(quietLogger()))
	cfg := config.DefaultConfig()

	var sawInt bool
	initFn := registry.InitFunc(func(r *registry.Registry) error {
		sawInt = r.Find("int") != nil
		return registry.Register[userType](r, "user").Field("N").Err()
	})
	reg, err := b.BuildRegistry(cfg, nil, initFn)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	if !sawInt {
		t.Fatal("initializer ran before the core catalogue")
	}
	if reg.Find("user") == nil {
		t.Fatal("initializer registration missing")
	}

	// Plain funcs and slices are accepted too; errors are joined.
	boom := errors.New("boom")
	_, err = b.BuildRegistry(cfg, reg, []registry.InitFunc{
		func(*registry.Registry) error { return nil },
		func(*registry.Registry) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if _, err = b.BuildRegistry(cfg, nil, func(*registry.Registry) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("plain func initializer: want boom, got %v", err)
	}

	// Unrelated ext values are ignored.
	if _, err = b.BuildRegistry(cfg, nil, "not an initializer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestBuildRegistry_DerivedLogger checks that the derived logger honours
// Config.LogLevel.
func TestBuildRegistry_DerivedLogger(t *testing.T) {
	var buf bytes.Buffer
	b := builder.New(builder.WithOutput(&buf))

	reg, _ := b.BuildRegistry(config.NewConfig(config.WithLogLevel(slog.LevelDebug)), nil, nil)
	if !strings.Contains(buf.String(), "type created") {
		t.Fatalf("debug records missing: %q", buf.String())
	}
	if !strings.Contains(buf.String(), reg.ID().String()) {
		t.Fatal("records are not tagged with the registry id")
	}

	buf.Reset()
	_, _ = b.BuildRegistry(config.NewConfig(config.WithLogLevel(slog.LevelError)), nil, nil)
	if buf.Len() != 0 {
		t.Fatalf("records below error level leaked: %q", buf.String())
	}
}

// TestBuildResolver_Order verifies resolution priority: Typed values,
// then classes, then reflection.
func TestBuildResolver_Order(t *testing.T) {
	cfg := config.DefaultConfig()
	res := builder.New().BuildResolver(cfg, nil)

	if got := res.Resolve(registry.Box(3.5), cfg); got != reflect.TypeFor[float64]() {
		t.Fatalf("Typed priority broken: got %v", got)
	}
	if got := res.Resolve(&Widget{}, cfg); got != reflect.TypeFor[Widget]() {
		t.Fatalf("class strategy broken: got %v", got)
	}
	if got := res.ResolveType(reflect.TypeFor[userType](), cfg); got != reflect.TypeFor[userType]() {
		t.Fatalf("reflect fallback broken: got %v", got)
	}
}

// TestBuildResolver_Concurrency_Smoke hammers the resolver in parallel.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	cfg := config.DefaultConfig()
	res := builder.New().BuildResolver(cfg, nil)

	vals := []any{userType{}, &Widget{}, registry.Box("x"), []userType{}}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				if res.Resolve(vals[(i+id)%len(vals)], cfg) == nil {
					t.Error("Resolve returned nil")
					return
				}
			}
		}(w)
	}
	wg.Wait()
}

// Compile-time check: builder.New() must satisfy builder.Builder.
var _ builder.Builder = builder.New()
