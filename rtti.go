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

package rtti

import (
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/constraints"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/builder"
	"dirpx.dev/rtti/config"
	"dirpx.dev/rtti/registry"
)

// init initializes the global state.
func init() {
	// Initialize state with default cfg, reg and bld.
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.reg = build(s.bld, s.cfg, nil, nil)
	// Store the initial state atomically.
	st.Store(s)
}

// ErrNilRegistry is raised when a builder returns a nil registry.
var ErrNilRegistry = errors.New("rtti: builder returned nil registry")

// Default returns the global registry.
func Default() *registry.Registry {
	return st.Load().reg
}

// TypeOf returns the descriptor of T in the global registry.
func TypeOf[T any]() *registry.Type {
	return registry.TypeOf[T](Default())
}

// Find returns the type named name in the global registry.
func Find(name string) *registry.Type {
	return Default().Find(name)
}

// Box lifts v into a handle.
func Box(v any) any {
	return registry.Box(v)
}

// Unbox extracts a T from h using the global registry.
func Unbox[T any](h any) T {
	return registry.Unbox[T](Default(), h)
}

// Convert converts h into dst using the global registry.
func Convert(h any, dst *registry.Type) (any, bool) {
	return Default().Convert(h, dst)
}

// Compare compares two handles using the global registry.
func Compare(left, right any) registry.CompareResult {
	return Default().Compare(left, right)
}

// Register starts the registration of T in the global registry.
//
// Registrations made this way do not survive a rebuild of the global
// registry (SetConfig, SetBuilder, SetExt); use Init for registrations
// that must be replayed.
func Register[T any](name string) *registry.TypeBuilder[T] {
	return registry.Register[T](Default(), name)
}

// RegisterEnum registers the enum E in the global registry.
func RegisterEnum[E constraints.Integer](name string) *registry.TypeBuilder[E] {
	return registry.RegisterEnum[E](Default(), name)
}

// Init installs fns as the extension initializers and applies them: an
// unpinned registry is rebuilt with them, a pinned one runs them in
// place. The initializers are replayed on every later rebuild.
func Init(fns ...registry.InitFunc) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	ext := fns

	var (
		nreg = old.reg
		err  error
	)
	if old.preg {
		err = old.reg.Init(fns...)
	} else {
		nreg, err = buildErr(old.bld, old.cfg, old.reg, ext)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  ext,
			reg:  nreg,
			bld:  old.bld,
			preg: old.preg,
		},
	)
	return err
}

// Shutdown shuts the global registry down and publishes a fresh one
// holding only the core catalogue. The extension and the pin are cleared.
func Shutdown() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	old.reg.Shutdown()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg: old.cfg,
			reg: build(old.bld, old.cfg, nil, nil),
			bld: old.bld,
		},
	)
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced. A non-nil reg is pinned.
func SetAll(cfg *apis.Config, ext any, reg *registry.Registry, bld builder.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = build(nbld, ncfg, old.reg, ext)
	} else {
		npreg = true
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  ncfg,
			ext:  ext,
			reg:  nreg,
			bld:  nbld,
			preg: npreg,
		},
	)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and rebuilds the global
// registry unless it is pinned.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	nreg := old.reg
	if !old.preg {
		nreg = build(old.bld, cfg, old.reg, old.ext)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  cfg,
			ext:  old.ext,
			reg:  nreg,
			bld:  old.bld,
			preg: old.preg,
		},
	)
}

// SetRegistry sets the global registry to reg and pins it.
func SetRegistry(reg *registry.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  reg,
			bld:  old.bld,
			preg: true,
		},
	)
}

// Builder returns the global builder.
func Builder() builder.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the global
// registry with it unless the registry is pinned.
func SetBuilder(b builder.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	nreg := old.reg
	if !old.preg {
		nreg = build(b, old.cfg, old.reg, old.ext)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  nreg,
			bld:  b,
			preg: old.preg,
		},
	)
}

// SetExt replaces the extension and rebuilds the registry unless pinned.
// The default builder runs registry.InitFunc extensions after the core
// catalogue; other values are passed to custom builders untouched.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	nreg := old.reg
	if !old.preg {
		nreg = build(old.bld, old.cfg, old.reg, ext)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  ext,
			reg:  nreg,
			bld:  old.bld,
			preg: old.preg,
		},
	)
}

// ExtAs returns the global extension as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops rebuilds of the global registry.
func PinRegistry() {
	setPinned(true)
}

// UnpinRegistry allows rebuilds of the global registry again.
func UnpinRegistry() {
	setPinned(false)
}

func setPinned(p bool) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			bld:  old.bld,
			preg: p,
		},
	)
}

// build runs the builder and panics on a nil registry. Initializer
// errors are logged by the registry and otherwise dropped.
func build(b builder.Builder, cfg apis.Config, prev *registry.Registry, ext any) *registry.Registry {
	reg, _ := buildErr(b, cfg, prev, ext)
	return reg
}

func buildErr(b builder.Builder, cfg apis.Config, prev *registry.Registry, ext any) (*registry.Registry, error) {
	reg, err := b.BuildRegistry(cfg, prev, ext)
	if reg == nil {
		panic(ErrNilRegistry)
	}
	return reg, err
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the global extension.
	ext any
	// reg is the global registry.
	reg *registry.Registry
	// bld is the global builder.
	bld builder.Builder
	// preg indicates whether the registry is pinned.
	preg bool
}
