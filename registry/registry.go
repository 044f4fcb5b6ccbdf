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
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/google/uuid"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/config"
	"dirpx.dev/rtti/resolver"
	"dirpx.dev/rtti/strategy"
	uref "dirpx.dev/rtti/utils/reflect"
)

const (
	objectName = "Object"
	boxName    = "ObjectBox"
)

var (
	anyType        = reflect.TypeFor[any]()
	errorType      = reflect.TypeFor[error]()
	boxedType      = reflect.TypeFor[Boxed]()
	boxedPtrType   = reflect.TypeFor[*Boxed]()
	unsafePtrType  = reflect.TypeFor[unsafe.Pointer]()
	objectRootType = uref.RootType()
)

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger sets the diagnostic logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithResolver sets the resolver mapping handles and Go types to the
// identity keys descriptors are stored under.
func WithResolver(res apis.Resolver) Option {
	return func(r *Registry) {
		if res != nil {
			r.res = res
		}
	}
}

// DefaultResolver returns the resolver chain used when none is supplied:
// Typed values, then classes, then plain reflection.
func DefaultResolver() apis.Resolver {
	return resolver.New(
		strategy.NewTypedStrategy(),
		strategy.NewClassStrategy(),
		strategy.NewReflectStrategy(),
	)
}

// Registry is an in-memory catalogue of type descriptors.
//
// Descriptors are created lazily on first reference and memoised; the
// lookup path is lock-free. Registration (Register, RegisterEnum and the
// TypeBuilder methods) mutates descriptors without locks and is expected
// to run before concurrent use. Lookup, invocation, conversion and
// comparison are safe for concurrent readers afterwards.
type Registry struct {
	id  uuid.UUID
	cfg apis.Config
	log *slog.Logger
	res apis.Resolver

	// mu serializes descriptor creation and keeps the list consistent.
	mu sync.Mutex
	// types maps identity keys to descriptors.
	types sync.Map // map[reflect.Type]*Type
	// building holds descriptors under construction. Guarded by mu.
	building map[reflect.Type]*Type
	// head is the most recently created descriptor.
	head   atomic.Pointer[Type]
	count  atomic.Int64
	closed atomic.Bool

	objectType *Type
	boxType    *Type
}

// New constructs a Registry with the object root, the box root and,
// when cfg.CoreTypes is set, the primitive catalogue.
//
// If MaxEmbedDepth <= 0, DefaultMaxEmbedDepth is used.
func New(cfg apis.Config, opts ...Option) *Registry {
	if cfg.MaxEmbedDepth <= 0 {
		cfg.MaxEmbedDepth = config.DefaultMaxEmbedDepth
	}
	r := &Registry{id: uuid.New(), cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	r.log = r.log.With(slog.String("registry", r.id.String()))
	if r.res == nil {
		r.res = DefaultResolver()
	}

	r.mu.Lock()
	r.objectType = r.create(objectRootType)
	r.boxType = &Type{reg: r, native: boxedType, name: boxName, size: boxedType.Size(), base: r.objectType, registered: true}
	r.types.Store(boxedType, r.boxType)
	r.link(r.boxType)
	r.mu.Unlock()

	if cfg.CoreTypes {
		r.initCore()
	}
	r.log.Debug("registry initialized", slog.Int64("types", r.count.Load()))
	return r
}

// ID returns the registry identity used in its log records.
func (r *Registry) ID() uuid.UUID { return r.id }

// Config returns the configuration the registry was built with.
func (r *Registry) Config() apis.Config { return r.cfg }

// Logger returns the diagnostic logger.
func (r *Registry) Logger() *slog.Logger { return r.log }

// Resolver returns the identity resolver.
func (r *Registry) Resolver() apis.Resolver { return r.res }

// ObjectType returns the object root.
func (r *Registry) ObjectType() *Type { return r.objectType }

// BoxType returns the synthetic box root every value type derives from.
func (r *Registry) BoxType() *Type { return r.boxType }

// Closed reports whether Shutdown was called.
func (r *Registry) Closed() bool { return r.closed.Load() }

// Shutdown drops the catalogue. Lookups afterwards return nil and
// registration fails with ErrClosed. Descriptors already handed out stay
// usable by their holders.
func (r *Registry) Shutdown() {
	if r.closed.Swap(true) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types.Range(func(k, _ any) bool {
		r.types.Delete(k)
		return true
	})
	n := r.count.Swap(0)
	r.head.Store(nil)
	r.log.Info("registry shut down", slog.Int64("types", n))
}

// TypeOf returns the descriptor of T, creating it on first use.
func TypeOf[T any](r *Registry) *Type {
	return r.TypeOfNative(reflect.TypeFor[T]())
}

// TypeOfNative returns the descriptor of t, creating it on first use.
// Class handles *S share the descriptor of S; `any` maps to the object root.
func (r *Registry) TypeOfNative(t reflect.Type) *Type {
	if t == nil {
		return nil
	}
	k := r.key(t)
	if v, ok := r.types.Load(k); ok {
		return v.(*Type)
	}
	if r.closed.Load() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed.Load() {
		return nil
	}
	return r.create(k)
}

// TypeOfObject returns the descriptor of the runtime type of handle h,
// or nil for the null handle.
func (r *Registry) TypeOfObject(h any) *Type {
	if h == nil {
		return nil
	}
	return r.TypeOfNative(r.res.Resolve(h, r.cfg))
}

// Find returns the most recently created descriptor named name, or nil.
func (r *Registry) Find(name string) *Type {
	for t := r.head.Load(); t != nil; t = t.next {
		if t.name == name {
			return t
		}
	}
	return nil
}

// ForEach calls fn for every descriptor, most recent first, until fn
// returns false.
func (r *Registry) ForEach(fn func(*Type) bool) {
	for t := r.head.Load(); t != nil; t = t.next {
		if !fn(t) {
			return
		}
	}
}

// Types returns every descriptor in creation order.
func (r *Registry) Types() []*Type {
	out := make([]*Type, 0, r.Count())
	r.ForEach(func(t *Type) bool {
		out = append(out, t)
		return true
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Count returns the number of descriptors.
func (r *Registry) Count() int {
	return int(r.count.Load())
}

// Entries returns a diagnostics snapshot in creation order.
func (r *Registry) Entries() []apis.Entry {
	types := r.Types()
	entries := make([]apis.Entry, 0, len(types))
	for _, t := range types {
		entries = append(entries, apis.Entry{Type: t.native, Name: t.name})
	}
	return entries
}

// key maps t to the identity its descriptor is stored under.
func (r *Registry) key(t reflect.Type) reflect.Type {
	switch t {
	case anyType:
		return objectRootType
	case boxedPtrType:
		return boxedType
	}
	if k := r.res.ResolveType(t, r.cfg); k != nil {
		return k
	}
	return t
}

// create builds and links the descriptor of identity k. r.mu must be held.
// A descriptor is published only once its links are resolved; while it is
// being built it is found in r.building so self-referential types
// terminate.
func (r *Registry) create(k reflect.Type) *Type {
	if v, ok := r.types.Load(k); ok {
		return v.(*Type)
	}
	if t, ok := r.building[k]; ok {
		return t
	}
	t := &Type{reg: r, native: k, name: strategy.DisplayName(k), size: k.Size()}
	if r.building == nil {
		r.building = make(map[reflect.Type]*Type)
	}
	r.building[k] = t
	defer delete(r.building, k)

	switch {
	case k == objectRootType:
		t.name = objectName
		t.registered = true
	case k.Kind() == reflect.Interface:
		t.base = r.objectType
	case uref.IsClass(k):
		bt, err := uref.BaseOf(k)
		if err == nil && bt != nil {
			t.base = r.create(bt)
		} else {
			t.base = r.objectType
		}
	case k.Kind() == reflect.Pointer:
		t.flags |= FlagPointer
		t.underlying = r.create(r.key(k.Elem()))
		t.base = r.boxType
	case k.Kind() == reflect.UnsafePointer:
		t.flags |= FlagPointer
		t.base = r.boxType
	default:
		if uref.IsIntegral(k) {
			t.flags |= FlagIntegral
		}
		if uref.IsFloating(k) {
			t.flags |= FlagFloating
		}
		t.base = r.boxType
	}

	r.types.Store(k, t)
	r.link(t)
	r.log.Debug("type created", slog.String("type", t.name), slog.String("flags", t.flags.String()))
	return t
}

// link prepends t to the intrusive list. r.mu must be held.
func (r *Registry) link(t *Type) {
	t.next = r.head.Load()
	r.head.Store(t)
	r.count.Add(1)
}

// dispatchFailed reports a rejected call on the diagnostic channel.
func (r *Registry) dispatchFailed(owner, member string, err error) error {
	derr := &DispatchError{Owner: owner, Member: member, Err: err}
	r.log.Warn("dispatch failed",
		slog.String("owner", owner),
		slog.String("member", member),
		slog.Any("err", err),
	)
	return derr
}

// InitFunc registers application types into a registry.
type InitFunc func(r *Registry) error

// Init runs the initializers in order after the core catalogue and
// returns their joined errors. Nil initializers are skipped.
func (r *Registry) Init(fns ...InitFunc) error {
	if r.closed.Load() {
		return ErrClosed
	}
	var errs []error
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		if err := fn(r); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		r.log.Error("registry init failed", slog.Any("err", err))
	}
	return err
}
