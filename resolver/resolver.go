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


package resolver

import (
	"reflect"
	"sync"

	"dirpx.dev/rtti/apis"
)

// New returns a resolver that asks the given strategies in order for the
// identity of a handle or type. Nil strategies are skipped.
//
// Static type lookups are memoised per (type, config): registries call
// ResolveType on every descriptor lookup, and strategies are required to
// answer deterministically for a given type. Handle lookups are not
// memoised because apis.Typed handles may report a different identity
// than their Go type.
func New(strategies ...apis.Strategy) apis.Resolver {
	c := &chain{strats: make([]apis.Strategy, 0, len(strategies))}
	for _, s := range strategies {
		if s != nil {
			c.strats = append(c.strats, s)
		}
	}
	return c
}

type memoKey struct {
	t   reflect.Type
	cfg apis.Config
}

type chain struct {
	strats []apis.Strategy
	// memo maps memoKey to the resolved reflect.Type (nil when unresolved).
	memo sync.Map
}

// Resolve returns the identity of the first strategy that accepts v, or
// nil. The null handle has no identity.
func (c *chain) Resolve(v any, cfg apis.Config) reflect.Type {
	if v == nil {
		return nil
	}
	for _, s := range c.strats {
		if t, ok := s.TryResolve(v, cfg); ok {
			return t
		}
	}
	return nil
}

// ResolveType returns the identity of the first strategy that accepts t,
// or nil.
func (c *chain) ResolveType(t reflect.Type, cfg apis.Config) reflect.Type {
	if t == nil {
		return nil
	}
	k := memoKey{t: t, cfg: cfg}
	if v, ok := c.memo.Load(k); ok {
		id, _ := v.(reflect.Type)
		return id
	}
	var id reflect.Type
	for _, s := range c.strats {
		if r, ok := s.TryResolveType(t, cfg); ok {
			id = r
			break
		}
	}
	c.memo.Store(k, id)
	return id
}
