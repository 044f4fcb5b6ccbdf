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

package builder

import (
	"io"
	"log/slog"
	"os"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/registry"
	"dirpx.dev/rtti/resolver"
	"dirpx.dev/rtti/strategy"
)

// Builder constructs registries. It is used by the global façade to
// rebuild the default registry when its configuration, builder or
// extension changes.
type Builder interface {
	// BuildResolver returns the identity resolver for a new registry.
	BuildResolver(cfg apis.Config, ext any) apis.Resolver

	// BuildRegistry returns a new registry for cfg. prev is the registry
	// being replaced, if any; descriptors are bound to their registry and
	// are not copied. ext carries the application initializer: a
	// registry.InitFunc or a []registry.InitFunc, run after the core
	// catalogue. The registry is returned even when an initializer fails.
	BuildRegistry(cfg apis.Config, prev *registry.Registry, ext any) (*registry.Registry, error)
}

// Option configures the default builder.
type Option func(*builder)

// WithLogger makes every built registry log to l instead of a logger
// derived from Config.LogLevel.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		b.log = l
	}
}

// WithOutput sets the destination of the derived logger. Defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(b *builder) {
		if w != nil {
			b.out = w
		}
	}
}

// New creates and returns the default Builder.
func New(opts ...Option) Builder {
	b := &builder{out: os.Stderr}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builder is the default Builder.
type builder struct {
	log *slog.Logger
	out io.Writer
}

// BuildResolver returns the Typed → class → reflect chain.
func (b *builder) BuildResolver(_ apis.Config, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewTypedStrategy(),
		strategy.NewClassStrategy(),
		strategy.NewReflectStrategy(),
	)
}

// BuildRegistry builds a registry wired with the resolver chain and a
// slog logger, then runs the initializers carried by ext.
func (b *builder) BuildRegistry(cfg apis.Config, prev *registry.Registry, ext any) (*registry.Registry, error) {
	reg := registry.New(cfg,
		registry.WithLogger(b.logger(cfg)),
		registry.WithResolver(b.BuildResolver(cfg, ext)),
	)
	if prev != nil {
		reg.Logger().Debug("registry rebuilt", slog.String("previous", prev.ID().String()))
	}
	return reg, reg.Init(initializers(ext)...)
}

func (b *builder) logger(cfg apis.Config) *slog.Logger {
	if b.log != nil {
		return b.log
	}
	return slog.New(slog.NewTextHandler(b.out, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

// initializers extracts the initializers carried by ext.
func initializers(ext any) []registry.InitFunc {
	switch x := ext.(type) {
	case registry.InitFunc:
		return []registry.InitFunc{x}
	case func(*registry.Registry) error:
		return []registry.InitFunc{x}
	case []registry.InitFunc:
		return x
	}
	return nil
}
