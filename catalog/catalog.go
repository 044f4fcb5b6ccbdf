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


// Package catalog renders a registry as a deterministic, human-readable
// description of its types and members. It is a diagnostics artefact; it
// does not serialize values.
package catalog

import (
	"io"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"dirpx.dev/rtti/registry"
)

// Catalog is a snapshot of a registry.
type Catalog struct {
	Registry string      `yaml:"registry"`
	Types    []TypeEntry `yaml:"types"`
}

// TypeEntry describes one type.
type TypeEntry struct {
	Name         string          `yaml:"name"`
	Native       string          `yaml:"native"`
	Kind         string          `yaml:"kind"`
	Size         uintptr         `yaml:"size"`
	Flags        []string        `yaml:"flags,omitempty"`
	Base         string          `yaml:"base,omitempty"`
	Underlying   string          `yaml:"underlying,omitempty"`
	Attributes   []string        `yaml:"attributes,omitempty"`
	Constructors []string        `yaml:"constructors,omitempty"`
	Methods      []string        `yaml:"methods,omitempty"`
	Properties   []PropertyEntry `yaml:"properties,omitempty"`
	Enum         []EnumEntry     `yaml:"enum,omitempty"`
	Converters   []string        `yaml:"converters,omitempty"`
	Comparers    []string        `yaml:"comparers,omitempty"`
}

// PropertyEntry describes one property.
type PropertyEntry struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Access string `yaml:"access"`
}

// EnumEntry describes one declared enum value.
type EnumEntry struct {
	Name   string `yaml:"name"`
	Number int64  `yaml:"number"`
}

// Kind values of TypeEntry.
const (
	KindRoot      = "root"
	KindBox       = "box"
	KindClass     = "class"
	KindInterface = "interface"
	KindValue     = "value"
)

// Option configures Snapshot.
type Option func(*options)

type options struct {
	implicit bool
}

// WithImplicit includes types that were only created on first reference.
func WithImplicit() Option {
	return func(o *options) { o.implicit = true }
}

// Snapshot describes the types of r sorted by name. Members are listed as
// declared; inherited members appear on their declaring type.
func Snapshot(r *registry.Registry, opts ...Option) Catalog {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c := Catalog{Registry: r.ID().String()}
	for _, t := range r.Types() {
		if !o.implicit && !t.Registered() {
			continue
		}
		c.Types = append(c.Types, describe(r, t))
	}
	slices.SortStableFunc(c.Types, func(a, b TypeEntry) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Native < b.Native
	})
	return c
}

// Encode writes c as YAML.
func Encode(w io.Writer, c Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func describe(r *registry.Registry, t *registry.Type) TypeEntry {
	e := TypeEntry{
		Name:       t.Name(),
		Native:     t.Native().String(),
		Kind:       kindOf(r, t),
		Size:       t.Size(),
		Flags:      t.Flags().Names(),
		Base:       nameOf(t.BaseType()),
		Underlying: nameOf(t.UnderlyingType()),
		Attributes: t.AttributeKeys(),
	}
	for _, c := range t.Constructors() {
		e.Constructors = append(e.Constructors, c.String())
	}
	for _, m := range t.DeclaredMethods() {
		s := m.String()
		if m.IsStatic() {
			s = "static " + s
		}
		e.Methods = append(e.Methods, s)
	}
	for _, p := range t.DeclaredProperties() {
		e.Properties = append(e.Properties, PropertyEntry{
			Name:   p.Name(),
			Type:   nameOf(p.PropertyType()),
			Access: access(p),
		})
	}
	for _, v := range t.EnumInfos() {
		e.Enum = append(e.Enum, EnumEntry{Name: v.Name, Number: v.Number})
	}
	for _, c := range t.Converters() {
		e.Converters = append(e.Converters, c.Target.Name())
	}
	for _, c := range t.Comparers() {
		e.Comparers = append(e.Comparers, nameOf(c.Target))
	}
	return e
}

func kindOf(r *registry.Registry, t *registry.Type) string {
	switch {
	case t == r.ObjectType():
		return KindRoot
	case t == r.BoxType():
		return KindBox
	case t.IsInterface():
		return KindInterface
	case t.IsValueType():
		return KindValue
	}
	return KindClass
}

func access(p *registry.PropertyInfo) string {
	switch {
	case p.CanRead() && p.CanWrite():
		return "rw"
	case p.CanRead():
		return "r"
	}
	return "w"
}

func nameOf(t *registry.Type) string {
	if t == nil {
		return ""
	}
	return t.Name()
}
