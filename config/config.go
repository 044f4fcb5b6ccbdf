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

package config

import (
	"log/slog"

	"dirpx.dev/rtti/apis"
)

const (
	// DefaultMaxEmbedDepth represents the default for MaxEmbedDepth.
	// A value of 8 should be sufficient for all practical class hierarchies.
	DefaultMaxEmbedDepth = 8
	// DefaultFatalUnbox represents the default for FatalUnbox.
	// When true, unbox type mismatches panic.
	DefaultFatalUnbox = true
	// DefaultCoreTypes represents the default for CoreTypes.
	// When true, new registries come with the primitive catalogue.
	DefaultCoreTypes = true
	// DefaultLogLevel represents the default for LogLevel.
	DefaultLogLevel = slog.LevelInfo
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxEmbedDepth is valid.
	if cfg.MaxEmbedDepth < 0 {
		cfg.MaxEmbedDepth = DefaultMaxEmbedDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxEmbedDepth: DefaultMaxEmbedDepth,
		FatalUnbox:    DefaultFatalUnbox,
		CoreTypes:     DefaultCoreTypes,
		LogLevel:      DefaultLogLevel,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxEmbedDepth sets the MaxEmbedDepth option.
// A negative value resets to the default.
func WithMaxEmbedDepth(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxEmbedDepth = DefaultMaxEmbedDepth
			return
		}
		c.MaxEmbedDepth = max
	}
}

// WithFatalUnbox sets the FatalUnbox option.
func WithFatalUnbox(fatal bool) Option {
	return func(c *apis.Config) {
		c.FatalUnbox = fatal
	}
}

// WithCoreTypes sets the CoreTypes option.
func WithCoreTypes(core bool) Option {
	return func(c *apis.Config) {
		c.CoreTypes = core
	}
}

// WithLogLevel sets the LogLevel option.
func WithLogLevel(level slog.Level) Option {
	return func(c *apis.Config) {
		c.LogLevel = level
	}
}
