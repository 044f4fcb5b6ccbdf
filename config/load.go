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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"dirpx.dev/rtti/apis"
)

// ErrInvalidLogLevel is returned when a configuration file names an unknown log level.
var ErrInvalidLogLevel = errors.New("rtti(config): invalid log level")

// file mirrors apis.Config with YAML tags. Pointer fields distinguish
// "absent" from "zero" so absent keys keep their defaults.
type file struct {
	MaxEmbedDepth *int    `yaml:"maxEmbedDepth"`
	FatalUnbox    *bool   `yaml:"fatalUnbox"`
	CoreTypes     *bool   `yaml:"coreTypes"`
	LogLevel      *string `yaml:"logLevel"`
}

// Load decodes a YAML document into an apis.Config. Keys that are absent
// keep their default values; unknown keys are rejected.
//
//	maxEmbedDepth: 4
//	fatalUnbox: false
//	coreTypes: true
//	logLevel: debug
func Load(r io.Reader) (apis.Config, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return apis.Config{}, fmt.Errorf("rtti(config): decode: %w", err)
	}

	var opts []Option
	if f.MaxEmbedDepth != nil {
		opts = append(opts, WithMaxEmbedDepth(*f.MaxEmbedDepth))
	}
	if f.FatalUnbox != nil {
		opts = append(opts, WithFatalUnbox(*f.FatalUnbox))
	}
	if f.CoreTypes != nil {
		opts = append(opts, WithCoreTypes(*f.CoreTypes))
	}
	if f.LogLevel != nil {
		level, err := ParseLogLevel(*f.LogLevel)
		if err != nil {
			return apis.Config{}, err
		}
		opts = append(opts, WithLogLevel(level))
	}
	return NewConfig(opts...), nil
}

// LoadFile reads and decodes the YAML configuration file at path.
func LoadFile(path string) (apis.Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("rtti(config): %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

// ParseLogLevel parses "debug", "info", "warn" or "error" (case-insensitive).
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return DefaultLogLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return level, nil
}
