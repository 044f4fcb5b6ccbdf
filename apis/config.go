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

package apis

import "log/slog"

// Config carries read-only engine knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MaxEmbedDepth limits how many levels of struct embedding are walked
	// when searching for a base class (upcasts, base-type discovery).
	// Acts as a safety guard against pathological nesting.
	MaxEmbedDepth int

	// FatalUnbox controls how an unbox type mismatch is reported. If true,
	// the mismatch panics with the unbox error; otherwise it is logged and
	// the zero value is returned.
	FatalUnbox bool

	// CoreTypes controls whether a new registry pre-registers the primitive
	// catalogue (numeric kinds, string, bool, unsafe.Pointer) together with
	// their numeric converters and comparers.
	CoreTypes bool

	// LogLevel is the minimum level of the diagnostic logger built for a
	// registry when no logger is injected.
	LogLevel slog.Level
}
