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

package strategy

import (
	"path"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/rtti/apis"
)

var namerType = reflect.TypeFor[apis.Namer]()

// displayNameCache caches computed display names by type.
var displayNameCache sync.Map // key: reflect.Type, val: string

// DisplayName computes the default display name of a descriptor for t:
//
//   - apis.Namer on T or *T wins;
//   - pointers are rendered as "*" + the pointee's name;
//   - named types become "pkg.Type" with generic parameters stripped;
//   - everything else uses reflect's own spelling ("int", "[]byte", ...).
func DisplayName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if v, ok := displayNameCache.Load(t); ok {
		return v.(string)
	}
	name := displayName(t)
	displayNameCache.Store(t, name)
	return name
}

func displayName(t reflect.Type) string {
	if t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(namerType) {
		if n := reflect.New(t).Interface().(apis.Namer).EntityName(); n != "" {
			return n
		}
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + DisplayName(t.Elem())
	case reflect.UnsafePointer:
		return "unsafe.Pointer"
	}
	if p := t.PkgPath(); p != "" && t.Name() != "" {
		return path.Base(p) + "." + stripTypeParams(t.Name())
	}
	return t.String()
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
