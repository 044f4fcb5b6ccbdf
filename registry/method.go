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

// MethodInfo describes a member or static method.
type MethodInfo struct {
	MethodBase
}

// Invoke calls the method on target with args and returns the boxed
// result, or nil for void methods. Static methods ignore target.
func (m *MethodInfo) Invoke(target any, args ...any) (any, error) {
	return m.invoke(target, args)
}
