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

// ctorName is the fixed member name of every constructor.
const ctorName = ".ctor"

// ConstructorInfo describes a constructor. Its result type is the owner.
type ConstructorInfo struct {
	MethodBase
}

// Invoke calls the constructor with args and returns the new instance.
func (c *ConstructorInfo) Invoke(args ...any) (any, error) {
	return c.invoke(nil, args)
}
