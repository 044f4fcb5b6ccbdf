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

// CompareResult is the outcome of a comparison.
type CompareResult int

const (
	// Failed means no comparer accepts the operand types.
	Failed CompareResult = iota
	// Equals means the operands compare equal.
	Equals
	// NotEquals means the operands compare unequal.
	NotEquals
)

func (c CompareResult) String() string {
	switch c {
	case Equals:
		return "Equals"
	case NotEquals:
		return "NotEquals"
	}
	return "Failed"
}

func resultOf(eq bool) CompareResult {
	if eq {
		return Equals
	}
	return NotEquals
}

// ObjectComparer compares handles of its owner type with handles
// assignable to Target.
type ObjectComparer struct {
	// Target is the accepted right-hand type.
	Target *Type
	fn     func(l, r any) CompareResult
}

// Compare applies the comparer.
func (c ObjectComparer) Compare(l, r any) CompareResult {
	return c.fn(l, r)
}

// accepts reports whether a right operand of type rt (nil for null) is
// accepted.
func (c ObjectComparer) accepts(rt *Type) bool {
	if c.Target == nil {
		return rt == nil
	}
	if rt == nil {
		return !c.Target.IsValueType()
	}
	return rt.IsAssignableTo(c.Target)
}

// IsComparable reports whether handles of types l and rt can be compared.
// A nil type stands for the null handle.
func (r *Registry) IsComparable(l, rt *Type) bool {
	if l == nil {
		if rt == nil {
			return true
		}
		return r.IsComparable(rt, nil)
	}
	for _, c := range l.cmps {
		if c.accepts(rt) {
			return true
		}
	}
	if rt != nil {
		for _, c := range rt.cmps {
			if c.Target != nil && l.IsAssignableTo(c.Target) {
				return true
			}
		}
	}
	return false
}

// Compare compares two handles. The comparers of the left operand are
// searched first, then those of the right operand with the operands
// swapped. Failed is returned only when neither side accepts the other.
func (r *Registry) Compare(left, right any) CompareResult {
	if left == nil {
		if right == nil {
			return Equals
		}
		return r.Compare(right, nil)
	}
	lt := r.TypeOfObject(left)
	if lt == nil {
		return Failed
	}
	rt := r.TypeOfObject(right)

	for _, c := range lt.cmps {
		if c.accepts(rt) {
			return c.Compare(left, right)
		}
	}
	if right != nil && rt != nil {
		for _, c := range rt.cmps {
			if c.Target != nil && lt.IsAssignableTo(c.Target) {
				return c.Compare(right, left)
			}
		}
	}
	return Failed
}
