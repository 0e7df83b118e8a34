// SPDX-License-Identifier: MIT

package gibbs

import (
	"fmt"

	"github.com/katalvlaran/lvgibbs/ndarray"
)

// VariableSet is the ordered, name-indexed view of a sampler's variables that
// conditionals read from. Order is sampling order.
type VariableSet struct {
	ordered []*Variable
	byName  map[string]*Variable
}

// NewVariableSet indexes vars by name.
//
// Errors:
//   - ErrNilVariable if any entry is nil.
//   - ErrDuplicateVariable if two entries share a name.
func NewVariableSet(vars ...*Variable) (*VariableSet, error) {
	set := &VariableSet{
		ordered: make([]*Variable, 0, len(vars)),
		byName:  make(map[string]*Variable, len(vars)),
	}
	for i, v := range vars {
		if v == nil {
			return nil, fmt.Errorf("variable set: index %d: %w", i, ErrNilVariable)
		}
		if _, dup := set.byName[v.name]; dup {
			return nil, fmt.Errorf("variable set: %q: %w", v.name, ErrDuplicateVariable)
		}
		set.byName[v.name] = v
		set.ordered = append(set.ordered, v)
	}

	return set, nil
}

// Get looks a variable up by name.
func (s *VariableSet) Get(name string) (*Variable, bool) {
	v, ok := s.byName[name]

	return v, ok
}

// Value returns the live current value of the named variable, or nil.
func (s *VariableSet) Value(name string) *ndarray.Array {
	if v, ok := s.byName[name]; ok {
		return v.value
	}

	return nil
}

// All returns the variables in sampling order. The slice is a copy.
func (s *VariableSet) All() []*Variable {
	return append([]*Variable(nil), s.ordered...)
}

// Len returns the number of variables.
func (s *VariableSet) Len() int { return len(s.ordered) }
