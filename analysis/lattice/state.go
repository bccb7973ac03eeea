package lattice

import (
	"fmt"

	i "github.com/cs-au-dk/cprop/utils/indenter"

	"github.com/benbjohnson/immutable"
)

// State maps program variables to lattice values. It is persistent: every
// update returns a new State and leaves the receiver untouched, so states
// can be handed out as snapshots without copying.
//
// Absent variables are ⊥. ⊥ is never stored explicitly.
type State struct {
	mp *immutable.SortedMap[string, Value]
}

var emptyMap = immutable.NewSortedMap[string, Value](nil)

// EmptyState is the state binding every variable to ⊥.
func EmptyState() State {
	return State{emptyMap}
}

// MakeState converts a set of bindings to a state.
func MakeState(bindings map[string]Value) State {
	b := immutable.NewSortedMapBuilder[string, Value](nil)
	for x, v := range bindings {
		if !v.IsBot() {
			b.Set(x, v)
		}
	}
	return State{b.Map()}
}

func (s State) m() *immutable.SortedMap[string, Value] {
	if s.mp == nil {
		return emptyMap
	}
	return s.mp
}

// Size is the number of variables bound to a value other than ⊥.
func (s State) Size() int {
	return s.m().Len()
}

// Get retrieves the value of x, which is ⊥ if x is unbound.
func (s State) Get(x string) Value {
	v, _ := s.m().Get(x)
	return v
}

// Lookup retrieves the value of x. The boolean reports whether x is bound.
func (s State) Lookup(x string) (Value, bool) {
	return s.m().Get(x)
}

// Update returns a state where x is bound to v, discarding any previous
// binding.
func (s State) Update(x string, v Value) State {
	if v.IsBot() {
		return State{s.m().Delete(x)}
	}
	return State{s.m().Set(x, v)}
}

// ForEach visits the bindings in ascending variable order.
func (s State) ForEach(do func(x string, v Value)) {
	for itr := s.m().Iterator(); !itr.Done(); {
		x, v, _ := itr.Next()
		do(x, v)
	}
}

// Constants collects the variables bound to known constants.
func (s State) Constants() map[string]int {
	res := make(map[string]int)
	s.ForEach(func(x string, v Value) {
		if n, ok := v.Constant(); ok {
			res[x] = n
		}
	})
	return res
}

// Height sums the heights of the values bound in s. It grows whenever s
// moves up the lattice.
func (s State) Height() (h int) {
	s.ForEach(func(_ string, v Value) {
		h += v.Height()
	})
	return
}

// Eq computes s = o.
func (s State) Eq(o State) bool {
	if s.m() == o.m() {
		return true
	} else if s.Size() != o.Size() {
		return false
	}

	for itr := s.m().Iterator(); !itr.Done(); {
		x, v1, _ := itr.Next()
		if v2, found := o.Lookup(x); !found || v1 != v2 {
			return false
		}
	}
	return true
}

// Leq computes s ⊑ o pointwise.
func (s State) Leq(o State) bool {
	if s.Size() > o.Size() {
		return false
	}

	for itr := s.m().Iterator(); !itr.Done(); {
		x, v, _ := itr.Next()
		if !v.Leq(o.Get(x)) {
			return false
		}
	}
	return true
}

// Join computes s ⊔ o pointwise.
func (s State) Join(o State) State {
	if s.Size() < o.Size() {
		s, o = o, s
	}
	if o.Size() == 0 || s.m() == o.m() {
		return s
	}

	for itr := o.m().Iterator(); !itr.Done(); {
		x, v, _ := itr.Next()
		if mine := s.Get(x); mine != v {
			s = s.Update(x, mine.Join(v))
		}
	}
	return s
}

// Meet merges the OUT states of a block's predecessors into its IN state.
//
// A variable adopts the value of the first predecessor binding it. A second
// binding to a different constant, or any binding to ⊤, turns it into ⊤.
// A predecessor that does not bind a variable never conflicts with the
// others, so a variable assigned on only some incoming paths keeps the
// constant of those paths. The analysis is therefore not sound on paths
// where the variable is left unassigned.
//
// Since states never store ⊥, this is exactly the pointwise join.
// Without predecessors the result binds nothing.
func Meet(states ...State) State {
	res := EmptyState()
	for _, s := range states {
		res = res.Join(s)
	}
	return res
}

func (s State) String() string {
	if s.Size() == 0 {
		return colorize.Lattice("State") + ": Empty"
	}

	buf := make([]string, 0, s.Size())
	s.ForEach(func(x string, v Value) {
		buf = append(buf, fmt.Sprintf("%s ↦ %s", colorize.Key(x), v))
	})
	return i.Indenter().Start(colorize.Lattice("State") + ": {").
		NestStringsSep(",", buf...).
		End("}")
}
