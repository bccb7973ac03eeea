package constprop

import (
	"github.com/cs-au-dk/cprop/analysis/cfg"
	L "github.com/cs-au-dk/cprop/analysis/lattice"
)

// TypeFacts decides which variables of a method take part in the analysis.
type TypeFacts interface {
	IsInteger(m cfg.MethodKey, x string) bool
}

// Propagate runs the transfer function over the instructions of b, starting
// from in. Assignments to integer variables of the enclosing method strongly
// update the running state; every other instruction leaves it unchanged.
// The states before and after each instruction are recorded on it, and the
// final state becomes the OUT state of b.
func Propagate(b *cfg.Block, in L.State, facts TypeFacts) L.State {
	b.In = in

	s := in
	for _, i := range b.Instructions {
		i.In = s
		if a, ok := i.Stmt.(*cfg.Assign); ok && tracked(facts, b.Method, a.Lhs) {
			s = s.Update(a.Lhs, Evaluate(a.Rhs, s))
		}
		i.Out = s
	}

	b.Out = s
	return s
}

func tracked(facts TypeFacts, m cfg.MethodKey, x string) bool {
	return facts != nil && facts.IsInteger(m, x)
}
