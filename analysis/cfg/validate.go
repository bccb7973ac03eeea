package cfg

import (
	"fmt"

	uf "github.com/spakin/disjoint"
)

// Validate checks the structural assumptions of the analysis:
//   - every registered entry block exists and belongs to its method,
//   - every edge is recorded on both endpoints,
//   - no chain of edges connects the blocks of two different methods.
//
// Blocks that are unreachable from every entry are allowed.
func (p *Program) Validate() error {
	n := len(p.blocks)
	inRange := func(id BlockID) bool {
		return 0 <= int(id) && int(id) < n
	}
	contains := func(ids []BlockID, id BlockID) bool {
		for _, x := range ids {
			if x == id {
				return true
			}
		}
		return false
	}

	for _, m := range p.Methods() {
		entry, err := p.Entry(m)
		if err != nil {
			return err
		}
		if entry.Method != m {
			return fmt.Errorf("%w: entry %s registered for method %s", ErrMalformedGraph, entry, m)
		}
	}

	sets := make([]*uf.Element, n)
	for i := range sets {
		sets[i] = uf.NewElement()
	}

	for _, b := range p.blocks {
		for _, succ := range b.succs {
			if !inRange(succ) || !contains(p.blocks[succ].preds, b.ID) {
				return fmt.Errorf("%w: dangling edge %s -> %d", ErrMalformedGraph, b, succ)
			}
			uf.Union(sets[b.ID], sets[succ])
		}
		for _, pred := range b.preds {
			if !inRange(pred) || !contains(p.blocks[pred].succs, b.ID) {
				return fmt.Errorf("%w: dangling edge %d -> %s", ErrMalformedGraph, pred, b)
			}
		}
	}

	owner := make(map[*uf.Element]MethodKey)
	for m, id := range p.entries {
		root := sets[id].Find()
		if other, found := owner[root]; found {
			return fmt.Errorf("%w: methods %s and %s share blocks", ErrMalformedGraph, other, m)
		}
		owner[root] = m
	}

	for _, b := range p.blocks {
		if m, found := owner[sets[b.ID].Find()]; found && m != b.Method {
			return fmt.Errorf("%w: block %s is connected to method %s", ErrMalformedGraph, b, m)
		}
	}

	return nil
}
