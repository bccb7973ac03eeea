package cfg

import (
	"fmt"
	"io"
)

// Fprint writes every block reachable from the entry of m, with its edges,
// states, and the state recorded after each instruction.
func (p *Program) Fprint(w io.Writer, m MethodKey) error {
	blocks, err := p.Reachable(m)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Method %s:\n", m)
	for _, b := range blocks {
		fmt.Fprintf(w, "%s\n", b)
		if len(b.preds) > 0 {
			fmt.Fprintf(w, "Predecessors: %v\n", b.preds)
		}
		if len(b.succs) > 0 {
			fmt.Fprintf(w, "Successors: %v\n", b.succs)
		}
		fmt.Fprintf(w, "IN  %s\n", b.In)
		for _, i := range b.Instructions {
			fmt.Fprintf(w, "  %s\n", i)
			if _, ok := i.Stmt.(*Assign); ok {
				fmt.Fprintf(w, "    -> %s\n", i.Out)
			}
		}
		fmt.Fprintf(w, "OUT %s\n\n", b.Out)
	}
	return nil
}

// PrintPosition writes the source position of s, if it is known.
func (p *Program) PrintPosition(w io.Writer, s Stmt) bool {
	if p.Fset == nil || !s.Pos().IsValid() {
		return false
	}
	fmt.Fprintln(w, "Original construct found at:", p.Fset.Position(s.Pos()))
	return true
}
