package constprop

import (
	"bufio"
	"io"

	"github.com/cs-au-dk/cprop/analysis/cfg"
	L "github.com/cs-au-dk/cprop/analysis/lattice"
)

// Render writes the simplified code of the given methods to w.
//
// Blocks reachable from the method entry are printed in ascending ID order.
// Every assignment is printed with its right-hand side evaluated, or at
// least folded, against the OUT state of its block. Note that this is the
// state after the whole block, not the state before the instruction.
// Declarations are omitted and every other instruction is printed as is.
// Each method is followed by a blank line.
func Render(w io.Writer, prog *cfg.Program, methods []cfg.MethodKey) error {
	bw := bufio.NewWriter(w)

	for _, m := range methods {
		blocks, err := prog.Reachable(m)
		if err != nil {
			return err
		}

		bw.WriteString("Final CFG after propagation for method: " + m.String() + "\n")
		for _, b := range blocks {
			for _, i := range b.Instructions {
				if line, ok := simplify(i.Stmt, b.Out); ok {
					bw.WriteString(line + "\n")
				}
			}
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// simplify renders s with the constants of out substituted.
func simplify(s cfg.Stmt, out L.State) (string, bool) {
	switch s := s.(type) {
	case *cfg.Decl:
		return "", false
	case *cfg.Assign:
		if n, ok := Evaluate(s.Rhs, out).Constant(); ok {
			return cfg.NewAssign(s.Lhs, cfg.IntLit{Value: n}).String(), true
		}
		return cfg.NewAssign(s.Lhs, Fold(s.Rhs, out)).String(), true
	default:
		return s.String(), true
	}
}
