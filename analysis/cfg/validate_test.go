package cfg

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	L "github.com/cs-au-dk/cprop/analysis/lattice"
)

// diamond builds a method with an if-else shaped graph, plus a dead block.
func diamond(prog *Program, m MethodKey) (entry, then, els, join, dead *Block) {
	entry = prog.NewBlock(m, NewAssign("x", IntLit{0}), NewOther("c"))
	then = prog.NewBlock(m, NewAssign("x", IntLit{1}))
	els = prog.NewBlock(m, NewAssign("x", IntLit{2}))
	join = prog.NewBlock(m, NewAssign("y", Binary{Op: Add, X: Var{"x"}, Y: IntLit{1}}))
	dead = prog.NewBlock(m, NewOther("unreachable"))

	prog.AddEdge(entry.ID, then.ID)
	prog.AddEdge(entry.ID, els.ID)
	prog.AddEdge(then.ID, join.ID)
	prog.AddEdge(els.ID, join.ID)
	prog.AddEdge(els.ID, join.ID)
	prog.SetEntry(m, entry.ID)
	return
}

func TestValidate(t *testing.T) {
	f, g := MethodKey{"A", "f"}, MethodKey{"A", "g"}

	t.Run("well-formed", func(t *testing.T) {
		prog := NewProgram()
		diamond(prog, f)
		diamond(prog, g)
		if err := prog.Validate(); err != nil {
			t.Error(err)
		}
	})

	t.Run("entry of another method", func(t *testing.T) {
		prog := NewProgram()
		entry, _, _, _, _ := diamond(prog, f)
		prog.SetEntry(g, entry.ID)
		if err := prog.Validate(); !errors.Is(err, ErrMalformedGraph) {
			t.Errorf("Expected ErrMalformedGraph, got %v", err)
		}
	})

	t.Run("edge between methods", func(t *testing.T) {
		prog := NewProgram()
		_, _, _, join, _ := diamond(prog, f)
		entry, _, _, _, _ := diamond(prog, g)
		prog.AddEdge(join.ID, entry.ID)
		if err := prog.Validate(); !errors.Is(err, ErrMalformedGraph) {
			t.Errorf("Expected ErrMalformedGraph, got %v", err)
		}
	})

	t.Run("foreign dead block", func(t *testing.T) {
		prog := NewProgram()
		_, _, _, join, _ := diamond(prog, f)
		stray := prog.NewBlock(g)
		prog.AddEdge(join.ID, stray.ID)
		if err := prog.Validate(); !errors.Is(err, ErrMalformedGraph) {
			t.Errorf("Expected ErrMalformedGraph, got %v", err)
		}
	})

	t.Run("dangling edge", func(t *testing.T) {
		prog := NewProgram()
		_, then, _, _, _ := diamond(prog, f)
		then.preds = nil
		if err := prog.Validate(); !errors.Is(err, ErrMalformedGraph) {
			t.Errorf("Expected ErrMalformedGraph, got %v", err)
		}
	})
}

func TestReachable(t *testing.T) {
	m := MethodKey{"A", "f"}
	prog := NewProgram()
	entry, then, els, join, dead := diamond(prog, m)

	blocks, err := prog.Reachable(m)
	if err != nil {
		t.Fatal(err)
	}

	exp := []*Block{entry, then, els, join}
	if len(blocks) != len(exp) {
		t.Fatalf("Expected %d blocks, got %v", len(exp), blocks)
	}
	for i, b := range blocks {
		if b != exp[i] {
			t.Errorf("Expected %s at position %d, got %s", exp[i], i, b)
		}
		if b == dead {
			t.Errorf("Dead block %s is reachable", dead)
		}
	}

	if len(join.Predecessors()) != 2 {
		t.Errorf("Duplicate edges should be ignored: %v", join.Predecessors())
	}

	if _, err := prog.Reachable(MethodKey{"A", "missing"}); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("Expected ErrUnknownMethod, got %v", err)
	}
}

func TestResetStates(t *testing.T) {
	m := MethodKey{"A", "f"}
	prog := NewProgram()
	entry, _, _, _, _ := diamond(prog, m)

	s := L.MakeState(map[string]L.Value{"x": L.Const(1)})
	entry.In, entry.Out = s, s
	entry.Instructions[0].Out = s

	prog.ResetStates()
	if entry.In.Size() != 0 || entry.Out.Size() != 0 || entry.Instructions[0].Out.Size() != 0 {
		t.Errorf("States were not reset")
	}
}

func TestFprint(t *testing.T) {
	m := MethodKey{"A", "f"}
	prog := NewProgram()
	_, _, _, join, _ := diamond(prog, m)
	join.Out = L.MakeState(map[string]L.Value{"x": L.Top(), "y": L.Top()})

	var buf bytes.Buffer
	if err := prog.Fprint(&buf, m); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, exp := range []string{"Method A_f:", "A_f#0", "A_f#3", "Predecessors: [1 2]", "y = x + 1"} {
		if !strings.Contains(out, exp) {
			t.Errorf("Expected %q in:\n%s", exp, out)
		}
	}
	if strings.Contains(out, "unreachable") {
		t.Errorf("Dead blocks should not be printed:\n%s", out)
	}
}

func TestVisualize(t *testing.T) {
	f, g := MethodKey{"A", "f"}, MethodKey{"A", "g"}
	prog := NewProgram()
	diamond(prog, f)
	_, _, _, join, _ := diamond(prog, g)
	join.Out = L.MakeState(map[string]L.Value{"x": L.Top()})
	join.Instructions[0].Out = L.MakeState(map[string]L.Value{"y": L.Top()})

	G, err := prog.Visualize([]MethodKey{f, g})
	if err != nil {
		t.Fatal(err)
	}

	if len(G.Clusters) != 2 {
		t.Errorf("Expected a cluster per method, got %d", len(G.Clusters))
	}
	if n := G.CountNodes(); n != 8 {
		t.Errorf("Expected 8 nodes, got %d", n)
	}
	if len(G.Edges) != 8 {
		t.Errorf("Expected 8 edges, got %d", len(G.Edges))
	}

	var buf bytes.Buffer
	if err := G.WriteDot(&buf); err != nil {
		t.Fatal(err)
	}
	for _, exp := range []string{"digraph", "A_f", "A_g", `y = x + 1  // ⊤\nOUT: {x=⊤}`} {
		if !strings.Contains(buf.String(), exp) {
			t.Errorf("Expected %q in:\n%s", exp, buf.String())
		}
	}

	if _, err := prog.Visualize([]MethodKey{{"A", "missing"}}); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("Expected ErrUnknownMethod, got %v", err)
	}
}
