package constprop

import (
	"go/types"
	"strconv"
	"strings"

	"github.com/cs-au-dk/cprop/analysis/cfg"
	L "github.com/cs-au-dk/cprop/analysis/lattice"
)

// Evaluate computes the value of e in state s. Literals are constants.
// Variables that are unbound or ⊤ are unknown, and so is every expression
// over an unknown operand. Division by zero is ⊤. Arithmetic wraps around
// like Go arithmetic in the integer type of the operation. Evaluation never
// fails.
func Evaluate(e cfg.Expr, s L.State) L.Value {
	switch e := e.(type) {
	case cfg.IntLit:
		return L.Const(e.Value)
	case cfg.Var:
		if v := s.Get(e.Name); !v.IsBot() {
			return v
		}
	case cfg.Binary:
		x, ok := Evaluate(e.X, s).Constant()
		if !ok {
			return L.Top()
		}
		y, ok := Evaluate(e.Y, s).Constant()
		if !ok {
			return L.Top()
		}
		if n, ok := apply(e, x, y); ok {
			return L.Const(n)
		}
	}
	return L.Top()
}

// apply computes the operation of e over x and y.
func apply(e cfg.Binary, x, y int) (n int, ok bool) {
	switch e.Op {
	case cfg.Add:
		n = x + y
	case cfg.Sub:
		n = x - y
	case cfg.Mul:
		n = x * y
	case cfg.Quo:
		if y == 0 {
			return 0, false
		}
		n = x / y
	default:
		return 0, false
	}
	return wrap(e.Kind, n)
}

// sizes are the sizes of the gc toolchain on a 64-bit target, where int is
// 64 bits wide like the integers the analysis computes with.
var sizes = types.SizesFor("gc", "amd64")

// wrap truncates n to the integer type kind. Unsigned 64-bit results
// beyond the range of int are not representable. Untyped and unknown kinds
// are not truncated.
func wrap(kind types.BasicKind, n int) (int, bool) {
	t := types.Typ[kind]
	if info := t.Info(); info&types.IsInteger == 0 || info&types.IsUntyped != 0 {
		return n, true
	}

	bits := uint(sizes.Sizeof(t) * 8)
	unsigned := t.Info()&types.IsUnsigned != 0
	switch {
	case bits >= 64:
		return n, !unsigned || n >= 0
	case unsigned:
		return int(uint64(n) & (1<<bits - 1)), true
	default:
		shift := 64 - bits
		return int(int64(n) << shift >> shift), true
	}
}

// Fold replaces the variables of e that are constant in s by their value,
// and folds the binary operations whose operands become constant.
// Opaque expressions have their whitespace-delimited tokens substituted.
func Fold(e cfg.Expr, s L.State) cfg.Expr {
	switch e := e.(type) {
	case cfg.Var:
		if n, ok := s.Get(e.Name).Constant(); ok {
			return cfg.IntLit{Value: n}
		}
	case cfg.Binary:
		x, y := Fold(e.X, s), Fold(e.Y, s)
		if l, ok := x.(cfg.IntLit); ok {
			if r, ok := y.(cfg.IntLit); ok {
				if n, ok := apply(e, l.Value, r.Value); ok {
					return cfg.IntLit{Value: n}
				}
			}
		}
		return cfg.Binary{Op: e.Op, X: x, Y: y, Kind: e.Kind}
	case cfg.Opaque:
		return cfg.Opaque{Text: substitute(e, s)}
	}
	return e
}

// substitute replaces the tokens of e that denote a constant variable.
func substitute(e cfg.Opaque, s L.State) string {
	text := e.Text
	tokens := strings.Fields(text)
	changed := false
	for i, tok := range tokens {
		x := tok
		if name, ok := e.Names[tok]; ok {
			x = name
		}
		if n, ok := s.Get(x).Constant(); ok {
			tokens[i] = strconv.Itoa(n)
			changed = true
		}
	}
	if !changed {
		return text
	}
	return strings.Join(tokens, " ")
}
