package constprop

import (
	"go/types"
	"math"
	"testing"

	"github.com/cs-au-dk/cprop/analysis/cfg"
	L "github.com/cs-au-dk/cprop/analysis/lattice"

	"github.com/stretchr/testify/assert"
)

func bin(op cfg.Op, x, y cfg.Expr) cfg.Expr {
	return cfg.Binary{Op: op, X: x, Y: y}
}

func typed(kind types.BasicKind, op cfg.Op, x, y cfg.Expr) cfg.Expr {
	return cfg.Binary{Op: op, X: x, Y: y, Kind: kind}
}

func lit(n int) cfg.Expr {
	return cfg.IntLit{Value: n}
}

func ref(x string) cfg.Expr {
	return cfg.Var{Name: x}
}

func TestEvaluate(t *testing.T) {
	state := L.MakeState(map[string]L.Value{
		"x": L.Const(5),
		"y": L.Const(2),
		"z": L.Const(0),
		"t": L.Top(),
	})

	tests := []struct {
		name  string
		expr  cfg.Expr
		state L.State
		exp   L.Value
	}{
		{"literal", lit(3), L.EmptyState(), L.Const(3)},
		{"literals", bin(cfg.Add, lit(3), lit(4)), L.EmptyState(), L.Const(7)},
		{"variable", ref("x"), state, L.Const(5)},
		{"unbound variable", ref("w"), state, L.Top()},
		{"top variable", ref("t"), state, L.Top()},
		{"add", bin(cfg.Add, ref("x"), lit(1)), state, L.Const(6)},
		{"sub", bin(cfg.Sub, ref("y"), ref("x")), state, L.Const(-3)},
		{"mul", bin(cfg.Mul, ref("x"), ref("y")), state, L.Const(10)},
		{"quo", bin(cfg.Quo, ref("x"), ref("y")), state, L.Const(2)},
		{"negative quo truncates", bin(cfg.Quo, lit(-7), lit(2)), state, L.Const(-3)},
		{"division by zero", bin(cfg.Quo, ref("x"), lit(0)), state, L.Top()},
		{"division by zero variable", bin(cfg.Quo, ref("x"), ref("z")), state, L.Top()},
		{"zero dividend", bin(cfg.Quo, ref("z"), ref("x")), state, L.Const(0)},
		{"top operand", bin(cfg.Add, ref("t"), ref("y")), state, L.Top()},
		{"unbound operand", bin(cfg.Mul, ref("y"), ref("w")), state, L.Top()},
		{"nested", bin(cfg.Mul, bin(cfg.Add, ref("x"), lit(1)), ref("y")), state, L.Const(12)},
		{"nested unknown", bin(cfg.Add, bin(cfg.Quo, ref("x"), lit(0)), lit(1)), state, L.Top()},
		{"opaque", cfg.Opaque{Text: "f(x)"}, state, L.Top()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := Evaluate(test.expr, test.state)
			assert.True(t, res.Eq(test.exp), "Evaluate(%s) = %s, expected %s", test.expr, res, test.exp)
		})
	}
}

func TestEvaluateOverflow(t *testing.T) {
	tests := []struct {
		name string
		expr cfg.Expr
		exp  L.Value
	}{
		{"uint8 add", typed(types.Uint8, cfg.Add, lit(200), lit(100)), L.Const(44)},
		{"uint8 sub", typed(types.Uint8, cfg.Sub, lit(0), lit(1)), L.Const(255)},
		{"byte mul", typed(types.Byte, cfg.Mul, lit(16), lit(17)), L.Const(16)},
		{"int8 add", typed(types.Int8, cfg.Add, lit(127), lit(1)), L.Const(-128)},
		{"int8 quo", typed(types.Int8, cfg.Quo, lit(-128), lit(-1)), L.Const(-128)},
		{"uint16 mul", typed(types.Uint16, cfg.Mul, lit(300), lit(300)), L.Const(24464)},
		{"int32 add", typed(types.Int32, cfg.Add, lit(math.MaxInt32), lit(1)), L.Const(math.MinInt32)},
		{"int32 mul", typed(types.Int32, cfg.Mul, lit(1<<20), lit(1<<12)), L.Const(0)},
		{"uint32 sub", typed(types.Uint32, cfg.Sub, lit(1), lit(2)), L.Const(math.MaxUint32)},
		{"int64 add", typed(types.Int64, cfg.Add, lit(math.MaxInt64), lit(1)), L.Const(math.MinInt64)},
		{"int in range", typed(types.Int, cfg.Add, lit(1), lit(2)), L.Const(3)},
		{"uint below zero", typed(types.Uint, cfg.Sub, lit(1), lit(2)), L.Top()},
		{"uint64 beyond int", typed(types.Uint64, cfg.Add, lit(math.MaxInt64), lit(1)), L.Top()},
		{"untyped", typed(types.UntypedInt, cfg.Mul, lit(1<<40), lit(2)), L.Const(1 << 41)},
		{"nested wraps every step",
			typed(types.Uint8, cfg.Quo, typed(types.Uint8, cfg.Add, lit(250), lit(10)), lit(2)),
			L.Const(2)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := Evaluate(test.expr, L.EmptyState())
			assert.True(t, res.Eq(test.exp), "Evaluate(%s) = %s, expected %s", test.expr, res, test.exp)
		})
	}
}

func TestFold(t *testing.T) {
	state := L.MakeState(map[string]L.Value{
		"x": L.Const(5),
		"t": L.Top(),
	})

	tests := []struct {
		expr cfg.Expr
		exp  string
	}{
		{ref("x"), "5"},
		{ref("t"), "t"},
		{bin(cfg.Add, ref("t"), ref("x")), "t + 5"},
		{bin(cfg.Add, bin(cfg.Mul, ref("x"), lit(2)), ref("t")), "10 + t"},
		{bin(cfg.Quo, ref("x"), lit(0)), "5 / 0"},
		{bin(cfg.Sub, ref("t"), bin(cfg.Add, ref("w"), ref("x"))), "t - (w + 5)"},
		{cfg.Opaque{Text: "g(x) + x"}, "g(x) + 5"},
		{cfg.Opaque{Text: "f(t)"}, "f(t)"},
		{cfg.Opaque{Text: "g(x) + x", Names: map[string]string{"x": "x$2"}}, "g(x) + x"},
		{cfg.Opaque{Text: "g(y) + y", Names: map[string]string{"y": "x"}}, "g(y) + 5"},
		{typed(types.Uint8, cfg.Add, ref("x"), lit(255)), "4"},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, Fold(test.expr, state).String(), "Fold(%s)", test.expr)
	}
}
