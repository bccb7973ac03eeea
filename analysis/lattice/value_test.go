package lattice

import "testing"

func TestValueJoin(t *testing.T) {
	tests := []struct {
		a, b, expected Value
	}{
		{Bot(), Bot(), Bot()},
		{Bot(), Const(5), Const(5)},
		{Const(5), Bot(), Const(5)},
		{Const(5), Const(5), Const(5)},
		{Const(5), Const(7), Top()},
		{Const(5), Top(), Top()},
		{Top(), Bot(), Top()},
	}

	for _, test := range tests {
		res := test.a.Join(test.b)
		if !res.Eq(test.expected) {
			t.Errorf("%s ⊔ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		}
		if !test.a.Leq(res) || !test.b.Leq(res) {
			t.Errorf("%s ⊔ %s = %s is not an upper bound", test.a, test.b, res)
		}
	}
}

func TestValueComparison(t *testing.T) {
	tests := []struct {
		a, b      Value
		predicate func(Value) bool
		symbol    string
		expected  bool
	}{
		{Bot(), Const(1), Bot().Leq, "⊑", true},
		{Const(1), Bot(), Const(1).Leq, "⊑", false},
		{Const(1), Const(2), Const(1).Leq, "⊑", false},
		{Const(1), Top(), Const(1).Leq, "⊑", true},
		{Top(), Const(1), Top().Leq, "⊑", false},
		{Const(1), Const(1), Const(1).Eq, "=", true},
	}

	for _, test := range tests {
		if res := test.predicate(test.b); res != test.expected {
			t.Errorf("%s %s %s = %v, expected %v\n", test.a, test.symbol, test.b, res, test.expected)
		}
	}
}

func TestValueHeight(t *testing.T) {
	if h := Bot().Height(); h != 0 {
		t.Errorf("height of ⊥ is %d", h)
	}
	if h := Const(-4).Height(); h != 1 {
		t.Errorf("height of a constant is %d", h)
	}
	if h := Top().Height(); h != 2 {
		t.Errorf("height of ⊤ is %d", h)
	}
	if n, ok := Const(-4).Constant(); !ok || n != -4 {
		t.Errorf("Const(-4).Constant() = %d, %v", n, ok)
	}
	if _, ok := Top().Constant(); ok {
		t.Error("⊤ is not a constant")
	}
	if s := Top().Plain(); s != "⊤" {
		t.Errorf("⊤ is printed as %s", s)
	}
}
