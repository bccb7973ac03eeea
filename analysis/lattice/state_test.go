package lattice

import "testing"

func TestMeet(t *testing.T) {
	tests := []struct {
		name     string
		preds    []State
		expected State
	}{
		{
			"no predecessors",
			nil,
			EmptyState(),
		},
		{
			"agreeing constants",
			[]State{
				MakeState(map[string]Value{"x": Const(5)}),
				MakeState(map[string]Value{"x": Const(5)}),
			},
			MakeState(map[string]Value{"x": Const(5)}),
		},
		{
			"conflicting constants",
			[]State{
				MakeState(map[string]Value{"x": Const(5)}),
				MakeState(map[string]Value{"x": Const(7)}),
			},
			MakeState(map[string]Value{"x": Top()}),
		},
		{
			"missing binding does not conflict",
			[]State{
				MakeState(map[string]Value{"x": Const(5)}),
				EmptyState(),
			},
			MakeState(map[string]Value{"x": Const(5)}),
		},
		{
			"top wins",
			[]State{
				MakeState(map[string]Value{"x": Top(), "y": Const(1)}),
				MakeState(map[string]Value{"x": Const(2), "y": Const(1)}),
				MakeState(map[string]Value{"z": Const(3)}),
			},
			MakeState(map[string]Value{"x": Top(), "y": Const(1), "z": Const(3)}),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := Meet(test.preds...)
			if !res.Eq(test.expected) {
				t.Errorf("Meet(%v) = %s, expected %s", test.preds, res, test.expected)
			}
		})
	}
}

func TestStateUpdate(t *testing.T) {
	s := EmptyState()
	s1 := s.Update("a", Const(1))
	s2 := s1.Update("a", Top())

	if s.Size() != 0 {
		t.Errorf("updates must not mutate the receiver: %s", s)
	}
	if v := s1.Get("a"); !v.Eq(Const(1)) {
		t.Errorf("s1[a] = %s, expected 1", v)
	}
	if v := s2.Get("a"); !v.IsTop() {
		t.Errorf("strong update expected ⊤, got %s", v)
	}
	if v := s2.Get("b"); !v.IsBot() {
		t.Errorf("unbound variables are ⊥, got %s", v)
	}
	if s3 := s2.Update("a", Bot()); s3.Size() != 0 {
		t.Errorf("binding ⊥ should remove the variable: %s", s3)
	}
	if h := s2.Update("b", Const(2)).Height(); h != 3 {
		t.Errorf("height of {a ↦ ⊤, b ↦ 2} is %d, expected 3", h)
	}
}

func TestStateOrder(t *testing.T) {
	var zero State
	a := MakeState(map[string]Value{"a": Const(1)})
	ab := MakeState(map[string]Value{"a": Const(1), "b": Const(2)})
	aT := MakeState(map[string]Value{"a": Top()})

	tests := []struct {
		a, b     State
		expected bool
	}{
		{zero, a, true},
		{a, ab, true},
		{ab, a, false},
		{a, aT, true},
		{aT, a, false},
	}

	for _, test := range tests {
		if res := test.a.Leq(test.b); res != test.expected {
			t.Errorf("%s ⊑ %s = %v, expected %v", test.a, test.b, res, test.expected)
		}
	}

	if !zero.Eq(EmptyState()) {
		t.Error("the zero State should equal the empty state")
	}
	if consts := ab.Join(aT).Constants(); len(consts) != 1 || consts["b"] != 2 {
		t.Errorf("unexpected constants %v", consts)
	}
}

func TestStateForEachOrder(t *testing.T) {
	s := MakeState(map[string]Value{"c": Const(3), "a": Const(1), "b": Top()})

	var keys []string
	s.ForEach(func(x string, _ Value) {
		keys = append(keys, x)
	})

	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("bindings visited out of order: %v", keys)
	}
}
