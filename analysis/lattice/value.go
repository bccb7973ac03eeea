package lattice

import "strconv"

type valueKind uint8

const (
	bot valueKind = iota
	constant
	top
)

// Value is a member of the flat constant propagation lattice
//
//	⊥ < { ..., -1, 0, 1, ... } < ⊤
//
// The zero Value is ⊥.
type Value struct {
	kind valueKind
	n    int
}

// Bot is the "no information yet" member.
func Bot() Value {
	return Value{}
}

// Top is the "not a constant" member.
func Top() Value {
	return Value{kind: top}
}

// Const returns the member representing the known integer n.
func Const(n int) Value {
	return Value{kind: constant, n: n}
}

// IsBot is true for ⊥.
func (v Value) IsBot() bool {
	return v.kind == bot
}

// IsTop is true for ⊤.
func (v Value) IsTop() bool {
	return v.kind == top
}

// Constant yields the underlying integer, if v is a known constant.
func (v Value) Constant() (int, bool) {
	return v.n, v.kind == constant
}

// Height is 0 for ⊥, 1 for constants and 2 for ⊤.
func (v Value) Height() int {
	return int(v.kind)
}

// Leq computes v ⊑ o.
func (v Value) Leq(o Value) bool {
	switch {
	case v.kind == bot || o.kind == top:
		return true
	case v.kind == constant && o.kind == constant:
		return v.n == o.n
	default:
		return false
	}
}

// Eq computes v = o.
func (v Value) Eq(o Value) bool {
	return v == o
}

// Join computes v ⊔ o. Distinct constants join to ⊤.
func (v Value) Join(o Value) Value {
	switch {
	case v.kind == bot:
		return o
	case o.kind == bot:
		return v
	case v == o:
		return v
	default:
		return Top()
	}
}

func (v Value) String() string {
	return colorize.Element(v.Plain())
}

// Plain renders v like String, without colors.
func (v Value) Plain() string {
	switch v.kind {
	case bot:
		return "⊥"
	case top:
		return "⊤"
	default:
		return strconv.Itoa(v.n)
	}
}
