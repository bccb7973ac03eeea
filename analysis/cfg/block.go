package cfg

import (
	"fmt"
	"strings"

	L "github.com/cs-au-dk/cprop/analysis/lattice"
)

// BlockID addresses a block in the arena of its Program.
type BlockID int

// MethodKey identifies a method by its class and method name.
type MethodKey struct {
	Class, Method string
}

// String renders the key as "Class_method".
func (k MethodKey) String() string {
	return k.Class + "_" + k.Method
}

// ParseMethodKey splits "Class_method" at the first underscore.
func ParseMethodKey(s string) (MethodKey, error) {
	class, method, found := strings.Cut(s, "_")
	if !found || class == "" || method == "" {
		return MethodKey{}, fmt.Errorf("%w: %q is not of the form Class_method", ErrUnknownMethod, s)
	}
	return MethodKey{class, method}, nil
}

// Block is a basic block: a straight-line sequence of instructions of one
// method. Edges are stored as IDs on both endpoints.
//
// In and Out are the states on entry and exit, as computed by the last
// visit of the block.
type Block struct {
	ID           BlockID
	Method       MethodKey
	Instructions []*Instruction

	preds []BlockID
	succs []BlockID

	In  L.State
	Out L.State
}

// Predecessors lists the blocks with an edge into b, in insertion order.
func (b *Block) Predecessors() []BlockID {
	return b.preds
}

// Successors lists the blocks b has an edge to, in insertion order.
func (b *Block) Successors() []BlockID {
	return b.succs
}

// Append adds instructions wrapping the given statements to the end of b.
func (b *Block) Append(stmts ...Stmt) {
	for _, s := range stmts {
		b.Instructions = append(b.Instructions, &Instruction{Stmt: s})
	}
}

func (b *Block) String() string {
	return fmt.Sprintf("%s#%d", b.Method, b.ID)
}

func addID(ids []BlockID, id BlockID) []BlockID {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}
