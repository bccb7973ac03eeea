package cfg

import (
	"errors"
	"fmt"
	"go/token"
	"sort"

	L "github.com/cs-au-dk/cprop/analysis/lattice"
	"github.com/cs-au-dk/cprop/utils/worklist"
)

var (
	// ErrUnknownMethod is reported for method keys without an entry block.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrMalformedGraph is reported when a Program fails validation.
	ErrMalformedGraph = errors.New("malformed control-flow graph")
)

// Program is an arena holding the blocks of every method, together with
// the registry of method entry blocks.
type Program struct {
	// Fset resolves the source positions of statements. It is nil for
	// programs that were not built from source.
	Fset *token.FileSet

	blocks  []*Block
	entries map[MethodKey]BlockID
}

func NewProgram() *Program {
	return &Program{
		entries: make(map[MethodKey]BlockID),
	}
}

// NewBlock allocates an empty block for method m.
func (p *Program) NewBlock(m MethodKey, stmts ...Stmt) *Block {
	b := &Block{
		ID:     BlockID(len(p.blocks)),
		Method: m,
		In:     L.EmptyState(),
		Out:    L.EmptyState(),
	}
	b.Append(stmts...)
	p.blocks = append(p.blocks, b)
	return b
}

// AddEdge links from to to. Duplicate edges are ignored.
func (p *Program) AddEdge(from, to BlockID) {
	f, t := p.blocks[from], p.blocks[to]
	f.succs = addID(f.succs, to)
	t.preds = addID(t.preds, from)
}

// SetEntry registers b as the entry block of m.
func (p *Program) SetEntry(m MethodKey, b BlockID) {
	p.entries[m] = b
}

// Block retrieves the block with the given ID.
func (p *Program) Block(id BlockID) *Block {
	return p.blocks[id]
}

// Blocks lists every block of the arena, including dead ones.
func (p *Program) Blocks() []*Block {
	return p.blocks
}

// Methods lists the keys of the entry registry in ascending order.
func (p *Program) Methods() []MethodKey {
	keys := make([]MethodKey, 0, len(p.entries))
	for k := range p.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Entry retrieves the entry block of m.
func (p *Program) Entry(m MethodKey) (*Block, error) {
	id, ok := p.entries[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, m)
	}
	if int(id) < 0 || int(id) >= len(p.blocks) {
		return nil, fmt.Errorf("%w: entry %d of %s is out of range", ErrMalformedGraph, id, m)
	}
	return p.blocks[id], nil
}

// Reachable lists the blocks reachable from the entry of m, in ascending
// ID order.
func (p *Program) Reachable(m MethodKey) ([]*Block, error) {
	entry, err := p.Entry(m)
	if err != nil {
		return nil, err
	}

	visited := map[BlockID]bool{entry.ID: true}
	worklist.Start(entry.ID, func(next BlockID, add func(BlockID)) {
		for _, succ := range p.blocks[next].succs {
			if !visited[succ] {
				visited[succ] = true
				add(succ)
			}
		}
	})

	res := make([]*Block, 0, len(visited))
	for id := range visited {
		res = append(res, p.blocks[id])
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].ID < res[j].ID
	})
	return res, nil
}

// ResetStates sets every block and instruction state back to ⊥.
func (p *Program) ResetStates() {
	for _, b := range p.blocks {
		b.In, b.Out = L.EmptyState(), L.EmptyState()
		for _, i := range b.Instructions {
			i.In, i.Out = L.EmptyState(), L.EmptyState()
		}
	}
}
