package constprop

import (
	"fmt"

	"github.com/cs-au-dk/cprop/analysis/cfg"
	L "github.com/cs-au-dk/cprop/analysis/lattice"
	"github.com/cs-au-dk/cprop/utils"
	"github.com/cs-au-dk/cprop/utils/worklist"

	"go.uber.org/zap"
)

// Config configures a run of the analysis.
type Config struct {
	// Log receives progress records. Nil disables logging.
	Log *zap.Logger
	// Methods restricts the analysis to the given methods. All methods of
	// the program are analyzed if it is empty.
	Methods []cfg.MethodKey
	// Metrics enables the collection of Metrics.
	Metrics bool
	// OnPass is invoked after every full pass with the pass number,
	// starting at 1, and whether the pass changed any OUT state.
	OnPass func(pass int, changed bool)
}

// Result describes a finished run of the analysis.
type Result struct {
	// Methods lists the analyzed methods in processing order.
	Methods []cfg.MethodKey
	// Passes is the number of full passes, including the final one that
	// observed no change.
	Passes int
	// Metrics is nil unless requested in the Config.
	Metrics *Metrics
}

// Analyze propagates constants through the methods of prog until a fixed
// point is reached. Block and instruction states of prog are reset first,
// then updated in place.
//
// Every pass visits the blocks reachable from each method entry once. The
// IN state of a block is the meet of the OUT states of its predecessors,
// and its new OUT state is joined with the previous one, so values only
// move up the lattice across passes. The analysis stops after a pass in
// which no OUT state changed.
//
// Two choices trade precision for simplicity. A variable bound by only some
// predecessors keeps the value of those, see lattice.Meet, which is unsound
// on the paths that leave it unassigned. And since OUT states never move
// down, a variable that is ⊤ in an early pass stays ⊤, even if the states
// of later passes would make it constant. In
//
//	for ... { y = x + 1; x = 5 }
//	z := y * 2
//
// y is ⊤ in the first pass, where x is still unbound, so z is not found to
// be 12.
func Analyze(prog *cfg.Program, facts TypeFacts, config Config) (*Result, error) {
	log := utils.LoggerOrNop(config.Log)

	methods, err := selectMethods(prog, config.Methods)
	if err != nil {
		return nil, err
	}

	res := &Result{Methods: methods}
	if config.Metrics {
		res.Metrics = newMetrics()
	}
	res.Metrics.timerStart()

	prog.ResetStates()

	orders := make(map[cfg.MethodKey][]*cfg.Block, len(methods))
	for _, m := range methods {
		entry, err := prog.Entry(m)
		if err != nil {
			return nil, err
		}
		orders[m] = depthFirstOrder(prog, entry)
	}

	for changed := true; changed; {
		changed = false
		res.Passes++
		res.Metrics.pass()

		visits, height := 0, 0
		for _, m := range methods {
			for _, b := range orders[m] {
				bchanged := visit(prog, b, facts)
				res.Metrics.visit(b, bchanged)
				changed = changed || bchanged
				visits++
				height += b.Out.Height()
			}
		}

		log.Debug("Pass completed",
			zap.Int("pass", res.Passes),
			zap.Bool("changed", changed),
			zap.Int("visits", visits),
			zap.Int("height", height))

		if config.OnPass != nil {
			config.OnPass(res.Passes, changed)
		}
	}

	res.Metrics.timerStop()
	log.Info("Fixed point reached",
		zap.Int("methods", len(methods)),
		zap.Int("passes", res.Passes))

	return res, nil
}

// visit recomputes the states of b and reports whether its OUT state changed.
func visit(prog *cfg.Program, b *cfg.Block, facts TypeFacts) bool {
	old := b.Out

	preds := make([]L.State, 0, len(b.Predecessors()))
	for _, pred := range b.Predecessors() {
		preds = append(preds, prog.Block(pred).Out)
	}

	Propagate(b, L.Meet(preds...), facts)
	b.Out = old.Join(b.Out)

	return !b.Out.Eq(old)
}

// selectMethods checks that every requested method has an entry block.
// Without requests, every method of prog is selected.
func selectMethods(prog *cfg.Program, requested []cfg.MethodKey) ([]cfg.MethodKey, error) {
	if len(requested) == 0 {
		return prog.Methods(), nil
	}

	selected := make(map[cfg.MethodKey]bool, len(requested))
	for _, m := range requested {
		if _, err := prog.Entry(m); err != nil {
			return nil, fmt.Errorf("analyzing %s: %w", m, err)
		}
		selected[m] = true
	}

	var methods []cfg.MethodKey
	for _, m := range prog.Methods() {
		if selected[m] {
			methods = append(methods, m)
		}
	}
	return methods, nil
}

// depthFirstOrder lists the blocks reachable from entry in reverse
// postorder of a depth-first traversal, so that, back edges aside, every
// block comes after its predecessors.
func depthFirstOrder(prog *cfg.Program, entry *cfg.Block) []*cfg.Block {
	type frame struct {
		block *cfg.Block
		next  int
	}

	visited := map[cfg.BlockID]bool{entry.ID: true}
	postorder := []*cfg.Block{}

	stack := worklist.EmptyStack[*frame]()
	stack.Push(&frame{block: entry})
	for !stack.IsEmpty() {
		f := stack.Pop()
		succs := f.block.Successors()
		if f.next == len(succs) {
			postorder = append(postorder, f.block)
			continue
		}

		succ := succs[f.next]
		f.next++
		stack.Push(f)
		if !visited[succ] {
			visited[succ] = true
			stack.Push(&frame{block: prog.Block(succ)})
		}
	}

	order := make([]*cfg.Block, len(postorder))
	for i, b := range postorder {
		order[len(order)-1-i] = b
	}
	return order
}
