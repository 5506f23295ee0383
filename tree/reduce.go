package tree

import (
	"context"
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	pool "github.com/jolestar/go-commons-pool"
)

// --- Operator reduction ----------------------------------------------------

// A scan produces a flat list of nodes, where operators are mere placeholders.
// Reduction partitions the list into alternating slots
//
//    run₀  op₀  run₁  op₁  run₂  …  opₙ  runₙ₊₁
//
// where each run is a (possibly empty) sequence of non-operator nodes. Operators
// are then folded in order of descending precedence, ties left to right. Folding
// an operator takes its current left and right neighbor slots as operands and
// replaces the three slots by the operator. A neighbor may therefore be an
// operator folded before, as in
//
//    A - B * C   →   [A] - [B * C]   →   [A - [B * C]]
//
// Operands are lists of nodes, with whitespace-only text dropped.

// slot is an entry in the list of live slots during reduction.
type slot struct {
	op     NodeID   // operator, or NoNode for a run
	run    []NodeID // nodes of a run
	folded bool     // operator has its operands
	prec   int      // precedence of operator
}

type reducer struct {
	live *arraylist.List // of *slot
	ops  []*slot         // operators in order of folding
}

func newReducer() *reducer {
	return &reducer{
		live: arraylist.New(),
		ops:  make([]*slot, 0, 8),
	}
}

// reduce returns the final children for a flat list of scanned nodes.
// Without operators, flat is returned unchanged.
func (t *Tree) reduce(flat []NodeID) []NodeID {
	hasOps := false
	for _, id := range flat {
		if t.nodes[id].kind == Operator {
			hasOps = true
			break
		}
	}
	if !hasOps {
		return flat
	}
	red := borrowReducer()
	defer red.releaseIntoPool()
	return red.reduce(t, flat)
}

func (red *reducer) reduce(t *Tree, flat []NodeID) []NodeID {
	run := &slot{op: NoNode}
	for _, id := range flat {
		if t.nodes[id].kind != Operator {
			run.run = append(run.run, id)
			continue
		}
		op := &slot{op: id, prec: t.nodes[id].class.Precedence}
		red.live.Add(run, op)
		red.ops = append(red.ops, op)
		run = &slot{op: NoNode}
	}
	red.live.Add(run)
	sort.SliceStable(red.ops, func(i, j int) bool {
		return red.ops[i].prec > red.ops[j].prec
	})
	for _, op := range red.ops {
		j := red.indexOf(op)
		if j <= 0 || j >= red.live.Size()-1 {
			CT().P("offset", t.nodes[op.op].symbol).Errorf("reduction: operator has lost its neighbors")
			continue
		}
		l, _ := red.live.Get(j - 1)
		r, _ := red.live.Get(j + 1)
		left := t.operands(l.(*slot))
		right := t.operands(r.(*slot))
		t.fold(op.op, left, right)
		op.folded = true
		red.live.Remove(j + 1)
		red.live.Remove(j)
		red.live.Remove(j - 1)
		red.live.Insert(j-1, op)
	}
	if red.live.Size() != 1 {
		CT().Errorf("reduction: %d slots left, expected 1", red.live.Size())
	}
	var children []NodeID
	it := red.live.Iterator()
	for it.Next() {
		s := it.Value().(*slot)
		if s.op == NoNode {
			children = append(children, s.run...)
		} else {
			children = append(children, s.op)
		}
	}
	return children
}

// indexOf finds the current position of an operator slot.
func (red *reducer) indexOf(op *slot) int {
	it := red.live.Iterator()
	for it.Next() {
		if it.Value().(*slot) == op {
			return it.Index()
		}
	}
	return -1
}

// operands returns the operand nodes held by a slot.
func (t *Tree) operands(s *slot) []NodeID {
	if s.op != NoNode {
		if !s.folded {
			CT().P("offset", t.nodes[s.op].symbol).Errorf("reduction: operator next to unfolded operator")
			return nil
		}
		return []NodeID{s.op}
	}
	operands := make([]NodeID, 0, len(s.run))
	for _, id := range s.run {
		if t.nodes[id].kind == Text && isBlank(t.sourceOf(id)) {
			continue
		}
		operands = append(operands, id)
	}
	return operands
}

// fold sets the operands of operator op and calculates its span.
func (t *Tree) fold(op NodeID, left, right []NodeID) {
	nd := &t.nodes[op]
	start, end := nd.symbol, nd.symbol
	if len(left) > 0 {
		start = t.nodes[left[0]].span.Start
	} else if len(right) > 0 {
		start = t.nodes[right[0]].span.Start
	}
	if len(right) > 0 {
		end = t.nodes[right[len(right)-1]].span.End
	} else {
		CT().P("offset", nd.symbol).Infof("operator %c has no right operand", nd.class.Symbol)
	}
	nd.span = Span{Start: start, End: end}
	nd.nleft = len(left)
	children := make([]NodeID, 0, len(left)+len(right))
	children = append(children, left...)
	children = append(children, right...)
	t.adopt(op, children)
}

// sourceOf returns the text of a text node.
func (t *Tree) sourceOf(id NodeID) string {
	span := t.nodes[id].span
	return t.text[span.Start:t.after(span.End)]
}

// --- Pooling ---------------------------------------------------------------

// Every scan containing operators needs a reducer. To avoid allocating the
// slot list again and again we will pool them.
type reducerPool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

var globalReducerPool *reducerPool

func init() {
	globalReducerPool = &reducerPool{}
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return newReducer(), nil
		})
	globalReducerPool.ctx = context.Background()
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1 // infinity
	config.BlockWhenExhausted = false
	globalReducerPool.opool = pool.NewObjectPool(globalReducerPool.ctx, factory, config)
}

func borrowReducer() *reducer {
	o, err := globalReducerPool.opool.BorrowObject(globalReducerPool.ctx)
	if err != nil {
		CT().Errorf("cannot borrow reducer from pool: %v", err)
		return newReducer()
	}
	return o.(*reducer)
}

// Clears the reducer and puts it back into the pool.
func (red *reducer) releaseIntoPool() {
	red.live.Clear()
	for i := range red.ops {
		red.ops[i] = nil
	}
	red.ops = red.ops[:0]
	_ = globalReducerPool.opool.ReturnObject(globalReducerPool.ctx, red)
}
