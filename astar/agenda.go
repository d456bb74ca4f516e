package astar

import (
	"github.com/emirpasic/gods/trees/binaryheap"
)

// agendaItem is a partial derivation queued for expansion, keyed by
// inside score plus admissible outside estimate. The serial number is a
// monotonically increasing insertion counter: it breaks priority ties
// first-in-first-out, which makes popping deterministic.
type agendaItem struct {
	node     *Node
	priority float64
	serial   uint64
}

// agendaOrder pops higher priorities first, ties by lower serial.
func agendaOrder(a, b interface{}) int {
	ia := a.(agendaItem)
	ib := b.(agendaItem)
	switch {
	case ia.priority > ib.priority:
		return -1
	case ia.priority < ib.priority:
		return 1
	case ia.serial < ib.serial:
		return -1
	case ia.serial > ib.serial:
		return 1
	}
	return 0
}

// agenda is the max-priority queue driving the search. There is no
// decrease-key: superseded items are filtered against the chart at pop
// time.
type agenda struct {
	heap   *binaryheap.Heap
	serial uint64
}

func newAgenda() *agenda {
	return &agenda{heap: binaryheap.NewWith(agendaOrder)}
}

func (a *agenda) push(n *Node, priority float64) {
	a.heap.Push(agendaItem{node: n, priority: priority, serial: a.serial})
	a.serial++
}

func (a *agenda) pop() (*Node, bool) {
	v, ok := a.heap.Pop()
	if !ok {
		return nil, false
	}
	return v.(agendaItem).node, true
}

func (a *agenda) empty() bool {
	return a.heap.Empty()
}
