package common

import "container/heap"

// MinQueue is a priority queue of grid indices ordered by ascending priority.
// Entries with equal priority pop in insertion order, which keeps searches
// deterministic.
type MinQueue struct {
	items pqItems
	seq   int
}

type pqItem struct {
	index    int
	priority int
	seq      int
}

type pqItems []pqItem

func (q pqItems) Len() int { return len(q) }
func (q pqItems) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}
func (q pqItems) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pqItems) Push(x interface{}) { *q = append(*q, x.(pqItem)) }
func (q *pqItems) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// NewMinQueue creates an empty queue.
func NewMinQueue() *MinQueue {
	return &MinQueue{}
}

// Push adds index with the given priority.
func (q *MinQueue) Push(index, priority int) {
	heap.Push(&q.items, pqItem{index: index, priority: priority, seq: q.seq})
	q.seq++
}

// Pop removes and returns the lowest priority entry.
func (q *MinQueue) Pop() (index, priority int) {
	item := heap.Pop(&q.items).(pqItem)
	return item.index, item.priority
}

func (q *MinQueue) Len() int { return q.items.Len() }
