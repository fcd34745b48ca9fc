package pathsearch

import "container/heap"

// entry is one frontier candidate. parent is the node it was reached from, so
// the predecessor chain can be recorded when the entry is finalized.
type entry struct {
	node     NodeID
	parent   NodeID
	cost     float64 // accumulated g
	priority float64 // g for Dijkstra, g+h for A*
	seq      uint64
}

// frontier is a binary min-heap on priority. Equal priorities pop in
// insertion order, which keeps searches deterministic for a given graph.
type frontier struct {
	items []entry
	next  uint64
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

// Is used by heap.Interface methods and should not be called directly.
func (f *frontier) Push(x any) { f.items = append(f.items, x.(entry)) }

// Is used by heap.Interface methods and should not be called directly.
func (f *frontier) Pop() any {
	n := len(f.items)
	e := f.items[n-1]
	f.items = f.items[:n-1]
	return e
}

func (f *frontier) push(e entry) {
	e.seq = f.next
	f.next++
	heap.Push(f, e)
}

func (f *frontier) pop() entry {
	return heap.Pop(f).(entry)
}
