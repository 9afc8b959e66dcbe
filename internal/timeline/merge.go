package timeline

import (
	"container/heap"

	"github.com/jdholdren/murmur/internal/murmur"
)

// topN keeps the capacity largest-sequence items it has been offered. It is a
// min-heap on Sequence, so the root is always the item to evict next.
type topN struct {
	items    []murmur.Item
	capacity int
}

func newTopN(capacity int) *topN {
	return &topN{
		items:    make([]murmur.Item, 0, max(capacity, 0)),
		capacity: capacity,
	}
}

// Offer considers item for the window. Once full, an item only gets in by
// displacing the current smallest.
func (t *topN) Offer(item murmur.Item) {
	if t.capacity <= 0 {
		return
	}
	if len(t.items) < t.capacity {
		heap.Push(t, item)
		return
	}
	if item.Sequence <= t.items[0].Sequence {
		return
	}
	t.items[0] = item
	heap.Fix(t, 0)
}

// Descending drains the heap, most recent first. The heap is empty afterwards.
func (t *topN) Descending() []murmur.Item {
	out := make([]murmur.Item, len(t.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(t).(murmur.Item)
	}

	return out
}

// heap.Interface

func (t *topN) Len() int           { return len(t.items) }
func (t *topN) Less(i, j int) bool { return t.items[i].Sequence < t.items[j].Sequence }
func (t *topN) Swap(i, j int)      { t.items[i], t.items[j] = t.items[j], t.items[i] }

func (t *topN) Push(x any) {
	t.items = append(t.items, x.(murmur.Item))
}

func (t *topN) Pop() any {
	n := len(t.items)
	item := t.items[n-1]
	t.items = t.items[:n-1]
	return item
}
