package scanner

import (
	"container/heap"
	"sync"

	"github.com/lumipallolabs/burrow/internal/model"
)

// recordHeap is a min-heap of large-file records, smallest on top, so a full
// collection evicts its smallest member in O(log n) when a larger file shows up
type recordHeap []model.LargeFileRecord

func (h recordHeap) Len() int            { return len(h) }
func (h recordHeap) Less(i, j int) bool  { return h[i].Size < h[j].Size }
func (h recordHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *recordHeap) Push(x interface{}) { *h = append(*h, x.(model.LargeFileRecord)) }
func (h *recordHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// largestSet collects the N largest files above a threshold seen during a
// scan. Safe for concurrent Offer calls from walk workers.
type largestSet struct {
	mu        sync.Mutex
	threshold int64
	limit     int
	h         recordHeap
}

func newLargestSet(threshold int64, limit int) *largestSet {
	return &largestSet{
		threshold: threshold,
		limit:     limit,
		h:         make(recordHeap, 0, limit),
	}
}

// Offer considers one file for the collection
func (l *largestSet) Offer(path string, size int64) {
	if size < l.threshold {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.h) < l.limit {
		heap.Push(&l.h, model.LargeFileRecord{Path: path, Size: size})
		return
	}
	if size > l.h[0].Size {
		l.h[0] = model.LargeFileRecord{Path: path, Size: size}
		heap.Fix(&l.h, 0)
	}
}

// Records returns the collected files sorted largest first
func (l *largestSet) Records() []model.LargeFileRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.LargeFileRecord, len(l.h))
	copy(out, l.h)
	model.SortLargeFiles(out)
	return out
}
