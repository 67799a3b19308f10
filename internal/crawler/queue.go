package crawler

import (
	"container/heap"

	"github.com/nao1215/scholarscan/internal/model"
)

// queued is a task waiting in the queue.
type queued struct {
	task model.CrawlTask
	seq  uint64
}

// taskQueue orders tasks deepest first, then in arrival order, so that
// branches reach profile pages and learn their pattern before fanning out.
type taskQueue []queued

var _ heap.Interface = (*taskQueue)(nil)

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].task.Depth != q[j].task.Depth {
		return q[i].task.Depth > q[j].task.Depth
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(queued)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = queued{}
	*q = old[:n-1]
	return item
}
