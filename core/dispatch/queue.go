package dispatch

import (
	"container/heap"
	"sort"

	"github.com/fieldops/dispatchsim/core/model"
)

// JobQueue is the active queue of jobs eligible for assignment, ordered by
// priority (lower first) with ingestion order breaking ties. Only the head is
// guaranteed to be the minimum; Snapshot provides a fully sorted view for
// deterministic matching.
type JobQueue struct {
	items jobHeap
}

type jobItem struct {
	job   *model.Job
	index int
}

type jobHeap []*jobItem

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	a, b := h[i].job, h[j].job
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Seq < b.Seq
}

func (h jobHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *jobHeap) Push(x any) {
	it := x.(*jobItem)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// NewJobQueue returns an empty queue.
func NewJobQueue() *JobQueue { return &JobQueue{} }

// Len returns the number of queued jobs.
func (q *JobQueue) Len() int { return len(q.items) }

// Push adds a job to the queue.
func (q *JobQueue) Push(j *model.Job) {
	heap.Push(&q.items, &jobItem{job: j})
}

// Peek returns the most urgent job without removing it, or nil when empty.
func (q *JobQueue) Peek() *model.Job {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0].job
}

// Snapshot returns the queued jobs sorted by (priority, ingestion order).
// Mutating the queue invalidates the slice ordering but not the jobs.
func (q *JobQueue) Snapshot() []*model.Job {
	out := make([]*model.Job, len(q.items))
	for i, it := range q.items {
		out[i] = it.job
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// RemoveIf removes every job matching pred and returns them. Matches are
// collected first and removed afterwards so the heap is never mutated while
// being scanned.
func (q *JobQueue) RemoveIf(pred func(*model.Job) bool) []*model.Job {
	var matched []*jobItem
	for _, it := range q.items {
		if pred(it.job) {
			matched = append(matched, it)
		}
	}
	removed := make([]*model.Job, 0, len(matched))
	for _, it := range matched {
		heap.Remove(&q.items, it.index)
		removed = append(removed, it.job)
	}
	return removed
}
