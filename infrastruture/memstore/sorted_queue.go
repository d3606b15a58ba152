package memstore

import (
	"context"
	"sort"
	"sync"
)

// SortedQueue is an in-memory i.SortedQueue. Members never expire.
type SortedQueue struct {
	queues map[string]map[string]float64
	sync.Mutex
}

// NewSortedQueue creates an empty queue set.
func NewSortedQueue() *SortedQueue {
	return &SortedQueue{queues: make(map[string]map[string]float64)}
}

// Enqueue adds member with score, replacing the score of an existing member.
func (q *SortedQueue) Enqueue(_ context.Context, queueKey string, score float64, member string) error {
	q.Lock()
	defer q.Unlock()
	queue, ok := q.queues[queueKey]
	if !ok {
		queue = make(map[string]float64)
		q.queues[queueKey] = queue
	}
	queue[member] = score
	return nil
}

// Recent returns up to amount members, highest score first.
func (q *SortedQueue) Recent(_ context.Context, queueKey string, amount int64) ([]string, error) {
	q.Lock()
	defer q.Unlock()
	members := q.ordered(queueKey)
	if amount >= 0 && int64(len(members)) > amount {
		members = members[:amount]
	}
	return members, nil
}

// Trim keeps the keep highest scored members.
func (q *SortedQueue) Trim(_ context.Context, queueKey string, keep int64) error {
	q.Lock()
	defer q.Unlock()
	members := q.ordered(queueKey)
	if keep < 0 || int64(len(members)) <= keep {
		return nil
	}
	for _, m := range members[keep:] {
		delete(q.queues[queueKey], m)
	}
	return nil
}

// Count returns the number of members.
func (q *SortedQueue) Count(_ context.Context, queueKey string) int64 {
	q.Lock()
	defer q.Unlock()
	return int64(len(q.queues[queueKey]))
}

// ordered lists members by descending score, ties broken by member.
func (q *SortedQueue) ordered(queueKey string) []string {
	queue := q.queues[queueKey]
	members := make([]string, 0, len(queue))
	for m := range queue {
		members = append(members, m)
	}
	sort.Slice(members, func(a, b int) bool {
		if queue[members[a]] != queue[members[b]] {
			return queue[members[a]] > queue[members[b]]
		}
		return members[a] < members[b]
	})
	return members
}
