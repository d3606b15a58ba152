package i

import "context"

// SortedQueue is a scored set of members, used as the recent runs index.
type SortedQueue interface {
	// Enqueue adds member with score, replacing the score of an existing member.
	Enqueue(ctx context.Context, queueKey string, score float64, member string) error

	// Recent returns up to amount members with the highest scores, highest first.
	Recent(ctx context.Context, queueKey string, amount int64) ([]string, error)

	// Trim drops the lowest scored members until at most keep remain.
	Trim(ctx context.Context, queueKey string, keep int64) error

	// Count returns the number of members.
	Count(ctx context.Context, queueKey string) int64
}
