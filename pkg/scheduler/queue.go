package scheduler

import "context"

// Work is a unit of work run by a scheduler worker.
type Work[T any] func(ctx context.Context) (T, error)

// Result is the outcome of a Work.
type Result[T any] struct {
	Data T
	Err  error
}

// Queue is a FIFO queue. It is not safe for concurrent use.
type Queue[T any] []T

func (q *Queue[T]) Len() int { return len(*q) }

func (q *Queue[T]) Pop() T {
	old := *q
	x := old[0]
	var zero T
	old[0] = zero
	*q = old[1:]
	return x
}

func (q *Queue[T]) Push(t T) {
	*q = append(*q, t)
}
