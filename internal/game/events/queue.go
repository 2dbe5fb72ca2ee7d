package events

// Queue buffers events raised during a turn. It implements Publisher so the
// engines can write to it without knowing who consumes the events.
type Queue struct {
	pending []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{pending: make([]Event, 0, 32)}
}

// Publish appends an event to the queue.
func (q *Queue) Publish(e Event) {
	q.pending = append(q.pending, e)
}

// Len returns the number of buffered events.
func (q *Queue) Len() int { return len(q.pending) }

// Drain returns every buffered event in publication order and empties the queue.
func (q *Queue) Drain() []Event {
	out := q.pending
	q.pending = make([]Event, 0, cap(out))
	return out
}

// DrainTo forwards every buffered event to p, in order, and returns how many were sent.
func (q *Queue) DrainTo(p Publisher) int {
	drained := q.Drain()
	for _, e := range drained {
		p.Publish(e)
	}
	return len(drained)
}
