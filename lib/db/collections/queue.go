package collections

// compactThreshold is the number of consumed slots after which the backing
// slice is compacted
const compactThreshold = 64

// Queue is a FIFO sequence of strings
type Queue struct {
	data []string
	head int // index of the first unconsumed element
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// PushBack appends a value at the tail
func (q *Queue) PushBack(value string) {
	q.data = append(q.data, value)
}

// PopFront removes and returns the value at the head.
// The boolean is false if the queue was empty.
func (q *Queue) PopFront() (string, bool) {
	if q.head >= len(q.data) {
		return "", false
	}
	value := q.data[q.head]
	q.data[q.head] = ""
	q.head++

	// reset or compact the backing slice once enough slots are consumed
	if q.head == len(q.data) {
		q.data = q.data[:0]
		q.head = 0
	} else if q.head >= compactThreshold && q.head*2 >= len(q.data) {
		n := copy(q.data, q.data[q.head:])
		q.data = q.data[:n]
		q.head = 0
	}

	return value, true
}

// Len returns the number of queued values
func (q *Queue) Len() int {
	return len(q.data) - q.head
}

// Values returns a copy of the queue from head to tail
func (q *Queue) Values() []string {
	values := make([]string, q.Len())
	copy(values, q.data[q.head:])
	return values
}
