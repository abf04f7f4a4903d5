package input

// Event is a raw device event recorded by the window layer
type Event interface {
	event()
}

// PointerMoved reports the pointer position in device pixels
type PointerMoved struct {
	X, Y float64
}

// ButtonChanged reports a mouse button edge together with the pointer
// position at the moment it happened.
type ButtonChanged struct {
	Button MouseButton
	Action Action
	X, Y   float64
}

// KeyChanged reports a key edge
type KeyChanged struct {
	Key    Key
	Action Action
}

func (PointerMoved) event()  {}
func (ButtonChanged) event() {}
func (KeyChanged) event()    {}

// Queue collects events between frames. Window callbacks push into it while
// PollEvents runs and the render loop drains it once per frame, all on the
// same thread, so it carries no locking.
type Queue struct {
	events []Event
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{events: make([]Event, 0, 64)}
}

// Push appends an event
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Len returns the number of pending events
func (q *Queue) Len() int {
	return len(q.events)
}

// Drain returns all pending events in arrival order and empties the queue
func (q *Queue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := make([]Event, len(q.events))
	copy(out, q.events)
	clear(q.events)
	q.events = q.events[:0]
	return out
}
