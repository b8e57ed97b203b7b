package viewport

// Scheduler runs a callback once layout has settled after a geometry change.
type Scheduler interface {
	AfterLayout(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// AfterLayout calls f(fn).
func (f SchedulerFunc) AfterLayout(fn func()) {
	f(fn)
}

// Immediate runs callbacks synchronously. It suits containers that apply
// content size changes as soon as SetContentSize is called.
var Immediate Scheduler = SchedulerFunc(func(fn func()) { fn() })

// FrameQueue defers callbacks until the next Flush, typically driven by the
// host's animation frame.
type FrameQueue struct {
	pending []func()
}

// AfterLayout queues fn for the next Flush.
func (q *FrameQueue) AfterLayout(fn func()) {
	q.pending = append(q.pending, fn)
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}

// Flush runs all callbacks queued before the call. Callbacks queued while
// flushing run on the next Flush.
func (q *FrameQueue) Flush() {
	pending := q.pending
	q.pending = nil
	for _, fn := range pending {
		fn()
	}
}
