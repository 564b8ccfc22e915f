package engine

import "sync"

// Forwarder hands events to a Sink from at most one goroutine at a time,
// in the order they were queued. Queue never blocks, so window controllers
// can report back from the runner goroutine or a UI main loop.
type Forwarder struct {
	mu       sync.Mutex
	sink     Sink
	queue    []Event
	draining bool
	idle     chan struct{}
}

// NewForwarder returns a forwarder without a sink. Events queued before
// SetSink are dropped.
func NewForwarder() *Forwarder {
	idle := make(chan struct{})
	close(idle)
	return &Forwarder{idle: idle}
}

// SetSink sets where events are delivered.
func (f *Forwarder) SetSink(sink Sink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sink = sink
}

// Queue appends ev to the delivery queue.
func (f *Forwarder) Queue(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sink == nil {
		return
	}
	f.queue = append(f.queue, ev)
	if f.draining {
		return
	}
	f.draining = true
	f.idle = make(chan struct{})
	go f.drain(f.idle)
}

// Idle returns a channel closed once every queued event was delivered.
func (f *Forwarder) Idle() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.idle
}

func (f *Forwarder) drain(idle chan struct{}) {
	for {
		f.mu.Lock()
		if len(f.queue) == 0 {
			f.draining = false
			close(idle)
			f.mu.Unlock()
			return
		}
		ev := f.queue[0]
		f.queue[0] = nil
		f.queue = f.queue[1:]
		sink := f.sink
		f.mu.Unlock()

		sink.Post(ev)
	}
}
