package session

import "sync"

// outbox runs queued jobs in order on a single goroutine, so slow observers
// and stores never run under the session lock.
type outbox struct {
	mu      sync.Mutex
	jobs    []func()
	closed  bool
	wake    chan struct{}
	closing chan struct{}
	done    chan struct{}
}

func newOutbox() *outbox {
	box := &outbox{
		wake:    make(chan struct{}, 1),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go box.run()
	return box
}

func (box *outbox) push(job func()) bool {
	box.mu.Lock()
	if box.closed {
		box.mu.Unlock()
		return false
	}
	box.jobs = append(box.jobs, job)
	box.mu.Unlock()

	box.signal()
	return true
}

// close stops accepting jobs, runs what is queued and waits for the drain.
func (box *outbox) close() {
	box.mu.Lock()
	if box.closed {
		box.mu.Unlock()
		<-box.done
		return
	}
	box.closed = true
	box.mu.Unlock()

	close(box.closing)
	box.signal()
	<-box.done
}

func (box *outbox) signal() {
	select {
	case box.wake <- struct{}{}:
	default:
	}
}

func (box *outbox) run() {
	defer close(box.done)
	for {
		box.mu.Lock()
		jobs := box.jobs
		box.jobs = nil
		closed := box.closed
		box.mu.Unlock()

		for _, job := range jobs {
			job()
		}
		if len(jobs) > 0 {
			continue
		}
		if closed {
			return
		}
		<-box.wake
	}
}

func (box *outbox) pending() int {
	box.mu.Lock()
	defer box.mu.Unlock()
	return len(box.jobs)
}

// tickSlot holds the newest tick of a queued delivery. Ticks published before
// the delivery runs replace each other.
type tickSlot struct {
	mu          sync.Mutex
	event       Event
	taken       bool
	subscribers []chan Event
}

// set stores event unless the slot was already delivered.
func (slot *tickSlot) set(event Event) bool {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.taken {
		return false
	}
	slot.event = event
	return true
}

func (slot *tickSlot) deliver() {
	slot.mu.Lock()
	slot.taken = true
	event := slot.event
	slot.mu.Unlock()

	for _, ch := range slot.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
