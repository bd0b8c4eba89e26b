package pipeline

import "sync"

// mailbox is a single-slot "latest wins" inbox: a Put while the previous value is still pending
// overwrites it rather than queuing, so a slow consumer never backs up a burst of producers and
// never sees anything but the newest input. Grounded on the retrieval pack's
// latestFrameHolder/DropOld framebus policy, adapted to carry a *StageInput instead of a frame
// and to wake a waiting worker via a capacity-1 channel rather than a condition variable.
type mailbox struct {
	mu      sync.Mutex
	pending *StageInput
	wake    chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{wake: make(chan struct{}, 1)}
}

// put installs in as the pending value, discarding whatever was previously pending, and signals
// the wake channel if it isn't already signaled.
func (m *mailbox) put(in StageInput) {
	m.mu.Lock()
	m.pending = &in
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// take atomically removes and returns the pending value, if any.
func (m *mailbox) take() (StageInput, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return StageInput{}, false
	}
	in := *m.pending
	m.pending = nil
	return in, true
}

// drain clears any pending value and empties the wake signal without handing the value to a
// worker. Called on deactivation so a stopped stage doesn't carry stale input into its next
// activation.
func (m *mailbox) drain() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()

	select {
	case <-m.wake:
	default:
	}
}
