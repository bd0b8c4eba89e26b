package pipeline

import "sync"

// pairingLatch holds one slot per eye and releases a paired StageInput once both slots carry the
// same frame-id. It backs both the LEFT/RIGHT pairing ahead of Rectify and the
// LEFT_RECTIFIED/RIGHT_RECTIFIED pairing ahead of Disparity (spec.md §9's resolved open question:
// one reusable latch type for both pairing points). Grounded on the same framebus
// latestFrameHolder technique as mailbox, extended to two named slots behind one mutex.
type pairingLatch struct {
	mu    sync.Mutex
	left  *Payload
	right *Payload
}

func newPairingLatch() *pairingLatch {
	return &pairingLatch{}
}

// submitLeft stores p as the current left payload. If a right payload with a matching frame-id
// is already waiting, both are consumed and returned as a ready paired input.
func (l *pairingLatch) submitLeft(p Payload) (StageInput, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.left = &p
	return l.tryPairLocked()
}

// submitRight is the mirror of submitLeft.
func (l *pairingLatch) submitRight(p Payload) (StageInput, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.right = &p
	return l.tryPairLocked()
}

func (l *pairingLatch) tryPairLocked() (StageInput, bool) {
	if l.left == nil || l.right == nil {
		return StageInput{}, false
	}
	if l.left.FrameID != l.right.FrameID {
		// A mismatched pair means one eye raced ahead; neither slot is cleared here, the older
		// side is simply overwritten by its own next natural arrival.
		return StageInput{}, false
	}
	in := StageInput{Paired: true, Left: *l.left, Right: *l.right}
	l.left = nil
	l.right = nil
	return in, true
}

// reset clears both slots, discarding any half-arrived pair.
func (l *pairingLatch) reset() {
	l.mu.Lock()
	l.left = nil
	l.right = nil
	l.mu.Unlock()
}
