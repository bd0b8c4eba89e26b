package pipeline

import (
	"testing"

	"go.viam.com/test"
)

func TestPairingLatchPairsMatchingFrameIDs(t *testing.T) {
	l := newPairingLatch()

	_, ready := l.submitLeft(Payload{FrameID: 5})
	test.That(t, ready, test.ShouldBeFalse)

	in, ready := l.submitRight(Payload{FrameID: 5})
	test.That(t, ready, test.ShouldBeTrue)
	test.That(t, in.Paired, test.ShouldBeTrue)
	test.That(t, in.Left.FrameID, test.ShouldEqual, uint16(5))
	test.That(t, in.Right.FrameID, test.ShouldEqual, uint16(5))
}

func TestPairingLatchDropsStaleOnMismatch(t *testing.T) {
	l := newPairingLatch()

	_, ready := l.submitLeft(Payload{FrameID: 1})
	test.That(t, ready, test.ShouldBeFalse)

	// A newer right arrives before a matching left; the stale left is dropped.
	_, ready = l.submitRight(Payload{FrameID: 2})
	test.That(t, ready, test.ShouldBeFalse)

	in, ready := l.submitLeft(Payload{FrameID: 2})
	test.That(t, ready, test.ShouldBeTrue)
	test.That(t, in.Left.FrameID, test.ShouldEqual, uint16(2))
	test.That(t, in.Right.FrameID, test.ShouldEqual, uint16(2))
}

func TestPairingLatchResetClearsSlots(t *testing.T) {
	l := newPairingLatch()
	l.submitLeft(Payload{FrameID: 9})
	l.reset()

	in, ready := l.submitRight(Payload{FrameID: 9})
	test.That(t, ready, test.ShouldBeFalse)
	test.That(t, in, test.ShouldResemble, StageInput{})
}
