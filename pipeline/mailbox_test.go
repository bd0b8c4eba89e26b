package pipeline

import (
	"testing"

	"go.viam.com/test"
)

func TestMailboxTakeEmpty(t *testing.T) {
	mb := newMailbox()
	_, ok := mb.take()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestMailboxPutOverwritesPending(t *testing.T) {
	mb := newMailbox()
	mb.put(StageInput{Left: Payload{FrameID: 1}})
	mb.put(StageInput{Left: Payload{FrameID: 2}})

	in, ok := mb.take()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, in.Left.FrameID, test.ShouldEqual, uint16(2))

	_, ok = mb.take()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestMailboxWakeSignalsOnce(t *testing.T) {
	mb := newMailbox()
	mb.put(StageInput{})
	mb.put(StageInput{})

	select {
	case <-mb.wake:
	default:
		t.Fatal("expected wake to be signaled")
	}
	select {
	case <-mb.wake:
		t.Fatal("expected wake to be drained after a single receive")
	default:
	}
}

func TestMailboxDrainClearsPendingAndWake(t *testing.T) {
	mb := newMailbox()
	mb.put(StageInput{})
	mb.drain()

	_, ok := mb.take()
	test.That(t, ok, test.ShouldBeFalse)

	select {
	case <-mb.wake:
		t.Fatal("expected wake to be drained")
	default:
	}
}
