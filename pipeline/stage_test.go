package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/stereoforge/depthpipe/logging"
)

func waitForCondition(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func doublingCompute(ctx context.Context, in StageInput) (StageOutput, error) {
	return StageOutput{Left: Payload{FrameID: in.Left.FrameID * 2}}, nil
}

func TestStageActivateComputesAndCaches(t *testing.T) {
	logger := logging.NewTestLogger(t)
	s := NewStage(logger, "double", doublingCompute)
	s.Activate()
	defer s.Deactivate(true)

	s.Submit(StageInput{Left: Payload{FrameID: 3}})

	waitForCondition(t, time.Second, func() bool {
		out, ok := s.LastOutput()
		return ok && out.Left.FrameID == 6
	})
}

func TestStageFansOutToChildren(t *testing.T) {
	logger := logging.NewTestLogger(t)
	parent := NewStage(logger, "parent", doublingCompute)
	child := NewStage(logger, "child", doublingCompute)
	parent.AddChild(child)

	parent.Activate()
	child.Activate()
	defer parent.Deactivate(true)
	defer child.Deactivate(true)

	parent.Submit(StageInput{Left: Payload{FrameID: 5}})

	waitForCondition(t, time.Second, func() bool {
		out, ok := child.LastOutput()
		return ok && out.Left.FrameID == 20 // 5 -> 10 (parent) -> 20 (child)
	})
}

func TestStagePeriodFiltersInputs(t *testing.T) {
	logger := logging.NewTestLogger(t)
	var mu sync.Mutex
	count := 0
	s := NewStage(logger, "periodic", func(ctx context.Context, in StageInput) (StageOutput, error) {
		mu.Lock()
		count++
		mu.Unlock()
		return StageOutput{Left: in.Left}, nil
	})
	s.SetPeriod(3)
	s.Activate()
	defer s.Deactivate(true)

	for i := 0; i < 9; i++ {
		s.Submit(StageInput{Left: Payload{FrameID: uint16(i)}})
		time.Sleep(2 * time.Millisecond)
	}

	waitForCondition(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 1
	})
}

func TestStageProcessHookShortCircuitsCompute(t *testing.T) {
	logger := logging.NewTestLogger(t)
	computeCalled := false
	s := NewStage(logger, "hooked", func(ctx context.Context, in StageInput) (StageOutput, error) {
		computeCalled = true
		return StageOutput{}, nil
	})
	s.SetProcessHook(func(in StageInput, out *StageOutput, self *Stage) bool {
		out.Left = Payload{FrameID: 42}
		return true
	})
	s.Activate()
	defer s.Deactivate(true)

	s.Submit(StageInput{Left: Payload{FrameID: 1}})

	waitForCondition(t, time.Second, func() bool {
		out, ok := s.LastOutput()
		return ok && out.Left.FrameID == 42
	})
	test.That(t, computeCalled, test.ShouldBeFalse)
}

func TestStagePostProcessHookSuppressesCache(t *testing.T) {
	logger := logging.NewTestLogger(t)
	s := NewStage(logger, "suppressed", doublingCompute)
	s.SetPostProcessHook(func(in StageInput, out *StageOutput, self *Stage) bool {
		return true
	})
	s.Activate()
	defer s.Deactivate(true)

	s.Submit(StageInput{Left: Payload{FrameID: 7}})
	time.Sleep(20 * time.Millisecond)

	_, ok := s.LastOutput()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestStageSubmitWhileDeactivatedIsDiscarded(t *testing.T) {
	logger := logging.NewTestLogger(t)
	s := NewStage(logger, "discard", doublingCompute)

	s.Submit(StageInput{Left: Payload{FrameID: 9}})
	_, ok := s.mailbox.take()
	test.That(t, ok, test.ShouldBeFalse)

	s.Activate()
	defer s.Deactivate(true)
	s.Submit(StageInput{Left: Payload{FrameID: 3}})

	waitForCondition(t, time.Second, func() bool {
		out, ok := s.LastOutput()
		return ok && out.Left.FrameID == 6
	})
}

func TestStageDeactivateDrainsMailbox(t *testing.T) {
	logger := logging.NewTestLogger(t)
	s := NewStage(logger, "drain", doublingCompute)
	s.Activate()
	s.Submit(StageInput{Left: Payload{FrameID: 1}})
	s.Deactivate(true)

	_, ok := s.mailbox.take()
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, s.IsActive(), test.ShouldBeFalse)
}
