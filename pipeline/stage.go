package pipeline

import (
	"context"
	"sync"

	"go.uber.org/atomic"
	goutils "go.viam.com/utils"

	"github.com/stereoforge/depthpipe/logging"
	putils "github.com/stereoforge/depthpipe/utils"
)

// ComputeFunc is a stage's own kernel invocation: it turns a ready StageInput into a
// StageOutput. It must run to completion without yielding to other work (spec.md §5) so that a
// stage's worker never interleaves two executions.
type ComputeFunc func(ctx context.Context, in StageInput) (StageOutput, error)

// ProcessHookFunc runs before Compute. Returning true short-circuits the stage: Compute is
// skipped and out (as populated by the hook) becomes the stage's output for this execution.
type ProcessHookFunc func(in StageInput, out *StageOutput, self *Stage) bool

// PostProcessHookFunc runs after Compute (or after a short-circuiting ProcessHookFunc).
// Returning true suppresses the stage's normal fan-out and cache update for this execution.
type PostProcessHookFunc func(in StageInput, out *StageOutput, self *Stage) bool

// TargetStream describes one stream a Stage can produce, and how.
type TargetStream struct {
	Stream      Stream
	SupportMode Mode
	Side        Side
}

// Stage is one node of the processor graph: a named unit of work with its own worker, input
// mailbox, process hooks, and downstream fan-out. Grounded on the teacher's
// utils.StoppableWorkers goroutine-group shape, driving a compute loop that is new to this
// module (spec.md §4.1, §5).
type Stage struct {
	Name    string
	logger  logging.Logger
	compute ComputeFunc
	targets []TargetStream

	processHook     ProcessHookFunc
	postProcessHook PostProcessHookFunc
	period          int64

	children []*Stage

	mailbox    *mailbox
	inputCount atomic.Int64

	mu        sync.Mutex
	workers   putils.StoppableWorkers
	active    bool
	lastOut   StageOutput
	hasOutput bool
}

// NewStage constructs a Stage named name, driven by compute, logging through a sublogger of
// parent named name.
func NewStage(parent logging.Logger, name string, compute ComputeFunc, targets ...TargetStream) *Stage {
	return &Stage{
		Name:    name,
		logger:  parent.Sublogger(name),
		compute: compute,
		targets: targets,
		mailbox: newMailbox(),
	}
}

// SetProcessHook installs or clears the stage's process hook.
func (s *Stage) SetProcessHook(hook ProcessHookFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processHook = hook
}

// SetPostProcessHook installs or clears the stage's post-process hook.
func (s *Stage) SetPostProcessHook(hook PostProcessHookFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postProcessHook = hook
}

// SetPeriod sets the N in "compute every Nth input"; 0 or 1 means every input.
func (s *Stage) SetPeriod(period int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = int64(period)
}

// AddChild registers child to receive this stage's output on every execution.
func (s *Stage) AddChild(child *Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = append(s.children, child)
}

// Children returns the stages currently registered to receive this stage's output.
func (s *Stage) Children() []*Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Stage(nil), s.children...)
}

// Targets reports the streams this stage can produce.
func (s *Stage) Targets() []TargetStream {
	return s.targets
}

// IsActive reports whether the stage's worker is currently running.
func (s *Stage) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Activate starts the stage's worker goroutine. Calling Activate on an already-active stage is a
// no-op.
func (s *Stage) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.workers = putils.NewStoppableWorkers(s.run)
	s.logger.Debug("activated")
}

// Deactivate stops the stage's worker. When wait is true, it blocks until the worker's current
// execution (if any) finishes. When wait is false, the stop is kicked off in the background and
// Deactivate returns immediately; the worker may still be mid-compute when it does.
func (s *Stage) Deactivate(wait bool) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	workers := s.workers
	s.workers = nil
	s.mu.Unlock()

	s.mailbox.drain()

	if wait {
		workers.Stop()
		s.logger.Debug("deactivated")
		return
	}
	goutils.PanicCapturingGo(func() {
		workers.Stop()
		s.logger.Debug("deactivated")
	})
}

// Submit enqueues in for this stage's worker, replacing whatever input was previously pending
// (single-slot latest-wins mailbox per spec.md §5). Inputs arriving while the stage is
// deactivated are discarded silently rather than queued for the next activation.
func (s *Stage) Submit(in StageInput) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if !active {
		return
	}
	s.mailbox.put(in)
}

// LastOutput returns the stage's most recently produced output and whether one exists yet. Used
// by the registry's SYNTHETIC get_stream_data path to serve a read without waiting for the next
// execution.
func (s *Stage) LastOutput() (StageOutput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOut, s.hasOutput
}

func (s *Stage) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-s.mailbox.wake:
		}
		in, ok := s.mailbox.take()
		if !ok {
			continue
		}
		s.handle(ctx, in)
	}
}

// handle runs the five steps of one stage execution: period filter, process hook or compute,
// post-process hook, fan-out, cache (spec.md §4.1).
func (s *Stage) handle(ctx context.Context, in StageInput) {
	n := s.inputCount.Add(1)
	s.mu.Lock()
	period := s.period
	processHook := s.processHook
	postHook := s.postProcessHook
	children := s.children
	s.mu.Unlock()

	if period > 1 && n%period != 0 {
		return
	}

	var out StageOutput
	shortCircuited := false
	if processHook != nil {
		shortCircuited = processHook(in, &out, s)
	}
	if !shortCircuited {
		computed, err := s.compute(ctx, in)
		if err != nil {
			s.logger.Debugw("compute failed", "error", err)
			return
		}
		out = computed
	}

	if postHook != nil && postHook(in, &out, s) {
		return
	}

	for _, child := range children {
		child.Submit(out.asInput())
	}

	s.mu.Lock()
	s.lastOut = out
	s.hasOutput = true
	s.mu.Unlock()
}
